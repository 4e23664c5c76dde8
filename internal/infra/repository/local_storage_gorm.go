package repository

import (
	"context"
	"errors"
	"time"

	"fooddash/internal/domain/model"
	repo "fooddash/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type localStorageGormRepository struct {
	db *gorm.DB
}

// GORM実装（postgres / sqlite）
func NewLocalStorageGormRepository(db *gorm.DB) repo.LocalStorageRepository {
	return &localStorageGormRepository{db: db}
}

// (namespace, key)で1件取得
func (r *localStorageGormRepository) GetItem(ctx context.Context, namespace string, key string) (string, error) {
	var entry model.LocalStorageEntry

	err := r.db.WithContext(ctx).
		Where("namespace = ? AND key = ?", namespace, key).
		First(&entry).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", repo.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

// 同じキーは上書き
func (r *localStorageGormRepository) SetItem(ctx context.Context, namespace string, key string, value string) error {
	entry := model.LocalStorageEntry{
		Namespace: namespace,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

// 無くてもエラーにしない
func (r *localStorageGormRepository) RemoveItem(ctx context.Context, namespace string, key string) error {
	return r.db.WithContext(ctx).
		Where("namespace = ? AND key = ?", namespace, key).
		Delete(&model.LocalStorageEntry{}).Error
}
