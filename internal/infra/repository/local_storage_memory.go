package repository

import (
	"context"
	"sync"

	repo "fooddash/internal/repository"
)

// LocalStorageMemoryRepository はメモリ上に保持する簡易版ストレージ。
// 開発用とテスト用。
type LocalStorageMemoryRepository struct {
	mu    sync.RWMutex
	items map[string]map[string]string
}

func NewLocalStorageMemoryRepository() *LocalStorageMemoryRepository {
	return &LocalStorageMemoryRepository{items: make(map[string]map[string]string)}
}

func (m *LocalStorageMemoryRepository) GetItem(ctx context.Context, namespace string, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.items[namespace][key]
	if !ok {
		return "", repo.ErrNotFound
	}
	return v, nil
}

func (m *LocalStorageMemoryRepository) SetItem(ctx context.Context, namespace string, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket, ok := m.items[namespace]
	if !ok {
		bucket = make(map[string]string)
		m.items[namespace] = bucket
	}
	bucket[key] = value
	return nil
}

func (m *LocalStorageMemoryRepository) RemoveItem(ctx context.Context, namespace string, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items[namespace], key)
	return nil
}
