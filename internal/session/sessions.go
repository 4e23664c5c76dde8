package session

import (
	"context"
	"errors"
	"fmt"

	"fooddash/internal/domain/model"
	"fooddash/internal/repository"
)

// Sessions は1端末分の3ロールのセッション。
type Sessions struct {
	Customer   *Store[model.Customer]
	Dasher     *Store[model.Dasher]
	Restaurant *Store[model.Restaurant]
}

// GET /sessions の形
type View struct {
	Customer   model.AuthSession[model.Customer]   `json:"customer"`
	Dasher     model.AuthSession[model.Dasher]     `json:"dasher"`
	Restaurant model.AuthSession[model.Restaurant] `json:"restaurant"`
}

// LoadAll は3ロールを永続ストレージから復元する。
// 読み出しに失敗したロールは未ログインのまま、エラーをまとめて返す。
func LoadAll(ctx context.Context, namespace string, storage repository.LocalStorageRepository) (*Sessions, error) {
	customer, errC := Load[model.Customer](ctx, model.RoleCustomer, namespace, storage)
	dasher, errD := Load[model.Dasher](ctx, model.RoleDasher, namespace, storage)
	restaurant, errR := Load[model.Restaurant](ctx, model.RoleRestaurant, namespace, storage)

	return &Sessions{
		Customer:   customer,
		Dasher:     dasher,
		Restaurant: restaurant,
	}, errors.Join(errC, errD, errR)
}

// Authenticated はロールがログイン中か返す。
func (s *Sessions) Authenticated(role model.Role) bool {
	switch role {
	case model.RoleCustomer:
		return s.Customer.Authenticated()
	case model.RoleDasher:
		return s.Dasher.Authenticated()
	case model.RoleRestaurant:
		return s.Restaurant.Authenticated()
	}
	return false
}

// Logout は指定ロールだけログアウトする。
func (s *Sessions) Logout(ctx context.Context, role model.Role) error {
	switch role {
	case model.RoleCustomer:
		return s.Customer.Logout(ctx)
	case model.RoleDasher:
		return s.Dasher.Logout(ctx)
	case model.RoleRestaurant:
		return s.Restaurant.Logout(ctx)
	}
	return fmt.Errorf("unknown role %q", role)
}

func (s *Sessions) View() View {
	return View{
		Customer:   s.Customer.State(),
		Dasher:     s.Dasher.State(),
		Restaurant: s.Restaurant.State(),
	}
}
