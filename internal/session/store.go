// Package session はロールごとのログイン状態とプロフィールを保持し、
// 認証済みの間は端末の永続ストレージへミラーする。
package session

import (
	"context"
	"errors"

	"fooddash/internal/domain/model"
	"fooddash/internal/repository"
)

// Store はロール1つ分のセッション。他ロールとは完全に独立。
// メモリ上の状態変更は常に成功し、ミラーの失敗だけをerrorで返す。
type Store[P any] struct {
	role      model.Role
	namespace string
	storage   repository.LocalStorageRepository
	state     model.AuthSession[P]
}

// NewStore は未ログイン状態のStoreを作る。
func NewStore[P any](role model.Role, namespace string, storage repository.LocalStorageRepository) *Store[P] {
	return &Store[P]{role: role, namespace: namespace, storage: storage}
}

// Load は永続ストレージから状態を復元する。
// 無い・壊れている場合は未ログイン状態。読み出し自体の失敗だけerrorを返す（Storeは使える）。
func Load[P any](ctx context.Context, role model.Role, namespace string, storage repository.LocalStorageRepository) (*Store[P], error) {
	s := NewStore[P](role, namespace, storage)

	raw, err := storage.GetItem(ctx, namespace, role.StorageKey())
	if errors.Is(err, repository.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return s, err
	}

	if st, ok := decodeRecord[P](role, raw); ok {
		s.state = st
	}
	return s, nil
}

func (s *Store[P]) Role() model.Role {
	return s.role
}

// Login は認証済みにしてプロフィールを保持する。
func (s *Store[P]) Login(ctx context.Context, profile P) error {
	s.state = model.AuthSession[P]{Authenticated: true, Profile: &profile}
	return s.sync(ctx)
}

// Logout は状態を消し、永続ストレージのキーも削除する。
func (s *Store[P]) Logout(ctx context.Context) error {
	s.state = model.AuthSession[P]{}
	return s.storage.RemoveItem(ctx, s.namespace, s.role.StorageKey())
}

// SetProfile はauthenticatedを変えずにプロフィールだけ上書きする。
// 未ログイン中に呼ばれても特別扱いしない。
func (s *Store[P]) SetProfile(ctx context.Context, profile P) error {
	s.state.Profile = &profile
	return s.sync(ctx)
}

// State は状態のコピーを返す。
func (s *Store[P]) State() model.AuthSession[P] {
	out := model.AuthSession[P]{Authenticated: s.state.Authenticated}
	if s.state.Profile != nil {
		p := *s.state.Profile
		out.Profile = &p
	}
	return out
}

func (s *Store[P]) Authenticated() bool {
	return s.state.Authenticated
}

// Profile はログイン中のプロフィールを返す。
func (s *Store[P]) Profile() (P, bool) {
	var zero P
	if !s.state.Authenticated || s.state.Profile == nil {
		return zero, false
	}
	return *s.state.Profile, true
}

// 認証済みなら書き込む。未認証なら何もしない（古いキーはLogoutでのみ消す）。
func (s *Store[P]) sync(ctx context.Context) error {
	if !s.state.Authenticated {
		return nil
	}
	raw, err := encodeRecord(s.role, s.state)
	if err != nil {
		return err
	}
	return s.storage.SetItem(ctx, s.namespace, s.role.StorageKey(), raw)
}
