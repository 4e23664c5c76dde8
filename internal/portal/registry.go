// Package portal は端末ごとのカートと3ロールのセッションをまとめて管理する。
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"fooddash/internal/cart"
	"fooddash/internal/domain/model"
	"fooddash/internal/repository"
	"fooddash/internal/session"

	"github.com/sirupsen/logrus"
)

// カートを保存するキー
const CartKey = "cart"

// Workspace は1端末分の状態。Registry.Withの中でだけ触る。
type Workspace struct {
	DeviceID string
	Cart     *cart.Store
	Sessions *session.Sessions
}

// mu で保護。evicted=trueのentryはmapから外れているので使わない
type entry struct {
	mu       sync.Mutex
	ws       *Workspace
	lastUsed time.Time
	evicted  bool
}

// Registry は端末IDごとにWorkspaceを遅延生成し、操作を直列化する。
// キャッシュはプロセス内だけ。複数台で動かす場合は端末IDでスティッキーに振り分ける。
type Registry struct {
	storage repository.LocalStorageRepository
	log     logrus.FieldLogger
	idleTTL time.Duration // 0以下なら追い出さない
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

// DI
func NewRegistry(storage repository.LocalStorageRepository, log logrus.FieldLogger, idleTTL time.Duration) *Registry {
	return &Registry{
		storage: storage,
		log:     log,
		idleTTL: idleTTL,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// With はdeviceIDのWorkspaceでfnを実行する。同じ端末への呼び出しは1つずつ。
// fnの後、カートが変わっていれば永続ストレージへミラーする（失敗はログのみ）。
func (r *Registry) With(ctx context.Context, deviceID string, fn func(ws *Workspace) error) error {
	e := r.lock(deviceID)
	defer e.mu.Unlock()

	if e.ws == nil {
		e.ws = r.open(ctx, deviceID)
	}
	e.lastUsed = r.now()

	before, err := json.Marshal(e.ws.Cart.Snapshot())
	if err != nil {
		r.log.WithError(err).WithField("device_id", deviceID).Warn("cart snapshot failed")
	}
	fnErr := fn(e.ws)
	r.mirrorCart(ctx, e.ws, before)
	return fnErr
}

// Forget はメモリ上のWorkspaceを捨てる。次のWithで永続ストレージから作り直す。
func (r *Registry) Forget(deviceID string) {
	e := r.lock(deviceID)
	defer e.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	e.evicted = true
	delete(r.entries, deviceID)
}

// Sweep はidleTTLより長く使われていないWorkspaceを捨て、捨てた数を返す。
// 使用中（ロック中）のものは飛ばす。状態は永続ストレージにあるので次のWithで戻る。
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, e := range r.entries {
		if !e.mu.TryLock() {
			continue
		}
		if e.lastUsed.Before(cutoff) {
			e.evicted = true
			delete(r.entries, id)
			n++
		}
		e.mu.Unlock()
	}
	return n
}

// Run はctxが終わるまでintervalごとにSweepする。
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if r.idleTTL <= 0 || interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(); n > 0 {
				r.log.WithField("evicted", n).Debug("idle workspaces evicted")
			}
		}
	}
}

// Len はメモリ上のWorkspace数。
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// lock は生きているentryを取ってロックする。Sweepと競合したら取り直す。
func (r *Registry) lock(deviceID string) *entry {
	for {
		e := r.entry(deviceID)
		e.mu.Lock()
		if !e.evicted {
			return e
		}
		e.mu.Unlock()
	}
}

func (r *Registry) entry(deviceID string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[deviceID]
	if !ok {
		e = &entry{}
		r.entries[deviceID] = e
	}
	return e
}

// open は永続ストレージから復元する。読めないものは初期状態。
func (r *Registry) open(ctx context.Context, deviceID string) *Workspace {
	log := r.log.WithField("device_id", deviceID)

	sessions, err := session.LoadAll(ctx, deviceID, r.storage)
	if err != nil {
		log.WithError(err).Warn("session restore failed")
	}

	store := cart.NewStore()
	raw, err := r.storage.GetItem(ctx, deviceID, CartKey)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		log.WithError(err).Warn("cart restore failed")
	default:
		if err := restoreCart(store, raw); err != nil {
			log.WithError(err).Warn("discarding stored cart")
		}
	}

	return &Workspace{DeviceID: deviceID, Cart: store, Sessions: sessions}
}

func restoreCart(store *cart.Store, raw string) error {
	var snap model.CartSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return err
	}
	return store.Restore(snap)
}

func (r *Registry) mirrorCart(ctx context.Context, ws *Workspace, before []byte) {
	snap := ws.Cart.Snapshot()
	after, err := json.Marshal(snap)
	if err != nil || bytes.Equal(before, after) {
		return
	}

	if len(snap.Items) == 0 {
		err = r.storage.RemoveItem(ctx, ws.DeviceID, CartKey)
	} else {
		err = r.storage.SetItem(ctx, ws.DeviceID, CartKey, string(after))
	}
	if err != nil {
		r.log.WithError(err).WithField("device_id", ws.DeviceID).Warn("cart mirror failed")
	}
}
