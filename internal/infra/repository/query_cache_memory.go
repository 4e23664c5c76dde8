package repository

import (
	"context"
	"sync"
	"time"
)

// 期限切れエントリを掃除するSet回数の間隔
const queryCachePruneEvery = 256

type queryCacheEntry struct {
	body      []byte
	tags      []string
	expiresAt time.Time
}

func (e queryCacheEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// QueryCacheMemoryRepository はプロセス内のタグ付きキャッシュ。
// エントリを消すときはタグ側の索引からも外す。
type QueryCacheMemoryRepository struct {
	mu      sync.Mutex
	entries map[string]queryCacheEntry
	tags    map[string]map[string]struct{}
	sets    int
	now     func() time.Time
}

func NewQueryCacheMemoryRepository() *QueryCacheMemoryRepository {
	return &QueryCacheMemoryRepository{
		entries: make(map[string]queryCacheEntry),
		tags:    make(map[string]map[string]struct{}),
		now:     time.Now,
	}
}

func (m *QueryCacheMemoryRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	// 期限切れは消す
	if e.expired(m.now()) {
		m.remove(key)
		return nil, false, nil
	}
	return e.body, true, nil
}

func (m *QueryCacheMemoryRepository) Set(ctx context.Context, key string, body []byte, tags []string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// 上書き時は古いタグを外してから付け直す
	m.remove(key)

	e := queryCacheEntry{body: append([]byte(nil), body...), tags: append([]string(nil), tags...)}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = e

	for _, tag := range tags {
		keys, ok := m.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			m.tags[tag] = keys
		}
		keys[key] = struct{}{}
	}

	m.sets++
	if m.sets%queryCachePruneEvery == 0 {
		m.prune()
	}
	return nil
}

func (m *QueryCacheMemoryRepository) InvalidateTags(ctx context.Context, tags ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, tag := range tags {
		for key := range m.tags[tag] {
			m.remove(key)
		}
		delete(m.tags, tag)
	}
	return nil
}

// 期限切れをまとめて消す。muを持って呼ぶ
func (m *QueryCacheMemoryRepository) prune() int {
	now := m.now()
	n := 0
	for key, e := range m.entries {
		if e.expired(now) {
			m.remove(key)
			n++
		}
	}
	return n
}

// 本体とタグ索引から1件外す。空になったタグも消す
func (m *QueryCacheMemoryRepository) remove(key string) {
	e, ok := m.entries[key]
	if !ok {
		return
	}
	delete(m.entries, key)
	for _, tag := range e.tags {
		keys := m.tags[tag]
		delete(keys, key)
		if len(keys) == 0 {
			delete(m.tags, tag)
		}
	}
}
