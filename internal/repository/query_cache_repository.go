package repository

import (
	"context"
	"time"
)

// バックエンドAPIのGET結果をタグ付きで保持する約束。
// mutationが成功したらタグ単位で無効化する。
type QueryCacheRepository interface {
	//キャッシュ取得。無ければ ok=false
	Get(ctx context.Context, key string) (body []byte, ok bool, err error)
	//タグ付きで保存
	Set(ctx context.Context, key string, body []byte, tags []string, ttl time.Duration) error
	//タグに属するキーをまとめて削除
	InvalidateTags(ctx context.Context, tags ...string) error
}
