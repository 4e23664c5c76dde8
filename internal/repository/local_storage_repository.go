package repository

import "context"

// 端末ごとの永続ストレージ（ブラウザのlocalStorage相当）の約束。
// namespaceは端末ID、keyはロール名や"cart"。
type LocalStorageRepository interface {
	//値を1件取得。無ければErrNotFound
	GetItem(ctx context.Context, namespace string, key string) (string, error)
	//値を保存（上書き）
	SetItem(ctx context.Context, namespace string, key string, value string) error
	//値を削除。無くてもエラーにしない
	RemoveItem(ctx context.Context, namespace string, key string) error
}
