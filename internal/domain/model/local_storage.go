package model

import "time"

// 端末ごとの永続ストレージ（ブラウザのlocalStorage相当）の1行。
type LocalStorageEntry struct {
	Namespace string    `gorm:"type:varchar(64);primaryKey" json:"namespace"`
	Key       string    `gorm:"type:varchar(64);primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (LocalStorageEntry) TableName() string {
	return "local_storage_entries"
}
