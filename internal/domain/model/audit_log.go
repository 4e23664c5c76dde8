package model

import "time"

// ログイン、注文確定、ステータス更新など。
type AuditAction string

const (
	//ロールのログイン
	AuditActionSessionLogin AuditAction = "SESSION_LOGIN"
	//ロールのログアウト
	AuditActionSessionLogout AuditAction = "SESSION_LOGOUT"
	//プロフィール更新
	AuditActionUpdateProfile AuditAction = "UPDATE_PROFILE"
	//注文確定
	AuditActionOrderPlaced AuditAction = "ORDER_PLACED"
	//注文ステータスを更新した操作。
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	//配達員の割り当て
	AuditActionAssignDasher AuditAction = "ASSIGN_DASHER"
	//メニュー変更
	AuditActionUpdateMenu AuditAction = "UPDATE_MENU"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceSession AuditResourceType = "session"
	AuditResourceOrder   AuditResourceType = "order"
	AuditResourceDish    AuditResourceType = "dish"
)

// ポータルで起きた出来事。Kafkaと監査ログの両方に流す。
type PortalEvent struct {
	ID           string            `json:"id"`
	Action       AuditAction       `json:"action"`
	DeviceID     string            `json:"device_id"`
	Role         Role              `json:"role"`
	ActorID      string            `json:"actor_id"`
	ResourceType AuditResourceType `json:"resource_type"`
	ResourceID   string            `json:"resource_id"`
	BeforeJSON   string            `json:"before_json,omitempty"`
	AfterJSON    string            `json:"after_json,omitempty"`
	OccurredAt   time.Time         `json:"occurred_at"`
}

// 監査ログ。
// 「どの端末で」「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	//IDは監査ログの主キー
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//イベントID（uuid）
	EventID string `gorm:"type:varchar(64);not null;uniqueIndex" json:"event_id"`

	//操作した端末
	DeviceID string `gorm:"type:varchar(64);not null;index" json:"device_id"`

	//操作したロールとそのID
	Role    Role   `gorm:"type:varchar(20);not null" json:"role"`
	ActorID string `gorm:"type:varchar(64);index" json:"actor_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	ResourceID string `gorm:"type:varchar(64);index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`

	//JSON文字列で保存する。
	AfterJSON string `gorm:"type:text" json:"after_json"`

	//作成時刻
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// イベントから監査ログ行を作る
func NewAuditLog(ev PortalEvent) AuditLog {
	return AuditLog{
		EventID:      ev.ID,
		DeviceID:     ev.DeviceID,
		Role:         ev.Role,
		ActorID:      ev.ActorID,
		Action:       ev.Action,
		ResourceType: ev.ResourceType,
		ResourceID:   ev.ResourceID,
		BeforeJSON:   ev.BeforeJSON,
		AfterJSON:    ev.AfterJSON,
		CreatedAt:    ev.OccurredAt,
	}
}
