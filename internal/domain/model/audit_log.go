package model

import "time"

// 注文ステータスを動かした操作の種類
type AuditAction string

const (
	AuditActionPlaceOrder           AuditAction = "PLACE_ORDER"
	AuditActionConfirmPayment       AuditAction = "CONFIRM_PAYMENT"
	AuditActionRecordPaymentFailure AuditAction = "RECORD_PAYMENT_FAILURE"
	AuditActionUpdateOrderStatus    AuditAction = "UPDATE_ORDER_STATUS"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceOrder AuditResourceType = "order"
)

// 監査ログ。
// 「誰が」「何を」「どの注文に」「どう変えたか」を残す。ステータス更新と同じTxで書く。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作した主体（user_id / seller_id / "gateway"）
	ActorID string `gorm:"type:varchar(64);not null;index" json:"actor_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	//注文のorder_id
	ResourceID string `gorm:"type:varchar(64);not null;index" json:"resource_id"`

	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// ゲートウェイからのコールバックで動いた操作のactor
const AuditActorGateway = "gateway"
