package model

import "time"

type Carrier string

const (
	CarrierDTDC      Carrier = "DTDC"
	CarrierDelhivery Carrier = "DELHIVERY"
	CarrierBlueDart  Carrier = "BLUE-DART"
)

func ParseCarrier(s string) (Carrier, bool) {
	switch c := Carrier(s); c {
	case CarrierDTDC, CarrierDelhivery, CarrierBlueDart:
		return c, true
	}
	return "", false
}

type LogisticStatus string

const (
	LogisticStatusShipped   LogisticStatus = "Shipped"
	LogisticStatusDelivered LogisticStatus = "Delivered"
	LogisticStatusCancelled LogisticStatus = "Cancelled"
)

// 1注文につき1件（order_idにunique）
type Logistic struct {
	ID             int64          `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID        string         `gorm:"type:varchar(64);not null;uniqueIndex" json:"order_id"`
	Carrier        Carrier        `gorm:"column:logistic_name;type:varchar(20);not null" json:"logistic_name"`
	TrackingNumber string         `gorm:"type:varchar(128);not null" json:"tracking_number"`
	Status         LogisticStatus `gorm:"column:logistic_status;type:varchar(20);not null" json:"logistic_status"`
	CreatedAt      time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
