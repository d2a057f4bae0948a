package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/adityakhanna/trendora-backend/pkg/enums"
)

// Order is a placed order with its snapshot line items.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Status        enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	SubtotalCents int               `gorm:"column:subtotal_cents;not null"`
	TaxCents      int               `gorm:"column:tax_cents;not null"`
	TotalCents    int               `gorm:"column:total_cents;not null"`
	User          *User             `gorm:"foreignKey:UserID"`
	Items         []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
