package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one identity-scoped cart line. Size participates in the
// uniqueness key so the same product in two sizes is two lines.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_cart_items_user_product_size,priority:1"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uq_cart_items_user_product_size,priority:2"`
	Size      string    `gorm:"column:size;not null;default:'';uniqueIndex:uq_cart_items_user_product_size,priority:3"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
