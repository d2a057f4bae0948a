package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/adityakhanna/trendora-backend/pkg/enums"
)

// Product represents a catalog listing.
type Product struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string              `gorm:"column:name;not null"`
	Description *string             `gorm:"column:description"`
	PriceCents  int                 `gorm:"column:price_cents;not null"`
	Images      pq.StringArray      `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	Sizes       pq.StringArray      `gorm:"column:sizes;type:text[];not null;default:ARRAY[]::text[]"`
	Status      enums.ProductStatus `gorm:"column:status;not null;default:'active'"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// FeaturedImage returns the first image URL or empty when none exist.
func (p *Product) FeaturedImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// IsActive reports whether the listing can be added to a cart.
func (p *Product) IsActive() bool {
	return p.Status == enums.ProductStatusActive
}
