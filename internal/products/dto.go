package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/adityakhanna/trendora-backend/pkg/db/models"
	"github.com/adityakhanna/trendora-backend/pkg/enums"
)

// ProductDTO is the transport shape of a catalog listing.
type ProductDTO struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Description *string             `json:"description,omitempty"`
	PriceCents  int                 `json:"price_cents"`
	Images      []string            `json:"images"`
	Sizes       []string            `json:"sizes"`
	Status      enums.ProductStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ListResult carries one page of products and the cursor for the next.
type ListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description *string
	PriceCents  int
	Images      []string
	Sizes       []string
	Status      enums.ProductStatus
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	PriceCents  *int
	Images      *[]string
	Sizes       *[]string
	Status      *enums.ProductStatus
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Images:      append([]string(nil), p.Images...),
		Sizes:       append([]string(nil), p.Sizes...),
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
