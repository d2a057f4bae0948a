package cart

import (
	"github.com/google/uuid"

	"github.com/adityakhanna/trendora-backend/pkg/db/models"
)

// AddItemInput is the validated payload for adding to the cart.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Size      string
}

// CartItemDTO is one persisted cart line with its product snapshot.
type CartItemDTO struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	Image          string    `json:"image"`
	Size           string    `json:"size"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
}

// CartDTO is the full cart with derived totals.
type CartDTO struct {
	Items         []CartItemDTO `json:"items"`
	SubtotalCents int64         `json:"subtotal_cents"`
	TaxCents      int64         `json:"tax_cents"`
	TotalCents    int64         `json:"total_cents"`
}

func itemFromModel(item *models.CartItem) CartItemDTO {
	dto := CartItemDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		Size:      item.Size,
		Quantity:  item.Quantity,
	}
	if item.Product != nil {
		dto.Name = item.Product.Name
		dto.Image = item.Product.FeaturedImage()
		dto.UnitPriceCents = int64(item.Product.PriceCents)
	}
	return dto
}
