package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/adityakhanna/trendora-backend/pkg/db/models"
	"github.com/adityakhanna/trendora-backend/pkg/enums"
)

// OrderItemDTO is a snapshot line on a placed order.
type OrderItemDTO struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	Image          string    `json:"image"`
	Size           string    `json:"size"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
}

// OrderDTO is the API shape of an order.
type OrderDTO struct {
	ID            uuid.UUID         `json:"id"`
	UserID        uuid.UUID         `json:"user_id"`
	Status        enums.OrderStatus `json:"status"`
	SubtotalCents int64             `json:"subtotal_cents"`
	TaxCents      int64             `json:"tax_cents"`
	TotalCents    int64             `json:"total_cents"`
	Items         []OrderItemDTO    `json:"items"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ListResult pairs a page of orders with the cursor for the next page.
type ListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// UpdateStatusInput carries an admin status change request.
type UpdateStatusInput struct {
	Status enums.OrderStatus
}

// FromModel maps a persisted order onto its DTO.
func FromModel(order *models.Order) OrderDTO {
	dto := OrderDTO{
		ID:            order.ID,
		UserID:        order.UserID,
		Status:        order.Status,
		SubtotalCents: int64(order.SubtotalCents),
		TaxCents:      int64(order.TaxCents),
		TotalCents:    int64(order.TotalCents),
		Items:         make([]OrderItemDTO, 0, len(order.Items)),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	for i := range order.Items {
		item := &order.Items[i]
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Name:           item.Name,
			Image:          item.Image,
			Size:           item.Size,
			Quantity:       item.Quantity,
			UnitPriceCents: int64(item.UnitPriceCents),
		})
	}
	return dto
}
