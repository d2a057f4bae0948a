package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adityakhanna/trendora-backend/pkg/db/models"
	"github.com/adityakhanna/trendora-backend/pkg/enums"
	pkgerrors "github.com/adityakhanna/trendora-backend/pkg/errors"
	"github.com/adityakhanna/trendora-backend/pkg/pagination"
)

// Service places orders from carts and exposes order history. Checkout
// snapshots product name, image and price onto the order so later catalog
// edits never change what a customer sees on a placed order.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*OrderDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
	GetMine(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	AdminList(ctx context.Context, input AdminListInput) (*ListResult, error)
	AdminGet(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
}

// AdminListInput narrows the admin order listing. Search matches an order
// id exactly or a customer's mobile or name.
type AdminListInput struct {
	Status *enums.OrderStatus
	Search string
	Params pagination.Params
}

type orderRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, order *models.Order) error
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filter ListFilter) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}

type cartStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	ClearByUserTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the dependencies required to build an orders service.
type ServiceParams struct {
	Repo orderRepository
	Cart cartStore
	DB   txRunner
	// TaxRate is a decimal string such as "0.18".
	TaxRate string
}

type service struct {
	repo    orderRepository
	cart    cartStore
	db      txRunner
	taxRate decimal.Decimal
}

// NewService constructs the orders service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart store is required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	rate := decimal.Zero
	if params.TaxRate != "" {
		parsed, err := decimal.NewFromString(params.TaxRate)
		if err != nil {
			return nil, fmt.Errorf("parsing tax rate %q: %w", params.TaxRate, err)
		}
		rate = parsed
	}
	return &service{
		repo:    params.Repo,
		cart:    params.Cart,
		db:      params.DB,
		taxRate: rate,
	}, nil
}

func (s *service) Checkout(ctx context.Context, userID uuid.UUID) (*OrderDTO, error) {
	lines, err := s.cart.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart for checkout")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	order := &models.Order{
		UserID: userID,
		Status: enums.OrderStatusPending,
		Items:  make([]models.OrderItem, 0, len(lines)),
	}

	var subtotal int64
	for i := range lines {
		line := &lines[i]
		product := line.Product
		if product == nil || !product.IsActive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "a cart item is no longer available")
		}
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID:      product.ID,
			Name:           product.Name,
			Image:          image,
			Size:           line.Size,
			Quantity:       line.Quantity,
			UnitPriceCents: product.PriceCents,
		})
		subtotal += int64(product.PriceCents) * int64(line.Quantity)
	}

	tax := decimal.NewFromInt(subtotal).Mul(s.taxRate).Round(0).IntPart()
	order.SubtotalCents = int(subtotal)
	order.TaxCents = int(tax)
	order.TotalCents = int(subtotal + tax)

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(ctx, tx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := s.cart.ClearByUserTx(ctx, tx, userID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "place order")
	}

	dto := FromModel(order)
	return &dto, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	filter := ListFilter{UserID: &userID}
	return s.list(ctx, filter, params)
}

func (s *service) GetMine(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup order")
	}
	dto := FromModel(order)
	return &dto, nil
}

func (s *service) AdminList(ctx context.Context, input AdminListInput) (*ListResult, error) {
	filter := ListFilter{Status: input.Status, Search: input.Search}
	return s.list(ctx, filter, input.Params)
}

func (s *service) AdminGet(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup order")
	}
	dto := FromModel(order)
	return &dto, nil
}

func (s *service) AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup order")
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, status))
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}
	order.Status = status
	dto := FromModel(order)
	return &dto, nil
}

func (s *service) list(ctx context.Context, filter ListFilter, params pagination.Params) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	filter.Cursor = cursor
	filter.Limit = pagination.LimitWithBuffer(params.Limit)

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	result := &ListResult{Orders: make([]OrderDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			last := &rows[i-1]
			result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: last.CreatedAt,
				ID:        last.ID,
			})
			break
		}
		result.Orders = append(result.Orders, FromModel(&rows[i]))
	}
	return result, nil
}
