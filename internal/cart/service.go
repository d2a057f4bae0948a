package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adityakhanna/trendora-backend/pkg/db"
	"github.com/adityakhanna/trendora-backend/pkg/db/models"
	pkgerrors "github.com/adityakhanna/trendora-backend/pkg/errors"
	"github.com/adityakhanna/trendora-backend/pkg/metrics"
)

// Service is the persistence collaborator behind the cart API. Add is
// idempotent by (user, product, size): repeated adds increment the
// existing line instead of duplicating it.
type Service interface {
	AddOrIncrement(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartItemDTO, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartItemDTO, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartRepository interface {
	Create(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	FindByKey(ctx context.Context, userID, productID uuid.UUID, size string) (*models.CartItem, error)
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.CartItem, error)
	IncrementQuantity(ctx context.Context, id uuid.UUID, delta int) error
	SetQuantity(ctx context.Context, id, userID uuid.UUID, quantity int) error
	DeleteByIDAndUser(ctx context.Context, id, userID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	ClearByUser(ctx context.Context, userID uuid.UUID) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	Repo     cartRepository
	Products productLoader
	Metrics  *metrics.CartMetrics
	// TaxRate is a decimal string such as "0.18".
	TaxRate string
}

type service struct {
	repo     cartRepository
	products productLoader
	metrics  *metrics.CartMetrics
	taxRate  decimal.Decimal
}

// NewService constructs the cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product loader is required")
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
		repo:     params.Repo,
		products: params.Products,
		metrics:  params.Metrics,
		taxRate:  rate,
	}, nil
}

func (s *service) AddOrIncrement(ctx context.Context, userID uuid.UUID, input AddItemInput) (_ *CartItemDTO, err error) {
	defer s.observe("add_item", time.Now(), &err)

	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.loadSellableProduct(ctx, input.ProductID, input.Size)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByKey(ctx, userID, input.ProductID, input.Size)
	switch {
	case err == nil:
		if err := s.repo.IncrementQuantity(ctx, existing.ID, input.Quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "increment cart line")
		}
		existing.Quantity += input.Quantity
		existing.Product = product
		dto := itemFromModel(existing)
		return &dto, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to create
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup cart line")
	}

	item := &models.CartItem{
		UserID:    userID,
		ProductID: input.ProductID,
		Size:      input.Size,
		Quantity:  input.Quantity,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		// A concurrent add for the same key can land first; treat the
		// unique violation as an increment of the winner's line.
		if db.IsUniqueViolation(err, "uq_cart_items_user_product_size") {
			return s.incrementExisting(ctx, userID, input, product)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart line")
	}
	created.Product = product
	dto := itemFromModel(created)
	return &dto, nil
}

func (s *service) incrementExisting(ctx context.Context, userID uuid.UUID, input AddItemInput, product *models.Product) (*CartItemDTO, error) {
	existing, err := s.repo.FindByKey(ctx, userID, input.ProductID, input.Size)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup cart line after conflict")
	}
	if err := s.repo.IncrementQuantity(ctx, existing.ID, input.Quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "increment cart line")
	}
	existing.Quantity += input.Quantity
	existing.Product = product
	dto := itemFromModel(existing)
	return &dto, nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (_ *CartItemDTO, err error) {
	defer s.observe("update_quantity", time.Now(), &err)

	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	if err := s.repo.SetQuantity(ctx, itemID, userID, quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart line")
	}

	item, err := s.repo.FindByIDAndUser(ctx, itemID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload cart line")
	}
	dto := itemFromModel(item)
	return &dto, nil
}

func (s *service) Remove(ctx context.Context, userID, itemID uuid.UUID) (err error) {
	defer s.observe("remove_item", time.Now(), &err)

	if err := s.repo.DeleteByIDAndUser(ctx, itemID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart line")
	}
	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) (_ *CartDTO, err error) {
	defer s.observe("list", time.Now(), &err)

	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart")
	}

	out := &CartDTO{Items: make([]CartItemDTO, 0, len(rows))}
	for i := range rows {
		dto := itemFromModel(&rows[i])
		out.Items = append(out.Items, dto)
		out.SubtotalCents += dto.UnitPriceCents * int64(dto.Quantity)
	}
	out.TaxCents = decimal.NewFromInt(out.SubtotalCents).Mul(s.taxRate).Round(0).IntPart()
	out.TotalCents = out.SubtotalCents + out.TaxCents
	return out, nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) (err error) {
	defer s.observe("clear", time.Now(), &err)

	if err := s.repo.ClearByUser(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}

func (s *service) loadSellableProduct(ctx context.Context, productID uuid.UUID, size string) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	if !product.IsActive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}
	if size != "" && len(product.Sizes) > 0 && !containsSize(product.Sizes, size) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown size for product")
	}
	return product, nil
}

func (s *service) observe(operation string, start time.Time, err *error) {
	s.metrics.ObserveDuration(operation, time.Since(start))
	if err != nil && *err != nil {
		s.metrics.IncFailure(operation)
		return
	}
	s.metrics.IncSuccess(operation)
}

func containsSize(sizes []string, size string) bool {
	for _, candidate := range sizes {
		if candidate == size {
			return true
		}
	}
	return false
}
