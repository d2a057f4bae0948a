package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adityakhanna/trendora-backend/pkg/db/models"
	"github.com/adityakhanna/trendora-backend/pkg/enums"
	pkgerrors "github.com/adityakhanna/trendora-backend/pkg/errors"
)

type stubCatalogRepo struct {
	byID       map[uuid.UUID]*models.Product
	listRows   []models.Product
	lastFilter ListFilter
}

func newStubCatalogRepo(seed ...*models.Product) *stubCatalogRepo {
	repo := &stubCatalogRepo{byID: map[uuid.UUID]*models.Product{}}
	for _, p := range seed {
		repo.byID[p.ID] = p
	}
	return repo
}

func (s *stubCatalogRepo) Create(_ context.Context, product *models.Product) (*models.Product, error) {
	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	s.byID[product.ID] = product
	return product, nil
}

func (s *stubCatalogRepo) Save(_ context.Context, product *models.Product) (*models.Product, error) {
	s.byID[product.ID] = product
	return product, nil
}

func (s *stubCatalogRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.byID[id]; ok {
		copied := *product
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) SetStatus(_ context.Context, id uuid.UUID, status enums.ProductStatus) error {
	product, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	product.Status = status
	return nil
}

func (s *stubCatalogRepo) List(_ context.Context, filter ListFilter) ([]models.Product, error) {
	s.lastFilter = filter
	return s.listRows, nil
}

func activeProduct(name string, priceCents int) *models.Product {
	return &models.Product{
		ID:         uuid.New(),
		Name:       name,
		PriceCents: priceCents,
		Images:     []string{"https://cdn.test/" + name + ".jpg"},
		Sizes:      []string{"S", "M", "L"},
		Status:     enums.ProductStatusActive,
		CreatedAt:  time.Now(),
	}
}

func TestListProductsDefaultsToActiveOnly(t *testing.T) {
	repo := newStubCatalogRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	if _, err := svc.ListProducts(context.Background(), ListProductsInput{}); err != nil {
		t.Fatalf("ListProducts returned error: %v", err)
	}
	if repo.lastFilter.Status == nil || *repo.lastFilter.Status != enums.ProductStatusActive {
		t.Fatalf("expected active-only filter, got %+v", repo.lastFilter.Status)
	}

	if _, err := svc.ListProducts(context.Background(), ListProductsInput{IncludeInactive: true}); err != nil {
		t.Fatalf("ListProducts returned error: %v", err)
	}
	if repo.lastFilter.Status != nil {
		t.Fatalf("expected no status filter for admin listing, got %v", *repo.lastFilter.Status)
	}
}

func TestListProductsPaginatesWithCursor(t *testing.T) {
	repo := newStubCatalogRepo()
	rows := make([]models.Product, 0, 3)
	for i := 0; i < 3; i++ {
		rows = append(rows, *activeProduct("tee", 500))
	}
	repo.listRows = rows

	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	result, err := svc.ListProducts(context.Background(), ListProductsInput{Limit: 2})
	if err != nil {
		t.Fatalf("ListProducts returned error: %v", err)
	}
	if len(result.Products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(result.Products))
	}
	if result.NextCursor == "" {
		t.Fatal("expected next cursor when more rows exist")
	}
	if repo.lastFilter.Limit != 3 {
		t.Fatalf("expected limit+1 buffer of 3, got %d", repo.lastFilter.Limit)
	}
}

func TestGetProductHidesInactiveFromStorefront(t *testing.T) {
	draft := activeProduct("draft-tee", 700)
	draft.Status = enums.ProductStatusDraft
	repo := newStubCatalogRepo(draft)
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	if _, err := svc.GetProduct(context.Background(), draft.ID, false); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for storefront, got %v", err)
	}

	got, err := svc.GetProduct(context.Background(), draft.ID, true)
	if err != nil {
		t.Fatalf("GetProduct returned error: %v", err)
	}
	if got.ID != draft.ID {
		t.Fatalf("unexpected product %s", got.ID)
	}
}

func TestCreateProductValidatesInput(t *testing.T) {
	repo := newStubCatalogRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	cases := []CreateProductInput{
		{Name: "  ", PriceCents: 100},
		{Name: "Tee", PriceCents: -1},
		{Name: "Tee", PriceCents: 100, Status: enums.ProductStatus("bogus")},
	}
	for _, input := range cases {
		if _, err := svc.CreateProduct(context.Background(), input); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", input, err)
		}
	}

	created, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:       "Oversized Tee",
		PriceCents: 1299,
		Sizes:      []string{"M", " M ", "L", ""},
	})
	if err != nil {
		t.Fatalf("CreateProduct returned error: %v", err)
	}
	if created.Status != enums.ProductStatusActive {
		t.Fatalf("expected default active status, got %s", created.Status)
	}
	if len(created.Sizes) != 2 {
		t.Fatalf("expected deduplicated sizes [M L], got %v", created.Sizes)
	}
}

func TestUpdateProductAppliesPartialChanges(t *testing.T) {
	product := activeProduct("tee", 500)
	repo := newStubCatalogRepo(product)
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	newPrice := 750
	archived := enums.ProductStatusArchived
	updated, err := svc.UpdateProduct(context.Background(), product.ID, UpdateProductInput{
		PriceCents: &newPrice,
		Status:     &archived,
	})
	if err != nil {
		t.Fatalf("UpdateProduct returned error: %v", err)
	}
	if updated.PriceCents != 750 {
		t.Fatalf("expected price 750, got %d", updated.PriceCents)
	}
	if updated.Status != enums.ProductStatusArchived {
		t.Fatalf("expected archived status, got %s", updated.Status)
	}
	if updated.Name != "tee" {
		t.Fatalf("untouched fields must survive, got name %q", updated.Name)
	}
}

func TestArchiveProductMissingIsNotFound(t *testing.T) {
	repo := newStubCatalogRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	if err := svc.ArchiveProduct(context.Background(), uuid.New()); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
