package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adityakhanna/trendora-backend/api/middleware"
	cartsvc "github.com/adityakhanna/trendora-backend/internal/cart"
	"github.com/adityakhanna/trendora-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

type stubCartService struct {
	addInput    cartsvc.AddItemInput
	addResult   *cartsvc.CartItemDTO
	addErr      error
	updated     map[uuid.UUID]int
	removed     []uuid.UUID
	listResult  *cartsvc.CartDTO
	clearCalled bool
}

func (s *stubCartService) AddOrIncrement(ctx context.Context, userID uuid.UUID, input cartsvc.AddItemInput) (*cartsvc.CartItemDTO, error) {
	s.addInput = input
	if s.addErr != nil {
		return nil, s.addErr
	}
	return s.addResult, nil
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*cartsvc.CartItemDTO, error) {
	if s.updated == nil {
		s.updated = map[uuid.UUID]int{}
	}
	s.updated[itemID] = quantity
	return &cartsvc.CartItemDTO{ID: itemID, Quantity: quantity}, nil
}

func (s *stubCartService) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	s.removed = append(s.removed, itemID)
	return nil
}

func (s *stubCartService) List(ctx context.Context, userID uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.listResult, nil
}

func (s *stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	s.clearCalled = true
	return nil
}

func authedContext(userID uuid.UUID) context.Context {
	return middleware.WithUserID(context.Background(), userID.String())
}

func withRouteParam(ctx context.Context, key, value string) context.Context {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
}

func TestCartAddItem(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()
	productID := uuid.New()
	itemID := uuid.New()

	t.Run("missing identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		CartAddItem(&stubCartService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		body := `{"product_id":"` + productID.String() + `","quantity":1,"color":"red"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
		req = req.WithContext(authedContext(userID))
		rec := httptest.NewRecorder()
		CartAddItem(&stubCartService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		stub := &stubCartService{addResult: &cartsvc.CartItemDTO{
			ID:             itemID,
			ProductID:      productID,
			Name:           "graphic-tee",
			Size:           "M",
			Quantity:       2,
			UnitPriceCents: 1000,
		}}
		body := `{"product_id":"` + productID.String() + `","quantity":2,"size":"M"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
		req = req.WithContext(authedContext(userID))
		rec := httptest.NewRecorder()
		CartAddItem(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.addInput.ProductID != productID || stub.addInput.Quantity != 2 || stub.addInput.Size != "M" {
			t.Fatalf("unexpected input passed to service: %+v", stub.addInput)
		}

		var envelope struct {
			Data struct {
				ID             string `json:"id"`
				ProductID      string `json:"product_id"`
				UnitPriceCents int64  `json:"unit_price_cents"`
			} `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if envelope.Data.ID != itemID.String() || envelope.Data.UnitPriceCents != 1000 {
			t.Fatalf("unexpected envelope: %+v", envelope.Data)
		}
	})
}

func TestCartUpdateItemRejectsBadID(t *testing.T) {
	logg := testLogger()
	ctx := withRouteParam(authedContext(uuid.New()), "itemId", "not-a-uuid")
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items/not-a-uuid", strings.NewReader(`{"quantity":2}`))
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	CartUpdateItem(&stubCartService{}, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCartUpdateItemPassesQuantity(t *testing.T) {
	logg := testLogger()
	itemID := uuid.New()
	stub := &stubCartService{}
	ctx := withRouteParam(authedContext(uuid.New()), "itemId", itemID.String())
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items/"+itemID.String(), strings.NewReader(`{"quantity":5}`))
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	CartUpdateItem(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.updated[itemID] != 5 {
		t.Fatalf("expected quantity 5 passed through, got %v", stub.updated)
	}
}

func TestCartRemoveItemReturnsNoContent(t *testing.T) {
	logg := testLogger()
	itemID := uuid.New()
	stub := &stubCartService{}
	ctx := withRouteParam(authedContext(uuid.New()), "itemId", itemID.String())
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/"+itemID.String(), nil)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	CartRemoveItem(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(stub.removed) != 1 || stub.removed[0] != itemID {
		t.Fatalf("expected removal of %s, got %v", itemID, stub.removed)
	}
}

func TestCartFetchSerializesTotals(t *testing.T) {
	logg := testLogger()
	stub := &stubCartService{listResult: &cartsvc.CartDTO{
		Items:         []cartsvc.CartItemDTO{},
		SubtotalCents: 2500,
		TaxCents:      450,
		TotalCents:    2950,
	}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req = req.WithContext(authedContext(uuid.New()))
	rec := httptest.NewRecorder()
	CartFetch(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Data struct {
			Items         []json.RawMessage `json:"items"`
			SubtotalCents int64             `json:"subtotal_cents"`
			TaxCents      int64             `json:"tax_cents"`
			TotalCents    int64             `json:"total_cents"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if envelope.Data.SubtotalCents != 2500 || envelope.Data.TotalCents != 2950 {
		t.Fatalf("unexpected totals: %+v", envelope.Data)
	}
	if envelope.Data.Items == nil {
		t.Fatal("expected items array to be present")
	}
}

func TestCartClear(t *testing.T) {
	logg := testLogger()
	stub := &stubCartService{}
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	req = req.WithContext(authedContext(uuid.New()))
	rec := httptest.NewRecorder()
	CartClear(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !stub.clearCalled {
		t.Fatal("expected clear to reach the service")
	}
}
