package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/adityakhanna/trendora-backend/internal/auth"
	cartsvc "github.com/adityakhanna/trendora-backend/internal/cart"
	ordersvc "github.com/adityakhanna/trendora-backend/internal/orders"
	productsvc "github.com/adityakhanna/trendora-backend/internal/products"
	pkgAuth "github.com/adityakhanna/trendora-backend/pkg/auth"
	"github.com/adityakhanna/trendora-backend/pkg/config"
	"github.com/adityakhanna/trendora-backend/pkg/db/models"
	"github.com/adityakhanna/trendora-backend/pkg/enums"
	"github.com/adityakhanna/trendora-backend/pkg/logger"
	"github.com/adityakhanna/trendora-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Check(ctx context.Context, req authsvc.CheckRequest) (*authsvc.CheckResponse, error) {
	return &authsvc.CheckResponse{}, nil
}

func (stubAuthService) Register(ctx context.Context, req authsvc.RegisterRequest) (*authsvc.SessionResponse, error) {
	return &authsvc.SessionResponse{}, nil
}

func (stubAuthService) AdminLogin(ctx context.Context, req authsvc.AdminLoginRequest) (*authsvc.SessionResponse, error) {
	return &authsvc.SessionResponse{}, nil
}

func (stubAuthService) Refresh(ctx context.Context, req authsvc.RefreshRequest) (*authsvc.SessionResponse, error) {
	return &authsvc.SessionResponse{}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubProductService struct{}

func (stubProductService) ListProducts(ctx context.Context, input productsvc.ListProductsInput) (*productsvc.ListResult, error) {
	return &productsvc.ListResult{Products: []productsvc.ProductDTO{}}, nil
}

func (stubProductService) GetProduct(ctx context.Context, id uuid.UUID, includeInactive bool) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: id}, nil
}

func (stubProductService) CreateProduct(ctx context.Context, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: id}, nil
}

func (stubProductService) ArchiveProduct(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) AddOrIncrement(ctx context.Context, userID uuid.UUID, input cartsvc.AddItemInput) (*cartsvc.CartItemDTO, error) {
	return &cartsvc.CartItemDTO{}, nil
}

func (stubCartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*cartsvc.CartItemDTO, error) {
	return &cartsvc.CartItemDTO{}, nil
}

func (stubCartService) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	return nil
}

func (stubCartService) List(ctx context.Context, userID uuid.UUID) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{Items: []cartsvc.CartItemDTO{}}, nil
}

func (stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return nil
}

type stubOrdersService struct{}

func (stubOrdersService) Checkout(ctx context.Context, userID uuid.UUID) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{UserID: userID}, nil
}

func (stubOrdersService) ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ordersvc.ListResult, error) {
	return &ordersvc.ListResult{Orders: []ordersvc.OrderDTO{}}, nil
}

func (stubOrdersService) GetMine(ctx context.Context, userID, orderID uuid.UUID) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{ID: orderID}, nil
}

func (stubOrdersService) AdminList(ctx context.Context, input ordersvc.AdminListInput) (*ordersvc.ListResult, error) {
	return &ordersvc.ListResult{Orders: []ordersvc.OrderDTO{}}, nil
}

func (stubOrdersService) AdminGet(ctx context.Context, orderID uuid.UUID) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{ID: orderID}, nil
}

func (stubOrdersService) AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{ID: orderID, Status: status}, nil
}

type stubUserLister struct{}

func (stubUserLister) List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.User, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             stubPinger{},
		Redis:          nil,
		SessionChecker: stubSessionChecker{},
		AuthService:    stubAuthService{},
		ProductService: stubProductService{},
		CartService:    stubCartService{},
		OrdersService:  stubOrdersService{},
		UsersRepo:      stubUserLister{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Mobile: "+919876543210",
		Role:   role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestStorefrontCatalogIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCartRequiresJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCartAllowsAuthenticatedCustomer(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d: %s", resp.Code, resp.Body.String())
	}
}
