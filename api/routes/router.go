package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adityakhanna/trendora-backend/api/controllers"
	"github.com/adityakhanna/trendora-backend/api/middleware"
	authsvc "github.com/adityakhanna/trendora-backend/internal/auth"
	cartsvc "github.com/adityakhanna/trendora-backend/internal/cart"
	ordersvc "github.com/adityakhanna/trendora-backend/internal/orders"
	productsvc "github.com/adityakhanna/trendora-backend/internal/products"
	"github.com/adityakhanna/trendora-backend/internal/users"
	"github.com/adityakhanna/trendora-backend/pkg/auth/session"
	"github.com/adityakhanna/trendora-backend/pkg/config"
	"github.com/adityakhanna/trendora-backend/pkg/db"
	"github.com/adityakhanna/trendora-backend/pkg/db/models"
	"github.com/adityakhanna/trendora-backend/pkg/enums"
	"github.com/adityakhanna/trendora-backend/pkg/logger"
	"github.com/adityakhanna/trendora-backend/pkg/metrics"
	"github.com/adityakhanna/trendora-backend/pkg/pagination"
	"github.com/adityakhanna/trendora-backend/pkg/redis"
)

type userLister interface {
	List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.User, error)
}

var _ userLister = (*users.Repository)(nil)

// redisStore is the slice of the redis client the router needs: readiness
// pings and rate limit counters.
type redisStore interface {
	Ping(ctx context.Context) error
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

var _ redisStore = (*redis.Client)(nil)

// Deps carries everything NewRouter wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          redisStore
	SessionChecker session.AccessSessionChecker
	AuthService    authsvc.Service
	ProductService productsvc.Service
	CartService    cartsvc.Service
	OrdersService  ordersvc.Service
	UsersRepo      userLister
	Metrics        prometheus.Gatherer
	HTTPMetrics    *metrics.HTTPMetrics
}

// NewRouter assembles the HTTP surface: public storefront and auth routes,
// the authed customer cart and order routes, and the admin back office.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	checkPolicy := middleware.NewAuthRateLimitPolicy(
		"check",
		cfg.AuthRateLimit.CheckWindow,
		cfg.AuthRateLimit.CheckIPLimit,
		cfg.AuthRateLimit.CheckMobileLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterMobileLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(checkPolicy, deps.Redis, logg)).Post("/check", controllers.AuthCheck(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(checkPolicy, deps.Redis, logg)).Post("/login", controllers.AdminAuthLogin(deps.AuthService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.ProductService, logg))
		r.Get("/{productId}", controllers.ProductDetail(deps.ProductService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.CartService, logg))
			r.Delete("/", controllers.CartClear(deps.CartService, logg))
			r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(deps.CartService, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.CartService, logg))
		})

		r.Post("/checkout", controllers.Checkout(deps.OrdersService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(deps.OrdersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.OrdersService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(deps.ProductService, logg))
			r.Post("/", controllers.AdminProductCreate(deps.ProductService, logg))
			r.Get("/{productId}", controllers.AdminProductDetail(deps.ProductService, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(deps.ProductService, logg))
			r.Delete("/{productId}", controllers.AdminProductArchive(deps.ProductService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(deps.OrdersService, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(deps.OrdersService, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderUpdateStatus(deps.OrdersService, logg))
		})

		r.Get("/users", controllers.AdminUserList(deps.UsersRepo, logg))
	})

	return r
}
