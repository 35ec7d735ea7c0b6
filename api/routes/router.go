package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexmoren/storefront-backend/api/controllers"
	"github.com/alexmoren/storefront-backend/api/middleware"
	"github.com/alexmoren/storefront-backend/internal/catalog"
	"github.com/alexmoren/storefront-backend/internal/orders"
	"github.com/alexmoren/storefront-backend/pkg/config"
	"github.com/alexmoren/storefront-backend/pkg/logger"
	"github.com/alexmoren/storefront-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    *redis.Client
	Catalog  catalog.Service
	Orders   orders.Service
	Registry *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	// idempotency needs redis; without it the API still works, writes are
	// just not replay-protected
	if deps.Redis != nil {
		r.Use(middleware.Idempotency(deps.Redis, logg, cfg.Checkout.IdempotencyTTL))
	}

	health := map[string]controllers.Pinger{
		"database": deps.DB,
	}
	if deps.Redis != nil {
		health["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, health))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(deps.Catalog, logg))
		r.Get("/{productId}", controllers.GetProduct(deps.Catalog, logg))
		r.Patch("/{productId}/stock", controllers.SetProductStock(deps.Catalog, logg))
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", controllers.PlaceOrder(deps.Orders, logg))
		r.Get("/", controllers.ListOrders(deps.Orders, logg))
		r.Get("/{orderId}", controllers.GetOrder(deps.Orders, logg))
	})

	return r
}
