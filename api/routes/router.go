package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/packfinderz-attribution/api/controllers"
	analyticscontrollers "github.com/angelmondragon/packfinderz-attribution/api/controllers/analytics"
	ordercontrollers "github.com/angelmondragon/packfinderz-attribution/api/controllers/orders"
	"github.com/angelmondragon/packfinderz-attribution/api/middleware"
	"github.com/angelmondragon/packfinderz-attribution/internal/analytics"
	"github.com/angelmondragon/packfinderz-attribution/internal/orders"
	"github.com/angelmondragon/packfinderz-attribution/pkg/config"
	"github.com/angelmondragon/packfinderz-attribution/pkg/logger"
)

// Dependencies collects what the router needs. RedisPinger and RateLimiter
// are nil when redis is not configured; Gatherer is nil when metrics are off.
type Dependencies struct {
	DBPinger       controllers.Pinger
	RedisPinger    controllers.Pinger
	RateLimiter    middleware.RateLimiter
	Gatherer       prometheus.Gatherer
	OrdersService  orders.Service
	RevenueService analytics.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	revenuePolicy := middleware.NewRateLimitPolicy(
		"revenue",
		cfg.RateLimit.Window,
		cfg.RateLimit.RevenuePerMin,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisPinger))
	})

	if cfg.Metrics.Enabled && deps.Gatherer != nil {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/vendor", func(r chi.Router) {
		r.Use(middleware.StoreContext(logg))
		r.Use(middleware.Timeout(cfg.Engine.RequestTimeout))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(deps.OrdersService, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(deps.OrdersService, logg))
		})

		r.Route("/revenue", func(r chi.Router) {
			r.Use(middleware.StoreRateLimit(revenuePolicy, deps.RateLimiter, logg))
			r.Get("/overview", analyticscontrollers.RevenueOverview(deps.RevenueService, logg))
			r.Get("/trend", analyticscontrollers.RevenueTrend(deps.RevenueService, logg))
			r.Get("/categories", analyticscontrollers.RevenueByCategory(deps.RevenueService, logg))
			r.Get("/top-products", analyticscontrollers.RevenueTopProducts(deps.RevenueService, cfg.Engine, logg))
			r.Get("/dashboard", analyticscontrollers.RevenueDashboard(deps.RevenueService, cfg.Engine, logg))
		})
	})

	return r
}
