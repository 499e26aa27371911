package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/detalhesstore/detalhes-backend/api/controllers"
	"github.com/detalhesstore/detalhes-backend/api/middleware"
	"github.com/detalhesstore/detalhes-backend/internal/store"
	"github.com/detalhesstore/detalhes-backend/pkg/auth/session"
	"github.com/detalhesstore/detalhes-backend/pkg/config"
	"github.com/detalhesstore/detalhes-backend/pkg/db"
	"github.com/detalhesstore/detalhes-backend/pkg/logger"
	"github.com/detalhesstore/detalhes-backend/pkg/redis"
)

// NewRouter assembles the full HTTP surface: public storefront routes, the
// authenticated back office, health probes and the metrics endpoint.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	sessions session.Checker,
	st *store.Store,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/settings", controllers.StorefrontSettings(st, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(st, logg))
			r.Get("/{productId}", controllers.ProductGet(st, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(st, logg))
			r.Get("/summary", controllers.CartSummaryGet(st, logg))
			r.Delete("/", controllers.CartClear(st, logg))
			r.Post("/items", controllers.CartAddItem(st, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateItem(st, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(st, logg))
		})

		r.Post("/events", controllers.EventsCreate(st, logg))
		r.Post("/visits", controllers.VisitsCreate(st, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Post("/auth/login", controllers.AuthLogin(st, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))

			r.Post("/auth/logout", controllers.AuthLogout(st, logg))
			r.Put("/settings", controllers.AdminSettingsUpdate(st, logg))

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.AdminProductCreate(st, logg))
				r.Patch("/{productId}", controllers.AdminProductUpdate(st, logg))
				r.Delete("/{productId}", controllers.AdminProductDelete(st, logg))
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.AdminUserList(st, logg))
				r.Post("/", controllers.AdminUserCreate(st, logg))
				r.Patch("/{userId}", controllers.AdminUserUpdate(st, logg))
				r.Delete("/{userId}", controllers.AdminUserDelete(st, logg))
			})

			r.Get("/analytics", controllers.AdminAnalytics(st, logg))
			r.Get("/notifications", controllers.AdminNotifications(st, logg))
			r.Get("/status", controllers.AdminStatus(st, logg))
		})
	})

	return r
}
