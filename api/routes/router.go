package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aurelhart/storefront-backend/api/controllers"
	cartcontrollers "github.com/aurelhart/storefront-backend/api/controllers/cart"
	"github.com/aurelhart/storefront-backend/api/middleware"
	checkoutsvc "github.com/aurelhart/storefront-backend/internal/checkout"
	"github.com/aurelhart/storefront-backend/pkg/config"
	"github.com/aurelhart/storefront-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	cache controllers.Pinger,
	gatherer prometheus.Gatherer,
	cartService cartcontrollers.Service,
	products cartcontrollers.ProductFetcher,
	checkoutService checkoutsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, cache))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		if !cfg.App.IsProd() {
			r.Post("/session", controllers.SessionIssue(cfg, logg))
		}
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/ping", controllers.SessionPing())

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.Fetch(cartService, logg))
			r.Delete("/", cartcontrollers.Clear(cartService, logg))
			r.Post("/items", cartcontrollers.AddItem(cartService, products, logg))
			r.Patch("/items/{itemId}", cartcontrollers.UpdateItem(cartService, logg))
			r.Delete("/items/{itemId}", cartcontrollers.RemoveItem(cartService, logg))
		})

		r.Post("/checkout", controllers.Checkout(checkoutService, logg))
	})

	return r
}
