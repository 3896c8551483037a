package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/domoslabs/underwriter/api/controllers"
	"github.com/domoslabs/underwriter/api/middleware"
	"github.com/domoslabs/underwriter/internal/audit"
	"github.com/domoslabs/underwriter/internal/dealstore"
	"github.com/domoslabs/underwriter/internal/runner"
	"github.com/domoslabs/underwriter/pkg/config"
	"github.com/domoslabs/underwriter/pkg/db"
	"github.com/domoslabs/underwriter/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger db.Pinger,
	index *dealstore.Index,
	auditLogger *audit.Logger,
	pipelineRunner *runner.Runner,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Logging(logg))
	r.Use(middleware.Recoverer(logg))

	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Get("/readyz", controllers.HealthReady(cfg, dbPinger))
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	deals := controllers.NewDeals(index, auditLogger, pipelineRunner, logg)
	r.Route("/v1", func(r chi.Router) {
		r.Route("/deals", func(r chi.Router) {
			r.Get("/", deals.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", deals.Get)
				r.Get("/journey", deals.Journey)
				r.Post("/advance", deals.Advance)
			})
		})
	})

	return r
}
