package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	analytichttp "github.com/debtwatch/debtwatch/internal/analytics/http"
	"github.com/debtwatch/debtwatch/internal/observability"
	"github.com/debtwatch/debtwatch/internal/receivables"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	ReceivablesHandler *receivables.Handler
	AnalyticsHandler   *analytichttp.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with DebtWatch defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.ReceivablesHandler != nil {
		r.Route("/api", func(r chi.Router) {
			params.ReceivablesHandler.MountRoutes(r)
		})
	}
	if params.AnalyticsHandler != nil {
		r.Route("/api/analytics", func(r chi.Router) {
			params.AnalyticsHandler.MountRoutes(r)
		})
	}

	return r
}
