package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/odyssey-assets/internal/accounting/journals"
	"github.com/odyssey-erp/odyssey-assets/internal/assets"
	"github.com/odyssey-erp/odyssey-assets/internal/observability"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	AssetsHandler   *assets.Handler
	JournalsHandler *journals.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router for the asset service.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		if params.AssetsHandler != nil {
			r.Route("/assets", params.AssetsHandler.MountRoutes)
			r.Route("/admin", params.AssetsHandler.MountAdminRoutes)
		}
		if params.JournalsHandler != nil {
			r.Route("/journals", params.JournalsHandler.MountRoutes)
		}
	})

	return r
}
