package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/prometheus"
	"github.com/praxislegal/lexia/internal/interfaces/http/handlers"
	"github.com/praxislegal/lexia/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies for the
// complete route tree.
type RouterConfig struct {
	StrategyHandler *handlers.StrategyHandler
	DraftHandler    *handlers.DraftHandler
	CaseHandler     *handlers.CaseHandler
	HealthHandler   *handlers.HealthHandler

	AuthMiddleware      *middleware.AuthMiddleware
	LoggingMiddleware   *middleware.LoggingMiddleware
	MetricsMiddleware   *middleware.MetricsMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware

	Metrics *prometheus.Metrics
}

// NewRouter wires global middleware, public probes and the authenticated
// API v1 groups into one http.Handler.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.MetricsMiddleware != nil {
		r.Use(cfg.MetricsMiddleware.Handler)
	}
	if cfg.LoggingMiddleware != nil {
		r.Use(cfg.LoggingMiddleware.Handler)
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.AuthMiddleware != nil {
			api.Use(cfg.AuthMiddleware.Handler)
		}

		if cfg.CaseHandler != nil {
			api.Route("/cases", func(cr chi.Router) {
				cr.Get("/", cfg.CaseHandler.List)
				cr.Post("/", cfg.CaseHandler.Create)
				cr.Route("/{caseID}", func(item chi.Router) {
					item.Get("/", cfg.CaseHandler.Get)
					item.Put("/", cfg.CaseHandler.Update)
				})
			})
		}

		api.Route("/lexia", func(lr chi.Router) {
			if cfg.StrategyHandler != nil {
				lr.Route("/estratega", func(er chi.Router) {
					analyze := http.HandlerFunc(cfg.StrategyHandler.Analyze)
					if cfg.RateLimitMiddleware != nil {
						er.Method("POST", "/analyze", cfg.RateLimitMiddleware.LimitAnalysis(analyze))
					} else {
						er.Post("/analyze", analyze)
					}
					er.Get("/analyses", cfg.StrategyHandler.ListAnalyses)
					er.Get("/analyses/{analysisID}", cfg.StrategyHandler.GetAnalysis)
				})
			}

			if cfg.DraftHandler != nil {
				draftHandler := http.HandlerFunc(cfg.DraftHandler.Draft)
				if cfg.RateLimitMiddleware != nil {
					lr.Method("POST", "/draft", cfg.RateLimitMiddleware.LimitDraft(draftHandler))
				} else {
					lr.Post("/draft", draftHandler)
				}
			}
		})
	})

	return r
}
