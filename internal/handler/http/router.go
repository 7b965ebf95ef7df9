package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ordercloud-api/searchproxy/internal/config"
	"github.com/ordercloud-api/searchproxy/internal/identity"
	ratelimit "github.com/ordercloud-api/searchproxy/internal/middleware"
	"github.com/ordercloud-api/searchproxy/internal/service"
	"github.com/ordercloud-api/searchproxy/pkg/health"
	pkgmiddleware "github.com/ordercloud-api/searchproxy/pkg/middleware"
)

// NewRouter creates a chi router with the proxy's middleware stack, health
// and observability endpoints, and the authenticated search route.
func NewRouter(
	cfg *config.Config,
	searchService *service.SearchService,
	provider identity.Provider,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack (applied in order).
	r.Use(pkgmiddleware.CORS(pkgmiddleware.CORSConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Correlation-ID"},
		ExposedHeaders: []string{"X-Correlation-ID"},
		MaxAge:         cfg.CORSMaxAge,
		Environment:    cfg.Environment,
	}))
	r.Use(ratelimit.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
	r.Use(pkgmiddleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(pkgmiddleware.RequestLogging(logger))
	r.Use(pkgmiddleware.PrometheusMetrics("searchproxy"))
	r.Use(pkgmiddleware.Tracing("searchproxy"))
	r.Use(pkgmiddleware.RequestLogger(logger))

	// Health check endpoints (no auth required).
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())

	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	pkgmiddleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	searchHandler := NewSearchHandler(searchService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(identity.Middleware(provider, logger))
		r.Post("/search", searchHandler.Search)
	})

	return r
}
