// Package api is the HTTP query surface: one resolve endpoint, health, and
// a runtime logging control.
package api

import (
	"log/slog"
	"net/http"

	"github.com/sydlexius/tonearm/internal/api/middleware"
	"github.com/sydlexius/tonearm/internal/logging"
	"github.com/sydlexius/tonearm/internal/resolve"
)

// RouterDeps bundles all dependencies needed by the HTTP router.
type RouterDeps struct {
	Resolver   *resolve.Resolver
	LogManager *logging.Manager
	Logger     *slog.Logger
	// QueryRPS and QueryBurst bound per-client resolve traffic.
	QueryRPS   float64
	QueryBurst int
}

// Router sets up all HTTP routes for the application.
type Router struct {
	resolver   *resolve.Resolver
	logManager *logging.Manager
	logger     *slog.Logger
	limiter    *middleware.QueryRateLimiter
}

// NewRouter creates a new Router with all routes configured.
func NewRouter(deps RouterDeps) *Router {
	rps := deps.QueryRPS
	if rps == 0 {
		rps = 5
	}
	burst := deps.QueryBurst
	if burst == 0 {
		burst = 10
	}
	return &Router{
		resolver:   deps.Resolver,
		logManager: deps.LogManager,
		logger:     deps.Logger,
		limiter:    middleware.NewQueryRateLimiter(rps, burst),
	}
}

// Handler returns the fully configured HTTP handler with middleware applied.
func (r *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", r.handleHealth)
	mux.HandleFunc("GET /api/v1/health", r.handleHealth)
	mux.Handle("GET /api/v1/resolve", r.limiter.Middleware(http.HandlerFunc(r.handleResolve)))
	mux.HandleFunc("GET /api/v1/logging", r.handleGetLogging)
	mux.HandleFunc("PUT /api/v1/logging", r.handlePutLogging)

	return middleware.Logging(r.logger)(mux)
}
