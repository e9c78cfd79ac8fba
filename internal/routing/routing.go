package routing

import (
	"net/http"

	"vigil/internal/handlers"
	"vigil/internal/middleware"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Config holds the configuration needed for setting up routes
type Config struct {
	Handlers  *handlers.Handler
	Logger    zerolog.Logger
	RateLimit *middleware.RateLimitConfig
}

// SetupRouter creates and configures the HTTP router with all routes and middleware
func SetupRouter(cfg Config) http.Handler {
	h := cfg.Handlers
	mux := http.NewServeMux()

	// Report submission is open to any authenticated user.
	mux.HandleFunc("POST /moderation/reports", h.HandleCreateReport)

	// Everything below requires the admin or moderator role; the
	// handlers enforce it.
	mux.HandleFunc("GET /moderation/reports", h.HandleListReports)
	mux.HandleFunc("GET /moderation/reports/{id}", h.HandleGetReport)
	mux.HandleFunc("PATCH /moderation/reports/{id}/status", h.HandleUpdateReportStatus)

	mux.HandleFunc("POST /moderation/users/{id}/ban", h.HandleBanUser)
	mux.HandleFunc("POST /moderation/users/{id}/unban", h.HandleUnbanUser)
	mux.HandleFunc("GET /moderation/users/{id}/history", h.HandleUserHistory)

	mux.HandleFunc("POST /moderation/content/remove", h.HandleRemoveContent)

	mux.HandleFunc("GET /moderation/photos/pending", h.HandlePendingPhotos)
	mux.HandleFunc("POST /moderation/photos/moderate", h.HandleModeratePhoto)

	mux.HandleFunc("GET /moderation/statistics", h.HandleStatistics)

	// Operational endpoints, unauthenticated.
	mux.HandleFunc("GET /healthz", h.HandleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Apply middleware in order (outermost first, innermost last)
	var handler http.Handler = mux

	// 1. Limit request body size (innermost - runs first on request)
	handler = middleware.LimitBodyMiddleware(handler)

	// 2. Extract the gateway identity headers into the context
	handler = middleware.IdentityMiddleware(handler)

	// 3. Apply rate limiting
	rateLimit := cfg.RateLimit
	if rateLimit == nil {
		rateLimit = middleware.NewDefaultRateLimitConfig()
	}
	handler = middleware.RateLimitMiddleware(rateLimit)(handler)

	// 4. Apply security headers
	handler = middleware.SecurityHeadersMiddleware(handler)

	// 5. Server-side trace spans; a no-op without a tracer provider
	handler = otelhttp.NewHandler(handler, "vigil")

	// 6. Apply logging middleware (outermost - wraps everything)
	handler = middleware.LoggingMiddleware(cfg.Logger)(handler)

	return handler
}
