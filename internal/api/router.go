// Package api exposes the admin HTTP surface: a read-only snapshot of
// live CC records and an authenticated cancel operation, for operator
// tooling and the pricc CLI.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tormodfh/pricc/internal/api/auth"
	"github.com/tormodfh/pricc/internal/api/handlers"
	apiMiddleware "github.com/tormodfh/pricc/internal/api/middleware"
	"github.com/tormodfh/pricc/internal/cc"
	"github.com/tormodfh/pricc/internal/logger"
)

// NewRouter builds the admin API's chi router.
//
// Routes:
//   - GET  /healthz                     liveness probe, unauthenticated
//   - GET  /api/v1/records               pool snapshot, filterable by dialect/agent
//   - POST /api/v1/records/{id}/cancel   operator cancel, requires a bearer token
func NewRouter(controller *cc.Controller, jwtService *auth.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	health := handlers.NewHealthHandler(controller)
	r.Get("/healthz", health.Liveness)

	status := handlers.NewStatusHandler(controller)
	cancel := handlers.NewCancelHandler(controller)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/records", status.List)

		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.JWTAuth(jwtService))
			r.Post("/records/{id}/cancel", cancel.Cancel)
		})
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.Info("admin api request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		)
	})
}
