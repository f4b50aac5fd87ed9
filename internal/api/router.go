package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "kompi/internal/api/context"
	"kompi/internal/api/handlers"
	"kompi/internal/api/middleware"
	"kompi/internal/pkg/errors"
)

type Dependencies struct {
	KRCodeHandler   *handlers.KRCodeHandler
	RedirectHandler *handlers.RedirectHandler
	HealthHandler   *handlers.HealthHandler
	MetricsHandler  *handlers.MetricsHandler
	ArtifactLimiter *middleware.RateLimiter
	RedirectLimiter *middleware.RateLimiter
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errors.WriteNotFound(w)
	})

	artifactLimit := middleware.RateLimit(deps.ArtifactLimiter, "artifact")
	redirectLimit := middleware.RateLimit(deps.RedirectLimiter, "redirect")

	// Scan redirect
	router.GET("/r/:code", chain(deps.RedirectHandler.Handle, redirectLimit))

	// KR Code exports
	router.GET("/api/kr-codes/:id/png", chain(deps.KRCodeHandler.PNG, artifactLimit))
	router.GET("/api/kr-codes/:id/svg", chain(deps.KRCodeHandler.SVG, artifactLimit))
	router.GET("/api/kr-codes/:id/thumb.png", chain(deps.KRCodeHandler.Thumbnail, artifactLimit))
	router.GET("/api/kr-codes/:id/style", chain(deps.KRCodeHandler.Style, artifactLimit))

	// Operations
	router.GET("/health", wrap(deps.HealthHandler.Check))
	router.GET("/metrics", wrap(deps.MetricsHandler.Export))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
