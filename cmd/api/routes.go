package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/ghuser/mrpcapacity/docs/swagger"
	"github.com/ghuser/mrpcapacity/pkg/app"
	"github.com/ghuser/mrpcapacity/pkg/auth"
	"github.com/ghuser/mrpcapacity/pkg/config"
	"github.com/ghuser/mrpcapacity/pkg/httpx"
	"github.com/ghuser/mrpcapacity/pkg/logger"
	"github.com/ghuser/mrpcapacity/pkg/telemetry"
	inventoryApi "github.com/ghuser/mrpcapacity/services/inventory/application/api"
	manufacturingApi "github.com/ghuser/mrpcapacity/services/manufacturing/application/api"
)

// newHandler builds the router:
//
//	GET  /health, /metrics, /swagger/*
//	POST|DELETE /api/auth/session
//	/api/v1/products...           inventory
//	/api/v1/bill-of-materials...  manufacturing
//
// The /api/v1 routes require an operator session when cfg.AuthRequired.
func newHandler(a *app.Application, metrics http.Handler) http.Handler {
	cfg := a.Config
	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			RateLimitPerMinute: cfg.RateLimitPerMinute,
			RequestTimeout:     cfg.RequestTimeout,
		},
		logger.Middleware(a.Logger),
		logger.Recovery(a.Logger),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
	)

	r.Get("/health", httpx.HealthHandler(httpx.HealthChecks{
		"database":  a.DB,
		"redis":     a.Redis,
		"event_bus": a.EventBus,
	}))
	r.Get("/metrics", metrics.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth/session", func(r chi.Router) {
			auth.SessionRoutes(r, a.SessionStore, a.Logger)
		})
		r.Group(func(r chi.Router) {
			if cfg.AuthRequired {
				r.Use(auth.RequireAuth(a.SessionStore, a.Logger))
			}
			inventoryApi.ProductRoutes(r, a)
			manufacturingApi.BillOfMaterialsRoutes(r, a)
		})
	})
	return r
}
