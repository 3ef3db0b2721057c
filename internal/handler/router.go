package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/agentscaffold/dashboard/internal/handler/dashboard"
	"github.com/agentscaffold/dashboard/internal/handler/live"
	messagehandler "github.com/agentscaffold/dashboard/internal/handler/message"
	"github.com/agentscaffold/dashboard/internal/service/hub"
	"github.com/agentscaffold/dashboard/internal/service/ingest"
	"github.com/agentscaffold/dashboard/internal/service/query"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(gateway *ingest.Gateway, querySvc *query.Service, hubSvc *hub.Hub, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))

	messageHandler := messagehandler.New(gateway)
	dashboardHandler := dashboard.New(querySvc)
	liveHandler := live.New(hubSvc, logger)

	r.Route("/api", func(api chi.Router) {
		messageHandler.RegisterRoutes(api)
		dashboardHandler.RegisterRoutes(api)
	})

	liveHandler.RegisterRoutes(r)

	r.Get("/health", dashboardHandler.HandleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
