package rest

import (
	"net/http"
	"time"

	"list-api/application/ports"
	"list-api/interfaces/http/rest/handlers"
	"list-api/interfaces/http/rest/middleware"
	"list-api/pkg/common"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	emitter      handlers.ItemEventEmitter
	items        ports.SavedItemLoader
	metrics      http.Handler
	fetchTimeout time.Duration
	logger       *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	emitter handlers.ItemEventEmitter,
	items ports.SavedItemLoader,
	metrics http.Handler,
	fetchTimeout time.Duration,
	logger *zap.Logger,
) *Router {
	return &Router{
		emitter:      emitter,
		items:        items,
		metrics:      metrics,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger, "/health", "/metrics"))

	router.Get("/health", rt.healthCheck)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics)
	}

	router.Route("/internal", func(r chi.Router) {
		itemEvents := handlers.NewItemEventHandler(rt.emitter, rt.items, rt.fetchTimeout, rt.logger)
		r.Post("/item-events", itemEvents.EmitItemEvent)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
