package routes

import (
	"net/http"

	"github.com/zatekoja/Emergencybeddiscovery/internal/api/handlers"
	"github.com/zatekoja/Emergencybeddiscovery/internal/api/middleware"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	discoveryHandler *handlers.DiscoveryHandler
}

// NewRouter creates a new router
func NewRouter(discoveryHandler *handlers.DiscoveryHandler) *Router {
	r := &Router{
		mux:              http.NewServeMux(),
		discoveryHandler: discoveryHandler,
	}
	r.register()
	return r
}

func (r *Router) register() {
	r.mux.HandleFunc("GET /api/facilities/nearby", r.discoveryHandler.Nearby)
	r.mux.HandleFunc("GET /health", r.discoveryHandler.Health)
}

// Handler returns the fully wired HTTP handler
func (r *Router) Handler() http.Handler {
	return middleware.LoggingMiddleware(r.mux)
}
