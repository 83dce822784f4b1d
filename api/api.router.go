// FilePath: api/api.router.go
package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sparxlab/sparx-hub/api/middleware"
	"github.com/sparxlab/sparx-hub/api/resources"
	"github.com/sparxlab/sparx-hub/internal/hubservice"
)

type Router struct {
	router    *mux.Router
	cors      func(http.Handler) http.Handler
	auth      *middleware.TokenMiddleware
	resources *resources.Resources
}

// NewRouter wires all routes. webhookToken guards the ingestion webhook; an
// empty token leaves it open (dev setups, bridge on a trusted network).
func NewRouter(svc *hubservice.HubService, webhookToken string, health http.HandlerFunc) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		auth:      middleware.NewTokenMiddleware(webhookToken),
		resources: resources.NewResources(svc),
	}

	// Permissive CORS; also answers the webhook's OPTIONS preflight.
	r.cors = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "X-Client-Info", "Apikey"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
	)

	r.setupRoutes(health)
	return r
}

func (r *Router) setupRoutes(health http.HandlerFunc) {
	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/health", health).Methods(http.MethodGet)

	// Ingestion webhook (token-guarded when a token is configured)
	webhook := api.PathPrefix("/webhook").Subrouter()
	webhook.Use(r.auth.Authenticate)
	webhook.HandleFunc("/readings", r.resources.Webhook.IngestReading).Methods(http.MethodPost)

	// Devices
	devices := api.PathPrefix("/devices").Subrouter()
	devices.HandleFunc("", r.resources.Devices.ListDevices).Methods(http.MethodGet)
	devices.HandleFunc("", r.resources.Devices.CreateDevice).Methods(http.MethodPost)
	devices.HandleFunc("/{id}", r.resources.Devices.GetDevice).Methods(http.MethodGet)
	devices.HandleFunc("/{id}", r.resources.Devices.DeactivateDevice).Methods(http.MethodDelete)
	devices.HandleFunc("/{id}/status", r.resources.Devices.GetDeviceStatus).Methods(http.MethodGet)
	devices.HandleFunc("/{id}/readings", r.resources.Devices.GetDeviceReadings).Methods(http.MethodGet)

	// Alerts
	alerts := api.PathPrefix("/alerts").Subrouter()
	alerts.HandleFunc("", r.resources.Alerts.ListAlerts).Methods(http.MethodGet)
	alerts.HandleFunc("/stats", r.resources.Alerts.GetAlertStats).Methods(http.MethodGet)
	alerts.HandleFunc("/acknowledge", r.resources.Alerts.AcknowledgeAlerts).Methods(http.MethodPost)
	alerts.HandleFunc("/{id}/acknowledge", r.resources.Alerts.AcknowledgeAlert).Methods(http.MethodPost)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.cors(r.router).ServeHTTP(w, req)
}
