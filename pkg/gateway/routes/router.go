package routes

import (
	"net/http"

	"github.com/dc311rn/api/pkg/gateway/middleware"
	"github.com/dc311rn/api/pkg/observability/metrics"
	"github.com/gorilla/mux"
)

type RouterConfig struct {
	Finder             Finder
	Errors             ErrorWriter
	ServiceRequestsURL string
	Metrics            *metrics.Registry
	CORSAllowedOrigin  string
}

// NewRouter assembles the public API with its middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	router := mux.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logging(cfg.Metrics))
	router.Use(middleware.Recovery(cfg.Errors.Write))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}).Methods(http.MethodGet)
	if cfg.Metrics != nil {
		router.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	NewServiceRequestHandler(cfg.Finder, cfg.Errors, cfg.ServiceRequestsURL).Register(router)
	router.NotFoundHandler = middleware.RequestID(middleware.Logging(cfg.Metrics)(http.HandlerFunc(cfg.Errors.NoRoute)))

	origin := cfg.CORSAllowedOrigin
	if origin == "" {
		origin = "*"
	}
	return middleware.CORS(origin)(router)
}
