package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/BerylCAtieno/document-analytics-api/internal/config"
	"github.com/BerylCAtieno/document-analytics-api/internal/handlers"
	"github.com/BerylCAtieno/document-analytics-api/internal/metrics"
	"github.com/BerylCAtieno/document-analytics-api/internal/middleware"
	"github.com/BerylCAtieno/document-analytics-api/internal/services"
	"github.com/BerylCAtieno/document-analytics-api/internal/utils"
)

func NewRouter(cfg *config.Config, analysisService services.AnalysisService, m *metrics.Metrics, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics(m))

	analysisHandler := handlers.NewAnalysisHandler(analysisService, cfg.MaxFileSize, logger)

	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	// Routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", analysisHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/formats", analysisHandler.Formats).Methods(http.MethodGet)


	limit := middleware.RateLimit(cfg.APIRateLimit, cfg.APIRateBurst)
	api.Handle("/analyze", limit(http.HandlerFunc(analysisHandler.Analyze))).Methods(http.MethodPost, http.MethodOptions)

	return r
}
