package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerylCAtieno/document-analytics-api/internal/analyzer"
	"github.com/BerylCAtieno/document-analytics-api/internal/config"
	"github.com/BerylCAtieno/document-analytics-api/internal/metrics"
	"github.com/BerylCAtieno/document-analytics-api/internal/router"
	"github.com/BerylCAtieno/document-analytics-api/internal/services"
	"github.com/BerylCAtieno/document-analytics-api/internal/storage"
	"github.com/BerylCAtieno/document-analytics-api/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	// Initialize upload staging
	store, err := storage.New(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", "backend", cfg.StorageBackend, "error", err)
	}

	m := metrics.New()

	var nlp analyzer.Analyzer
	if cfg.NLP.Enabled {
		nlp = analyzer.NewNLPAnalyzer(cfg.NLP, logger, analyzer.WithObserver(m))
		logger.Info("NLP analysis enabled", "url", cfg.NLP.ServiceURL, "timeout", cfg.NLP.Timeout, "required", cfg.NLP.Required)
	} else {
		logger.Warn("NLP analysis disabled; responses will not include advanced features")
	}

	// Initialize analysis service
	analysisService, err := services.NewService(cfg, store, nlp, m, logger)
	if err != nil {
		logger.Fatal("Failed to initialize analysis service", "error", err)
	}

	// Setup HTTP router
	handler := router.NewRouter(cfg, analysisService, m, logger)

	// Create HTTP server. The write timeout leaves room for a slow NLP call.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      cfg.NLP.Timeout + 60*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
