package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dc311rn/api/pkg/common/config"
	"github.com/dc311rn/api/pkg/common/logger"
	"github.com/dc311rn/api/pkg/gateway/httpclient"
	"github.com/dc311rn/api/pkg/gateway/routes"
	"github.com/dc311rn/api/pkg/observability/metrics"
	"github.com/dc311rn/api/pkg/servicerequest"
)

func main() {
	logger.Init()
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load configuration")
	}

	reg := metrics.NewRegistry()
	client := httpclient.NewClient(httpclient.New(cfg.UpstreamTimeout), reg)

	resolver := servicerequest.NewResolver(cfg.ServiceRequestsBaseURL)
	normalizer := servicerequest.NewNormalizer(resolver, cfg.PublicBaseURL, cfg.LocationVerifierURL)
	service := servicerequest.NewService(client, resolver, normalizer, cfg.ServicesCatalogURL,
		servicerequest.WithBackfillObserver(reg))

	handler := routes.NewRouter(routes.RouterConfig{
		Finder:             service,
		Errors:             routes.ErrorWriter{SourceCodeURL: cfg.SourceCodeURL},
		ServiceRequestsURL: normalizer.ServiceRequestsURL(),
		Metrics:            reg,
		CORSAllowedOrigin:  cfg.CORSAllowedOrigin,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host":     cfg.ServerHost,
			"port":     cfg.ServerPort,
			"upstream": cfg.ServiceRequestsBaseURL,
		}).Info("Service requests API started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down service requests API...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Service requests API stopped")
}
