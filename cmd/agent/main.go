package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	transferapp "github.com/tustockya/transfers/internal/application/transfer"
	"github.com/tustockya/transfers/internal/infrastructure/auth"
	"github.com/tustockya/transfers/internal/infrastructure/config"
	"github.com/tustockya/transfers/internal/infrastructure/logger"
	"github.com/tustockya/transfers/internal/infrastructure/poller"
	"github.com/tustockya/transfers/internal/infrastructure/telemetry"
	"github.com/tustockya/transfers/internal/infrastructure/workflow"
	"github.com/tustockya/transfers/internal/interfaces/http/handler"
	"github.com/tustockya/transfers/internal/interfaces/http/middleware"
	"github.com/tustockya/transfers/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Transfers Agent",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize OpenTelemetry tracing
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	// Token source for the workflow service
	tokens, err := auth.NewSource(cfg.Auth, log)
	if err != nil {
		log.Fatal("Failed to create token source", zap.Error(err))
	}

	// Workflow service client
	client, err := workflow.NewClient(&workflow.Config{
		BaseURL:        cfg.Workflow.BaseURL,
		TimeoutSeconds: cfg.Workflow.TimeoutSeconds,
	}, tokens)
	if err != nil {
		log.Fatal("Failed to create workflow client", zap.Error(err))
	}

	// Transfer engine over the workflow client
	engine := transferapp.NewEngine(client, log)

	// Background synchronizer
	syncer := poller.New(engine, log, poller.Config{
		Enabled:        cfg.Poll.Enabled,
		Interval:       cfg.Poll.Interval,
		RefreshTimeout: cfg.Poll.RefreshTimeout,
	})
	if err := syncer.Start(ctx); err != nil {
		log.Fatal("Failed to start poller", zap.Error(err))
	}

	// Set gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create gin engine without default middleware
	ginEngine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := ginEngine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	ginEngine.Use(logger.Recovery(log))
	ginEngine.Use(logger.GinMiddleware(log))
	ginEngine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	ginEngine.Use(middleware.SpanErrorMarker())
	ginEngine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health and metrics endpoints outside the API group
	ginEngine.GET("/healthz", healthHandler(syncer))
	ginEngine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register API routes
	r := router.NewRouter(ginEngine)
	r.Register(handler.NewTransferHandler(engine, syncer)).
		Register(handler.NewSystemHandler(syncer))
	r.Setup()

	// Simple ping at root API level for basic health checks
	ginEngine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        ginEngine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := syncer.Stop(shutdownCtx); err != nil {
		log.Warn("Poller did not stop cleanly", zap.Error(err))
	}

	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports process liveness and synchronizer state
func healthHandler(syncer *poller.Poller) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"poller": syncer.IsRunning(),
		})
	}
}
