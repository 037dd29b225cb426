package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"

	"github.com/dvloznov/sales-dashboard/internal/api/handlers"
	"github.com/dvloznov/sales-dashboard/internal/api/middleware"
	"github.com/dvloznov/sales-dashboard/internal/config"
	"github.com/dvloznov/sales-dashboard/internal/logger"
	"github.com/dvloznov/sales-dashboard/internal/metrics"
	"github.com/dvloznov/sales-dashboard/internal/query"
	"github.com/dvloznov/sales-dashboard/internal/store/sqlite"
)

// Set by LDFLAGS
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// .env is optional; deployments set SALES_* variables directly.
	_ = godotenv.Load()

	// Parse command-line flags
	var (
		port      = flag.String("port", "", "HTTP server port (overrides SALES_SERVER_PORT)")
		storePath = flag.String("store", "", "SQLite store path (overrides SALES_STORE_PATH)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New().Fatal().Err(err).Msg("Failed to load configuration")
	}

	if *port != "" {
		cfg.Server.Port = *port
	}
	if *storePath != "" {
		cfg.Store.Path = *storePath
	}

	// Initialize logger
	log := logger.NewWithLevel(logger.ParseLevel(cfg.Logging.Level))

	// Open the sales store
	store, err := sqlite.Open(cfg.Store.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Store.Path).Msg("Failed to open sales store")
	}
	defer store.Close()

	svc := query.NewService(store, log)

	metrics.SetBuildInfo(version, commit, date)

	// Create router
	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(metrics.Middleware)

	r.Mount("/api", handlers.Routes(svc, log))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("store", cfg.Store.Path).
			Str("version", version).
			Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
