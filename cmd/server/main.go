package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"quotebuilder/internal/config"
	"quotebuilder/internal/drafts"
	"quotebuilder/internal/editor"
	"quotebuilder/internal/handler"
	"quotebuilder/internal/metrics"
	"quotebuilder/internal/middleware"
	"quotebuilder/internal/preview"
	"quotebuilder/internal/service"
	"quotebuilder/internal/storage"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, closeLog, err := config.NewLogger(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"remote_store", cfg.RemoteEnabled(),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg, logger, m)
	if err != nil {
		log.Fatalf("Failed to open document storage: %v", err)
	}
	defer store.Close()

	docService := service.NewDocumentService(store, logger)

	renderer, err := preview.NewRenderer(preview.Issuer{
		Name:      cfg.IssuerName,
		Initials:  cfg.IssuerInitials,
		Signatory: cfg.IssuerSignatory,
		Tagline:   cfg.IssuerTagline,
	}, nil)
	if err != nil {
		log.Fatalf("Failed to load preview templates: %v", err)
	}

	sessions := editor.NewRegistry(func(id string) (*editor.Session, error) {
		return editor.NewSession(id, renderer, docService, logger)
	}, logger, m)
	go sessions.StartCleanup(ctx, cfg.SessionCleanupInterval, cfg.SessionIdleTimeout)

	browser := drafts.NewBrowser(docService, renderer.Catalog(), cfg.SearchDebounce, logger)
	defer browser.Close()

	logger.Info("services initialized", "storage", store.Mode())

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.HealthCheck(store))
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	handler.NewSessionHandler(sessions, browser, renderer, logger).Register(mux)
	handler.NewDraftHandler(docService, browser, renderer, logger).Register(mux)

	// Order: CORS → RequestID → Recovery → Routes
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	root := corsHandler.Handler(middleware.Chain(mux,
		middleware.RequestID(logger),
		middleware.Recovery(logger),
	))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		return
	}
	logger.Info("server stopped")
}
