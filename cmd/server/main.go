// Tutor AI - backend server for the tutoring assistant.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/nkarpova/tutor-ai/internal/api"
	"github.com/nkarpova/tutor-ai/internal/catalog"
	"github.com/nkarpova/tutor-ai/internal/cohere"
	"github.com/nkarpova/tutor-ai/internal/config"
	"github.com/nkarpova/tutor-ai/internal/middleware"
	"github.com/nkarpova/tutor-ai/internal/store"
	"github.com/nkarpova/tutor-ai/internal/telemetry"
	"github.com/nkarpova/tutor-ai/internal/tutor"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "ai_enabled", cfg.AIEnabled(), "dev", cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize telemetry.
	tracer, metrics, telemetryShutdown, err := telemetry.Init(ctx, cfg.TelemetryDir)
	if err != nil {
		slog.Error("Failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer telemetryShutdown()

	// Initialize stores and catalog.
	users := store.NewUserStore()
	sessions := store.NewSessionStore()
	contentCatalog := catalog.New()

	// Initialize gateways. A missing API key degrades to fallback-only
	// responses; it never prevents startup.
	var classifier tutor.Classifier
	var generator tutor.Generator
	if cfg.AIEnabled() {
		client := cohere.NewClient(cohere.Config{
			APIKey:         cfg.Cohere.APIKey,
			BaseURL:        cfg.Cohere.BaseURL,
			ClassifyModel:  cfg.Cohere.ClassifyModel,
			GenerateModel:  cfg.Cohere.GenerateModel,
			RequestTimeout: cfg.Cohere.RequestTimeout,
		}, logger)
		classifier = tutor.NewCohereClassifier(client)
		generator = tutor.NewCohereGenerator(client)
		slog.Info("Cohere gateways initialized", "timeout", cfg.Cohere.RequestTimeout)
	} else {
		slog.Info("AI features disabled (COHERE_API_KEY not set), responses are fallback-only")
	}

	// Initialize transcript archive.
	var archive tutor.Archiver
	if cfg.Transcript.Enabled {
		sqliteArchive, err := tutor.NewSQLiteArchive(tutor.ArchiveConfig{
			Path:      cfg.Transcript.Path,
			QueueSize: cfg.Transcript.QueueSize,
		}, logger)
		if err != nil {
			slog.Error("Failed to initialize transcript archive", "error", err)
			os.Exit(1)
		}
		defer func() {
			if closeErr := sqliteArchive.Close(); closeErr != nil {
				slog.Error("Failed to close transcript archive", "error", closeErr)
			}
		}()
		archive = sqliteArchive
		slog.Info("Transcript archive initialized", "path", cfg.Transcript.Path)
	}

	// Initialize the message pipeline and handlers.
	pipeline := tutor.NewService(tutor.ServiceConfig{
		Users:      users,
		Sessions:   sessions,
		Classifier: classifier,
		Generator:  generator,
		Archive:    archive,
		Tracer:     tracer,
		Metrics:    metrics,
	})
	handler := api.NewHandler(users, sessions, contentCatalog, pipeline)
	wsHandler := api.NewChatSocketHandler(pipeline)

	// Setup router.
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS([]string{"*"}))

	handler.RegisterRoutes(r)
	r.Get("/ws/chat", wsHandler.ServeHTTP)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
