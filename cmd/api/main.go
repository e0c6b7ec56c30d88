package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/styleframe/transcoder/internal/api/handler"
	"github.com/styleframe/transcoder/internal/api/middleware"
	"github.com/styleframe/transcoder/internal/config"
	"github.com/styleframe/transcoder/internal/domain/repository"
	"github.com/styleframe/transcoder/internal/infrastructure/storage"
	"github.com/styleframe/transcoder/internal/probe"
	"github.com/styleframe/transcoder/internal/transcoder"
	"github.com/styleframe/transcoder/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Upload.TempDir, 0o755); err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}

	store, err := newStore(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize artifact store: %w", err)
	}

	svc := usecase.NewVideoService(
		probe.NewFFprobe(probe.FFprobeConfig{BinaryPath: cfg.Tools.FFprobePath}),
		transcoder.NewFFmpeg(transcoder.FFmpegConfig{BinaryPath: cfg.Tools.FFmpegPath}),
		store,
		usecase.VideoServiceConfig{
			TempDir:        cfg.Upload.TempDir,
			MaxUploadBytes: cfg.Upload.MaxBytes,
		},
	)

	r := setupRouter(logger, cfg, handler.NewVideoHandler(svc))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			slog.Int("port", cfg.Server.Port),
			slog.String("store_backend", cfg.Store.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// newStore constructs the artifact store selected by configuration.
func newStore(ctx context.Context, cfg *config.Config) (repository.ArtifactStore, error) {
	switch cfg.Store.Backend {
	case config.BackendS3:
		return storage.NewMinIO(ctx, storage.MinIOConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
	default:
		return storage.NewVolume(cfg.Store.VolumeDir)
	}
}

func setupRouter(logger *slog.Logger, cfg *config.Config, videoHandler *handler.VideoHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.Origins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/health", handler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/analyze", videoHandler.Analyze)
	r.Get("/video/{id}", videoHandler.Fetch)

	return r
}
