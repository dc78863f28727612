// Package main is the entry point for the Tripbook API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for goose
	"github.com/pressly/goose/v3"

	"github.com/pkordes/tripbook/internal/config"
	"github.com/pkordes/tripbook/internal/handler"
	"github.com/pkordes/tripbook/internal/middleware"
	"github.com/pkordes/tripbook/internal/repo"
	"github.com/pkordes/tripbook/internal/service"
	"github.com/pkordes/tripbook/internal/storage"
	"github.com/pkordes/tripbook/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog is the stdlib structured logger. JSON handler writes
	// machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// Migrations run through database/sql because goose needs it; the
	// application itself talks to Postgres through pgxpool.
	if err := runMigrations(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Blob store -------------------------------------------------------
	var blobs storage.BlobStore
	if cfg.S3Bucket != "" {
		blobs, err = storage.NewS3Store(context.Background(), cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			slog.Error("failed to create S3 store", "error", err)
			os.Exit(1)
		}
		slog.Info("attachments stored in S3", "bucket", cfg.S3Bucket)
	} else {
		blobs, err = storage.NewFSStore(cfg.UploadDir)
		if err != nil {
			slog.Error("failed to create upload directory", "error", err)
			os.Exit(1)
		}
		slog.Info("attachments stored on local disk", "dir", cfg.UploadDir)
	}

	// --- Repos and services ----------------------------------------------
	trips := repo.NewTripRepo(pool)
	shares := repo.NewShareRepo(pool)
	days := repo.NewDayRepo(pool)
	items := repo.NewItemRepo(pool)
	attachments := repo.NewAttachmentRepo(pool)
	users := repo.NewUserRepo(pool)
	atomic := repo.NewAtomic(pool)

	access := service.NewAccessService(trips, shares)
	srv := handler.NewServer(
		service.NewTripService(trips, access),
		service.NewActiveTripService(trips, access),
		service.NewShareService(shares, users, access),
		service.NewDayService(days, access),
		service.NewItemService(days, items, access, atomic),
		service.NewAttachmentService(days, attachments, blobs, access, atomic),
		service.NewExportService(days, attachments, access),
	)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))

	r.Get("/healthz", handler.GetHealth)
	r.Get("/openapi.yaml", handler.GetOpenAPI)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthHandler(cfg.JWTSecret))
		r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxUploadBytes))
		srv.Routes(r)
	})

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// runMigrations applies all pending goose migrations from the embedded FS.
func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	if _, err := provider.Up(context.Background()); err != nil {
		return err
	}
	return nil
}
