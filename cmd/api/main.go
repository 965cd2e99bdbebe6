// Package main is the entry point for the medication reminder API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
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
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/avogt/rxminder/internal/config"
	"github.com/avogt/rxminder/internal/handler"
	"github.com/avogt/rxminder/internal/middleware"
	"github.com/avogt/rxminder/internal/notify"
	"github.com/avogt/rxminder/internal/repo"
	"github.com/avogt/rxminder/internal/scheduler"
	"github.com/avogt/rxminder/internal/service"
	"github.com/avogt/rxminder/migrations"
)

// maxBodySize caps request bodies at 1 MiB; no prescription payload comes
// close.
const maxBodySize = 1 << 20

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog JSON handler writes machine-readable output suitable for log
	// aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
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

	// Apply pending migrations before serving; goose needs database/sql.
	if err := migrate(cfg.DatabaseURL); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	// --- Services ---------------------------------------------------------
	hub := notify.NewHub()
	prescriptionRepo := repo.NewPrescriptionRepo(pool)
	termRepo := repo.NewTermRepo(pool)

	prescriptionSvc := service.NewPrescriptionService(prescriptionRepo, hub)
	termSvc := service.NewTermService(termRepo, hub)
	recomputeSvc := service.NewRecomputeService(prescriptionRepo, hub)
	activeSvc := service.NewActiveListService(prescriptionRepo, termRepo)
	exportSvc := service.NewExportService(prescriptionRepo, termRepo)

	// Seed the schedule-term lookup table on every open; a no-op when the
	// terms already exist.
	if err := termSvc.Seed(context.Background()); err != nil {
		slog.Error("term seeding failed", "error", err)
		os.Exit(1)
	}

	// The active-list projector rebuilds its snapshot on every store change.
	srvCtx, srvCancel := context.WithCancel(context.Background())
	defer srvCancel()
	activeSvc.Start(srvCtx, hub)

	// The daily scheduler recomputes derived flags once per interval, with an
	// immediate run at startup so the flags are fresh before the first read.
	daily := scheduler.NewDaily(recomputeSvc, cfg.RecomputeInterval, logger)
	daily.Start(srvCtx)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body size cap.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodySize))

	server := handler.NewServer(prescriptionSvc, termSvc, activeSvc, exportSvc, recomputeSvc)
	r.Mount("/", server.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")
	srvCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies all pending goose migrations from the embedded FS.
func migrate(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	results, err := provider.Up(context.Background())
	if err != nil {
		return err
	}
	for _, res := range results {
		slog.Info("migration applied", "source", res.Source.Path)
	}
	return nil
}
