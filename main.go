package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/koverin/shopstore/internal/catalog"
	"github.com/koverin/shopstore/internal/config"
	"github.com/koverin/shopstore/internal/domain"
	"github.com/koverin/shopstore/internal/handler"
	"github.com/koverin/shopstore/internal/identity"
	"github.com/koverin/shopstore/internal/repository/sqlite"
	"github.com/koverin/shopstore/internal/service"
	"github.com/koverin/shopstore/internal/session"
)

func main() {
	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	provider := identity.NewLocalProvider(db.Accounts(), cfg.BcryptCost)
	defer provider.Close()

	sessions := session.NewStore(provider)
	sessions.Initialize()
	defer sessions.Close()
	defer sessions.Subscribe(func(s domain.Session) {
		slog.Info("session changed", "phase", s.Phase)
	})()

	repo := catalog.NewRepository()
	productService := service.NewProductService(repo, db.Files())
	authService := service.NewAuthService(db.Accounts(), cfg.JWTSecret)

	// Login attempts per client: 1 every 2s sustained, bursts of 5.
	loginLimiter := service.NewTokenBucket(0.5, 5)
	defer loginLimiter.Stop()

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService,
		handler.NewAuthHandler(authService, sessions, provider, loginLimiter, cfg.CookieSecure),
		handler.NewProductHandler(productService),
		handler.NewImageHandler(productService),
		handler.NewWatchHandler(repo),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.SecurityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
