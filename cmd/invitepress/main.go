// Package main is the entry point for the InvitePress server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invitepress/internal/builder"
	"invitepress/internal/cache"
	"invitepress/internal/config"
	"invitepress/internal/database"
	"invitepress/internal/handlers"
	"invitepress/internal/payments"
	"invitepress/internal/renderer"
	"invitepress/internal/router"
	"invitepress/internal/session"
	"invitepress/internal/store"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"payments", cfg.PaymentsEnabled(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible cache + session store).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Initialize session store backed by Valkey.
	// In non-development environments, mark session cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	templateStore := store.NewTemplateStore(db)
	invitationStore := store.NewInvitationStore(db)
	rsvpStore := store.NewRSVPStore(db)
	paymentStore := store.NewPaymentStore(db)

	// Initialize the L2 page cache (full-page HTML in Valkey).
	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)

	// Block renderer and live builder sessions.
	rend := renderer.New()
	builderSessions := builder.NewSessions()

	// Evict idle builder sessions periodically.
	sweepDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(15 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := builderSessions.Sweep(); n > 0 {
					slog.Info("builder sessions swept", "evicted", n)
				}
			case <-sweepDone:
				return
			}
		}
	}()
	defer close(sweepDone)

	// Stripe client (disabled when no key is configured).
	stripeClient := payments.New(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	// Create handler groups with their dependencies.
	h := router.Handlers{
		Auth:        handlers.NewAuth(sessionStore, userStore),
		Public:      handlers.NewPublic(invitationStore, templateStore, rsvpStore, rend, pageCache, cfg.BaseURL),
		Catalog:     handlers.NewCatalog(templateStore, categoryStore),
		Invitations: handlers.NewInvitations(invitationStore, templateStore, rsvpStore, pageCache),
		Builder:     handlers.NewBuilder(builderSessions, invitationStore, templateStore, rend, pageCache),
		Admin:       handlers.NewAdmin(templateStore, categoryStore, userStore, paymentStore, pageCache),
		Payments:    handlers.NewPayments(stripeClient, invitationStore, templateStore, paymentStore, pageCache, cfg.BaseURL),
	}

	// Set up the Chi router with all middleware and routes.
	r, limiter := router.New(sessionStore, h)
	defer limiter.Stop()

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
