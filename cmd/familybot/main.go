package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kerhoff/FamilyBoT/internal/api"
	"github.com/Kerhoff/FamilyBoT/internal/config"
	"github.com/Kerhoff/FamilyBoT/internal/game"
	"github.com/Kerhoff/FamilyBoT/internal/handlers"
	"github.com/Kerhoff/FamilyBoT/internal/metrics"
	"github.com/Kerhoff/FamilyBoT/internal/repository/sqlstore"
	"github.com/Kerhoff/FamilyBoT/internal/service"
	"github.com/Kerhoff/FamilyBoT/internal/telegram"
	"github.com/Kerhoff/FamilyBoT/migrations"
	"github.com/Kerhoff/FamilyBoT/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel, cfg.LogFormat)
	l.Info("Starting FamilyBoT...")

	// Database
	db, err := config.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseURL, l)
	if err != nil {
		l.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(migrations.FS); err != nil {
		l.Fatalf("Failed to run migrations: %v", err)
	}

	store, err := sqlstore.New(db.DB, cfg.DatabaseDriver)
	if err != nil {
		l.Fatalf("Failed to create store: %v", err)
	}

	catalog, err := game.Load(cfg.CatalogPath)
	if err != nil {
		l.Fatalf("Failed to load game catalog: %v", err)
	}

	// Metrics
	registry := metrics.NewRegistry()
	m, err := metrics.New(registry)
	if err != nil {
		l.Fatalf("Failed to register metrics: %v", err)
	}

	// Telegram bot; handlers are registered once the service exists
	router := telegram.NewRouter(l, m)
	bot, err := telegram.NewBot(cfg.TelegramToken, router, l)
	if err != nil {
		l.Fatalf("Failed to create Telegram bot: %v", err)
	}

	// Service layer
	svc := service.New(store, catalog, l,
		service.WithNameResolver(bot),
		service.WithMetrics(m),
	)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info("Received shutdown signal...")
		cancel()
	}()

	if err := svc.SeedShop(ctx); err != nil {
		l.Fatalf("Failed to seed shop: %v", err)
	}

	handlers.Register(router, svc, l)

	// Start proposal janitor
	go svc.StartProposalJanitor(ctx, cfg.JanitorInterval)

	// HTTP API, and the webhook receiver when enabled
	var updates api.UpdateHandler
	if cfg.WebhookEnabled() {
		updates = bot
	}
	apiServer := api.NewServer(svc, updates, l)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsServer := &http.Server{
		Addr:              ":" + cfg.PrometheusPort,
		Handler:           metrics.Handler(registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		l.Infof("HTTP server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Errorf("HTTP server error: %v", err)
		}
	}()

	go func() {
		l.Infof("Metrics server listening on :%s", cfg.PrometheusPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Errorf("Metrics server error: %v", err)
		}
	}()

	if cfg.WebhookEnabled() {
		if err := bot.SetWebhook(cfg.WebhookURL); err != nil {
			l.Fatalf("Failed to set webhook: %v", err)
		}
	} else {
		// Start Telegram bot polling
		go func() {
			if err := bot.Start(ctx); err != nil {
				l.Errorf("Bot error: %v", err)
			}
		}()
	}

	l.Info("FamilyBoT started successfully")

	<-ctx.Done()

	l.Info("Shutting down HTTP servers...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	for _, srv := range []*http.Server{httpServer, metricsServer} {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Errorf("HTTP server shutdown: %v", err)
		}
	}

	l.Info("FamilyBoT stopped")
}
