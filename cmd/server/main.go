package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/estampados/printflow/internal/config"
	"github.com/estampados/printflow/internal/domain/clients"
	"github.com/estampados/printflow/internal/domain/inventory"
	"github.com/estampados/printflow/internal/domain/orders"
	"github.com/estampados/printflow/internal/domain/products"
	"github.com/estampados/printflow/internal/domain/purchasing"
	"github.com/estampados/printflow/internal/httpapi"
	"github.com/estampados/printflow/internal/infra/aiparse"
	"github.com/estampados/printflow/internal/infra/db"
	httpx "github.com/estampados/printflow/internal/infra/http"
	"github.com/estampados/printflow/internal/infra/logger"
	"github.com/estampados/printflow/internal/infra/telegram"
	"github.com/estampados/printflow/internal/infra/whatsapp"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	path := os.Getenv("APP_CONFIG")
	if path == "" {
		path = "config/example.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	orderRepo := orders.NewRepo(pool)
	productRepo := products.NewRepo(pool)
	inventoryRepo := inventory.NewRepo(pool)
	clientRepo := clients.NewRepo(pool)

	var notifier orders.Notifier
	if cfg.WhatsApp.Enabled {
		notifier = whatsapp.NewService(cfg.WhatsApp.BaseURL, cfg.WhatsApp.Instance, cfg.WhatsApp.APIKey)
	}

	var alerter orders.Alerter
	if cfg.Telegram.Enabled {
		a, err := telegram.NewAlerter(cfg.Telegram.Token, cfg.Telegram.AdminChatID)
		if err != nil {
			log.Warn("telegram alerter disabled", "err", err)
		} else {
			alerter = a
		}
	}

	orderSvc := orders.NewService(orderRepo, productRepo, inventoryRepo, clientRepo,
		notifier, alerter, cfg.Notify.Auto, log.With("component", "orders"))
	purchSvc := purchasing.NewService(orderRepo, productRepo, inventoryRepo,
		log.With("component", "purchasing"))

	var parser *aiparse.Client
	if cfg.AIParse.BaseURL != "" {
		parser = aiparse.New(cfg.AIParse.BaseURL, cfg.AIParse.APIKey)
	}

	api := httpapi.New(log, orderSvc, orderRepo, inventoryRepo, productRepo, clientRepo, purchSvc, parser)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, api.Handler())
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
