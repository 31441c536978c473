package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/shopspring/decimal"

	"cosmeticpos-backend/internal/config"
	"cosmeticpos-backend/internal/db"
	"cosmeticpos-backend/internal/handler"
	"cosmeticpos-backend/internal/repository"
	"cosmeticpos-backend/internal/server"
	"cosmeticpos-backend/internal/service"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// money goes over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg)
	if err != nil {
		logger.Error("failed to open storage", "driver", cfg.StorageDriver, "err", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("storage ready", "driver", cfg.StorageDriver)

	repos := repository.New(store)
	services := service.New(service.Deps{
		Repos:    repos,
		Logger:   logger,
		Location: cfg.Location(),
	}, cfg)

	if _, err := services.Auth.EnsureSuperuser(ctx, cfg.SeedAdminPassword); err != nil {
		logger.Error("failed to seed superuser", "err", err)
		os.Exit(1)
	}
	if cfg.SeedDemoData {
		if err := seedDemo(ctx, repos, services); err != nil {
			logger.Error("failed to seed demo data", "err", err)
			os.Exit(1)
		}
	}

	router := server.NewRouter(cfg, logger, services.Auth, server.Handlers{
		Health:      handler.HealthHandler{DB: store},
		Home:        handler.HomeHandler{Version: version},
		Docs:        handler.DocsHandler{OpenAPIPath: cfg.OpenAPIPath},
		Auth:        handler.AuthHandler{Service: services.Auth},
		Users:       handler.UserHandler{Service: services.Users},
		Products:    handler.ProductHandler{Service: services.Products},
		Catalog:     handler.CatalogHandler{Service: services.Catalog},
		Clients:     handler.ClientHandler{Service: services.Clients},
		Suppliers:   handler.SupplierHandler{Service: services.Suppliers},
		Sales:       handler.SaleHandler{Service: services.Sales},
		Invoices:    handler.InvoiceHandler{Service: services.Invoices},
		Inventory:   handler.InventoryHandler{Service: services.Inventory},
		Settings:    handler.SettingsHandler{Service: services.Settings},
		Dashboard:   handler.DashboardHandler{Service: services.Dashboard},
		Reports:     handler.ReportHandler{Service: services.Reports},
		ActivityLog: handler.ActivityLogHandler{Service: services.ActivityLog},
	})

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func seedDemo(ctx context.Context, repos repository.Repositories, services service.Services) error {
	admin, err := repos.Users.GetByUsername(ctx, service.SuperuserUsername)
	if err != nil {
		return err
	}
	return service.SeedDemoData(ctx, services, admin)
}
