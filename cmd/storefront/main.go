package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/bot"
	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/delivery"
	"storefront/internal/menu"
	"storefront/internal/server"
	"storefront/internal/storage"
	sessionstore "storefront/internal/storage/redis"
	"storefront/pkg/api"
	"storefront/pkg/logger"
	"storefront/pkg/redis"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := migrate(ctx, cfg, zapLogger, os.Args[2:]); err != nil {
			zapLogger.Fatal("Migration failed", zap.Error(err))
		}
		return
	}

	if err := run(ctx, cfg, zapLogger); err != nil {
		zapLogger.Fatal("Storefront stopped with error", zap.Error(err))
	}
	zapLogger.Info("Storefront shutdown gracefully")
}

// backends is where the catalog comes from and where orders go.
type backends struct {
	catalog menu.Reader
	orders  checkout.Store
	close   func() error
}

func openBackends(ctx context.Context, cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) (backends, error) {
	if cfg.Catalog.Source == config.CatalogSourceAPI {
		client := api.NewClient(cfg.Catalog.APIBaseURL, cfg.Catalog.APIKey, cfg.Catalog.RequestTimeout, logger)
		logger.Info("Using remote catalog", zap.String("base_url", cfg.Catalog.APIBaseURL))
		return backends{catalog: client, orders: client, close: func() error { return nil }}, nil
	}

	pg, err := storage.NewPostgresStorage(ctx, cfg.Database, redisClient, cfg.Redis.CacheTTL, logger)
	if err != nil {
		return backends{}, err
	}
	if cfg.Database.RunMigrations {
		if err := storage.RunMigrations(ctx, pg.DB(), logger); err != nil {
			pg.Close()
			return backends{}, err
		}
	}
	return backends{catalog: pg, orders: pg, close: pg.Close}, nil
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	redisClient := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}

	b, err := openBackends(ctx, cfg, redisClient, logger)
	if err != nil {
		return err
	}
	defer b.close()

	book, err := cfg.Pricing.PriceBook()
	if err != nil {
		return err
	}
	policy, err := cfg.Delivery.Policy()
	if err != nil {
		return err
	}

	live := menu.NewLive(nil)
	if catalog, err := menu.Load(ctx, b.catalog); err != nil {
		logger.Warn("Catalog not loaded at startup", zap.Error(err))
	} else {
		live.Set(catalog)
	}

	quoter := delivery.NewQuoter(cart.NewPricer(book, live), policy)
	svc := checkout.NewService(quoter, b.orders, logger,
		checkout.WithRateLimiter(sessionstore.NewRateLimiter(redisClient, cfg.Redis.RateLimit, cfg.Redis.RateLimitWindow)))

	if cfg.Telegram.Enabled() {
		staffBot, err := bot.New(cfg.Telegram, svc, logger)
		if err != nil {
			return err
		}
		svc.SetNotifier(staffBot)
		go func() {
			if err := staffBot.Start(ctx); err != nil {
				logger.Error("Bot stopped with error", zap.Error(err))
			}
		}()
	} else {
		logger.Info("Telegram bot disabled")
	}

	srv := server.New(cfg.HTTP, server.Deps{
		Catalog:  b.catalog,
		Live:     live,
		Quoter:   quoter,
		Drinks:   cfg.Delivery.DrinkPrices(),
		Limits:   cfg.Cart.Limits(),
		Sessions: sessionstore.NewSessionStore(redisClient, cfg.Redis.SessionTTL),
		Checkout: svc,
	}, logger)

	return srv.Run(ctx)
}

// migrate runs "up" (default), "down" or "status" against Postgres.
func migrate(ctx context.Context, cfg *config.Config, logger *zap.Logger, args []string) error {
	pg, err := storage.NewPostgresStorage(ctx, cfg.Database, nil, 0, logger)
	if err != nil {
		return err
	}
	defer pg.Close()

	cmd := "up"
	if len(args) > 0 {
		cmd = args[0]
	}
	switch cmd {
	case "up":
		return storage.RunMigrations(ctx, pg.DB(), logger)
	case "down":
		return storage.RollbackMigration(ctx, pg.DB(), logger)
	case "status":
		return storage.MigrationStatus(ctx, pg.DB())
	default:
		return fmt.Errorf("unknown migrate command %q (want up, down or status)", cmd)
	}
}
