package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/menu"
	"storefront/pkg/redis"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	cacheKeyMenuItems  = "catalog:items"
	cacheKeyToppings   = "catalog:toppings"
	cacheKeySauces     = "catalog:sauces"
	cacheKeyCategories = "catalog:categories"
	cacheKeyOrderStats = "order_stats"

	statsTTL          = time.Hour
	defaultOrderLimit = 50
)

// PostgresStorage serves the catalog and orders. Catalog reads go through the
// Redis cache when one is configured.
type PostgresStorage struct {
	db       *sqlx.DB
	cache    redis.KV
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewPostgresStorage(ctx context.Context, cfg config.DatabaseConfig, cache redis.KV, cacheTTL time.Duration, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	var db *sqlx.DB
	var err error

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...")

	err = backoff.RetryNotify(
		func() error {
			db, err = sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}

			if err = db.PingContext(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)

	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return NewWithDB(db, cache, cacheTTL, logger), nil
}

// NewWithDB wraps an open connection.
func NewWithDB(db *sqlx.DB, cache redis.KV, cacheTTL time.Duration, logger *zap.Logger) *PostgresStorage {
	return &PostgresStorage{db: db, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// DB exposes the underlying handle for migrations.
func (s *PostgresStorage) DB() *sql.DB {
	return s.db.DB
}

func (s *PostgresStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PostgresStorage) GetMenuItems(ctx context.Context) ([]menu.Item, error) {
	const query = `
        SELECT id, name, description, base_price, image_url, category_id, available,
               allows_sizes, allows_toppings, allows_sauces, is_customizable
        FROM menu_items
        ORDER BY category_id, id
    `
	return cached(ctx, s.cache, s.logger, cacheKeyMenuItems, s.cacheTTL, func(ctx context.Context) ([]menu.Item, error) {
		var items []menu.Item
		if err := s.db.SelectContext(ctx, &items, query); err != nil {
			return nil, fmt.Errorf("failed to get menu items: %w", err)
		}
		return items, nil
	})
}

func (s *PostgresStorage) GetToppings(ctx context.Context) ([]menu.Topping, error) {
	const query = `SELECT id, name, price, category_id FROM toppings ORDER BY id`
	return cached(ctx, s.cache, s.logger, cacheKeyToppings, s.cacheTTL, func(ctx context.Context) ([]menu.Topping, error) {
		var toppings []menu.Topping
		if err := s.db.SelectContext(ctx, &toppings, query); err != nil {
			return nil, fmt.Errorf("failed to get toppings: %w", err)
		}
		return toppings, nil
	})
}

func (s *PostgresStorage) GetSauces(ctx context.Context) ([]menu.Sauce, error) {
	const query = `SELECT id, name, price FROM sauces ORDER BY id`
	return cached(ctx, s.cache, s.logger, cacheKeySauces, s.cacheTTL, func(ctx context.Context) ([]menu.Sauce, error) {
		var sauces []menu.Sauce
		if err := s.db.SelectContext(ctx, &sauces, query); err != nil {
			return nil, fmt.Errorf("failed to get sauces: %w", err)
		}
		return sauces, nil
	})
}

func (s *PostgresStorage) GetCategories(ctx context.Context) ([]menu.Category, error) {
	const query = `SELECT id, name, kind FROM categories ORDER BY id`
	return cached(ctx, s.cache, s.logger, cacheKeyCategories, s.cacheTTL, func(ctx context.Context) ([]menu.Category, error) {
		var categories []menu.Category
		if err := s.db.SelectContext(ctx, &categories, query); err != nil {
			return nil, fmt.Errorf("failed to get categories: %w", err)
		}
		return categories, nil
	})
}

const orderColumns = `id, customer_name, phone, delivery_mode, address, lines, add_ons, subtotal, total, status, created_at`

func (s *PostgresStorage) SaveOrder(ctx context.Context, order checkout.Order) (checkout.Order, error) {
	const query = `
        INSERT INTO orders (
            customer_name, phone, delivery_mode, address, lines,
            add_ons, subtotal, total, status, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id
    `

	err := s.db.QueryRowContext(ctx, query,
		order.CustomerName,
		order.Phone,
		order.DeliveryMode,
		order.Address,
		order.Lines,
		order.AddOns,
		order.Subtotal,
		order.Total,
		order.Status,
		order.CreatedAt,
	).Scan(&order.ID)

	if err != nil {
		return checkout.Order{}, fmt.Errorf("failed to save order: %w", err)
	}

	s.invalidate(ctx, cacheKeyOrderStats)
	return order, nil
}

func (s *PostgresStorage) GetOrderByID(ctx context.Context, id int64) (checkout.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var order checkout.Order
	err := s.db.GetContext(ctx, &order, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return checkout.Order{}, fmt.Errorf("order %d: %w", id, checkout.ErrOrderNotFound)
		}
		return checkout.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (s *PostgresStorage) ListOrders(ctx context.Context, limit int) ([]checkout.Order, error) {
	if limit <= 0 {
		limit = defaultOrderLimit
	}
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1`

	var orders []checkout.Order
	if err := s.db.SelectContext(ctx, &orders, query, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, nil
}

func (s *PostgresStorage) UpdateOrderStatus(ctx context.Context, id int64, status checkout.Status) error {
	const query = `UPDATE orders SET status = $1 WHERE id = $2`

	res, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("order %d: %w", id, checkout.ErrOrderNotFound)
	}

	s.invalidate(ctx, cacheKeyOrderStats)
	return nil
}

func (s *PostgresStorage) GetOrderStatistics(ctx context.Context) (checkout.Statistics, error) {
	return cached(ctx, s.cache, s.logger, cacheKeyOrderStats, statsTTL, s.loadStatistics)
}

func (s *PostgresStorage) loadStatistics(ctx context.Context) (checkout.Statistics, error) {
	stats := checkout.Statistics{StatusCounts: make(map[checkout.Status]int)}

	type countRevenue struct {
		Count   int   `db:"count"`
		Revenue int64 `db:"revenue"`
	}

	windows := []struct {
		where   string
		orders  *int
		revenue *int64
	}{
		{"TRUE", &stats.TotalOrders, &stats.TotalRevenue},
		{"created_at >= CURRENT_DATE", &stats.TodayOrders, &stats.TodayRevenue},
		{"created_at >= CURRENT_DATE - INTERVAL '7 days'", &stats.WeekOrders, &stats.WeekRevenue},
		{"created_at >= CURRENT_DATE - INTERVAL '30 days'", &stats.MonthOrders, &stats.MonthRevenue},
	}
	for _, w := range windows {
		var cr countRevenue
		query := `SELECT COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue FROM orders WHERE ` + w.where
		if err := s.db.GetContext(ctx, &cr, query); err != nil {
			return checkout.Statistics{}, fmt.Errorf("failed to get order statistics: %w", err)
		}
		*w.orders, *w.revenue = cr.Count, cr.Revenue
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) AS count FROM orders GROUP BY status`)
	if err != nil {
		return checkout.Statistics{}, fmt.Errorf("failed to get status counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return checkout.Statistics{}, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.StatusCounts[checkout.Status(status)] = count
	}
	if err := rows.Err(); err != nil {
		return checkout.Statistics{}, fmt.Errorf("failed to read status counts: %w", err)
	}

	return stats, nil
}

func (s *PostgresStorage) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.logger.Warn("Failed to invalidate cache", zap.Strings("keys", keys), zap.Error(err))
	}
}

// InvalidateCatalog drops every cached catalog collection.
func (s *PostgresStorage) InvalidateCatalog(ctx context.Context) {
	s.invalidate(ctx, cacheKeyMenuItems, cacheKeyToppings, cacheKeySauces, cacheKeyCategories)
}
