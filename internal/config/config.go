package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"storefront/internal/cart"
	"storefront/internal/delivery"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	CatalogSourcePostgres = "postgres"
	CatalogSourceAPI      = "api"
)

type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	HTTP     HTTPConfig     `envPrefix:"HTTP_"`
	Database DatabaseConfig `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Telegram TelegramConfig `envPrefix:"TELEGRAM_"`
	Catalog  CatalogConfig  `envPrefix:"CATALOG_"`
	Pricing  PricingConfig  `envPrefix:"PRICING_"`
	Delivery DeliveryConfig `envPrefix:"DELIVERY_"`
	Cart     CartConfig     `envPrefix:"CART_"`
}

type HTTPConfig struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	AdminToken      string        `env:"ADMIN_TOKEN"`
}

type DatabaseConfig struct {
	Host            string        `env:"HOST" envDefault:"localhost"`
	Port            int           `env:"PORT" envDefault:"5432"`
	User            string        `env:"USER" envDefault:"postgres"`
	Password        string        `env:"PASSWORD"`
	Name            string        `env:"NAME" envDefault:"storefront"`
	SSLMode         string        `env:"SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"2m"`
	RunMigrations   bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
}

// DSN is the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

type RedisConfig struct {
	Addr            string        `env:"ADDR" envDefault:"localhost:6379"`
	Password        string        `env:"PASSWORD"`
	DB              int           `env:"DB" envDefault:"0"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	RateLimit       int64         `env:"RATE_LIMIT" envDefault:"5"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

type TelegramConfig struct {
	Token    string  `env:"TOKEN"`
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`
	// ChannelID receives new-order posts; 0 sends them to each admin instead.
	ChannelID int64 `env:"CHANNEL_ID"`
	Debug     bool  `env:"DEBUG" envDefault:"false"`
}

func (t TelegramConfig) Enabled() bool {
	return t.Token != ""
}

type CatalogConfig struct {
	Source         string        `env:"SOURCE" envDefault:"postgres"`
	APIBaseURL     string        `env:"API_BASE_URL"`
	APIKey         string        `env:"API_KEY"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
}

// PricingConfig overrides the price book. Multipliers are decimal strings.
type PricingConfig struct {
	SizeS             string `env:"SIZE_S" envDefault:"1"`
	SizeM             string `env:"SIZE_M" envDefault:"1.2"`
	SizeL             string `env:"SIZE_L" envDefault:"1.4"`
	SizeXL            string `env:"SIZE_XL" envDefault:"1.6"`
	CreamSauce        int64  `env:"CREAM_SAUCE" envDefault:"500"`
	VeganCheese       int64  `env:"VEGAN_CHEESE" envDefault:"300"`
	Gratin            int64  `env:"GRATIN" envDefault:"300"`
	Parmesan          int64  `env:"PARMESAN" envDefault:"400"`
	BoiledEgg         int64  `env:"BOILED_EGG" envDefault:"300"`
	ExtraCheese       int64  `env:"EXTRA_CHEESE" envDefault:"300"`
	ExtraSpicyUnit    int64  `env:"EXTRA_SPICY_UNIT" envDefault:"200"`
	SmallSaucePortion int64  `env:"SMALL_SAUCE" envDefault:"300"`
	LargeSaucePortion int64  `env:"LARGE_SAUCE" envDefault:"500"`
}

type DeliveryConfig struct {
	Multiplier   string `env:"MULTIPLIER" envDefault:"1.10"`
	MinimumOrder int64  `env:"MINIMUM_ORDER" envDefault:"5500"`
	SmallDrink   int64  `env:"SMALL_DRINK_PRICE" envDefault:"800"`
	LargeDrink   int64  `env:"LARGE_DRINK_PRICE" envDefault:"1200"`
}

type CartConfig struct {
	MaxToppingsPerSection int `env:"MAX_TOPPINGS_PER_SECTION" envDefault:"3"`
	MaxQuantity           int `env:"MAX_QUANTITY" envDefault:"99"`
}

// Load reads .env outside production, then the environment.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}
	return Parse()
}

// Parse reads the environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Catalog.Source {
	case CatalogSourcePostgres:
	case CatalogSourceAPI:
		if c.Catalog.APIBaseURL == "" {
			return errors.New("CATALOG_API_BASE_URL is required when CATALOG_SOURCE=api")
		}
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", c.Catalog.Source)
	}

	if c.Telegram.Enabled() && len(c.Telegram.AdminIDs) == 0 {
		return errors.New("at least one admin ID is required when the Telegram bot is enabled")
	}
	if c.Delivery.MinimumOrder < 0 {
		return errors.New("DELIVERY_MINIMUM_ORDER cannot be negative")
	}
	if c.Delivery.SmallDrink < 0 || c.Delivery.LargeDrink < 0 {
		return errors.New("drink prices cannot be negative")
	}
	if c.Cart.MaxQuantity < 1 || c.Cart.MaxQuantity > cart.MaxLineQuantity {
		return fmt.Errorf("CART_MAX_QUANTITY must be between 1 and %d, got %d", cart.MaxLineQuantity, c.Cart.MaxQuantity)
	}
	if _, err := c.Pricing.PriceBook(); err != nil {
		return err
	}
	return nil
}

// PriceBook builds the price book. Multipliers must be at least 1 and must not
// shrink from S to XL; surcharges cannot be negative.
func (p PricingConfig) PriceBook() (cart.PriceBook, error) {
	book := cart.NewDefaultPriceBook()
	raw := map[cart.Size]string{
		cart.SizeS:  p.SizeS,
		cart.SizeM:  p.SizeM,
		cart.SizeL:  p.SizeL,
		cart.SizeXL: p.SizeXL,
	}

	prev := decimal.NewFromInt(1)
	for _, size := range cart.Sizes {
		m, err := decimal.NewFromString(raw[size])
		if err != nil {
			return cart.PriceBook{}, fmt.Errorf("PRICING_SIZE_%s: %w", size, err)
		}
		if m.LessThan(prev) {
			return cart.PriceBook{}, fmt.Errorf("PRICING_SIZE_%s must be at least %s, got %s", size, prev, raw[size])
		}
		book.SizeMultipliers[size] = m
		prev = m
	}

	for name, v := range map[string]int64{
		"CREAM_SAUCE":      p.CreamSauce,
		"VEGAN_CHEESE":     p.VeganCheese,
		"GRATIN":           p.Gratin,
		"PARMESAN":         p.Parmesan,
		"BOILED_EGG":       p.BoiledEgg,
		"EXTRA_CHEESE":     p.ExtraCheese,
		"EXTRA_SPICY_UNIT": p.ExtraSpicyUnit,
		"SMALL_SAUCE":      p.SmallSaucePortion,
		"LARGE_SAUCE":      p.LargeSaucePortion,
	} {
		if v < 0 {
			return cart.PriceBook{}, fmt.Errorf("PRICING_%s cannot be negative, got %d", name, v)
		}
	}

	book.CreamSauce = p.CreamSauce
	book.VeganCheese = p.VeganCheese
	book.Gratin = p.Gratin
	book.Parmesan = p.Parmesan
	book.BoiledEgg = p.BoiledEgg
	book.ExtraCheese = p.ExtraCheese
	book.ExtraSpicyUnit = p.ExtraSpicyUnit
	book.SmallSaucePortion = p.SmallSaucePortion
	book.LargeSaucePortion = p.LargeSaucePortion
	return book, nil
}

func (d DeliveryConfig) Policy() (delivery.Policy, error) {
	m, err := decimal.NewFromString(d.Multiplier)
	if err != nil {
		return delivery.Policy{}, fmt.Errorf("DELIVERY_MULTIPLIER: %w", err)
	}
	return delivery.Policy{DeliveryMultiplier: m, MinimumOrder: d.MinimumOrder}, nil
}

func (d DeliveryConfig) DrinkPrices() delivery.DrinkPrices {
	return delivery.DrinkPrices{Small: d.SmallDrink, Large: d.LargeDrink}
}

func (c CartConfig) Limits() cart.Limits {
	return cart.Limits{MaxToppingsPerSection: c.MaxToppingsPerSection, MaxQuantity: c.MaxQuantity}
}
