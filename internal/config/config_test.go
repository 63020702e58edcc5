package config

import (
	"testing"
	"time"

	"storefront/internal/cart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, CatalogSourcePostgres, cfg.Catalog.Source)
	assert.Equal(t, 24*time.Hour, cfg.Redis.SessionTTL)
	assert.False(t, cfg.Telegram.Enabled())

	book, err := cfg.Pricing.PriceBook()
	require.NoError(t, err)
	assert.Equal(t, cart.NewDefaultPriceBook().CreamSauce, book.CreamSauce)
	assert.Equal(t, "1.2", book.Multiplier(cart.SizeM).String())

	policy, err := cfg.Delivery.Policy()
	require.NoError(t, err)
	assert.Equal(t, int64(5500), policy.MinimumOrder)
	assert.Equal(t, int64(6600), policy.Apply("delivery", 6000))

	assert.Equal(t, 3, cfg.Cart.Limits().MaxToppingsPerSection)
	assert.Equal(t, 99, cfg.Cart.Limits().MaxQuantity)
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("DB_PORT", "6432")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_ADMIN_IDS", "10,20")
	t.Setenv("PRICING_SIZE_L", "1.5")
	t.Setenv("DELIVERY_MINIMUM_ORDER", "6000")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 6432, cfg.Database.Port)
	assert.Contains(t, cfg.Database.DSN(), "port=6432")
	assert.Equal(t, []int64{10, 20}, cfg.Telegram.AdminIDs)
	assert.True(t, cfg.Telegram.Enabled())

	book, err := cfg.Pricing.PriceBook()
	require.NoError(t, err)
	assert.Equal(t, "1.5", book.Multiplier(cart.SizeL).String())
	assert.Equal(t, int64(6000), cfg.Delivery.MinimumOrder)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown catalog source": {"CATALOG_SOURCE": "csv"},
		"api source without url": {"CATALOG_SOURCE": "api"},
		"bot without admins":     {"TELEGRAM_TOKEN": "123:abc"},
		"bad port":               {"DB_PORT": "five"},
		"zero max quantity":      {"CART_MAX_QUANTITY": "0"},
		"huge max quantity":      {"CART_MAX_QUANTITY": "1000000"},
		"negative surcharge":     {"PRICING_GRATIN": "-300"},
		"shrinking sizes":        {"PRICING_SIZE_XL": "1.3"},
		"negative drink":         {"DELIVERY_SMALL_DRINK_PRICE": "-1"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := Parse()
			assert.Error(t, err)
		})
	}
}

func TestPriceBook_RejectsBadMultiplier(t *testing.T) {
	p := PricingConfig{SizeS: "1", SizeM: "abc", SizeL: "1.4", SizeXL: "1.6"}
	_, err := p.PriceBook()
	assert.Error(t, err)

	p.SizeM = "0.9"
	_, err = p.PriceBook()
	assert.Error(t, err)
}

func TestPriceBook_Monotonic(t *testing.T) {
	p := PricingConfig{SizeS: "1", SizeM: "1.2", SizeL: "1.2", SizeXL: "1.6"}
	book, err := p.PriceBook()
	require.NoError(t, err, "equal neighbours are fine")
	assert.Equal(t, "1.2", book.Multiplier(cart.SizeL).String())

	p.SizeL = "1.1"
	_, err = p.PriceBook()
	assert.ErrorContains(t, err, "PRICING_SIZE_L")

	p.SizeL = "1.4"
	p.ExtraSpicyUnit = -1
	_, err = p.PriceBook()
	assert.ErrorContains(t, err, "PRICING_EXTRA_SPICY_UNIT")
}
