package delivery

import (
	"encoding/json"
	"math"
	"testing"

	"storefront/internal/cart"
	"storefront/internal/menu"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainLine(id, price int64) (cart.Configuration, menu.Item) {
	return cart.Plain{ItemRef: cart.ItemRef{ID: id}}, menu.Item{ID: id, BasePrice: price}
}

func newQuoter() *Quoter {
	return NewQuoter(cart.NewPricer(cart.NewDefaultPriceBook(), nil), DefaultPolicy())
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModePickup, "pickup": ModePickup, " Delivery ": ModeDelivery} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseMode("drone")
	var verr *cart.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestPolicy_ApplyRoundsOnce(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, int64(6600), p.Apply(ModeDelivery, 6000))
	assert.Equal(t, int64(6000), p.Apply(ModePickup, 6000))
	// 1005 * 1.1 = 1105.5
	assert.Equal(t, int64(1106), p.Apply(ModeDelivery, 1005))

	// two lines of 1005 rounded separately would give 2212, once gives 2211
	assert.Equal(t, int64(2211), p.Apply(ModeDelivery, 2010))
}

func TestPolicy_Check(t *testing.T) {
	p := DefaultPolicy()

	err := p.Check(ModeDelivery, 4400)
	var violation *PolicyViolation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, int64(5500), violation.Minimum)
	assert.Equal(t, int64(4400), violation.Total)
	assert.Equal(t, int64(1100), violation.Shortfall)
	assert.Equal(t, cart.StatusFailedPrecondition, violation.Code)

	assert.NoError(t, p.Check(ModeDelivery, 5500))
	assert.NoError(t, p.Check(ModePickup, 100))
}

func TestQuote_DeliveryMinimum(t *testing.T) {
	q := newQuoter()
	s := NewSession("s1")
	s.SwitchDeliveryMode(ModeDelivery)

	cfg, item := plainLine(1, 4000)
	s.Cart().Add(cfg, item, 1)

	quote := q.Quote(s, nil)
	assert.Equal(t, int64(4000), quote.Subtotal)
	assert.Equal(t, int64(4400), quote.Total)
	assert.Equal(t, int64(1100), quote.Shortfall)
	assert.False(t, quote.CanCheckout)

	cfg, item = plainLine(2, 2000)
	s.Cart().Add(cfg, item, 1)

	quote = q.Quote(s, nil)
	assert.Equal(t, int64(6600), quote.Total)
	assert.Zero(t, quote.Shortfall)
	assert.True(t, quote.CanCheckout)
	assert.True(t, decimal.RequireFromString("1.1").Equal(quote.Multiplier))
}

func TestQuote_AddOnsJoinSubtotalBeforeMultiplier(t *testing.T) {
	q := newQuoter()
	s := NewSession("s1")
	s.SwitchDeliveryMode(ModeDelivery)
	cfg, item := plainLine(1, 4000)
	s.Cart().Add(cfg, item, 1)

	drinks := DefaultDrinkPrices()
	large, err := drinks.Drink("Lemonade", DrinkLarge, 1)
	require.NoError(t, err)

	quote := q.Quote(s, []AddOn{large})
	assert.Equal(t, int64(1200), quote.AddOns)
	assert.Equal(t, int64(5720), quote.Total)
	assert.True(t, quote.CanCheckout)
}

func TestQuote_EmptyCartCannotCheckout(t *testing.T) {
	quote := newQuoter().Quote(NewSession("s1"), nil)
	assert.Zero(t, quote.Total)
	assert.Zero(t, quote.Minimum)
	assert.False(t, quote.CanCheckout)
}

func TestDrink(t *testing.T) {
	drinks := DefaultDrinkPrices()

	small, err := drinks.Drink("Cola", DrinkSmall, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(800), small.UnitPrice)
	assert.Equal(t, 1, small.Quantity)

	_, err = drinks.Drink("Cola", "jumbo", 1)
	assert.Error(t, err)

	var verr *cart.ValidationError
	_, err = drinks.Drink("Cola", DrinkLarge, math.MaxInt)
	require.ErrorAs(t, err, &verr)

	top, err := drinks.Drink("Cola", DrinkLarge, cart.MaxLineQuantity)
	require.NoError(t, err)
	assert.Equal(t, int64(1200*cart.MaxLineQuantity), top.Subtotal())

	forged := AddOn{Name: "Cola", Size: DrinkLarge, UnitPrice: 1200, Quantity: 1 << 62}
	assert.Equal(t, int64(1200*cart.MaxLineQuantity), forged.Subtotal())
}

func TestSwitchDeliveryMode(t *testing.T) {
	s := NewSession("s1")
	for id := int64(1); id <= 3; id++ {
		cfg, item := plainLine(id, 1000)
		s.Cart().Add(cfg, item, 1)
	}

	assert.False(t, s.SwitchDeliveryMode(ModePickup), "same mode keeps the cart")
	assert.Equal(t, 3, s.Cart().Len())

	assert.True(t, s.SwitchDeliveryMode(ModeDelivery))
	assert.True(t, s.Cart().IsEmpty())
	assert.Equal(t, ModeDelivery, s.Mode())
}

func TestSessionJSON(t *testing.T) {
	s := NewSession("abc")
	s.SwitchDeliveryMode(ModeDelivery)
	cfg, item := plainLine(7, 1500)
	s.Cart().Add(cfg, item, 2)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var restored Session
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, "abc", restored.ID)
	assert.Equal(t, ModeDelivery, restored.Mode())
	require.Equal(t, 1, restored.Cart().Len())
	assert.Equal(t, 2, restored.Cart().Units())

	var empty Session
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","cart":null}`), &empty))
	assert.Equal(t, ModePickup, empty.Mode())
	assert.True(t, empty.Cart().IsEmpty())
}
