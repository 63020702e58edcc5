package cart

import (
	"testing"

	"storefront/internal/menu"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *menu.Catalog {
	return menu.NewCatalog(
		nil,
		[]menu.Topping{
			{ID: 1, Name: "Olives", Price: 500},
			{ID: 2, Name: "Mushrooms", Price: 400},
			{ID: 3, Name: "Onion", Price: 300},
			{ID: 4, Name: "Corn", Price: 0},
		},
		[]menu.Sauce{
			{ID: "rose", Name: "Rosé", Price: 600},
			{ID: "pesto", Name: "Pesto", Price: 700},
		},
		nil,
	)
}

func pizzaItem(base int64) menu.Item {
	return menu.Item{
		ID:             1,
		Name:           "Margherita",
		BasePrice:      base,
		Available:      true,
		AllowsSizes:    true,
		AllowsToppings: true,
		AllowsSauces:   true,
		IsCustomizable: true,
	}
}

func TestUnitPrice_SizedPizzaWithToppings(t *testing.T) {
	p := NewPricer(NewDefaultPriceBook(), testCatalog())
	item := pizzaItem(4000)
	cfg := Pizza{
		ItemRef:  ItemRef{ID: 1, Tier: SizeM},
		Toppings: mustLayout(t, LayoutHalf, []int64{1}, []int64{2}),
	}

	assert.Equal(t, int64(4800), p.BasePrice(cfg, item))
	assert.Equal(t, int64(5700), p.UnitPrice(cfg, item))
	assert.Equal(t, int64(11400), p.LineSubtotal(Line{Config: cfg, Quantity: 2, Item: item}))
}

func TestUnitPrice_CreamSauceAndGratin(t *testing.T) {
	p := NewPricer(NewDefaultPriceBook(), testCatalog())
	item := menu.Item{ID: 7, BasePrice: 2500, AllowsSauces: true}
	cfg := GarlicBread{ItemRef: ItemRef{ID: 7}, CreamSauce: true, Gratin: true}

	assert.Equal(t, int64(3300), p.UnitPrice(cfg, item))
}

func TestUnitPrice_ToppingPriceIgnoresSection(t *testing.T) {
	p := NewPricer(NewDefaultPriceBook(), testCatalog())
	item := pizzaItem(3000)

	whole := Pizza{ItemRef: ItemRef{ID: 1}, Toppings: mustLayout(t, LayoutFull, []int64{1, 2})}
	quarters := Pizza{ItemRef: ItemRef{ID: 1}, Toppings: mustLayout(t, LayoutQuarter, []int64{1}, nil, nil, []int64{2})}

	assert.Equal(t, p.UnitPrice(whole, item), p.UnitPrice(quarters, item))
}

func TestUnitPrice_UnknownModifiersAreFree(t *testing.T) {
	p := NewPricer(NewDefaultPriceBook(), testCatalog())
	item := pizzaItem(1000)
	item.AllowsSizes = false

	pizza := Pizza{ItemRef: ItemRef{ID: 1}, Toppings: mustLayout(t, LayoutFull, []int64{99, 1})}
	assert.Equal(t, int64(1500), p.UnitPrice(pizza, item))

	pasta := Pasta{ItemRef: ItemRef{ID: 1}, SauceID: "missing"}
	assert.Equal(t, int64(1000), p.UnitPrice(pasta, item))

	noCatalog := NewPricer(NewDefaultPriceBook(), nil)
	assert.Equal(t, int64(1000), noCatalog.UnitPrice(pizza, item))
}

func TestUnitPrice_CapabilityFlagsWin(t *testing.T) {
	p := NewPricer(NewDefaultPriceBook(), testCatalog())
	item := menu.Item{ID: 2, BasePrice: 2000}
	cfg := Pizza{
		ItemRef:    ItemRef{ID: 2, Tier: SizeXL},
		Toppings:   mustLayout(t, LayoutFull, []int64{1, 2}),
		CreamSauce: true,
	}

	assert.Equal(t, int64(2000), p.UnitPrice(cfg, item), "no sizes, toppings or sauces on this item")

	pasta := Pasta{ItemRef: ItemRef{ID: 2}, SauceID: "pesto"}
	assert.Equal(t, int64(2000), p.UnitPrice(pasta, item))
	item.AllowsSauces = true
	assert.Equal(t, int64(2700), p.UnitPrice(pasta, item))
}

func TestUnitPrice_PastryUnits(t *testing.T) {
	book := NewDefaultPriceBook()
	p := NewPricer(book, testCatalog())
	item := menu.Item{ID: 3, BasePrice: 1500}
	cfg := Pastry{
		ItemRef:     ItemRef{ID: 3},
		Spicy:       true,
		ExtraCheese: true,
		ExtraSpicy:  2,
		SmallSauce:  1,
		LargeSauce:  3,
	}

	want := 1500 + book.ExtraCheese + 2*book.ExtraSpicyUnit + book.SmallSaucePortion + 3*book.LargeSaucePortion
	assert.Equal(t, want, p.UnitPrice(cfg, item))
}

func TestBasePrice_RoundsHalfUpOnce(t *testing.T) {
	book := NewDefaultPriceBook()
	book.SizeMultipliers[SizeL] = decimal.RequireFromString("1.15")
	p := NewPricer(book, testCatalog())

	cases := []struct {
		base int64
		size Size
		want int64
	}{
		{base: 10, size: SizeL, want: 12},     // 11.5
		{base: 30, size: SizeL, want: 35},     // 34.5
		{base: 1001, size: SizeM, want: 1201}, // 1201.2
		{base: 1004, size: SizeM, want: 1205}, // 1204.8
		{base: 999, size: SizeS, want: 999},
	}
	for _, tc := range cases {
		cfg := Plain{ItemRef: ItemRef{ID: 1, Tier: tc.size}}
		got := p.BasePrice(cfg, menu.Item{BasePrice: tc.base, AllowsSizes: true})
		assert.Equal(t, tc.want, got, "base %d size %s", tc.base, tc.size)
	}
}

func TestUnitPrice_IsDeterministic(t *testing.T) {
	p := NewPricer(NewDefaultPriceBook(), testCatalog())
	item := pizzaItem(3333)
	cfg := Pizza{ItemRef: ItemRef{ID: 1, Tier: SizeXL}, Toppings: mustLayout(t, LayoutFull, []int64{1, 3}), VeganCheese: true}

	first := p.UnitPrice(cfg, item)
	for i := 0; i < 50; i++ {
		require.Equal(t, first, p.UnitPrice(cfg, item))
	}
}

func TestUnitPrice_IsMonotonic(t *testing.T) {
	p := NewPricer(NewDefaultPriceBook(), testCatalog())
	item := pizzaItem(2500)
	limits := DefaultLimits()

	base := Pizza{ItemRef: ItemRef{ID: 1, Tier: SizeS}, Toppings: mustLayout(t, LayoutHalf)}
	price := p.UnitPrice(base, item)

	// every larger tier costs at least as much
	prev := price
	for _, size := range Sizes[1:] {
		sized := base
		sized.Tier = size
		got := p.UnitPrice(sized, item)
		assert.GreaterOrEqual(t, got, prev, "size %s", size)
		prev = got
	}

	// every added topping, including a free one, never lowers the price
	cur := base
	prev = price
	for _, id := range []int64{4, 1, 2} {
		var ok bool
		cur.Toppings, ok = cur.Toppings.Toggle(1, id, limits)
		require.True(t, ok)
		got := p.UnitPrice(cur, item)
		assert.GreaterOrEqual(t, got, prev, "topping %d", id)
		prev = got
	}

	withAddOns := cur
	withAddOns.CreamSauce = true
	assert.GreaterOrEqual(t, p.UnitPrice(withAddOns, item), prev)
	withAddOns.VeganCheese = true
	assert.GreaterOrEqual(t, p.UnitPrice(withAddOns, item), p.UnitPrice(cur, item))
}

func TestSubtotal_SumsLines(t *testing.T) {
	p := NewPricer(NewDefaultPriceBook(), testCatalog())
	c := New()
	c.Add(Plain{ItemRef: ItemRef{ID: 10}}, menu.Item{ID: 10, BasePrice: 1200}, 2)
	c.Add(GarlicBread{ItemRef: ItemRef{ID: 11}, Gratin: true}, menu.Item{ID: 11, BasePrice: 1800}, 1)

	assert.Equal(t, int64(2*1200+1800+300), p.Subtotal(c))
	assert.Zero(t, p.Subtotal(New()))
}

func TestLineSubtotal_ItemSnapshotFrozenModifiersLive(t *testing.T) {
	live := menu.NewLive(testCatalog())
	p := NewPricer(NewDefaultPriceBook(), live)

	c := New()
	c.Add(Pizza{ItemRef: ItemRef{ID: 1, Tier: SizeS}, Toppings: mustLayout(t, LayoutFull, []int64{1})}, pizzaItem(4000), 1)
	require.Equal(t, int64(4500), p.Subtotal(c))

	live.Set(menu.NewCatalog(
		[]menu.Item{{ID: 1, BasePrice: 9000}},
		[]menu.Topping{{ID: 1, Name: "Olives", Price: 700}},
		nil, nil,
	))
	assert.Equal(t, int64(4700), p.Subtotal(c), "base price comes from the snapshot, toppings from the current catalog")
}
