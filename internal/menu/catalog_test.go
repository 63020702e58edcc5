package menu

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticReader struct {
	items      []Item
	toppings   []Topping
	sauces     []Sauce
	categories []Category
	err        error
}

func (r staticReader) GetMenuItems(context.Context) ([]Item, error) { return r.items, r.err }
func (r staticReader) GetToppings(context.Context) ([]Topping, error) { return r.toppings, nil }
func (r staticReader) GetSauces(context.Context) ([]Sauce, error) { return r.sauces, nil }
func (r staticReader) GetCategories(context.Context) ([]Category, error) { return r.categories, nil }

func ptr(v int64) *int64 { return &v }

func TestLoad(t *testing.T) {
	r := staticReader{
		items: []Item{
			{ID: 3, Name: "Penne", CategoryID: 2},
			{ID: 1, Name: "Margherita", CategoryID: 1},
			{ID: 2, Name: "Funghi", CategoryID: 1},
		},
		toppings:   []Topping{{ID: 1, Price: 500}, {ID: 2, Price: 300, CategoryID: ptr(2)}},
		sauces:     []Sauce{{ID: "rose", Price: 600}},
		categories: []Category{{ID: 2, Kind: "pasta"}, {ID: 1, Kind: "pizza"}},
	}

	c, err := Load(context.Background(), r)
	require.NoError(t, err)

	var ids []int64
	for _, it := range c.Items() {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []int64{1, 2, 3}, ids)

	item, ok := c.Item(3)
	require.True(t, ok)
	assert.Equal(t, "pasta", c.KindOf(item))
	assert.Equal(t, "", c.KindOf(Item{CategoryID: 99}))

	assert.True(t, c.ToppingAllowed(1, 2))
	assert.True(t, c.ToppingAllowed(2, 2))
	assert.False(t, c.ToppingAllowed(2, 1))
	assert.False(t, c.ToppingAllowed(9, 1))

	price, ok := c.SaucePrice("rose")
	assert.True(t, ok)
	assert.Equal(t, int64(600), price)
}

func TestLoad_PropagatesErrors(t *testing.T) {
	_, err := Load(context.Background(), staticReader{err: errors.New("boom")})
	assert.ErrorContains(t, err, "menu.Load: items: boom")
}

func TestLive(t *testing.T) {
	live := NewLive(nil)

	_, ok := live.ToppingPrice(1)
	assert.False(t, ok, "no catalog yet")

	live.Set(NewCatalog(nil, []Topping{{ID: 1, Price: 500}}, nil, nil))
	price, ok := live.ToppingPrice(1)
	assert.True(t, ok)
	assert.Equal(t, int64(500), price)

	live.Set(NewCatalog(nil, []Topping{{ID: 1, Price: 450}}, nil, nil))
	price, _ = live.ToppingPrice(1)
	assert.Equal(t, int64(450), price)
}
