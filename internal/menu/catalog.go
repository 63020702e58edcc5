package menu

import (
	"context"
	"fmt"
	"sort"
)

// Catalog is an immutable snapshot of the menu, fetched once per view.
type Catalog struct {
	items      map[int64]Item
	toppings   map[int64]Topping
	sauces     map[string]Sauce
	categories map[int64]Category
}

func NewCatalog(items []Item, toppings []Topping, sauces []Sauce, categories []Category) *Catalog {
	c := &Catalog{
		items:      make(map[int64]Item, len(items)),
		toppings:   make(map[int64]Topping, len(toppings)),
		sauces:     make(map[string]Sauce, len(sauces)),
		categories: make(map[int64]Category, len(categories)),
	}
	for _, it := range items {
		c.items[it.ID] = it
	}
	for _, t := range toppings {
		c.toppings[t.ID] = t
	}
	for _, s := range sauces {
		c.sauces[s.ID] = s
	}
	for _, cat := range categories {
		c.categories[cat.ID] = cat
	}
	return c
}

// Load reads every catalog collection from r.
func Load(ctx context.Context, r Reader) (*Catalog, error) {
	const operation = "menu.Load"

	items, err := r.GetMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: items: %w", operation, err)
	}
	toppings, err := r.GetToppings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: toppings: %w", operation, err)
	}
	sauces, err := r.GetSauces(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: sauces: %w", operation, err)
	}
	categories, err := r.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: categories: %w", operation, err)
	}

	return NewCatalog(items, toppings, sauces, categories), nil
}

func (c *Catalog) Item(id int64) (Item, bool) {
	it, ok := c.items[id]
	return it, ok
}

func (c *Catalog) Category(id int64) (Category, bool) {
	cat, ok := c.categories[id]
	return cat, ok
}

// KindOf returns the configuration kind of the item's category, or "" when unknown.
func (c *Catalog) KindOf(item Item) string {
	if cat, ok := c.categories[item.CategoryID]; ok {
		return cat.Kind
	}
	return ""
}

func (c *Catalog) ToppingPrice(id int64) (int64, bool) {
	if c == nil {
		return 0, false
	}
	t, ok := c.toppings[id]
	return t.Price, ok
}

func (c *Catalog) SaucePrice(id string) (int64, bool) {
	if c == nil {
		return 0, false
	}
	s, ok := c.sauces[id]
	return s.Price, ok
}

// ToppingAllowed reports whether topping id may be placed on items of categoryID.
func (c *Catalog) ToppingAllowed(id, categoryID int64) bool {
	t, ok := c.toppings[id]
	if !ok {
		return false
	}
	return t.CategoryID == nil || *t.CategoryID == categoryID
}

// Items returns items ordered by category then id.
func (c *Catalog) Items() []Item {
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CategoryID != out[j].CategoryID {
			return out[i].CategoryID < out[j].CategoryID
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (c *Catalog) Categories() []Category {
	out := make([]Category, 0, len(c.categories))
	for _, cat := range c.categories {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
