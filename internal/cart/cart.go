package cart

import "storefront/internal/menu"

// Line is a configured item with a quantity. Item is the snapshot taken when
// the line was first added; later catalog changes do not touch it.
type Line struct {
	Config   Configuration
	Quantity int
	Item     menu.Item
}

// Cart keeps lines in insertion order. No two lines hold equal configurations.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add merges into an existing line with an equal configuration, keeping that
// line's configuration and snapshot, or appends a new line. The configuration
// is normalized against the item first. Quantities are kept within
// 1..MaxLineQuantity, merged totals included.
func (c *Cart) Add(cfg Configuration, item menu.Item, quantity int) (merged bool) {
	if cfg == nil {
		return false
	}
	cfg = Normalize(cfg, item)
	quantity = clampQuantity(quantity)

	if i := c.index(cfg); i >= 0 {
		c.lines[i].Quantity = clampQuantity(c.lines[i].Quantity + quantity)
		return true
	}

	c.lines = append(c.lines, Line{Config: cfg, Quantity: quantity, Item: item})
	return false
}

// QuantityOf reports how many units of cfg the cart already holds.
func (c *Cart) QuantityOf(cfg Configuration, item menu.Item) int {
	if cfg == nil {
		return 0
	}
	if i := c.index(Normalize(cfg, item)); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

func (c *Cart) index(cfg Configuration) int {
	for i := range c.lines {
		if Equal(c.lines[i].Config, cfg) {
			return i
		}
	}
	return -1
}

// Remove drops every line for the item, whatever its configuration, and
// returns how many lines went away.
func (c *Cart) Remove(itemID int64) int {
	kept := c.lines[:0]
	for _, l := range c.lines {
		if l.Config.ItemID() != itemID {
			kept = append(kept, l)
		}
	}
	removed := len(c.lines) - len(kept)
	clear(c.lines[len(kept):])
	c.lines = kept
	return removed
}

// UpdateQuantity sets the quantity of the first line for the item in
// insertion order. Other lines of the same item are left alone.
func (c *Cart) UpdateQuantity(itemID int64, quantity int) bool {
	for i := range c.lines {
		if c.lines[i].Config.ItemID() == itemID {
			c.lines[i].Quantity = clampQuantity(quantity)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Units is the total quantity across lines.
func (c *Cart) Units() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}
