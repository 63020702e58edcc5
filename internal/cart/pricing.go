package cart

import (
	"storefront/internal/menu"

	"github.com/shopspring/decimal"
)

// PriceBook holds the fixed surcharges in minor units and the size multipliers.
type PriceBook struct {
	SizeMultipliers map[Size]decimal.Decimal

	CreamSauce        int64
	VeganCheese       int64
	Gratin            int64
	Parmesan          int64
	BoiledEgg         int64
	ExtraCheese       int64
	ExtraSpicyUnit    int64
	SmallSaucePortion int64
	LargeSaucePortion int64
}

func NewDefaultPriceBook() PriceBook {
	return PriceBook{
		SizeMultipliers: map[Size]decimal.Decimal{
			SizeS:  decimal.NewFromInt(1),
			SizeM:  decimal.RequireFromString("1.2"),
			SizeL:  decimal.RequireFromString("1.4"),
			SizeXL: decimal.RequireFromString("1.6"),
		},
		CreamSauce:        500,
		VeganCheese:       300,
		Gratin:            300,
		Parmesan:          400,
		BoiledEgg:         300,
		ExtraCheese:       300,
		ExtraSpicyUnit:    200,
		SmallSaucePortion: 300,
		LargeSaucePortion: 500,
	}
}

// Multiplier returns the size multiplier, 1 for tiers missing from the book.
func (b PriceBook) Multiplier(s Size) decimal.Decimal {
	if m, ok := b.SizeMultipliers[s]; ok {
		return m
	}
	return decimal.NewFromInt(1)
}

// PriceLookup resolves catalog surcharges. Unknown ids report false.
type PriceLookup interface {
	ToppingPrice(id int64) (int64, bool)
	SaucePrice(id string) (int64, bool)
}

// PriceContext is what a configuration needs to price its add-ons.
type PriceContext struct {
	Book   PriceBook
	Lookup PriceLookup
	Item   menu.Item
}

// toppings sums catalog prices flat across sections. Unknown ids add nothing.
func (pc PriceContext) toppings(l ToppingLayout) int64 {
	if !pc.Item.AllowsToppings || pc.Lookup == nil {
		return 0
	}
	var total int64
	for _, section := range l.view() {
		for _, id := range section {
			if price, ok := pc.Lookup.ToppingPrice(id); ok {
				total += price
			}
		}
	}
	return total
}

func (pc PriceContext) sauce(id string) int64 {
	if id == "" || !pc.Item.AllowsSauces || pc.Lookup == nil {
		return 0
	}
	price, _ := pc.Lookup.SaucePrice(id)
	return price
}

// Pricer computes integer prices from a line's configuration and item snapshot.
type Pricer struct {
	book   PriceBook
	lookup PriceLookup
}

func NewPricer(book PriceBook, lookup PriceLookup) *Pricer {
	return &Pricer{book: book, lookup: lookup}
}

// BasePrice applies the size multiplier to the snapshot's base price and rounds
// half-up to a whole minor unit. Items without sizes keep their base price.
func (p *Pricer) BasePrice(cfg Configuration, item menu.Item) int64 {
	base := decimal.NewFromInt(item.BasePrice)
	if item.AllowsSizes {
		base = base.Mul(p.book.Multiplier(cfg.Size()))
	}
	return base.Round(0).IntPart()
}

func (p *Pricer) UnitPrice(cfg Configuration, item menu.Item) int64 {
	if cfg == nil {
		return 0
	}
	pc := PriceContext{Book: p.book, Lookup: p.lookup, Item: item}
	return p.BasePrice(cfg, item) + cfg.Surcharge(pc)
}

func (p *Pricer) LineSubtotal(l Line) int64 {
	quantity := min(max(l.Quantity, 0), MaxLineQuantity)
	return p.UnitPrice(l.Config, l.Item) * int64(quantity)
}

// Subtotal is the sum of every line subtotal, before any delivery multiplier.
func (p *Pricer) Subtotal(c *Cart) int64 {
	var total int64
	for _, l := range c.lines {
		total += p.LineSubtotal(l)
	}
	return total
}
