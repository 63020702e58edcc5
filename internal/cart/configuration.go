package cart

import "slices"

type Kind string

const (
	KindPizza       Kind = "pizza"
	KindPasta       Kind = "pasta"
	KindGarlicBread Kind = "garlic_bread"
	KindSalad       Kind = "salad"
	KindPastry      Kind = "pastry"
	KindBakedPotato Kind = "baked_potato"
	KindPlain       Kind = "plain"
)

type Size string

const (
	SizeS  Size = "S"
	SizeM  Size = "M"
	SizeL  Size = "L"
	SizeXL Size = "XL"
)

// Sizes lists tiers from smallest to largest.
var Sizes = []Size{SizeS, SizeM, SizeL, SizeXL}

func (s Size) Valid() bool {
	return slices.Contains(Sizes, s)
}

type Dough string

const (
	DoughRegular Dough = "regular"
	DoughThin    Dough = "thin"
	DoughThick   Dough = "thick"
)

func normalizeDough(d Dough) Dough {
	if d == "" {
		return DoughRegular
	}
	return d
}

func (d Dough) Valid() bool {
	switch normalizeDough(d) {
	case DoughRegular, DoughThin, DoughThick:
		return true
	}
	return false
}

// Priceable is implemented by every configuration: the per-unit add-on total,
// base price excluded.
type Priceable interface {
	Surcharge(pc PriceContext) int64
}

// Configuration is one unit of customer choices for a menu item. The set of
// implementations is closed: Pizza, Pasta, GarlicBread, Salad, Pastry,
// BakedPotato and Plain.
type Configuration interface {
	Priceable
	Kind() Kind
	ItemID() int64
	Size() Size
	Validate(limits Limits) error

	value() Configuration
	sameAs(other Configuration) bool
}

// ItemRef carries the fields every configuration shares.
type ItemRef struct {
	ID   int64 `json:"item_id"`
	Tier Size  `json:"size,omitempty"`
}

func (r ItemRef) ItemID() int64 { return r.ID }

// Size defaults to M, the tier the menu preselects.
func (r ItemRef) Size() Size {
	if r.Tier == "" {
		return SizeM
	}
	return r.Tier
}

func (r ItemRef) validate() error {
	if r.ID <= 0 {
		return invalid(ErrMsgItemIDRequired)
	}
	if !r.Size().Valid() {
		return invalidf("%s: %q", ErrMsgUnknownSize, r.Tier)
	}
	return nil
}

func (r ItemRef) same(o ItemRef) bool {
	return r.ID == o.ID && r.Size() == o.Size()
}

type Pizza struct {
	ItemRef
	Dough       Dough         `json:"dough,omitempty"`
	Toppings    ToppingLayout `json:"toppings"`
	CreamSauce  bool          `json:"cream_sauce,omitempty"`
	VeganCheese bool          `json:"vegan_cheese,omitempty"`
}

func (p Pizza) Kind() Kind { return KindPizza }
func (p Pizza) value() Configuration { return p }

func (p Pizza) Validate(limits Limits) error {
	if err := p.ItemRef.validate(); err != nil {
		return err
	}
	if !p.Dough.Valid() {
		return invalidf("%s: %q", ErrMsgUnknownDough, p.Dough)
	}
	return p.Toppings.Validate(limits)
}

func (p Pizza) Surcharge(pc PriceContext) int64 {
	total := pc.toppings(p.Toppings)
	if p.CreamSauce && pc.Item.AllowsSauces {
		total += pc.Book.CreamSauce
	}
	if p.VeganCheese {
		total += pc.Book.VeganCheese
	}
	return total
}

func (p Pizza) sameAs(other Configuration) bool {
	q, ok := other.(Pizza)
	return ok &&
		p.ItemRef.same(q.ItemRef) &&
		normalizeDough(p.Dough) == normalizeDough(q.Dough) &&
		p.Toppings.Equal(q.Toppings) &&
		p.CreamSauce == q.CreamSauce &&
		p.VeganCheese == q.VeganCheese
}

type Pasta struct {
	ItemRef
	SauceID  string `json:"sauce_id,omitempty"`
	Parmesan bool   `json:"parmesan,omitempty"`
}

func (p Pasta) Kind() Kind { return KindPasta }
func (p Pasta) value() Configuration { return p }

func (p Pasta) Validate(Limits) error {
	return p.ItemRef.validate()
}

func (p Pasta) Surcharge(pc PriceContext) int64 {
	total := pc.sauce(p.SauceID)
	if p.Parmesan {
		total += pc.Book.Parmesan
	}
	return total
}

func (p Pasta) sameAs(other Configuration) bool {
	q, ok := other.(Pasta)
	return ok && p.ItemRef.same(q.ItemRef) && p.SauceID == q.SauceID && p.Parmesan == q.Parmesan
}

type GarlicBread struct {
	ItemRef
	CreamSauce bool `json:"cream_sauce,omitempty"`
	Gratin     bool `json:"gratin,omitempty"`
}

func (g GarlicBread) Kind() Kind { return KindGarlicBread }
func (g GarlicBread) value() Configuration { return g }

func (g GarlicBread) Validate(Limits) error {
	return g.ItemRef.validate()
}

func (g GarlicBread) Surcharge(pc PriceContext) int64 {
	var total int64
	if g.CreamSauce && pc.Item.AllowsSauces {
		total += pc.Book.CreamSauce
	}
	if g.Gratin {
		total += pc.Book.Gratin
	}
	return total
}

func (g GarlicBread) sameAs(other Configuration) bool {
	q, ok := other.(GarlicBread)
	return ok && g.ItemRef.same(q.ItemRef) && g.CreamSauce == q.CreamSauce && g.Gratin == q.Gratin
}

// Salad ingredients are free picks from the salad bar, not catalog toppings.
type Salad struct {
	ItemRef
	Ingredients []int64 `json:"ingredients,omitempty"`
	BoiledEgg   bool    `json:"boiled_egg,omitempty"`
}

func (s Salad) Kind() Kind { return KindSalad }
func (s Salad) value() Configuration { return s }

func (s Salad) Validate(Limits) error {
	if err := s.ItemRef.validate(); err != nil {
		return err
	}
	if hasDuplicates(s.Ingredients) {
		return invalid(ErrMsgDuplicateSelector)
	}
	return nil
}

func (s Salad) Surcharge(pc PriceContext) int64 {
	if s.BoiledEgg {
		return pc.Book.BoiledEgg
	}
	return 0
}

func (s Salad) sameAs(other Configuration) bool {
	q, ok := other.(Salad)
	return ok && s.ItemRef.same(q.ItemRef) && s.BoiledEgg == q.BoiledEgg && sameSet(s.Ingredients, q.Ingredients)
}

type Pastry struct {
	ItemRef
	Spicy       bool     `json:"spicy,omitempty"`
	ExtraCheese bool     `json:"extra_cheese,omitempty"`
	ExtraSpicy  int      `json:"extra_spicy,omitempty"`
	SmallSauce  int      `json:"small_sauce,omitempty"`
	LargeSauce  int      `json:"large_sauce,omitempty"`
	Removed     []string `json:"removed_ingredients,omitempty"`
}

func (p Pastry) Kind() Kind { return KindPastry }
func (p Pastry) value() Configuration { return p }

func (p Pastry) Validate(Limits) error {
	if err := p.ItemRef.validate(); err != nil {
		return err
	}
	if p.ExtraSpicy < 0 || p.SmallSauce < 0 || p.LargeSauce < 0 {
		return invalid(ErrMsgNegativeUnits)
	}
	return nil
}

func (p Pastry) Surcharge(pc PriceContext) int64 {
	var total int64
	if p.ExtraCheese {
		total += pc.Book.ExtraCheese
	}
	total += units(p.ExtraSpicy) * pc.Book.ExtraSpicyUnit
	total += units(p.SmallSauce) * pc.Book.SmallSaucePortion
	total += units(p.LargeSauce) * pc.Book.LargeSaucePortion
	return total
}

func (p Pastry) sameAs(other Configuration) bool {
	q, ok := other.(Pastry)
	return ok &&
		p.ItemRef.same(q.ItemRef) &&
		p.Spicy == q.Spicy &&
		p.ExtraCheese == q.ExtraCheese &&
		units(p.ExtraSpicy) == units(q.ExtraSpicy) &&
		units(p.SmallSauce) == units(q.SmallSauce) &&
		units(p.LargeSauce) == units(q.LargeSauce) &&
		sameSet(p.Removed, q.Removed)
}

// BakedPotato is one portion with up to the section limit of catalog toppings.
type BakedPotato struct {
	ItemRef
	Toppings ToppingLayout `json:"toppings"`
}

func (b BakedPotato) Kind() Kind { return KindBakedPotato }
func (b BakedPotato) value() Configuration { return b }

func (b BakedPotato) Validate(limits Limits) error {
	if err := b.ItemRef.validate(); err != nil {
		return err
	}
	if b.Toppings.Layout() != LayoutFull {
		return invalid(ErrMsgPortionLayout)
	}
	return b.Toppings.Validate(limits)
}

func (b BakedPotato) Surcharge(pc PriceContext) int64 {
	return pc.toppings(b.Toppings)
}

func (b BakedPotato) sameAs(other Configuration) bool {
	q, ok := other.(BakedPotato)
	return ok && b.ItemRef.same(q.ItemRef) && b.Toppings.Equal(q.Toppings)
}

// Plain covers items with no options, drinks included.
type Plain struct {
	ItemRef
}

func (p Plain) Kind() Kind { return KindPlain }
func (p Plain) value() Configuration { return p }
func (p Plain) Validate(Limits) error { return p.ItemRef.validate() }
func (p Plain) Surcharge(PriceContext) int64 { return 0 }

func (p Plain) sameAs(other Configuration) bool {
	q, ok := other.(Plain)
	return ok && p.ItemRef.same(q.ItemRef)
}

// units clamps negative counts that slipped past validation.
func units(n int) int64 {
	if n < 0 {
		return 0
	}
	return int64(n)
}

func hasDuplicates[T comparable](xs []T) bool {
	seen := make(map[T]struct{}, len(xs))
	for _, x := range xs {
		if _, ok := seen[x]; ok {
			return true
		}
		seen[x] = struct{}{}
	}
	return false
}

func sameSet[T int64 | string](a, b []T) bool {
	x := slices.Compact(sorted(a))
	y := slices.Compact(sorted(b))
	return slices.Equal(x, y)
}

func sorted[T int64 | string](xs []T) []T {
	out := slices.Clone(xs)
	slices.Sort(out)
	return out
}
