package cart

import (
	"encoding/json"
	"slices"
)

type Layout string

const (
	LayoutFull    Layout = "full"
	LayoutHalf    Layout = "half"
	LayoutQuarter Layout = "quarter"
)

// RegionCount is the number of topping sections a layout has, 0 for unknown layouts.
func RegionCount(l Layout) int {
	switch l {
	case LayoutFull:
		return 1
	case LayoutHalf:
		return 2
	case LayoutQuarter:
		return 4
	default:
		return 0
	}
}

// MaxLineQuantity bounds every line and add-on quantity, whatever the
// configured limit, so minor-unit totals stay far from int64 overflow.
const MaxLineQuantity = 9999

// Limits are business caps applied while a configuration is edited.
type Limits struct {
	MaxToppingsPerSection int
	// MaxQuantity caps one line; zero falls back to MaxLineQuantity.
	MaxQuantity int
}

func DefaultLimits() Limits {
	return Limits{MaxToppingsPerSection: 3, MaxQuantity: 99}
}

func (l Limits) maxQuantity() int {
	if l.MaxQuantity <= 0 || l.MaxQuantity > MaxLineQuantity {
		return MaxLineQuantity
	}
	return l.MaxQuantity
}

// CheckQuantity refuses a line quantity above the cap.
func (l Limits) CheckQuantity(quantity int) error {
	if limit := l.maxQuantity(); quantity > limit {
		return invalidf("%s: %d > %d", ErrMsgQuantityTooLarge, quantity, limit)
	}
	return nil
}

// clampQuantity keeps a quantity within 1..MaxLineQuantity.
func clampQuantity(quantity int) int {
	return min(max(quantity, 1), MaxLineQuantity)
}

// ToppingLayout assigns toppings to the regions of an item. The section count
// always matches the layout; the zero value is a full layout with no toppings.
type ToppingLayout struct {
	layout   Layout
	sections [][]int64
}

// NewToppingLayout builds a layout. With no sections it returns an empty layout
// of the right shape.
func NewToppingLayout(layout Layout, sections ...[]int64) (ToppingLayout, error) {
	n := RegionCount(layout)
	if n == 0 {
		return ToppingLayout{}, invalidf("%s: %q", ErrMsgUnknownLayout, layout)
	}
	if len(sections) == 0 {
		return ToppingLayout{layout: layout, sections: make([][]int64, n)}, nil
	}
	if len(sections) != n {
		return ToppingLayout{}, invalidf("%s: %s needs %d, got %d", ErrMsgSectionCount, layout, n, len(sections))
	}

	out := make([][]int64, n)
	for i, section := range sections {
		seen := make(map[int64]struct{}, len(section))
		for _, id := range section {
			if _, dup := seen[id]; dup {
				return ToppingLayout{}, invalidf("%s: section %d, topping %d", ErrMsgDuplicateTopping, i, id)
			}
			seen[id] = struct{}{}
		}
		out[i] = slices.Clone(section)
	}
	return ToppingLayout{layout: layout, sections: out}, nil
}

func (t ToppingLayout) Layout() Layout {
	if t.layout == "" {
		return LayoutFull
	}
	return t.layout
}

func (t ToppingLayout) view() [][]int64 {
	if t.layout == "" {
		return [][]int64{nil}
	}
	return t.sections
}

// Sections returns a copy of every section in region order.
func (t ToppingLayout) Sections() [][]int64 {
	v := t.view()
	out := make([][]int64, len(v))
	for i, s := range v {
		out[i] = slices.Clone(s)
		if out[i] == nil {
			out[i] = []int64{}
		}
	}
	return out
}

// Count is the number of toppings across all sections.
func (t ToppingLayout) Count() int {
	n := 0
	for _, s := range t.view() {
		n += len(s)
	}
	return n
}

// Toggle adds id to the section, or removes it when present. A full section or
// an out-of-range index refuses the toggle and reports false.
func (t ToppingLayout) Toggle(section int, id int64, limits Limits) (ToppingLayout, bool) {
	v := t.view()
	if section < 0 || section >= len(v) {
		return t, false
	}

	next := ToppingLayout{layout: t.Layout(), sections: make([][]int64, len(v))}
	for i, s := range v {
		next.sections[i] = slices.Clone(s)
	}

	cur := next.sections[section]
	if idx := slices.Index(cur, id); idx >= 0 {
		next.sections[section] = slices.Delete(cur, idx, idx+1)
		return next, true
	}
	if limits.MaxToppingsPerSection > 0 && len(cur) >= limits.MaxToppingsPerSection {
		return t, false
	}
	next.sections[section] = append(cur, id)
	return next, true
}

// Validate checks section capacity against limits.
func (t ToppingLayout) Validate(limits Limits) error {
	if limits.MaxToppingsPerSection <= 0 {
		return nil
	}
	for i, s := range t.view() {
		if len(s) > limits.MaxToppingsPerSection {
			return invalidf("%s: section %d holds %d, max %d", ErrMsgSectionFull, i, len(s), limits.MaxToppingsPerSection)
		}
	}
	return nil
}

// Equal compares region by region. Order inside a region does not matter.
func (t ToppingLayout) Equal(o ToppingLayout) bool {
	if t.Layout() != o.Layout() {
		return false
	}
	a, b := t.view(), o.view()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameMultiset(a[i], b[i]) {
			return false
		}
	}
	return true
}

func sameMultiset[T int64 | string](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

type layoutJSON struct {
	Layout   Layout    `json:"layout"`
	Sections [][]int64 `json:"sections"`
}

func (t ToppingLayout) MarshalJSON() ([]byte, error) {
	return json.Marshal(layoutJSON{Layout: t.Layout(), Sections: t.Sections()})
}

// UnmarshalJSON refuses payloads whose section count does not match the layout.
func (t *ToppingLayout) UnmarshalJSON(data []byte) error {
	var raw layoutJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Layout == "" {
		raw.Layout = LayoutFull
	}
	parsed, err := NewToppingLayout(raw.Layout, raw.Sections...)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
