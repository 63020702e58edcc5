package delivery

import (
	"fmt"

	"storefront/internal/cart"

	"github.com/shopspring/decimal"
)

type DrinkSize string

const (
	DrinkSmall DrinkSize = "small"
	DrinkLarge DrinkSize = "large"
)

// DrinkPrices are the fixed prices of drinks offered on the cart page.
type DrinkPrices struct {
	Small int64
	Large int64
}

func DefaultDrinkPrices() DrinkPrices {
	return DrinkPrices{Small: 800, Large: 1200}
}

// AddOn is an extra picked at checkout. It joins the subtotal before the
// delivery multiplier and is never merged into the cart.
type AddOn struct {
	Name      string    `json:"name"`
	Size      DrinkSize `json:"size"`
	UnitPrice int64     `json:"unit_price"`
	Quantity  int       `json:"quantity"`
}

func (a AddOn) Subtotal() int64 {
	return a.UnitPrice * int64(min(max(a.Quantity, 0), cart.MaxLineQuantity))
}

// Drink prices a drink add-on. Quantities below 1 count as 1.
func (d DrinkPrices) Drink(name string, size DrinkSize, quantity int) (AddOn, error) {
	var price int64
	switch size {
	case DrinkSmall:
		price = d.Small
	case DrinkLarge:
		price = d.Large
	default:
		return AddOn{}, &cart.ValidationError{
			Code:    cart.StatusInvalidArgument,
			Message: fmt.Sprintf("unknown drink size: %q", size),
		}
	}
	if quantity > cart.MaxLineQuantity {
		return AddOn{}, &cart.ValidationError{
			Code:    cart.StatusInvalidArgument,
			Message: fmt.Sprintf("%s: %d drinks", cart.ErrMsgQuantityTooLarge, quantity),
		}
	}
	return AddOn{Name: name, Size: size, UnitPrice: price, Quantity: max(quantity, 1)}, nil
}

// Quote is the payable breakdown of a session.
type Quote struct {
	Mode        Mode            `json:"mode"`
	Subtotal    int64           `json:"subtotal"`
	AddOns      int64           `json:"add_ons"`
	Multiplier  decimal.Decimal `json:"multiplier"`
	Total       int64           `json:"total"`
	Minimum     int64           `json:"minimum"`
	Shortfall   int64           `json:"shortfall"`
	CanCheckout bool            `json:"can_checkout"`
}

// Quoter prices a session under a delivery policy.
type Quoter struct {
	pricer *cart.Pricer
	policy Policy
}

func NewQuoter(pricer *cart.Pricer, policy Policy) *Quoter {
	return &Quoter{pricer: pricer, policy: policy}
}

func (q *Quoter) Pricer() *cart.Pricer {
	return q.pricer
}

func (q *Quoter) Policy() Policy {
	return q.policy
}

// Quote sums lines and add-ons, then applies the mode multiplier exactly once.
// An empty cart can never be checked out.
func (q *Quoter) Quote(s *Session, addOns []AddOn) Quote {
	mode := s.Mode()
	subtotal := q.pricer.Subtotal(s.Cart())

	var extras int64
	for _, a := range addOns {
		extras += a.Subtotal()
	}

	total := q.policy.Apply(mode, subtotal+extras)
	out := Quote{
		Mode:       mode,
		Subtotal:   subtotal,
		AddOns:     extras,
		Multiplier: q.policy.Multiplier(mode),
		Total:      total,
		Shortfall:  q.policy.Shortfall(mode, total),
	}
	if mode == ModeDelivery {
		out.Minimum = q.policy.MinimumOrder
	}
	out.CanCheckout = !s.Cart().IsEmpty() && out.Shortfall == 0
	return out
}
