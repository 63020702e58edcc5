package delivery

import (
	"fmt"
	"strings"

	"storefront/internal/cart"

	"github.com/shopspring/decimal"
)

type Mode string

const (
	ModePickup   Mode = "pickup"
	ModeDelivery Mode = "delivery"
)

// ParseMode accepts the mode names case-insensitively. Empty means pickup.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModePickup:
		return ModePickup, nil
	case ModeDelivery:
		return ModeDelivery, nil
	default:
		return "", &cart.ValidationError{
			Code:    cart.StatusInvalidArgument,
			Message: fmt.Sprintf("unknown delivery mode: %q", s),
		}
	}
}

// Policy holds the delivery surcharge and the minimum a delivery order must reach.
type Policy struct {
	DeliveryMultiplier decimal.Decimal
	MinimumOrder       int64
}

func DefaultPolicy() Policy {
	return Policy{
		DeliveryMultiplier: decimal.RequireFromString("1.10"),
		MinimumOrder:       5500,
	}
}

func (p Policy) Multiplier(mode Mode) decimal.Decimal {
	if mode == ModeDelivery {
		return p.DeliveryMultiplier
	}
	return decimal.NewFromInt(1)
}

// Apply multiplies the whole subtotal once and rounds half-up once.
func (p Policy) Apply(mode Mode, subtotal int64) int64 {
	return decimal.NewFromInt(subtotal).Mul(p.Multiplier(mode)).Round(0).IntPart()
}

// Check gates checkout. Pickup orders have no minimum.
func (p Policy) Check(mode Mode, total int64) error {
	if mode != ModeDelivery || total >= p.MinimumOrder {
		return nil
	}
	return &PolicyViolation{
		Code:      cart.StatusFailedPrecondition,
		Minimum:   p.MinimumOrder,
		Total:     total,
		Shortfall: p.MinimumOrder - total,
	}
}

// Shortfall is how much a delivery total is below the minimum, 0 otherwise.
func (p Policy) Shortfall(mode Mode, total int64) int64 {
	if mode != ModeDelivery || total >= p.MinimumOrder {
		return 0
	}
	return p.MinimumOrder - total
}

// PolicyViolation reports a delivery total under the minimum order.
type PolicyViolation struct {
	Code      cart.StatusCode
	Minimum   int64
	Total     int64
	Shortfall int64
}

func (e *PolicyViolation) Error() string {
	return fmt.Sprintf("delivery minimum is %d, total is %d, %d short", e.Minimum, e.Total, e.Shortfall)
}
