package checkout

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"storefront/internal/cart"
	"storefront/internal/delivery"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
)

// Statuses lists the lifecycle in order.
var Statuses = []Status{StatusPending, StatusPreparing, StatusReady, StatusDelivered}

func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// CanMoveTo allows forward moves only. Skipping a step is fine; going back is not.
func (s Status) CanMoveTo(next Status) bool {
	from, to := slices.Index(Statuses, s), slices.Index(Statuses, next)
	return from >= 0 && to > from
}

// OrderLine is a priced cart line frozen at submission time.
type OrderLine struct {
	ItemID        int64           `json:"item_id"`
	Name          string          `json:"name"`
	Kind          cart.Kind       `json:"kind"`
	Size          cart.Size       `json:"size,omitempty"`
	Quantity      int             `json:"quantity"`
	Configuration json.RawMessage `json:"configuration"`
	UnitPrice     int64           `json:"unit_price"`
	Subtotal      int64           `json:"subtotal"`
}

// OrderLines is stored as a single JSON column.
type OrderLines []OrderLine

func (l OrderLines) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *OrderLines) Scan(src interface{}) error {
	return scanJSON(src, l)
}

type AddOns []delivery.AddOn

func (a AddOns) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

func (a *AddOns) Scan(src interface{}) error {
	return scanJSON(src, a)
}

func scanJSON(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("checkout: cannot scan %T into %T", src, dst)
	}
}

type Order struct {
	ID           int64         `json:"id" db:"id"`
	CustomerName string        `json:"customer_name" db:"customer_name"`
	Phone        string        `json:"phone" db:"phone"`
	DeliveryMode delivery.Mode `json:"delivery_mode" db:"delivery_mode"`
	Address      string        `json:"address,omitempty" db:"address"`
	Lines        OrderLines    `json:"lines" db:"lines"`
	AddOns       AddOns        `json:"add_ons" db:"add_ons"`
	Subtotal     int64         `json:"subtotal" db:"subtotal"`
	Total        int64         `json:"total" db:"total"`
	Status       Status        `json:"status" db:"status"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
}

// Statistics are order counts and revenue in minor units.
type Statistics struct {
	TotalOrders  int            `json:"total_orders" db:"total_orders"`
	TotalRevenue int64          `json:"total_revenue" db:"total_revenue"`
	TodayOrders  int            `json:"today_orders"`
	TodayRevenue int64          `json:"today_revenue"`
	WeekOrders   int            `json:"week_orders"`
	WeekRevenue  int64          `json:"week_revenue"`
	MonthOrders  int            `json:"month_orders"`
	MonthRevenue int64          `json:"month_revenue"`
	StatusCounts map[Status]int `json:"status_counts"`
}

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInvalidContact = errors.New("invalid contact details")
	ErrOrderNotFound  = errors.New("order not found")
	ErrInvalidStatus  = errors.New("invalid order status")
	ErrRateLimited    = errors.New("too many checkout attempts")
)

// TotalMismatchError means the total the client saw is not the one the server
// computed. The order is refused rather than repriced.
type TotalMismatchError struct {
	Claimed  int64
	Computed int64
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("total mismatch: client sent %d, server computed %d", e.Claimed, e.Computed)
}
