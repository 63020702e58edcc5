package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/cart"
	"storefront/internal/delivery"

	"go.uber.org/zap"
)

// Store is the order collaborator. SaveOrder returns the order with its id
// and creation time filled in.
type Store interface {
	SaveOrder(ctx context.Context, order Order) (Order, error)
	GetOrderByID(ctx context.Context, id int64) (Order, error)
	ListOrders(ctx context.Context, limit int) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status Status) error
	GetOrderStatistics(ctx context.Context) (Statistics, error)
}

// Notifier tells staff about orders. Failures are logged, never returned to
// the customer.
type Notifier interface {
	NotifyNewOrder(ctx context.Context, order Order) error
	NotifyStatusChange(ctx context.Context, order Order) error
}

// RateLimiter reports whether a key went over its budget.
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string) (limited bool, err error)
}

type Service struct {
	quoter   *delivery.Quoter
	store    Store
	notifier Notifier
	limiter  RateLimiter
	logger   *zap.Logger
}

type Option func(*Service)

func WithRateLimiter(l RateLimiter) Option {
	return func(s *Service) { s.limiter = l }
}

func NewService(quoter *delivery.Quoter, store Store, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{quoter: quoter, store: store, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetNotifier attaches staff notifications once the notifier is built.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// Request is a checkout submission for one session.
type Request struct {
	Customer Customer
	AddOns   []delivery.AddOn
	// ClaimedTotal is the total the client displayed; nil skips the comparison.
	ClaimedTotal *int64
}

// Submit re-prices the session, enforces the delivery policy and stores the
// order. The session cart is cleared only after the order is saved.
func (s *Service) Submit(ctx context.Context, session *delivery.Session, req Request) (Order, error) {
	const operation = "checkout.Submit"

	if s.limiter != nil {
		limited, err := s.limiter.CheckRateLimit(ctx, "checkout:"+session.ID)
		if err != nil {
			s.logger.Warn("Rate limit check failed", zap.String("session_id", session.ID), zap.Error(err))
		} else if limited {
			return Order{}, ErrRateLimited
		}
	}

	if session.Cart().IsEmpty() {
		return Order{}, ErrEmptyCart
	}

	mode := session.Mode()
	customer := req.Customer.Normalize(mode)
	if err := customer.Validate(mode); err != nil {
		return Order{}, err
	}

	quote := s.quoter.Quote(session, req.AddOns)
	if err := s.quoter.Policy().Check(mode, quote.Total); err != nil {
		return Order{}, err
	}
	if req.ClaimedTotal != nil && *req.ClaimedTotal != quote.Total {
		return Order{}, &TotalMismatchError{Claimed: *req.ClaimedTotal, Computed: quote.Total}
	}

	lines, err := s.freeze(session.Cart())
	if err != nil {
		return Order{}, fmt.Errorf("%s: %w", operation, err)
	}

	order, err := s.store.SaveOrder(ctx, Order{
		CustomerName: customer.Name,
		Phone:        customer.Phone,
		DeliveryMode: mode,
		Address:      customer.Address,
		Lines:        lines,
		AddOns:       req.AddOns,
		Subtotal:     quote.Subtotal + quote.AddOns,
		Total:        quote.Total,
		Status:       StatusPending,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return Order{}, fmt.Errorf("%s: save order: %w", operation, err)
	}

	s.logger.Info("Order submitted",
		zap.Int64("order_id", order.ID),
		zap.String("session_id", session.ID),
		zap.String("mode", string(mode)),
		zap.Int64("total", order.Total))

	if s.notifier != nil {
		if err := s.notifier.NotifyNewOrder(ctx, order); err != nil {
			s.logger.Error("Failed to notify about order", zap.Int64("order_id", order.ID), zap.Error(err))
		}
	}

	session.Cart().Clear()
	return order, nil
}

func (s *Service) freeze(c *cart.Cart) (OrderLines, error) {
	pricer := s.quoter.Pricer()
	lines := make(OrderLines, 0, c.Len())
	for _, l := range c.Lines() {
		raw, err := json.Marshal(l.Config)
		if err != nil {
			return nil, fmt.Errorf("encode item %d: %w", l.Config.ItemID(), err)
		}
		line := OrderLine{
			ItemID:        l.Config.ItemID(),
			Name:          l.Item.Name,
			Kind:          l.Config.Kind(),
			Quantity:      l.Quantity,
			Configuration: raw,
			UnitPrice:     pricer.UnitPrice(l.Config, l.Item),
			Subtotal:      pricer.LineSubtotal(l),
		}
		if l.Item.AllowsSizes {
			line.Size = l.Config.Size()
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *Service) ListOrders(ctx context.Context, limit int) ([]Order, error) {
	return s.store.ListOrders(ctx, limit)
}

func (s *Service) GetOrder(ctx context.Context, id int64) (Order, error) {
	return s.store.GetOrderByID(ctx, id)
}

func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	return s.store.GetOrderStatistics(ctx)
}

// UpdateStatus moves an order forward in its lifecycle and notifies staff.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (Order, error) {
	const operation = "checkout.UpdateStatus"

	if !status.Valid() {
		return Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	order, err := s.store.GetOrderByID(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !order.Status.CanMoveTo(status) {
		return Order{}, fmt.Errorf("%w: %s to %s", ErrInvalidStatus, order.Status, status)
	}
	if err := s.store.UpdateOrderStatus(ctx, id, status); err != nil {
		return Order{}, fmt.Errorf("%s: %w", operation, err)
	}
	order.Status = status

	s.logger.Info("Order status updated", zap.Int64("order_id", id), zap.String("status", string(status)))
	if s.notifier != nil {
		if err := s.notifier.NotifyStatusChange(ctx, order); err != nil {
			s.logger.Error("Failed to notify about status change", zap.Int64("order_id", id), zap.Error(err))
		}
	}
	return order, nil
}
