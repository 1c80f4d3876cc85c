// Package checkout drives a checkout session: precondition validation, the
// pending-order recovery checkpoint and the place-order lifecycle.
package checkout

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"storefront-client/internal/domain"
)

// PendingOrderKey is the local-store key the submission payload is staged
// under before the order-creation call.
const PendingOrderKey = "pendingOrder"

// Blocking reasons, surfaced to the user verbatim. Validate returns them in
// precondition order; the first failure wins.
var (
	ErrLoginRequired   = errors.New("please log in to place an order")
	ErrDeliveryWindow  = errors.New("delivery time must be at least one hour in the future")
	ErrAddressRequired = errors.New("select a delivery address")

	// ErrSubmitInFlight rejects a second submission while one is already on
	// the wire, so a fast double click cannot create duplicate orders.
	ErrSubmitInFlight = errors.New("order submission already in progress")
)

type cartStore interface {
	Items() []domain.CartItem
	Total() decimal.Decimal
	Empty()
}

type orderPlacer interface {
	Place(ctx context.Context, payload domain.OrderPayload) (*domain.Order, error)
}

type stateStore interface {
	Get(key string, out interface{}) error
	Put(key string, v interface{}) error
	Delete(key string) error
}

type slotValidator interface {
	IsFutureDateTime(date, clock string) bool
}

// Input is everything the user selected for one submission attempt.
type Input struct {
	User          *domain.User
	Delivery      domain.DeliverySelection
	Address       *domain.Address
	PaymentMethod domain.PaymentMethod
}

// Service is the checkout orchestrator.
type Service struct {
	cart      cartStore
	orders    orderPlacer
	store     stateStore
	validator slotValidator
	now       func() time.Time
	logger    *log.Logger
	inFlight  atomic.Bool
}

// New wires the orchestrator. A nil now function falls back to time.Now.
func New(cart cartStore, orders orderPlacer, store stateStore, validator slotValidator, now func() time.Time, logger *log.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{cart: cart, orders: orders, store: store, validator: validator, now: now, logger: logger}
}

// Validate runs the precondition chain without side effects. Pickup orders
// skip the delivery-slot and address checks entirely.
func (s *Service) Validate(in Input) error {
	if in.User == nil || in.User.Email == "" {
		return ErrLoginRequired
	}
	if in.Delivery.Method == domain.DeliveryMethodPickup {
		return nil
	}
	if in.Delivery.Date == "" || in.Delivery.Time == "" ||
		!s.validator.IsFutureDateTime(in.Delivery.Date, in.Delivery.Time) {
		return ErrDeliveryWindow
	}
	if in.Address == nil {
		return ErrAddressRequired
	}
	return nil
}

// Submit validates, stages the payload as the pending-order recovery record,
// places the order, and on success clears the record and empties the cart.
// On failure the record and the cart both survive for a retry.
func (s *Service) Submit(ctx context.Context, in Input) (*domain.Order, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer s.inFlight.Store(false)

	if err := s.Validate(in); err != nil {
		return nil, err
	}

	payload := s.buildPayload(in)
	if err := s.store.Put(PendingOrderKey, payload); err != nil && s.logger != nil {
		// Losing the checkpoint only hurts recovery after a redirect; the
		// submission itself can still proceed.
		s.logger.Printf("stage pending order: %v", err)
	}

	order, err := s.orders.Place(ctx, payload)
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(PendingOrderKey); err != nil && s.logger != nil {
		s.logger.Printf("clear pending order: %v", err)
	}
	s.cart.Empty()
	return order, nil
}

// PendingOrder returns the staged recovery record, if one survived a reload
// or an external payment redirect.
func (s *Service) PendingOrder() (*domain.OrderPayload, bool) {
	var payload domain.OrderPayload
	if err := s.store.Get(PendingOrderKey, &payload); err != nil {
		return nil, false
	}
	return &payload, true
}

func (s *Service) buildPayload(in Input) domain.OrderPayload {
	items := s.cart.Items()
	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, domain.OrderItem{
			ProductID:   item.ID,
			ProductName: item.Name,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}

	payload := domain.OrderPayload{
		UserID:        in.User.ID,
		Status:        "pending",
		TotalAmount:   s.cart.Total(),
		CreatedAt:     s.now(),
		Items:         orderItems,
		PaymentMethod: in.PaymentMethod,
	}
	if in.Delivery.Method != domain.DeliveryMethodPickup {
		payload.ShippingAddress = in.Address
		payload.DeliveryDate = in.Delivery.Date
		payload.DeliveryTime = in.Delivery.Time
	}
	return payload
}
