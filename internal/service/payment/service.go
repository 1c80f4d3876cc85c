// Package payment drives payment collection for an already-created order:
// gateway initiation, status reconciliation and the bounded confirmation poll.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"storefront-client/internal/domain"
)

// ErrPollTimeout reports that the confirmation poll exhausted its attempt
// budget without the gateway marking the payment as paid.
var ErrPollTimeout = errors.New("payment not confirmed within the polling window")

type ordersAPI interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	CreatePayment(ctx context.Context, orderID string, session domain.PaymentSession) (*domain.Order, error)
	UpdatePayment(ctx context.Context, orderID string, status domain.GatewayStatus) (*domain.Order, error)
}

type gatewayAPI interface {
	InitiateWeb(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentSession, error)
	InitiateMobile(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentSession, error)
	Check(ctx context.Context, pollURL string) (*domain.GatewayStatus, error)
	Poll(ctx context.Context, pollURL string) (*domain.GatewayStatus, error)
}

// Action is a payment step the UI may offer for an order in its current state.
type Action string

const (
	ActionPayWeb       Action = "pay-web"
	ActionPayMobile    Action = "pay-mobile"
	ActionCheckStatus  Action = "check-status"
	ActionOpenRedirect Action = "open-redirect"
)

// Handoff is the outcome of a web initiation: either a redirect URL the
// caller must hand to the browser (terminal for this process), or the
// refreshed order when no redirect is involved.
type Handoff struct {
	RedirectURL string
	Order       *domain.Order
}

// Service is the payment flow controller.
type Service struct {
	orders  ordersAPI
	gateway gatewayAPI
	logger  *log.Logger

	pollInterval time.Duration
	pollAttempts int
}

// New wires the controller with the default poll budget.
func New(orders ordersAPI, gateway gatewayAPI, logger *log.Logger) *Service {
	return &Service{
		orders:       orders,
		gateway:      gateway,
		logger:       logger,
		pollInterval: 2 * time.Second,
		pollAttempts: 8,
	}
}

// SetPollBudget overrides the confirmation-poll interval and attempt count.
func (s *Service) SetPollBudget(interval time.Duration, attempts int) {
	if interval > 0 {
		s.pollInterval = interval
	}
	if attempts > 0 {
		s.pollAttempts = attempts
	}
}

// InitiateWeb requests a web payment session, attaches it to the order, and
// either hands the redirect URL back or re-checks the order state when the
// gateway needs no redirect.
func (s *Service) InitiateWeb(ctx context.Context, order *domain.Order) (*Handoff, error) {
	session, err := s.gateway.InitiateWeb(ctx, domain.PaymentRequest{
		OrderID:    order.ID,
		OrderItems: order.Items,
	})
	if err != nil {
		return nil, fmt.Errorf("initiate web payment: %w", err)
	}

	updated, err := s.orders.CreatePayment(ctx, order.ID, *session)
	if err != nil {
		return nil, fmt.Errorf("attach payment: %w", err)
	}

	redirect := updated.RedirectURL
	if redirect == "" {
		redirect = session.RedirectURL
	}
	if redirect != "" {
		return &Handoff{RedirectURL: redirect, Order: updated}, nil
	}

	refreshed, err := s.orders.Get(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &Handoff{Order: refreshed}, nil
}

// InitiateMobile requests a mobile-money collection and attaches it to the
// order. Mobile sessions never redirect; the refreshed order is returned so
// the caller can proceed straight to status checks.
func (s *Service) InitiateMobile(ctx context.Context, order *domain.Order, phone string, method domain.MobileMoneyMethod) (*domain.Order, error) {
	session, err := s.gateway.InitiateMobile(ctx, domain.PaymentRequest{
		OrderID:           order.ID,
		PhoneNumber:       phone,
		MobileMoneyMethod: method,
		OrderItems:        order.Items,
	})
	if err != nil {
		return nil, fmt.Errorf("initiate mobile payment: %w", err)
	}
	if _, err := s.orders.CreatePayment(ctx, order.ID, *session); err != nil {
		return nil, fmt.Errorf("attach payment: %w", err)
	}
	return s.orders.Get(ctx, order.ID)
}

// CheckStatus queries the gateway and reconciles the server-side order with
// the answer, returning the refetched order.
func (s *Service) CheckStatus(ctx context.Context, orderID, pollURL string) (*domain.Order, error) {
	status, err := s.gateway.Check(ctx, pollURL)
	if err != nil {
		return nil, fmt.Errorf("check payment: %w", err)
	}
	if _, err := s.orders.UpdatePayment(ctx, orderID, *status); err != nil {
		return nil, fmt.Errorf("reconcile payment: %w", err)
	}
	return s.orders.Get(ctx, orderID)
}

// Poll is the liveness-only gateway query; it never mutates order state.
func (s *Service) Poll(ctx context.Context, pollURL string) (*domain.GatewayStatus, error) {
	return s.gateway.Poll(ctx, pollURL)
}

// WaitForPaid polls the gateway with doubling backoff until the payment is
// paid, the attempt budget runs out, or the context ends. On success it runs
// one reconciling check and returns the resulting order.
func (s *Service) WaitForPaid(ctx context.Context, orderID, pollURL string) (*domain.Order, error) {
	delay := s.pollInterval
	for attempt := 0; attempt < s.pollAttempts; attempt++ {
		status, err := s.gateway.Poll(ctx, pollURL)
		if err != nil {
			if s.logger != nil {
				s.logger.Printf("poll payment attempt %d: %v", attempt+1, err)
			}
		} else if status.Paid {
			return s.CheckStatus(ctx, orderID, pollURL)
		}

		// No sleep once the budget is spent; the timeout surfaces right
		// after the last poll.
		if attempt == s.pollAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return nil, ErrPollTimeout
}

// ActionsFor derives the payment actions an order's state currently allows.
func ActionsFor(order *domain.Order) []Action {
	if order == nil || order.PaymentMethod != domain.PaymentMethodPaynow {
		return nil
	}
	switch order.Status {
	case domain.OrderStatusPending:
		return []Action{ActionPayWeb, ActionPayMobile}
	case domain.OrderStatusWaitingForPayment:
		actions := []Action{ActionCheckStatus}
		if order.RedirectURL != "" {
			// The user may have navigated away before finishing the
			// external redirect; offer the original link again.
			actions = append(actions, ActionOpenRedirect)
		}
		return actions
	default:
		return nil
	}
}
