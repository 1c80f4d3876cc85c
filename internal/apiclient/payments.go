package apiclient

import (
	"context"

	"storefront-client/internal/domain"
)

// PaymentsAPI covers the payment-gateway endpoints.
type PaymentsAPI struct {
	client *Client
}

// NewPaymentsAPI wraps the client.
func NewPaymentsAPI(client *Client) *PaymentsAPI {
	return &PaymentsAPI{client: client}
}

type pollRequest struct {
	URL string `json:"url"`
}

// InitiateWeb opens a web payment session for the order.
func (p *PaymentsAPI) InitiateWeb(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentSession, error) {
	var session domain.PaymentSession
	if err := p.client.Post(ctx, "/payments/web", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// InitiateMobile opens a mobile-money collection for the order.
func (p *PaymentsAPI) InitiateMobile(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentSession, error) {
	var session domain.PaymentSession
	if err := p.client.Post(ctx, "/payments/mobile", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Check fetches the gateway status through the poll URL; the caller is
// expected to reconcile the order with the answer.
func (p *PaymentsAPI) Check(ctx context.Context, pollURL string) (*domain.GatewayStatus, error) {
	var status domain.GatewayStatus
	if err := p.client.Post(ctx, "/payments/check", pollRequest{URL: pollURL}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Poll is the liveness-only status query.
func (p *PaymentsAPI) Poll(ctx context.Context, pollURL string) (*domain.GatewayStatus, error) {
	var status domain.GatewayStatus
	if err := p.client.Post(ctx, "/payments/poll", pollRequest{URL: pollURL}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
