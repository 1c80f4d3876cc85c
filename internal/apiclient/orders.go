package apiclient

import (
	"context"
	"fmt"

	"storefront-client/internal/domain"
)

// OrdersAPI covers the order endpoints, including the payment-attachment
// calls the payment flow issues against an order.
type OrdersAPI struct {
	client *Client
}

// NewOrdersAPI wraps the client.
func NewOrdersAPI(client *Client) *OrdersAPI {
	return &OrdersAPI{client: client}
}

// Place creates the order from a submission payload.
func (o *OrdersAPI) Place(ctx context.Context, payload domain.OrderPayload) (*domain.Order, error) {
	var order domain.Order
	if err := o.client.Post(ctx, "/orders", payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Get fetches one order by id.
func (o *OrdersAPI) Get(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	if err := o.client.Get(ctx, "/orders/"+id, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// List fetches one history page, newest first.
func (o *OrdersAPI) List(ctx context.Context, page, size int) (*domain.OrderPage, error) {
	var result domain.OrderPage
	path := fmt.Sprintf("/orders?page=%d&size=%d&sort=createdAt,desc", page, size)
	if err := o.client.Get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Cancel requests a server-side cancellation.
func (o *OrdersAPI) Cancel(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	if err := o.client.Put(ctx, "/orders/"+id+"/cancel", nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreatePayment attaches a freshly initiated gateway session to the order.
func (o *OrdersAPI) CreatePayment(ctx context.Context, orderID string, session domain.PaymentSession) (*domain.Order, error) {
	var order domain.Order
	if err := o.client.Put(ctx, "/orders/"+orderID+"/payment", session, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdatePayment reconciles the order with a gateway status answer.
func (o *OrdersAPI) UpdatePayment(ctx context.Context, orderID string, status domain.GatewayStatus) (*domain.Order, error) {
	var order domain.Order
	if err := o.client.Put(ctx, "/orders/"+orderID+"/payment/update", status, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
