package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryMethod selects the fulfilment branch of a checkout session.
type DeliveryMethod string

const (
	DeliveryMethodDelivery DeliveryMethod = "delivery"
	DeliveryMethodPickup   DeliveryMethod = "pickup"
)

// DeliverySelection is the transient date/time/method choice of one checkout
// session. It only survives as fields on the pending-order payload.
type DeliverySelection struct {
	Date   string         `json:"date"`
	Time   string         `json:"time"`
	Method DeliveryMethod `json:"method"`
}

// PaymentMethod is the payment branch chosen at checkout.
type PaymentMethod string

const (
	PaymentMethodPaynow         PaymentMethod = "paynow"
	PaymentMethodCashOnDelivery PaymentMethod = "cod"
)

// OrderStatus values are owned by the backend; the client only reads them.
type OrderStatus string

const (
	OrderStatusPending           OrderStatus = "PENDING"
	OrderStatusWaitingForPayment OrderStatus = "WAITING_FOR_PAYMENT"
	OrderStatusCreated           OrderStatus = "CREATED"
	OrderStatusConfirmed         OrderStatus = "CONFIRMED"
	OrderStatusDelivered         OrderStatus = "DELIVERED"
	OrderStatusCancelled         OrderStatus = "CANCELLED"
)

// OrderItem is one submitted line of an order.
type OrderItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// OrderPayload is the order-creation DTO. It is built once per submission
// attempt, is immutable after construction, and is staged to the local store
// under the pendingOrder key before the network call so an external payment
// redirect cannot lose it.
type OrderPayload struct {
	UserID          string          `json:"userId"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	CreatedAt       time.Time       `json:"createdAt"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress *Address        `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	DeliveryDate    string          `json:"deliveryDate,omitempty"`
	DeliveryTime    string          `json:"deliveryTime,omitempty"`
}

// Order is the server-owned order record. The client never mutates it
// directly; it triggers transition-inducing calls and re-reads the result.
type Order struct {
	ID              string          `json:"id"`
	Status          OrderStatus     `json:"status"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShippingAddress *Address        `json:"shippingAddress,omitempty"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	DeliveryDate    string          `json:"deliveryDate,omitempty"`
	DeliveryTime    string          `json:"deliveryTime,omitempty"`
	PollURL         string          `json:"pollUrl,omitempty"`
	RedirectURL     string          `json:"redirectUrl,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// OrderPage is one page of the paginated order listing.
type OrderPage struct {
	Content       []Order `json:"content"`
	TotalElements int64   `json:"totalElements"`
	Last          bool    `json:"last"`
}
