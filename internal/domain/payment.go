package domain

import "github.com/shopspring/decimal"

// MobileMoneyMethod identifies a mobile-money operator at the gateway.
type MobileMoneyMethod string

const MobileMoneyEcocash MobileMoneyMethod = "ECOCASH"

// PaymentRequest initiates a gateway payment for an existing order. Web
// initiation leaves the phone fields empty.
type PaymentRequest struct {
	OrderID           string            `json:"orderId"`
	PhoneNumber       string            `json:"phoneNumber,omitempty"`
	MobileMoneyMethod MobileMoneyMethod `json:"mobileMoneyMethod,omitempty"`
	OrderItems        []OrderItem       `json:"orderItems"`
}

// PaymentSession is the gateway response to an initiation. It is attached to
// the order via the create-payment call before any redirect happens.
type PaymentSession struct {
	OrderID     string          `json:"orderId"`
	Reference   string          `json:"reference"`
	Status      string          `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	PollURL     string          `json:"pollUrl,omitempty"`
	RedirectURL string          `json:"redirectUrl,omitempty"`
}

// GatewayStatus is the gateway's current view of a payment, fetched through
// the poll URL.
type GatewayStatus struct {
	Reference string          `json:"reference"`
	Status    string          `json:"status"`
	Paid      bool            `json:"paid"`
	Amount    decimal.Decimal `json:"amount"`
	PollURL   string          `json:"pollUrl,omitempty"`
}
