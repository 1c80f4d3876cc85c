// Command checkout walks one full shopping session against a running
// devserver: login, cart, a cash-on-delivery order, then a paynow order paid
// through the mobile-money flow.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"storefront-client/internal/apiclient"
	"storefront-client/internal/config"
	"storefront-client/internal/domain"
	"storefront-client/internal/localstore"
	cartsvc "storefront-client/internal/service/cart"
	checkoutsvc "storefront-client/internal/service/checkout"
	paymentsvc "storefront-client/internal/service/payment"
	"storefront-client/internal/service/schedule"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[checkout] ", log.LstdFlags|log.LUTC)

	store, err := localstore.Open(cfg.StateDir)
	if err != nil {
		logger.Fatalf("open state dir: %v", err)
	}

	client := apiclient.New(cfg.APIBaseURL, store, logger)
	auth := apiclient.NewAuthAPI(client)
	orders := apiclient.NewOrdersAPI(client)
	payments := apiclient.NewPaymentsAPI(client)

	ctx := context.Background()

	if !client.HasSession() {
		if err := auth.Login(ctx, "demo@example.com", "password123"); err != nil {
			logger.Fatalf("login: %v", err)
		}
	}
	user, err := auth.Profile(ctx)
	if err != nil {
		logger.Fatalf("load profile: %v", err)
	}
	logger.Printf("logged in as %s", user.Email)

	cart := cartsvc.New(store, logger)
	cart.Empty()
	cart.AddToCart(domain.Product{ID: "sku-bread", Name: "Bread", Price: decimal.NewFromFloat(1.50)})
	cart.AddToCart(domain.Product{ID: "sku-milk", Name: "Milk 2L", Price: decimal.NewFromFloat(2.20)})
	cart.AddToCart(domain.Product{ID: "sku-bread", Name: "Bread", Price: decimal.NewFromFloat(1.50)})
	logger.Printf("cart: %d items, total %s", cart.Count(), cart.Total())

	checkout := checkoutsvc.New(cart, orders, store, schedule.New(nil), nil, logger)

	var address *domain.Address
	if len(user.Addresses) > 0 {
		address = &user.Addresses[0]
	}
	tomorrow := time.Now().AddDate(0, 0, 1)

	// First order: cash on delivery, scheduled for tomorrow noon.
	codOrder, err := checkout.Submit(ctx, checkoutsvc.Input{
		User: user,
		Delivery: domain.DeliverySelection{
			Date:   tomorrow.Format(schedule.DateLayout),
			Time:   "12:00",
			Method: domain.DeliveryMethodDelivery,
		},
		Address:       address,
		PaymentMethod: domain.PaymentMethodCashOnDelivery,
	})
	if err != nil {
		logger.Fatalf("cod checkout: %v", err)
	}
	logger.Printf("cod order %s placed, status %s", codOrder.ID, codOrder.Status)

	// Second order: paynow via mobile money, polled until the gateway
	// reports paid.
	cart.AddToCart(domain.Product{ID: "sku-eggs", Name: "Eggs (dozen)", Price: decimal.NewFromFloat(3.10)})
	paynowOrder, err := checkout.Submit(ctx, checkoutsvc.Input{
		User:          user,
		Delivery:      domain.DeliverySelection{Method: domain.DeliveryMethodPickup},
		PaymentMethod: domain.PaymentMethodPaynow,
	})
	if err != nil {
		logger.Fatalf("paynow checkout: %v", err)
	}
	logger.Printf("paynow order %s placed, status %s", paynowOrder.ID, paynowOrder.Status)

	flow := paymentsvc.New(orders, payments, logger)
	flow.SetPollBudget(cfg.PollInterval, cfg.PollAttempts)

	paynowOrder, err = flow.InitiateMobile(ctx, paynowOrder, "0771111111", domain.MobileMoneyEcocash)
	if err != nil {
		logger.Fatalf("initiate payment: %v", err)
	}
	logger.Printf("payment initiated, status %s", paynowOrder.Status)

	paynowOrder, err = flow.WaitForPaid(ctx, paynowOrder.ID, paynowOrder.PollURL)
	if err != nil {
		logger.Fatalf("wait for payment: %v", err)
	}
	logger.Printf("payment settled, order %s status %s", paynowOrder.ID, paynowOrder.Status)
}
