package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-client/internal/domain"
)

type stubOrders struct {
	getOrder     *domain.Order
	getErr       error
	createOrder  *domain.Order
	createErr    error
	updateErr    error
	createCalls  int
	updateCalls  int
	lastOrderID  string
	lastSession  domain.PaymentSession
	lastStatus   domain.GatewayStatus
	lastUpdateID string
}

func (s *stubOrders) Get(_ context.Context, id string) (*domain.Order, error) {
	s.lastOrderID = id
	return s.getOrder, s.getErr
}

func (s *stubOrders) CreatePayment(_ context.Context, orderID string, session domain.PaymentSession) (*domain.Order, error) {
	s.createCalls++
	s.lastOrderID = orderID
	s.lastSession = session
	return s.createOrder, s.createErr
}

func (s *stubOrders) UpdatePayment(_ context.Context, orderID string, status domain.GatewayStatus) (*domain.Order, error) {
	s.updateCalls++
	s.lastUpdateID = orderID
	s.lastStatus = status
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.getOrder, nil
}

type stubGateway struct {
	session     *domain.PaymentSession
	initErr     error
	checkStatus *domain.GatewayStatus
	checkErr    error
	pollResults []*domain.GatewayStatus
	pollErr     error
	pollCalls   int
	lastRequest domain.PaymentRequest
}

func (s *stubGateway) InitiateWeb(_ context.Context, req domain.PaymentRequest) (*domain.PaymentSession, error) {
	s.lastRequest = req
	return s.session, s.initErr
}

func (s *stubGateway) InitiateMobile(_ context.Context, req domain.PaymentRequest) (*domain.PaymentSession, error) {
	s.lastRequest = req
	return s.session, s.initErr
}

func (s *stubGateway) Check(_ context.Context, _ string) (*domain.GatewayStatus, error) {
	return s.checkStatus, s.checkErr
}

func (s *stubGateway) Poll(_ context.Context, _ string) (*domain.GatewayStatus, error) {
	idx := s.pollCalls
	s.pollCalls++
	if s.pollErr != nil {
		return nil, s.pollErr
	}
	if idx >= len(s.pollResults) {
		idx = len(s.pollResults) - 1
	}
	return s.pollResults[idx], nil
}

func pendingOrder() *domain.Order {
	return &domain.Order{
		ID:            "o1",
		Status:        domain.OrderStatusPending,
		PaymentMethod: domain.PaymentMethodPaynow,
		Items:         []domain.OrderItem{{ProductID: "p1", ProductName: "Apples", Quantity: 2}},
	}
}

func TestInitiateWebRedirectHandoff(t *testing.T) {
	gateway := &stubGateway{session: &domain.PaymentSession{Reference: "ref-1", RedirectURL: "https://pay.example/x", PollURL: "https://pay.example/poll/x"}}
	orders := &stubOrders{createOrder: &domain.Order{ID: "o1", Status: domain.OrderStatusWaitingForPayment, RedirectURL: "https://pay.example/x"}}
	svc := New(orders, gateway, nil)

	handoff, err := svc.InitiateWeb(context.Background(), pendingOrder())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handoff.RedirectURL != "https://pay.example/x" {
		t.Fatalf("expected redirect handoff, got %+v", handoff)
	}
	if orders.createCalls != 1 {
		t.Fatalf("session must be attached before redirect, create calls %d", orders.createCalls)
	}
	if orders.lastSession.Reference != "ref-1" {
		t.Fatalf("unexpected attached session: %+v", orders.lastSession)
	}
	if gateway.lastRequest.PhoneNumber != "" || gateway.lastRequest.MobileMoneyMethod != "" {
		t.Fatalf("web initiation must not carry mobile fields: %+v", gateway.lastRequest)
	}
}

func TestInitiateWebWithoutRedirectRechecks(t *testing.T) {
	gateway := &stubGateway{session: &domain.PaymentSession{Reference: "ref-2", PollURL: "https://pay.example/poll/y"}}
	refreshed := &domain.Order{ID: "o1", Status: domain.OrderStatusWaitingForPayment}
	orders := &stubOrders{createOrder: &domain.Order{ID: "o1"}, getOrder: refreshed}
	svc := New(orders, gateway, nil)

	handoff, err := svc.InitiateWeb(context.Background(), pendingOrder())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handoff.RedirectURL != "" {
		t.Fatalf("expected no redirect, got %q", handoff.RedirectURL)
	}
	if handoff.Order != refreshed {
		t.Fatalf("expected refreshed order, got %+v", handoff.Order)
	}
}

func TestInitiateWebGatewayError(t *testing.T) {
	gateway := &stubGateway{initErr: errors.New("gateway down")}
	orders := &stubOrders{}
	svc := New(orders, gateway, nil)
	if _, err := svc.InitiateWeb(context.Background(), pendingOrder()); err == nil {
		t.Fatalf("expected error")
	}
	if orders.createCalls != 0 {
		t.Fatalf("no payment must be attached after a failed initiation")
	}
}

func TestInitiateMobileAlwaysRechecks(t *testing.T) {
	gateway := &stubGateway{session: &domain.PaymentSession{Reference: "ref-3", PollURL: "https://pay.example/poll/z"}}
	refreshed := &domain.Order{ID: "o1", Status: domain.OrderStatusWaitingForPayment}
	orders := &stubOrders{createOrder: &domain.Order{ID: "o1"}, getOrder: refreshed}
	svc := New(orders, gateway, nil)

	order, err := svc.InitiateMobile(context.Background(), pendingOrder(), "0771111111", domain.MobileMoneyEcocash)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != refreshed {
		t.Fatalf("expected refreshed order, got %+v", order)
	}
	if gateway.lastRequest.PhoneNumber != "0771111111" || gateway.lastRequest.MobileMoneyMethod != domain.MobileMoneyEcocash {
		t.Fatalf("unexpected request: %+v", gateway.lastRequest)
	}
}

func TestCheckStatusReconciles(t *testing.T) {
	status := &domain.GatewayStatus{Reference: "ref-1", Paid: true, Status: "Paid"}
	confirmed := &domain.Order{ID: "o1", Status: domain.OrderStatusConfirmed}
	gateway := &stubGateway{checkStatus: status}
	orders := &stubOrders{getOrder: confirmed}
	svc := New(orders, gateway, nil)

	order, err := svc.CheckStatus(context.Background(), "o1", "https://pay.example/poll/x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != confirmed {
		t.Fatalf("expected refetched order, got %+v", order)
	}
	if orders.updateCalls != 1 || orders.lastUpdateID != "o1" {
		t.Fatalf("expected one reconcile call for o1, got %d for %q", orders.updateCalls, orders.lastUpdateID)
	}
	if !orders.lastStatus.Paid {
		t.Fatalf("unexpected reconciled status: %+v", orders.lastStatus)
	}
}

func TestPollDoesNotReconcile(t *testing.T) {
	gateway := &stubGateway{pollResults: []*domain.GatewayStatus{{Paid: false, Status: "Sent"}}}
	orders := &stubOrders{}
	svc := New(orders, gateway, nil)

	status, err := svc.Poll(context.Background(), "https://pay.example/poll/x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Paid {
		t.Fatalf("unexpected status: %+v", status)
	}
	if orders.updateCalls != 0 {
		t.Fatalf("poll must not touch order state")
	}
}

func TestWaitForPaidConfirms(t *testing.T) {
	confirmed := &domain.Order{ID: "o1", Status: domain.OrderStatusConfirmed}
	gateway := &stubGateway{
		pollResults: []*domain.GatewayStatus{
			{Paid: false, Status: "Created"},
			{Paid: false, Status: "Sent"},
			{Paid: true, Status: "Paid"},
		},
		checkStatus: &domain.GatewayStatus{Paid: true, Status: "Paid"},
	}
	orders := &stubOrders{getOrder: confirmed}
	svc := New(orders, gateway, nil)
	svc.SetPollBudget(time.Millisecond, 5)

	order, err := svc.WaitForPaid(context.Background(), "o1", "https://pay.example/poll/x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != confirmed {
		t.Fatalf("expected confirmed order, got %+v", order)
	}
	if gateway.pollCalls != 3 {
		t.Fatalf("expected 3 polls, got %d", gateway.pollCalls)
	}
	if orders.updateCalls != 1 {
		t.Fatalf("expected one reconcile after paid, got %d", orders.updateCalls)
	}
}

func TestWaitForPaidExhaustsBudget(t *testing.T) {
	gateway := &stubGateway{pollResults: []*domain.GatewayStatus{{Paid: false, Status: "Sent"}}}
	svc := New(&stubOrders{}, gateway, nil)
	svc.SetPollBudget(time.Millisecond, 3)

	_, err := svc.WaitForPaid(context.Background(), "o1", "https://pay.example/poll/x")
	if !errors.Is(err, ErrPollTimeout) {
		t.Fatalf("expected poll timeout, got %v", err)
	}
	if gateway.pollCalls != 3 {
		t.Fatalf("expected exactly 3 polls, got %d", gateway.pollCalls)
	}
}

func TestWaitForPaidTimesOutWithoutFinalSleep(t *testing.T) {
	gateway := &stubGateway{pollResults: []*domain.GatewayStatus{{Paid: false, Status: "Sent"}}}
	svc := New(&stubOrders{}, gateway, nil)
	svc.SetPollBudget(time.Hour, 1)

	// With a one-attempt budget the timeout must surface right after the
	// poll; sleeping the hour-long interval first would hang this test.
	start := time.Now()
	_, err := svc.WaitForPaid(context.Background(), "o1", "https://pay.example/poll/x")
	if !errors.Is(err, ErrPollTimeout) {
		t.Fatalf("expected poll timeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("timeout delayed by backoff sleep: %s", elapsed)
	}
	if gateway.pollCalls != 1 {
		t.Fatalf("expected exactly 1 poll, got %d", gateway.pollCalls)
	}
}

func TestWaitForPaidHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gateway := &stubGateway{pollResults: []*domain.GatewayStatus{{Paid: false}}}
	svc := New(&stubOrders{}, gateway, nil)
	svc.SetPollBudget(time.Minute, 5)

	if _, err := svc.WaitForPaid(ctx, "o1", "url"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestActionsFor(t *testing.T) {
	cases := []struct {
		name  string
		order *domain.Order
		want  []Action
	}{
		{"nil order", nil, nil},
		{"cod order", &domain.Order{Status: domain.OrderStatusPending, PaymentMethod: domain.PaymentMethodCashOnDelivery}, nil},
		{"pending paynow", &domain.Order{Status: domain.OrderStatusPending, PaymentMethod: domain.PaymentMethodPaynow},
			[]Action{ActionPayWeb, ActionPayMobile}},
		{"waiting with redirect", &domain.Order{Status: domain.OrderStatusWaitingForPayment, PaymentMethod: domain.PaymentMethodPaynow, RedirectURL: "https://pay.example/x"},
			[]Action{ActionCheckStatus, ActionOpenRedirect}},
		{"waiting without redirect", &domain.Order{Status: domain.OrderStatusWaitingForPayment, PaymentMethod: domain.PaymentMethodPaynow},
			[]Action{ActionCheckStatus}},
		{"confirmed paynow", &domain.Order{Status: domain.OrderStatusConfirmed, PaymentMethod: domain.PaymentMethodPaynow}, nil},
	}
	for _, tc := range cases {
		got := ActionsFor(tc.order)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
			}
		}
	}
}
