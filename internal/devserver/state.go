package devserver

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-client/internal/domain"
)

// account is a seeded dev user with its plaintext password. Real credential
// storage lives in the production backend, not in this stub.
type account struct {
	user     domain.User
	password string
}

// paymentRecord is one fake gateway payment.
type paymentRecord struct {
	reference string
	orderID   string
	amount    decimal.Decimal
	polls     int
	paid      bool
	redirect  string
}

// state is the in-memory backing of the stub: seeded accounts, orders and
// gateway payments.
type state struct {
	mu sync.Mutex

	accounts      map[string]*account // by user id
	refreshTokens map[string]string   // refresh token -> user id
	orders        map[string]*domain.Order
	orderSeq      []string // ids in creation order
	payments      map[string]*paymentRecord

	// payAfterPolls controls how many gateway polls it takes before a
	// payment flips to paid.
	payAfterPolls int
}

func newState() *state {
	s := &state{
		accounts:      map[string]*account{},
		refreshTokens: map[string]string{},
		orders:        map[string]*domain.Order{},
		payments:      map[string]*paymentRecord{},
		payAfterPolls: 2,
	}
	s.seed()
	return s
}

// seed installs the demo account used by cmd/checkout and the tests.
func (s *state) seed() {
	userID := uuid.NewString()
	s.accounts[userID] = &account{
		password: "password123",
		user: domain.User{
			ID:    userID,
			Email: "demo@example.com",
			Roles: []domain.Role{{Name: "ROLE_CLIENT"}},
			Addresses: []domain.Address{{
				ID:           uuid.NewString(),
				AddressLine1: "12 Samora Machel Ave",
				City:         "Harare",
				PostalCode:   "00263",
				Country:      "ZW",
				Phone:        "0771111111",
				Default:      true,
			}},
		},
	}
}

func (s *state) findByEmail(email string) *account {
	for _, acc := range s.accounts {
		if acc.user.Email == email {
			return acc
		}
	}
	return nil
}

func (s *state) addOrder(order *domain.Order) {
	s.orders[order.ID] = order
	s.orderSeq = append(s.orderSeq, order.ID)
}

// page returns orders newest first, mirroring sort=createdAt,desc.
func (s *state) page(page, size int) domain.OrderPage {
	ids := make([]string, len(s.orderSeq))
	copy(ids, s.orderSeq)
	sort.SliceStable(ids, func(i, j int) bool {
		return s.orders[ids[i]].CreatedAt.After(s.orders[ids[j]].CreatedAt)
	})

	total := len(ids)
	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	content := make([]domain.Order, 0, end-start)
	for _, id := range ids[start:end] {
		content = append(content, *s.orders[id])
	}
	return domain.OrderPage{
		Content:       content,
		TotalElements: int64(total),
		Last:          end >= total,
	}
}

func (s *state) newPayment(orderID string, amount decimal.Decimal, withRedirect bool, baseURL string) *paymentRecord {
	rec := &paymentRecord{
		reference: uuid.NewString(),
		orderID:   orderID,
		amount:    amount,
	}
	if withRedirect {
		rec.redirect = baseURL + "/gateway/redirect/" + rec.reference
	}
	s.payments[rec.reference] = rec
	return rec
}

// pollOnce advances the fake payment clock and reports the current status.
func (s *state) pollOnce(rec *paymentRecord) domain.GatewayStatus {
	rec.polls++
	if rec.polls >= s.payAfterPolls {
		rec.paid = true
	}
	return s.statusOf(rec)
}

func (s *state) statusOf(rec *paymentRecord) domain.GatewayStatus {
	status := "Sent"
	if rec.paid {
		status = "Paid"
	}
	return domain.GatewayStatus{
		Reference: rec.reference,
		Status:    status,
		Paid:      rec.paid,
		Amount:    rec.amount,
	}
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
