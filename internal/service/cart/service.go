// Package cart holds the client-side cart state: line items, persistence and
// the derived count/total values.
package cart

import (
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"storefront-client/internal/domain"
)

// StorageKey is the local-store key the cart is persisted under.
const StorageKey = "cart"

type stateStore interface {
	Get(key string, out interface{}) error
	Put(key string, v interface{}) error
	Delete(key string) error
}

// Service is the cart store. Every mutation persists the full item list; the
// mutex keeps the single-writer semantics the original event loop provided
// implicitly.
type Service struct {
	mu     sync.Mutex
	store  stateStore
	logger *log.Logger
	items  []domain.CartItem
}

// New restores the cart from the store. Missing or corrupt persisted state
// yields an empty cart, never an error.
func New(store stateStore, logger *log.Logger) *Service {
	s := &Service{store: store, logger: logger}
	var items []domain.CartItem
	if err := store.Get(StorageKey, &items); err == nil {
		s.items = items
	} else if logger != nil {
		logger.Printf("cart state not restored, starting empty: %v", err)
	}
	return s
}

// AddToCart appends the product with quantity 1, or bumps the quantity of the
// existing line for the same product id.
func (s *Service) AddToCart(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == p.ID {
			s.items[i].Quantity++
			s.persist()
			return
		}
	}
	s.items = append(s.items, domain.CartItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Quantity: 1,
		ImageURL: p.ImageURL,
	})
	s.persist()
}

// RemoveFromCart deletes the line for productID. Absent ids are a no-op.
func (s *Service) RemoveFromCart(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persist()
			return
		}
	}
}

// IncreaseQuantity raises the quantity of the line for productID by step.
func (s *Service) IncreaseQuantity(productID string, step int) {
	if step <= 0 {
		step = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == productID {
			s.items[i].Quantity += step
			s.persist()
			return
		}
	}
}

// ReduceQuantity lowers the quantity of the line for productID by step and
// removes the line entirely once the quantity would drop below one.
func (s *Service) ReduceQuantity(productID string, step int) {
	if step <= 0 {
		step = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != productID {
			continue
		}
		s.items[i].Quantity -= step
		if s.items[i].Quantity <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
		s.persist()
		return
	}
}

// Quantity returns the current quantity for productID, or 0 when absent.
func (s *Service) Quantity(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.ID == productID {
			return item.Quantity
		}
	}
	return 0
}

// Items returns a copy of the cart lines in insertion order.
func (s *Service) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Count is the total quantity across all lines.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// Total is the sum of price*quantity across all lines.
func (s *Service) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Empty clears all lines, used after a successful order placement.
func (s *Service) Empty() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persist()
}

// persist writes the full item list; callers hold the mutex. Storage failures
// only cost durability, not the in-memory cart, so they are logged and
// swallowed.
func (s *Service) persist() {
	items := s.items
	if items == nil {
		items = []domain.CartItem{}
	}
	if err := s.store.Put(StorageKey, items); err != nil && s.logger != nil {
		s.logger.Printf("persist cart: %v", err)
	}
}
