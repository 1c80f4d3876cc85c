// Package orders maintains the paginated order history and drives
// cancellation.
package orders

import (
	"context"
	"errors"
	"log"
	"sync"

	"storefront-client/internal/domain"
)

// ErrNotCancelable rejects a cancellation for an order whose status no longer
// allows one.
var ErrNotCancelable = errors.New("order can no longer be cancelled")

const defaultPageSize = 10

type ordersAPI interface {
	List(ctx context.Context, page, size int) (*domain.OrderPage, error)
	Cancel(ctx context.Context, id string) (*domain.Order, error)
}

// Service accumulates order pages and merges them idempotently: a slow
// earlier page arriving after a later one must not resurrect stale entries,
// so merging dedupes by order id and refreshes in place.
type Service struct {
	mu       sync.Mutex
	api      ordersAPI
	logger   *log.Logger
	pageSize int

	orders   []domain.Order
	index    map[string]int
	nextPage int
	total    int64
	last     bool
}

// New builds an empty history over the API.
func New(api ordersAPI, logger *log.Logger) *Service {
	return &Service{api: api, logger: logger, pageSize: defaultPageSize, index: map[string]int{}}
}

// SetPageSize overrides the page size used by LoadMore.
func (s *Service) SetPageSize(size int) {
	if size > 0 {
		s.pageSize = size
	}
}

// LoadMore fetches the next page (sorted createdAt descending server-side)
// and merges it into the history.
func (s *Service) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	page, size := s.nextPage, s.pageSize
	s.mu.Unlock()

	result, err := s.api.List(ctx, page, size)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.merge(result.Content)
	s.total = result.TotalElements
	s.last = result.Last
	if page == s.nextPage {
		s.nextPage++
	}
	return nil
}

// Reload refetches the first page and merges it; already-loaded later pages
// stay in place and deduplication keeps ids unique.
func (s *Service) Reload(ctx context.Context) error {
	result, err := s.api.List(ctx, 0, s.pageSize)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.merge(result.Content)
	s.total = result.TotalElements
	// Page 0's Last flag only speaks for the frontier when no later pages
	// are loaded; otherwise it would wrongly resurrect exhausted paging.
	if s.nextPage <= 1 {
		s.last = result.Last
	}
	return nil
}

// Orders returns a copy of the merged history.
func (s *Service) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// HasMore reports whether the server still holds unloaded pages.
func (s *Service) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.last
}

// TotalElements is the server-reported order count.
func (s *Service) TotalElements() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Cancel cancels an order after a client-side eligibility gate and refreshes
// the merged entry from the server response.
func (s *Service) Cancel(ctx context.Context, id string) (*domain.Order, error) {
	s.mu.Lock()
	if idx, ok := s.index[id]; ok && !Cancelable(s.orders[idx].Status) {
		s.mu.Unlock()
		return nil, ErrNotCancelable
	}
	s.mu.Unlock()

	order, err := s.api.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.merge([]domain.Order{*order})
	s.mu.Unlock()
	return order, nil
}

// Cancelable reports whether the client offers cancellation for a status.
// Only orders whose payment has not been confirmed qualify; fulfilled and
// terminal states do not.
func Cancelable(status domain.OrderStatus) bool {
	switch status {
	case domain.OrderStatusPending, domain.OrderStatusWaitingForPayment:
		return true
	default:
		return false
	}
}

// merge appends unseen orders and refreshes known ones in place; callers hold
// the mutex.
func (s *Service) merge(incoming []domain.Order) {
	for _, order := range incoming {
		if idx, ok := s.index[order.ID]; ok {
			s.orders[idx] = order
			continue
		}
		s.index[order.ID] = len(s.orders)
		s.orders = append(s.orders, order)
	}
}
