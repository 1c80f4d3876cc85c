package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"storefront-client/internal/domain"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]json.RawMessage
}

func newMemStore() *memStore {
	return &memStore{data: map[string]json.RawMessage{}}
}

func (s *memStore) Get(key string, out interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[key]
	if !ok {
		return domain.ErrNotFound
	}
	return json.Unmarshal(raw, out)
}

func (s *memStore) Put(key string, v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.data[key] = raw
	return nil
}

func (s *memStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func TestBearerInjection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var gotAuth string
	router := gin.New()
	router.GET("/ping", func(c *gin.Context) {
		gotAuth = c.GetHeader("Authorization")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	client := New(srv.URL, newMemStore(), nil)
	client.SetTokens("token-1", "refresh-1")

	var out map[string]bool
	if err := client.Get(context.Background(), "/ping", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotAuth != "Bearer token-1" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestRefreshRetryOn401(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var refreshCalls int
	router := gin.New()
	router.GET("/orders/o1", func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer fresh" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "expired"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": "o1", "status": "PENDING"})
	})
	router.POST("/auth/refresh", func(c *gin.Context) {
		refreshCalls++
		var body map[string]string
		if err := c.ShouldBindJSON(&body); err != nil || body["refresh_token"] != "refresh-1" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "bad refresh token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"access_token": "fresh"})
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	store := newMemStore()
	client := New(srv.URL, store, nil)
	client.SetTokens("stale", "refresh-1")

	order, err := NewOrdersAPI(client).Get(context.Background(), "o1")
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.ID != "o1" {
		t.Fatalf("unexpected order: %+v", order)
	}
	if refreshCalls != 1 {
		t.Fatalf("expected one refresh, got %d", refreshCalls)
	}

	// The refreshed token must also be persisted.
	var persisted string
	if err := store.Get(AccessTokenKey, &persisted); err != nil || persisted != "fresh" {
		t.Fatalf("expected persisted token %q, got %q (%v)", "fresh", persisted, err)
	}
}

func TestSecond401EndsSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/auth/profile", func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "nope"})
	})
	router.POST("/auth/refresh", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"access_token": "still-bad"})
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	store := newMemStore()
	client := New(srv.URL, store, nil)
	client.SetTokens("stale", "refresh-1")

	_, err := NewAuthAPI(client).Profile(context.Background())
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if client.HasSession() {
		t.Fatalf("expected session cleared")
	}
	var leftover string
	if err := store.Get(AccessTokenKey, &leftover); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected tokens removed from store, got %q (%v)", leftover, err)
	}
}

func TestRefreshFailureEndsSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/auth/profile", func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "nope"})
	})
	router.POST("/auth/refresh", func(c *gin.Context) {
		c.JSON(http.StatusForbidden, gin.H{"error": "revoked"})
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	client := New(srv.URL, newMemStore(), nil)
	client.SetTokens("stale", "refresh-1")

	_, err := NewAuthAPI(client).Profile(context.Background())
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAPIErrorDecoding(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/orders", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty order"})
	})
	router.GET("/orders/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	client := New(srv.URL, newMemStore(), nil)
	orders := NewOrdersAPI(client)

	_, err := orders.Place(context.Background(), domain.OrderPayload{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "empty order" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}

	if _, err := orders.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOrderListQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var gotQuery string
	router := gin.New()
	router.GET("/orders", func(c *gin.Context) {
		gotQuery = c.Request.URL.RawQuery
		c.JSON(http.StatusOK, domain.OrderPage{Last: true})
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	client := New(srv.URL, newMemStore(), nil)
	if _, err := NewOrdersAPI(client).List(context.Background(), 2, 10); err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotQuery != "page=2&size=10&sort=createdAt,desc" {
		t.Fatalf("unexpected query: %q", gotQuery)
	}
}

func TestTokensRestoredFromStore(t *testing.T) {
	store := newMemStore()
	first := New("http://example.invalid", store, nil)
	first.SetTokens("access-1", "refresh-1")

	second := New("http://example.invalid", store, nil)
	if !second.HasSession() {
		t.Fatalf("expected restored session")
	}
}

func TestAddressValidation(t *testing.T) {
	client := New("http://example.invalid", newMemStore(), nil)
	addresses := NewAddressesAPI(client)

	_, err := addresses.Add(context.Background(), domain.Address{City: "Harare", PostalCode: "0000"})
	if err == nil || err.Error() != "addressLine1 required" {
		t.Fatalf("expected addressLine1 error, got %v", err)
	}
	_, err = addresses.Update(context.Background(), domain.Address{AddressLine1: "x", City: "y", PostalCode: "z"})
	if err == nil || err.Error() != "address id required" {
		t.Fatalf("expected id error, got %v", err)
	}
	if err := addresses.Delete(context.Background(), " "); err == nil {
		t.Fatalf("expected id error")
	}
}
