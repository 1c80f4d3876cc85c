// Package apiclient talks to the backend and the payment gateway: a
// bearer-authenticated JSON client with a single refresh-and-retry on 401,
// plus typed wrappers per API surface.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"storefront-client/internal/domain"
)

// Local-store keys for the persisted session tokens.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

type tokenStore interface {
	Get(key string, out interface{}) error
	Put(key string, v interface{}) error
	Delete(key string) error
}

// APIError carries a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: %s (status %d)", e.Message, e.Status)
}

// Client is the authenticated HTTP client. It injects the bearer token on
// every request and, on a 401, refreshes the access token once and retries;
// a second 401 clears the session and yields domain.ErrUnauthorized.
type Client struct {
	baseURL string
	http    *http.Client
	store   tokenStore
	logger  *log.Logger

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

// New builds a Client, restoring any persisted tokens from the store.
func New(baseURL string, store tokenStore, logger *log.Logger) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   store,
		logger:  logger,
	}
	var token string
	if err := store.Get(AccessTokenKey, &token); err == nil {
		c.accessToken = token
	}
	token = ""
	if err := store.Get(RefreshTokenKey, &token); err == nil {
		c.refreshToken = token
	}
	return c
}

// SetTokens stores a fresh token pair, both in memory and durably.
func (c *Client) SetTokens(access, refresh string) {
	c.mu.Lock()
	c.accessToken = access
	c.refreshToken = refresh
	c.mu.Unlock()

	if err := c.store.Put(AccessTokenKey, access); err != nil && c.logger != nil {
		c.logger.Printf("persist access token: %v", err)
	}
	if err := c.store.Put(RefreshTokenKey, refresh); err != nil && c.logger != nil {
		c.logger.Printf("persist refresh token: %v", err)
	}
}

// ClearTokens drops the session, memory and durable copies both.
func (c *Client) ClearTokens() {
	c.mu.Lock()
	c.accessToken = ""
	c.refreshToken = ""
	c.mu.Unlock()

	if err := c.store.Delete(AccessTokenKey); err != nil && c.logger != nil {
		c.logger.Printf("clear access token: %v", err)
	}
	if err := c.store.Delete(RefreshTokenKey); err != nil && c.logger != nil {
		c.logger.Printf("clear refresh token: %v", err)
	}
}

// HasSession reports whether an access token is present.
func (c *Client) HasSession() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken != ""
}

// Get issues an authenticated GET and decodes the body into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete issues an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	status, err := c.send(ctx, method, path, body, out)
	if err != nil {
		return err
	}
	if status != http.StatusUnauthorized {
		return nil
	}

	// One refresh, one retry. A second 401 ends the session.
	if err := c.refresh(ctx); err != nil {
		c.ClearTokens()
		return fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	status, err = c.send(ctx, method, path, body, out)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		c.ClearTokens()
		return domain.ErrUnauthorized
	}
	return nil
}

// send performs one HTTP exchange. A 401 is reported through the returned
// status with a nil error so the caller can run the refresh path; any other
// non-2xx becomes an *APIError.
func (c *Client) send(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.Lock()
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	c.mu.Unlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, decodeAPIError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) refresh(ctx context.Context) error {
	c.mu.Lock()
	refreshToken := c.refreshToken
	c.mu.Unlock()
	if refreshToken == "" {
		return errors.New("no refresh token available")
	}

	raw, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/auth/refresh"), bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("refresh failed with status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if payload.AccessToken == "" {
		return errors.New("refresh returned no access token")
	}

	c.mu.Lock()
	c.accessToken = payload.AccessToken
	c.mu.Unlock()
	if err := c.store.Put(AccessTokenKey, payload.AccessToken); err != nil && c.logger != nil {
		c.logger.Printf("persist refreshed token: %v", err)
	}
	return nil
}

func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + path
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if payload.Error != "" {
			apiErr.Message = payload.Error
		} else {
			apiErr.Message = payload.Message
		}
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, apiErr.Message)
	}
	return apiErr
}
