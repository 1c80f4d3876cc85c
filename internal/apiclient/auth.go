package apiclient

import (
	"context"

	"storefront-client/internal/domain"
)

// AuthAPI covers login, registration and the profile fetch.
type AuthAPI struct {
	client *Client
}

// NewAuthAPI wraps the client.
func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Login exchanges credentials for a token pair and stores it on the client.
func (a *AuthAPI) Login(ctx context.Context, email, password string) error {
	var tokens tokenResponse
	if err := a.client.Post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &tokens); err != nil {
		return err
	}
	a.client.SetTokens(tokens.AccessToken, tokens.RefreshToken)
	return nil
}

// Register creates an account; the caller still logs in afterwards.
func (a *AuthAPI) Register(ctx context.Context, in RegisterInput) error {
	return a.client.Post(ctx, "/auth/register", in, nil)
}

// Profile fetches the authenticated user, the context checkout consumes.
func (a *AuthAPI) Profile(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := a.client.Get(ctx, "/auth/profile", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout drops the local session. The backend keeps no session state.
func (a *AuthAPI) Logout() {
	a.client.ClearTokens()
}
