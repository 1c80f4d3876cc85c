package apiclient

import (
	"context"
	"errors"
	"strings"

	"storefront-client/internal/domain"
)

// AddressesAPI covers the address CRUD on the user entity. Addresses are
// owned by the backend; this client never caches them.
type AddressesAPI struct {
	client *Client
}

// NewAddressesAPI wraps the client.
func NewAddressesAPI(client *Client) *AddressesAPI {
	return &AddressesAPI{client: client}
}

// Add creates an address after the required-field gate.
func (a *AddressesAPI) Add(ctx context.Context, addr domain.Address) (*domain.Address, error) {
	if err := validateAddress(addr); err != nil {
		return nil, err
	}
	var created domain.Address
	if err := a.client.Post(ctx, "/auth/addresses", addr, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update rewrites an existing address.
func (a *AddressesAPI) Update(ctx context.Context, addr domain.Address) (*domain.Address, error) {
	if strings.TrimSpace(addr.ID) == "" {
		return nil, errors.New("address id required")
	}
	if err := validateAddress(addr); err != nil {
		return nil, err
	}
	var updated domain.Address
	if err := a.client.Put(ctx, "/auth/addresses/"+addr.ID, addr, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes an address by id.
func (a *AddressesAPI) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("address id required")
	}
	return a.client.Delete(ctx, "/auth/addresses/"+id)
}

func validateAddress(addr domain.Address) error {
	if strings.TrimSpace(addr.AddressLine1) == "" {
		return errors.New("addressLine1 required")
	}
	if strings.TrimSpace(addr.City) == "" {
		return errors.New("city required")
	}
	if strings.TrimSpace(addr.PostalCode) == "" {
		return errors.New("postalCode required")
	}
	return nil
}
