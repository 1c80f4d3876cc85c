package domain

// Address belongs to the authenticated user; the checkout core only ever
// holds a reference to a selected one.
type Address struct {
	ID           string `json:"id,omitempty"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Default      bool   `json:"default"`
}
