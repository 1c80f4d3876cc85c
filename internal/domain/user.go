package domain

// Role mirrors the backend role objects attached to a profile.
type Role struct {
	Name string `json:"name"`
}

// User is the authenticated-user context consumed by checkout. Its lifecycle
// (login, refresh, profile fetch) belongs to the auth collaborator.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Roles     []Role    `json:"roles,omitempty"`
	Addresses []Address `json:"addresses,omitempty"`
}

// HasRole reports whether the user carries the named role.
func (u User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}
