// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// Roles an account can hold.
const (
	RoleAdmin     = "admin"
	RoleTherapist = "therapist"
)

// ValidRole reports whether role is a known account role.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleTherapist
}

// Account is a credentialed identity in the clinic.
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	// CredentialHash is the bcrypt hash of the account credential. It never
	// leaves the persistence layer; see Sanitized.
	CredentialHash string    `json:"credential,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Sanitized returns a copy of the account with the credential stripped.
func (a Account) Sanitized() Account {
	a.CredentialHash = ""
	return a
}

// AccountRepository defines the port for account persistence operations.
// Username lookups are case-insensitive; usernames are unique under
// case-insensitive comparison.
type AccountRepository interface {
	GetByUsername(ctx context.Context, username string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	Create(ctx context.Context, a *Account) error
	ListByRole(ctx context.Context, role string) ([]Account, error)
	Count(ctx context.Context) (int, error)
}
