package domain

import (
	"context"
	"time"
)

// LoginSession represents an active browser login.
type LoginSession struct {
	Token     string
	AccountID string
	UserAgent string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// LoginSessionRepository defines the port for login-session persistence.
type LoginSessionRepository interface {
	Create(ctx context.Context, accountID, token, userAgent string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*LoginSession, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}
