// Package memory implements in-memory repositories for development and
// testing.
package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"physiosheet/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	accounts []*domain.Account
	sessions []domain.TreatmentSession
	logins   map[string]*domain.LoginSession
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		logins: make(map[string]*domain.LoginSession),
	}
}

// Ensure interfaces are met.
var _ domain.AccountRepository = (*DB)(nil)
var _ domain.SessionRepository = (*DB)(nil)
var _ domain.LoginSessionRepository = (*LoginSessionRepo)(nil)

// --- AccountRepository ---

// GetByUsername retrieves an account by case-insensitive username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, a := range db.accounts {
		if strings.EqualFold(a.Username, username) {
			return a, nil
		}
	}
	return nil, nil
}

// GetByID retrieves an account by ID.
func (db *DB) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, a := range db.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

// Create creates a new account.
func (db *DB) Create(ctx context.Context, a *domain.Account) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.accounts {
		if strings.EqualFold(existing.Username, a.Username) {
			return errors.New("account already exists")
		}
	}
	cp := *a
	db.accounts = append(db.accounts, &cp)
	return nil
}

// ListByRole returns accounts with the given role in storage order.
func (db *DB) ListByRole(ctx context.Context, role string) ([]domain.Account, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.Account
	for _, a := range db.accounts {
		if a.Role == role {
			out = append(out, *a)
		}
	}
	return out, nil
}

// Count returns the total number of accounts.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.accounts), nil
}

// --- SessionRepository ---

// Add inserts a treatment session at the front of the sequence.
func (db *DB) Add(ctx context.Context, sess *domain.TreatmentSession) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.sessions = append([]domain.TreatmentSession{*sess}, db.sessions...)
	return nil
}

// ListAll returns every treatment session, most-recent-first.
func (db *DB) ListAll(ctx context.Context) ([]domain.TreatmentSession, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.TreatmentSession, len(db.sessions))
	copy(out, db.sessions)
	return out, nil
}

// ListByTherapist returns one therapist's sessions, most-recent-first.
func (db *DB) ListByTherapist(ctx context.Context, therapistID string) ([]domain.TreatmentSession, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.TreatmentSession
	for _, sess := range db.sessions {
		if sess.TherapistID == therapistID {
			out = append(out, sess)
		}
	}
	return out, nil
}

// --- LoginSessionRepository ---

// LoginSessionRepo implements login-session persistence.
type LoginSessionRepo struct {
	db *DB
}

// NewLoginSessionRepo creates a new login-session repository.
func (db *DB) NewLoginSessionRepo() *LoginSessionRepo {
	return &LoginSessionRepo{db: db}
}

// Create creates a new login session.
func (r *LoginSessionRepo) Create(ctx context.Context, accountID, token, userAgent string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.logins[token] = &domain.LoginSession{
		Token:     token,
		AccountID: accountID,
		UserAgent: userAgent,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a login session by token.
func (r *LoginSessionRepo) GetByToken(ctx context.Context, token string) (*domain.LoginSession, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.logins[token]; ok {
		if time.Now().After(s.ExpiresAt) {
			delete(r.db.logins, token)
			return nil, nil
		}
		return s, nil
	}
	return nil, nil
}

// Delete deletes a login session.
func (r *LoginSessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.logins, token)
	return nil
}

// DeleteExpired deletes all expired login sessions.
func (r *LoginSessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.logins {
		if now.After(v.ExpiresAt) {
			delete(r.db.logins, k)
		}
	}
	return nil
}
