// Package localstore persists the whole timesheet as a single versioned
// JSON document on disk. The document is read in full when the store opens
// and rewritten in full after every mutation; there is no partial update.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"physiosheet/internal/domain"
)

// Version tags the document schema. A stored document with any other tag is
// discarded and replaced by an empty document; there is no migration.
const Version = "v3"

// ErrPersist wraps failures to rewrite the document on disk.
var ErrPersist = errors.New("persist store document")

type document struct {
	Version  string                    `json:"version"`
	Users    []domain.Account          `json:"users"`
	Sessions []domain.TreatmentSession `json:"sessions"`
}

// Store implements the account and treatment-session repositories over one
// JSON file. Login sessions are held in memory only; they are transient
// browser state, not part of the persisted document.
type Store struct {
	mu     sync.Mutex
	path   string
	doc    document
	logins map[string]*domain.LoginSession
}

// Ensure interfaces are met.
var _ domain.AccountRepository = (*Store)(nil)
var _ domain.SessionRepository = (*Store)(nil)
var _ domain.LoginSessionRepository = (*LoginSessionRepo)(nil)

// Open loads the document at path. An absent, malformed, or
// version-mismatched document is treated as absent and destructively reset;
// the reset is logged loudly since it discards prior content.
func Open(path string) (*Store, error) {
	s := &Store{
		path:   path,
		logins: make(map[string]*domain.LoginSession),
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.doc = document{Version: Version}
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read store document: %w", err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil || doc.Version != Version {
		log.Printf("WARNING: discarding stored data at %s (version %q, want %q, parse err: %v)", path, doc.Version, Version, err)
		s.doc = document{Version: Version}
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
		return s, nil
	}

	s.doc = doc
	return s, nil
}

// persistLocked rewrites the whole document. Callers hold s.mu (or own the
// store exclusively, as Open does).
func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// --- AccountRepository ---

// GetByUsername retrieves an account by case-insensitive username.
func (s *Store) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Users {
		if strings.EqualFold(s.doc.Users[i].Username, username) {
			a := s.doc.Users[i]
			return &a, nil
		}
	}
	return nil, nil
}

// GetByID retrieves an account by ID.
func (s *Store) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Users {
		if s.doc.Users[i].ID == id {
			a := s.doc.Users[i]
			return &a, nil
		}
	}
	return nil, nil
}

// Create appends a new account and rewrites the document.
func (s *Store) Create(ctx context.Context, a *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Users {
		if strings.EqualFold(s.doc.Users[i].Username, a.Username) {
			return errors.New("account already exists")
		}
	}
	s.doc.Users = append(s.doc.Users, *a)
	return s.persistLocked()
}

// ListByRole returns accounts with the given role in storage order.
func (s *Store) ListByRole(ctx context.Context, role string) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Account
	for _, a := range s.doc.Users {
		if a.Role == role {
			out = append(out, a)
		}
	}
	return out, nil
}

// Count returns the total number of accounts.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.doc.Users), nil
}

// --- SessionRepository ---

// Add inserts a treatment session at the front of the sequence and rewrites
// the document before returning.
func (s *Store) Add(ctx context.Context, sess *domain.TreatmentSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Sessions = append([]domain.TreatmentSession{*sess}, s.doc.Sessions...)
	return s.persistLocked()
}

// ListAll returns every treatment session, most-recent-first.
func (s *Store) ListAll(ctx context.Context) ([]domain.TreatmentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.TreatmentSession, len(s.doc.Sessions))
	copy(out, s.doc.Sessions)
	return out, nil
}

// ListByTherapist returns the sessions owned by one therapist,
// most-recent-first.
func (s *Store) ListByTherapist(ctx context.Context, therapistID string) ([]domain.TreatmentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.TreatmentSession
	for _, sess := range s.doc.Sessions {
		if sess.TherapistID == therapistID {
			out = append(out, sess)
		}
	}
	return out, nil
}

// --- LoginSessionRepository ---

// LoginSessionRepo implements login-session persistence on the store.
type LoginSessionRepo struct {
	store *Store
}

// LoginSessions wraps the store as a LoginSessionRepository.
func (s *Store) LoginSessions() *LoginSessionRepo {
	return &LoginSessionRepo{store: s}
}

// Create creates a new login session.
func (r *LoginSessionRepo) Create(ctx context.Context, accountID, token, userAgent string, expiresAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.logins[token] = &domain.LoginSession{
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
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if sess, ok := r.store.logins[token]; ok {
		return sess, nil
	}
	return nil, nil
}

// Delete deletes a login session.
func (r *LoginSessionRepo) Delete(ctx context.Context, token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.logins, token)
	return nil
}

// DeleteExpired deletes all expired login sessions.
func (r *LoginSessionRepo) DeleteExpired(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now()
	for k, v := range r.store.logins {
		if now.After(v.ExpiresAt) {
			delete(r.store.logins, k)
		}
	}
	return nil
}
