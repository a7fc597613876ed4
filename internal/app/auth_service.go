// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log"
	"strings"
	"time"

	"physiosheet/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided username or credential
	// was incorrect. Unknown usernames and wrong credentials are deliberately
	// indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUsernameTaken indicates a registration conflict. The text is the
	// exact message shown to the user.
	ErrUsernameTaken = errors.New("Username already taken.")
	// ErrInvalidRole indicates an unknown account role.
	ErrInvalidRole = errors.New("invalid role")
	// ErrSessionNotFound indicates that the login session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the login session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrAccountNotFound indicates that the account does not exist.
	ErrAccountNotFound = errors.New("account not found")
)

const loginSessionTTL = 24 * time.Hour

// seedAccounts are created on first run. The fixed credentials are a
// demo-only shortcut; a production deployment must replace them.
var seedAccounts = []struct {
	Name       string
	Username   string
	Credential string
	Role       string
}{
	{"Clinic Admin", "admin", "physio123", domain.RoleAdmin},
	{"Jane Miller", "jane", "physio123", domain.RoleTherapist},
	{"Mark Evans", "mark", "physio123", domain.RoleTherapist},
}

// AuthService handles accounts, authentication, and login sessions.
type AuthService struct {
	accounts domain.AccountRepository
	sessions domain.LoginSessionRepository
}

// NewAuthService creates a new authentication service.
func NewAuthService(accounts domain.AccountRepository, sessions domain.LoginSessionRepository) *AuthService {
	return &AuthService{
		accounts: accounts,
		sessions: sessions,
	}
}

// Authenticate checks a username and credential. The username lookup is
// case-insensitive; the credential check is exact. The returned account
// never carries the credential.
func (s *AuthService) Authenticate(ctx context.Context, username, credential string) (*domain.Account, error) {
	acct, err := s.accounts.GetByUsername(ctx, username)
	if err != nil || acct == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.CredentialHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}
	out := acct.Sanitized()
	return &out, nil
}

// Login authenticates an account and creates a login session.
func (s *AuthService) Login(ctx context.Context, username, credential, userAgent string) (string, *domain.Account, error) {
	acct, err := s.Authenticate(ctx, username, credential)
	if err != nil {
		return "", nil, err
	}

	token, err := generateToken()
	if err != nil {
		return "", nil, err
	}
	expiresAt := time.Now().Add(loginSessionTTL)
	if err := s.sessions.Create(ctx, acct.ID, token, userAgent, expiresAt); err != nil {
		return "", nil, err
	}
	return token, acct, nil
}

// Logout invalidates a login session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ValidateSession resolves a session token to its sanitized account.
func (s *AuthService) ValidateSession(ctx context.Context, token, userAgent string) (*domain.Account, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil || session == nil {
		return nil, ErrSessionNotFound
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}
	if session.UserAgent != userAgent {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	acct, err := s.accounts.GetByID(ctx, session.AccountID)
	if err != nil || acct == nil {
		return nil, ErrAccountNotFound
	}
	out := acct.Sanitized()
	return &out, nil
}

// Register creates a new account. Usernames are unique under
// case-insensitive comparison.
func (s *AuthService) Register(ctx context.Context, name, username, credential, role string) (*domain.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("name is required")
	}
	if !domain.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	existing, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	acct := &domain.Account{
		ID:             uuid.NewString(),
		Username:       username,
		Name:           strings.TrimSpace(name),
		Role:           role,
		CredentialHash: string(hash),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.accounts.Create(ctx, acct); err != nil {
		return nil, err
	}
	out := acct.Sanitized()
	return &out, nil
}

// EnsureSeedAccounts creates the fixed first-run accounts when the store
// holds no accounts at all.
func (s *AuthService) EnsureSeedAccounts(ctx context.Context) error {
	count, err := s.accounts.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, seed := range seedAccounts {
		if _, err := s.Register(ctx, seed.Name, seed.Username, seed.Credential, seed.Role); err != nil {
			return err
		}
	}
	log.Printf("seeded %d demo accounts", len(seedAccounts))
	return nil
}

// ValidateForwardAuth resolves a request authenticated upstream (e.g. by a
// forward-auth proxy) via its Remote-User header, auto-provisioning a
// therapist account on first sight.
func (s *AuthService) ValidateForwardAuth(ctx context.Context, remoteUser string) (*domain.Account, error) {
	if remoteUser == "" {
		return nil, errors.New("no remote user header")
	}

	acct, err := s.accounts.GetByUsername(ctx, remoteUser)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return s.provisionExternal(ctx, remoteUser)
	}
	out := acct.Sanitized()
	return &out, nil
}

// LoginWithUser creates a login session for an externally authenticated
// user (e.g. via SSO), auto-provisioning a therapist account if needed.
func (s *AuthService) LoginWithUser(ctx context.Context, username, userAgent string) (string, error) {
	acct, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if acct == nil {
		provisioned, err := s.provisionExternal(ctx, username)
		if err != nil {
			return "", err
		}
		acct = provisioned
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}
	expiresAt := time.Now().Add(loginSessionTTL)
	if err := s.sessions.Create(ctx, acct.ID, token, userAgent, expiresAt); err != nil {
		return "", err
	}
	return token, nil
}

// provisionExternal creates a therapist account with no usable local
// credential. SSO users authenticate upstream only.
func (s *AuthService) provisionExternal(ctx context.Context, username string) (*domain.Account, error) {
	acct := &domain.Account{
		ID:        uuid.NewString(),
		Username:  username,
		Name:      username,
		Role:      domain.RoleTherapist,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.accounts.Create(ctx, acct); err != nil {
		// A concurrent provision may have won; fall back to the lookup.
		if existing, lookupErr := s.accounts.GetByUsername(ctx, username); lookupErr == nil && existing != nil {
			out := existing.Sanitized()
			return &out, nil
		}
		return nil, err
	}
	out := acct.Sanitized()
	return &out, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
