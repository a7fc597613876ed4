package postgres

import (
	"context"
	"database/sql"
	"time"

	"physiosheet/internal/domain"
)

const sessionColumns = "id, therapist_id, therapist_name, patient_name, treatment_type, duration_minutes, created_at, signature_data_url, notes"

// Add inserts a treatment session. The creation timestamp carries the
// most-recent-first ordering that the list methods return.
func (d *DB) Add(ctx context.Context, s *domain.TreatmentSession) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO treatment_sessions ("+sessionColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		s.ID, s.TherapistID, s.TherapistName, s.PatientName, s.TreatmentType, s.DurationMinutes, s.Timestamp, s.SignatureDataURL, s.Notes,
	)
	return err
}

// ListAll returns every treatment session, most-recent-first.
func (d *DB) ListAll(ctx context.Context) ([]domain.TreatmentSession, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM treatment_sessions ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, err
	}
	return scanSessions(rows)
}

// ListByTherapist returns one therapist's sessions, most-recent-first.
func (d *DB) ListByTherapist(ctx context.Context, therapistID string) ([]domain.TreatmentSession, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM treatment_sessions WHERE therapist_id = $1 ORDER BY created_at DESC",
		therapistID,
	)
	if err != nil {
		return nil, err
	}
	return scanSessions(rows)
}

func scanSessions(rows *sql.Rows) ([]domain.TreatmentSession, error) {
	defer rows.Close()

	var out []domain.TreatmentSession
	for rows.Next() {
		var s domain.TreatmentSession
		if err := rows.Scan(&s.ID, &s.TherapistID, &s.TherapistName, &s.PatientName, &s.TreatmentType, &s.DurationMinutes, &s.Timestamp, &s.SignatureDataURL, &s.Notes); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LoginSessionRepo implements login-session repository operations on DB.
type LoginSessionRepo struct {
	db *DB
}

// NewLoginSessionRepo wraps a DB as a LoginSessionRepository.
func NewLoginSessionRepo(db *DB) *LoginSessionRepo {
	return &LoginSessionRepo{db: db}
}

// Create creates a new login session.
func (r *LoginSessionRepo) Create(ctx context.Context, accountID, token, userAgent string, expiresAt time.Time) error {
	_, err := r.db.sql.ExecContext(ctx,
		"INSERT INTO login_sessions (token, account_id, user_agent, expires_at, created_at) VALUES ($1, $2, $3, $4, $5)",
		token, accountID, userAgent, expiresAt, time.Now(),
	)
	return err
}

// GetByToken retrieves a login session by token.
func (r *LoginSessionRepo) GetByToken(ctx context.Context, token string) (*domain.LoginSession, error) {
	var s domain.LoginSession
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT token, account_id, user_agent, expires_at, created_at FROM login_sessions WHERE token = $1",
		token,
	).Scan(&s.Token, &s.AccountID, &s.UserAgent, &s.ExpiresAt, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete deletes a login session by token.
func (r *LoginSessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM login_sessions WHERE token = $1", token)
	return err
}

// DeleteExpired deletes all expired login sessions.
func (r *LoginSessionRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM login_sessions WHERE expires_at < $1", time.Now())
	return err
}
