package postgres

import (
	"context"
	"database/sql"

	"physiosheet/internal/domain"
)

// GetByUsername retrieves an account by case-insensitive username.
func (d *DB) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	var a domain.Account
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, username, name, role, credential_hash, created_at FROM accounts WHERE LOWER(username) = LOWER($1)",
		username,
	).Scan(&a.ID, &a.Username, &a.Name, &a.Role, &a.CredentialHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID retrieves an account by ID.
func (d *DB) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	var a domain.Account
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, username, name, role, credential_hash, created_at FROM accounts WHERE id = $1",
		id,
	).Scan(&a.ID, &a.Username, &a.Name, &a.Role, &a.CredentialHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create creates a new account.
func (d *DB) Create(ctx context.Context, a *domain.Account) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO accounts (id, username, name, role, credential_hash, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		a.ID, a.Username, a.Name, a.Role, a.CredentialHash, a.CreatedAt,
	)
	return err
}

// ListByRole returns accounts with the given role in insertion order.
func (d *DB) ListByRole(ctx context.Context, role string) ([]domain.Account, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, username, name, role, credential_hash, created_at FROM accounts WHERE role = $1 ORDER BY created_at",
		role,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.Username, &a.Name, &a.Role, &a.CredentialHash, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Count returns the total number of accounts.
func (d *DB) Count(ctx context.Context) (int, error) {
	var count int
	err := d.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM accounts").Scan(&count)
	return count, err
}
