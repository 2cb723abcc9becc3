package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fundforge/crowdfund-backend/internal/ledger/domain"
)

// Repo reads the user records owned by the external auth system. The ledger
// only needs existence checks, display-name snapshots, and the explicit
// creator cascade delete.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Exists reports whether the user exists.
func (r *Repo) Exists(ctx context.Context, publicID string) (bool, error) {
	if publicID == "" {
		return false, fmt.Errorf("user id required")
	}

	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE public_id = $1);`, publicID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Username returns the user's current display name.
func (r *Repo) Username(ctx context.Context, publicID string) (string, error) {
	var username string
	err := r.db.QueryRowContext(ctx,
		`SELECT username FROM users WHERE public_id = $1;`, publicID).Scan(&username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("user: %w", domain.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return username, nil
}

// DeleteCascade removes the user and, through foreign keys, every project
// they created along with those projects' contributions and comments. This is
// an explicit, irreversible cascade.
func (r *Repo) DeleteCascade(ctx context.Context, publicID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM users WHERE public_id = $1;`, publicID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
