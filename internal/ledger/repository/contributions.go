package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fundforge/crowdfund-backend/internal/ledger/domain"
	"github.com/fundforge/crowdfund-backend/internal/ledger/utils"
)

// RecordContribution durably persists one immutable contribution row and
// bumps the project's running total and count in the same transaction. The
// aggregate UPDATE takes the project's row lock first, so concurrent
// contributions to the same project serialize and no update is lost; the
// insert-only contribution rows need no locking against each other.
func (s *Store) RecordContribution(ctx context.Context, projectID, userID string, amount decimal.Decimal) (*domain.Snapshot, error) {
	publicID, err := utils.NewID("ctb")
	if err != nil {
		return nil, err
	}

	var snap *domain.Snapshot
	err = s.withTx(ctx, nil, func(tx *sql.Tx) error {
		var contributorID int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM users WHERE public_id = $1;`, userID).Scan(&contributorID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("contributor: %w", domain.ErrNotFound)
		}
		if err != nil {
			return err
		}

		const bump = `
UPDATE projects
SET raised_total = raised_total + $2,
    contribution_count = contribution_count + 1
WHERE public_id = $1
RETURNING id;
`
		var projectInternalID int64
		err = tx.QueryRowContext(ctx, bump, projectID, amount).Scan(&projectInternalID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("project: %w", domain.ErrNotFound)
		}
		if err != nil {
			return err
		}

		const insert = `
INSERT INTO contributions (public_id, project_id, user_id, amount)
VALUES ($1, $2, $3, $4);
`
		if _, err := tx.ExecContext(ctx, insert, publicID, projectInternalID, contributorID, amount); err != nil {
			return err
		}

		snap, err = s.snapshotTx(ctx, tx, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

const listContributionsQuery = `
SELECT ct.public_id, p.public_id, u.public_id, ct.amount, ct.created_at
FROM contributions ct
JOIN projects p ON p.id = ct.project_id
JOIN users u ON u.id = ct.user_id
WHERE p.public_id = $1
ORDER BY ct.id DESC;
`

// ListContributions returns the project's contributions, newest first.
func (s *Store) ListContributions(ctx context.Context, projectID string) ([]domain.Contribution, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM projects WHERE public_id = $1);`, projectID).Scan(&exists); err != nil {
		return nil, classify(err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, listContributionsQuery, projectID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]domain.Contribution, 0, 16)
	for rows.Next() {
		var c domain.Contribution
		if err := rows.Scan(&c.PublicID, &c.ProjectID, &c.UserID, &c.Amount, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
