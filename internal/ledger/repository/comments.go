package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fundforge/crowdfund-backend/internal/ledger/domain"
)

// AppendComment appends one entry to the project's comment log. The log is
// append-only: prior entries are never rewritten, and ordering is by
// insertion. The username is stored as given, a snapshot of the display name
// at write time.
func (s *Store) AppendComment(ctx context.Context, projectID, username, text string) (*domain.Snapshot, error) {
	publicID := uuid.New().String()

	var snap *domain.Snapshot
	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		var projectInternalID int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM projects WHERE public_id = $1;`, projectID).Scan(&projectInternalID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("project: %w", domain.ErrNotFound)
		}
		if err != nil {
			return err
		}

		const insert = `
INSERT INTO comments (public_id, project_id, username, body)
VALUES ($1, $2, $3, $4);
`
		if _, err := tx.ExecContext(ctx, insert, publicID, projectInternalID, username, text); err != nil {
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
