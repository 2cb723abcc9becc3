package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fundforge/crowdfund-backend/internal/ledger/domain"
	"github.com/fundforge/crowdfund-backend/internal/ledger/utils"
)

const snapshotProjectQuery = `
SELECT p.id, p.public_id, p.title, p.description, p.funding_goal,
       u.public_id, c.public_id, c.name,
       p.raised_total, p.contribution_count, p.created_at
FROM projects p
JOIN users u ON u.id = p.creator_id
JOIN categories c ON c.id = p.category_id
WHERE p.public_id = $1;
`

const snapshotCommentsQuery = `
SELECT public_id, username, body, created_at
FROM comments
WHERE project_id = $1
ORDER BY id;
`

// CreateProject validates references and inserts the project. The returned
// snapshot is read inside the same transaction as the insert.
func (s *Store) CreateProject(ctx context.Context, spec domain.ProjectSpec) (*domain.Snapshot, error) {
	// Public ID collisions abort the whole transaction in Postgres, so the
	// retry loop wraps the transaction rather than the insert.
	for i := 0; i < 5; i++ {
		publicID, err := utils.NewTextID("fund")
		if err != nil {
			return nil, err
		}

		var snap *domain.Snapshot
		err = s.withTx(ctx, nil, func(tx *sql.Tx) error {
			var creatorID int64
			err := tx.QueryRowContext(ctx,
				`SELECT id FROM users WHERE public_id = $1;`, spec.CreatorID).Scan(&creatorID)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("creator: %w", domain.ErrNotFound)
			}
			if err != nil {
				return err
			}

			var categoryID int64
			err = tx.QueryRowContext(ctx,
				`SELECT id FROM categories WHERE public_id = $1;`, spec.CategoryID).Scan(&categoryID)
			if errors.Is(err, sql.ErrNoRows) {
				return domain.Invalid("category_id", "category does not exist")
			}
			if err != nil {
				return err
			}

			const q = `
INSERT INTO projects (public_id, title, description, funding_goal, creator_id, category_id)
VALUES ($1, $2, $3, $4, $5, $6);
`
			if _, err := tx.ExecContext(ctx, q,
				publicID, spec.Title, spec.Description, spec.FundingGoal, creatorID, categoryID); err != nil {
				return err
			}

			snap, err = s.snapshotTx(ctx, tx, publicID)
			return err
		})

		if isUniqueViolation(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return snap, nil
	}

	return nil, fmt.Errorf("failed to generate unique project id")
}

// Snapshot reads a consistent point-in-time view of the project: metadata,
// derived totals and the full comment log, all within one read-only
// transaction so an in-flight contribution is never half-visible.
func (s *Store) Snapshot(ctx context.Context, projectID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := s.withTx(ctx, &sql.TxOptions{ReadOnly: true}, func(tx *sql.Tx) error {
		var err error
		snap, err = s.snapshotTx(ctx, tx, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// snapshotTx assembles a snapshot inside the caller's transaction.
func (s *Store) snapshotTx(ctx context.Context, tx *sql.Tx, projectID string) (*domain.Snapshot, error) {
	var (
		internalID int64
		snap       domain.Snapshot
	)
	p := &snap.Project
	err := tx.QueryRowContext(ctx, snapshotProjectQuery, projectID).Scan(
		&internalID, &p.PublicID, &p.Title, &p.Description, &p.FundingGoal,
		&p.CreatorID, &p.CategoryID, &p.CategoryName,
		&snap.TotalRaised, &snap.ContributionCount, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	snap.Progress = domain.ProgressPercentage(snap.TotalRaised, p.FundingGoal)
	snap.Comments = s.commentsTx(ctx, tx, internalID)
	return &snap, nil
}

// commentsTx loads the project's comment log. Comments are supplementary, not
// load-bearing: a broken log degrades to an empty sequence rather than
// failing the whole snapshot read.
func (s *Store) commentsTx(ctx context.Context, tx *sql.Tx, projectInternalID int64) []domain.Comment {
	rows, err := tx.QueryContext(ctx, snapshotCommentsQuery, projectInternalID)
	if err != nil {
		s.log.Warn().Err(err).Int64("project_id", projectInternalID).Msg("comment log read failed, returning empty log")
		return []domain.Comment{}
	}
	defer rows.Close()

	out := make([]domain.Comment, 0, 8)
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.PublicID, &c.Username, &c.Text, &c.CreatedAt); err != nil {
			s.log.Warn().Err(err).Int64("project_id", projectInternalID).Msg("comment row unreadable, returning empty log")
			return []domain.Comment{}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		s.log.Warn().Err(err).Int64("project_id", projectInternalID).Msg("comment log iteration failed, returning empty log")
		return []domain.Comment{}
	}
	return out
}

const listProjectsQuery = `
SELECT p.public_id, p.title, p.description, p.funding_goal,
       u.public_id, c.public_id, c.name,
       p.raised_total, p.contribution_count, p.created_at
FROM projects p
JOIN users u ON u.id = p.creator_id
JOIN categories c ON c.id = p.category_id
WHERE ($1 = '' OR c.public_id = $1)
  AND ($2 = '' OR u.public_id = $2)
  AND ($3 = '' OR p.title ILIKE '%' || $3 || '%' OR p.description ILIKE '%' || $3 || '%')
ORDER BY p.created_at DESC
LIMIT $4;
`

// ListProjects returns the newest projects matching the filter, with derived
// totals per row.
func (s *Store) ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]domain.ProjectSummary, error) {
	rows, err := s.db.QueryContext(ctx, listProjectsQuery,
		filter.CategoryID, filter.CreatorID, filter.Search, filter.Limit)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]domain.ProjectSummary, 0, 16)
	for rows.Next() {
		var sum domain.ProjectSummary
		p := &sum.Project
		if err := rows.Scan(
			&p.PublicID, &p.Title, &p.Description, &p.FundingGoal,
			&p.CreatorID, &p.CategoryID, &p.CategoryName,
			&sum.TotalRaised, &sum.ContributionCount, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		sum.Progress = domain.ProgressPercentage(sum.TotalRaised, p.FundingGoal)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
