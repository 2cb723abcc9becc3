package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/fundforge/crowdfund-backend/internal/ledger/domain"
)

// Postgres SQLSTATE codes the ledger cares about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgSerializationFail   = "40001"
	pgDeadlockDetected    = "40P01"
)

// Store is the durable, transactional ledger store. It is the only writer of
// truth: every mutating operation runs as a single transaction, and derived
// totals are maintained in the same transaction as the contribution insert.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewStore creates a ledger store over the given database handle.
func NewStore(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log}
}

// withTx runs fn inside a transaction. Rollback on any error from fn; commit
// errors are classified so that an unknown outcome surfaces as
// ErrCommitUncertain instead of being silently retried.
func (s *Store) withTx(ctx context.Context, opts *sql.TxOptions, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return classify(err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return classify(err)
	}

	if err := tx.Commit(); err != nil {
		return classifyCommit(err)
	}
	return nil
}

// classify maps driver and context errors onto the domain taxonomy. Errors
// already in the taxonomy pass through unchanged.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrTimeout),
		errors.Is(err, domain.ErrUnavailable),
		errors.Is(err, domain.ErrCommitUncertain),
		domain.IsValidation(err):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFail, pgDeadlockDetected:
			return fmt.Errorf("%w: %v", domain.ErrConflict, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
		}
	}
	return err
}

// classifyCommit decides what a failed commit means. If the driver can prove
// the commit never reached the server, nothing happened and the error is
// retryable; otherwise the outcome is unknown and must be surfaced as such,
// since a blind retry could double-count a contribution.
func classifyCommit(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFail, pgDeadlockDetected:
			// The server rejected and rolled back the transaction.
			return fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
	}

	if pgconn.SafeToRetry(err) {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	return fmt.Errorf("%w: %v", domain.ErrCommitUncertain, err)
}

// isUniqueViolation reports whether err is a unique-constraint violation,
// used to retry public ID generation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
