package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fundforge/crowdfund-backend/internal/ledger/domain"
)

// Store is the transactional ledger store the service delegates to.
type Store interface {
	CreateProject(ctx context.Context, spec domain.ProjectSpec) (*domain.Snapshot, error)
	RecordContribution(ctx context.Context, projectID, userID string, amount decimal.Decimal) (*domain.Snapshot, error)
	AppendComment(ctx context.Context, projectID, username, text string) (*domain.Snapshot, error)
	Snapshot(ctx context.Context, projectID string) (*domain.Snapshot, error)
	ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]domain.ProjectSummary, error)
	ListContributions(ctx context.Context, projectID string) ([]domain.Contribution, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// UserDirectory resolves authenticated user IDs to display names. Identity
// and authorization belong to the excluded auth collaborator; the ledger only
// snapshots the display name at comment time.
type UserDirectory interface {
	Username(ctx context.Context, userID string) (string, error)
}

// SnapshotCache is an optional read-through cache for project snapshots.
// Implementations must fail open: a cache problem is never a ledger error.
type SnapshotCache interface {
	Get(ctx context.Context, projectID string) (*domain.Snapshot, bool)
	Put(ctx context.Context, projectID string, snap *domain.Snapshot)
	Invalidate(ctx context.Context, projectID string)
}

// Limits are the ledger's arithmetic bounds. Title, description and comment
// bounds follow the original submission rules; amount and goal bounds are
// configurable.
type Limits struct {
	AmountMin decimal.Decimal
	AmountMax decimal.Decimal
	GoalMin   decimal.Decimal
	GoalMax   decimal.Decimal
}

const (
	titleMinLen       = 5
	titleMaxLen       = 200
	descriptionMinLen = 20
	commentMinLen     = 5
	commentMaxLen     = 500
	listLimitDefault  = 12
	listLimitMax      = 50
)

// DefaultLimits returns the stock bounds: contributions 1 to 10,000 units,
// goals 1 to 1,000,000 units.
func DefaultLimits() Limits {
	return Limits{
		AmountMin: decimal.NewFromInt(1),
		AmountMax: decimal.NewFromInt(10000),
		GoalMin:   decimal.NewFromInt(1),
		GoalMax:   decimal.NewFromInt(1000000),
	}
}

// LedgerService is the façade over the ledger store: it validates data shape
// and arithmetic invariants, bounds every operation with a timeout, and
// returns a consistent snapshot from every write. Who is allowed to call it
// is the caller's concern.
type LedgerService struct {
	store   Store
	users   UserDirectory
	cache   SnapshotCache
	limits  Limits
	timeout time.Duration
	log     zerolog.Logger
}

// NewLedgerService creates a ledger service. cache may be nil.
func NewLedgerService(store Store, users UserDirectory, cache SnapshotCache, limits Limits, timeout time.Duration, log zerolog.Logger) *LedgerService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &LedgerService{
		store:   store,
		users:   users,
		cache:   cache,
		limits:  limits,
		timeout: timeout,
		log:     log,
	}
}

// CreateProject validates and creates a project, returning its first snapshot.
func (s *LedgerService) CreateProject(ctx context.Context, in domain.ProjectSpec) (*domain.Snapshot, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	if n := utf8.RuneCountInString(in.Title); n < titleMinLen || n > titleMaxLen {
		return nil, domain.Invalid("title", fmt.Sprintf("must be between %d and %d characters", titleMinLen, titleMaxLen))
	}
	if utf8.RuneCountInString(in.Description) < descriptionMinLen {
		return nil, domain.Invalid("description", fmt.Sprintf("must be at least %d characters", descriptionMinLen))
	}
	if in.FundingGoal.LessThan(s.limits.GoalMin) || in.FundingGoal.GreaterThan(s.limits.GoalMax) {
		return nil, domain.Invalid("funding_goal",
			fmt.Sprintf("must be between %s and %s", s.limits.GoalMin, s.limits.GoalMax))
	}
	if in.CategoryID == "" {
		return nil, domain.Invalid("category_id", "required")
	}
	if in.CreatorID == "" {
		return nil, domain.Invalid("creator_id", "required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	snap, err := s.store.CreateProject(ctx, in)
	if err != nil {
		return nil, s.mapErr(err)
	}

	s.cachePut(ctx, snap)
	return snap, nil
}

// RecordContribution records one immutable contribution and returns the
// post-write snapshot. A commit of unknown outcome is surfaced as
// ErrCommitUncertain and never retried here, since retrying could
// double-charge the ledger.
func (s *LedgerService) RecordContribution(ctx context.Context, projectID, userID string, amount decimal.Decimal) (*domain.Snapshot, error) {
	if amount.Sign() <= 0 || amount.LessThan(s.limits.AmountMin) {
		return nil, domain.Invalid("amount", fmt.Sprintf("must be at least %s", s.limits.AmountMin))
	}
	if amount.GreaterThan(s.limits.AmountMax) {
		return nil, domain.Invalid("amount", fmt.Sprintf("must not exceed %s", s.limits.AmountMax))
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	snap, err := s.store.RecordContribution(ctx, projectID, userID, amount)
	if err != nil {
		if errors.Is(err, domain.ErrCommitUncertain) {
			// The write may or may not be durable; drop any cached view.
			// The request context is likely already expired here.
			s.cacheInvalidate(context.WithoutCancel(ctx), projectID)
			s.log.Error().Str("project_id", projectID).Err(err).Msg("contribution commit outcome uncertain")
		}
		return nil, s.mapErr(err)
	}

	s.cachePut(ctx, snap)
	return snap, nil
}

// AppendComment appends to the project's comment log, snapshotting the acting
// user's display name at write time.
func (s *LedgerService) AppendComment(ctx context.Context, projectID, userID, text string) (*domain.Snapshot, error) {
	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n < commentMinLen || n > commentMaxLen {
		return nil, domain.Invalid("text", fmt.Sprintf("must be between %d and %d characters", commentMinLen, commentMaxLen))
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	username, err := s.users.Username(ctx, userID)
	if err != nil {
		return nil, s.mapErr(err)
	}

	snap, err := s.store.AppendComment(ctx, projectID, username, text)
	if err != nil {
		if errors.Is(err, domain.ErrCommitUncertain) {
			s.cacheInvalidate(context.WithoutCancel(ctx), projectID)
		}
		return nil, s.mapErr(err)
	}

	s.cachePut(ctx, snap)
	return snap, nil
}

// GetSnapshot returns the project snapshot, serving from cache when possible.
func (s *LedgerService) GetSnapshot(ctx context.Context, projectID string) (*domain.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if s.cache != nil {
		if snap, ok := s.cache.Get(ctx, projectID); ok {
			return snap, nil
		}
	}

	snap, err := s.store.Snapshot(ctx, projectID)
	if err != nil {
		return nil, s.mapErr(err)
	}

	s.cachePut(ctx, snap)
	return snap, nil
}

// ListProjects lists recent projects matching the filter.
func (s *LedgerService) ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]domain.ProjectSummary, error) {
	if filter.Limit <= 0 {
		filter.Limit = listLimitDefault
	}
	if filter.Limit > listLimitMax {
		filter.Limit = listLimitMax
	}
	filter.Search = strings.TrimSpace(filter.Search)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.store.ListProjects(ctx, filter)
	if err != nil {
		return nil, s.mapErr(err)
	}
	return out, nil
}

// ListContributions lists the project's contributions, newest first.
func (s *LedgerService) ListContributions(ctx context.Context, projectID string) ([]domain.Contribution, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.store.ListContributions(ctx, projectID)
	if err != nil {
		return nil, s.mapErr(err)
	}
	return out, nil
}

// ListCategories lists the category reference table.
func (s *LedgerService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, s.mapErr(err)
	}
	return out, nil
}

func (s *LedgerService) cachePut(ctx context.Context, snap *domain.Snapshot) {
	if s.cache != nil && snap != nil {
		s.cache.Put(ctx, snap.Project.PublicID, snap)
	}
}

func (s *LedgerService) cacheInvalidate(ctx context.Context, projectID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, projectID)
	}
}

// mapErr folds raw context errors into the taxonomy; classified store errors
// pass through.
func (s *LedgerService) mapErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrTimeout) && !errors.Is(err, domain.ErrCommitUncertain) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	return err
}
