package stats

import (
	"context"
	"database/sql"

	"github.com/fundforge/crowdfund-backend/internal/ledger/domain"
)

// Repo computes the platform-wide dashboard totals.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

const totalsQuery = `
SELECT
  (SELECT COUNT(*) FROM projects),
  (SELECT COUNT(*) FROM users),
  (SELECT COUNT(*) FROM contributions),
  (SELECT COALESCE(SUM(amount), 0) FROM contributions);
`

// Totals returns platform counts and the exact sum of all contributions.
func (r *Repo) Totals(ctx context.Context) (*domain.PlatformStats, error) {
	var s domain.PlatformStats
	err := r.db.QueryRowContext(ctx, totalsQuery).Scan(
		&s.TotalProjects, &s.TotalUsers, &s.TotalContributions, &s.TotalRaised)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
