package repository

import (
	"context"

	"github.com/fundforge/crowdfund-backend/internal/ledger/domain"
)

// ListCategories returns all categories. Categories are reference data:
// seeded at migration time and never deleted, so projects always resolve.
func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT public_id, name, description
FROM categories
ORDER BY name;
`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]domain.Category, 0, 8)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.PublicID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
