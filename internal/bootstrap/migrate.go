package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fundforge/crowdfund-backend/migrations"
)

// Migrate applies the embedded schema. Every statement is idempotent, so
// running it on each startup is safe.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, migrations.Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
