package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundforge/crowdfund-backend/internal/ledger/domain"
)

func projectSpec() domain.ProjectSpec {
	return domain.ProjectSpec{
		Title:       "Solar school roof",
		Description: "Panels for the village school roof",
		FundingGoal: dec("100"),
		CreatorID:   "usr-1",
		CategoryID:  "cat-technology",
	}
}

func TestStore_CreateProject(t *testing.T) {
	t.Run("creates project and returns zeroed snapshot", func(t *testing.T) {
		store, mock, db := setupStore(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM users`).
			WithArgs("usr-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
		mock.ExpectQuery(`SELECT id FROM categories`).
			WithArgs("cat-technology").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))
		mock.ExpectExec(`INSERT INTO projects`).
			WithArgs(sqlmock.AnyArg(), "Solar school roof", "Panels for the village school roof",
				dec("100"), int64(3), int64(2)).
			WillReturnResult(sqlmock.NewResult(7, 1))
		mock.ExpectQuery(`SELECT p.id, p.public_id`).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(snapshotRows("0.00", 0))
		mock.ExpectQuery(`SELECT public_id, username, body`).
			WithArgs(int64(7)).
			WillReturnRows(emptyCommentRows())
		mock.ExpectCommit()

		snap, err := store.CreateProject(context.Background(), projectSpec())
		require.NoError(t, err)
		assert.True(t, snap.TotalRaised.IsZero())
		assert.Equal(t, int64(0), snap.ContributionCount)
		assert.True(t, snap.Progress.IsZero())
		assert.Empty(t, snap.Comments)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown category is a validation error", func(t *testing.T) {
		store, mock, db := setupStore(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM users`).
			WithArgs("usr-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
		mock.ExpectQuery(`SELECT id FROM categories`).
			WithArgs("cat-nope").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		spec := projectSpec()
		spec.CategoryID = "cat-nope"
		_, err := store.CreateProject(context.Background(), spec)

		var ve *domain.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "category_id", ve.Field)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown creator is not found", func(t *testing.T) {
		store, mock, db := setupStore(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM users`).
			WithArgs("usr-gone").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		spec := projectSpec()
		spec.CreatorID = "usr-gone"
		_, err := store.CreateProject(context.Background(), spec)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestStore_Snapshot(t *testing.T) {
	t.Run("reads totals and comment log in one transaction", func(t *testing.T) {
		store, mock, db := setupStore(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT p.id, p.public_id`).
			WithArgs("fund-12345-6789").
			WillReturnRows(snapshotRows("120.00", 3))
		mock.ExpectQuery(`SELECT public_id, username, body`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"public_id", "username", "body", "created_at"}).
				AddRow("cmt-1", "alice", "Great cause!", time.Now()).
				AddRow("cmt-2", "bob", "Backed it twice.", time.Now()))
		mock.ExpectCommit()

		snap, err := store.Snapshot(context.Background(), "fund-12345-6789")
		require.NoError(t, err)
		// goal=$100, raised=$120: over-funded, progress clamps at 100
		assert.True(t, snap.TotalRaised.Equal(dec("120")))
		assert.True(t, snap.Progress.Equal(dec("100")), "got %s", snap.Progress)
		assert.Equal(t, int64(3), snap.ContributionCount)
		require.Len(t, snap.Comments, 2)
		assert.Equal(t, "alice", snap.Comments[0].Username)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("broken comment log degrades to empty, not an error", func(t *testing.T) {
		store, mock, db := setupStore(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT p.id, p.public_id`).
			WithArgs("fund-12345-6789").
			WillReturnRows(snapshotRows("30.00", 1))
		mock.ExpectQuery(`SELECT public_id, username, body`).
			WithArgs(int64(7)).
			WillReturnError(errors.New("corrupt page"))
		mock.ExpectCommit()

		snap, err := store.Snapshot(context.Background(), "fund-12345-6789")
		require.NoError(t, err)
		assert.Empty(t, snap.Comments)
		assert.True(t, snap.TotalRaised.Equal(dec("30")))

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown project", func(t *testing.T) {
		store, mock, db := setupStore(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT p.id, p.public_id`).
			WithArgs("fund-gone").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := store.Snapshot(context.Background(), "fund-gone")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func summaryCols() []string {
	return []string{
		"public_id", "title", "description", "funding_goal",
		"creator_id", "category_id", "category_name",
		"raised_total", "contribution_count", "created_at",
	}
}

func TestStore_ListProjects(t *testing.T) {
	t.Run("filters by category and search", func(t *testing.T) {
		store, mock, db := setupStore(t)
		defer db.Close()

		mock.ExpectQuery(`FROM projects p`).
			WithArgs("cat-technology", "", "solar", 12).
			WillReturnRows(sqlmock.NewRows(summaryCols()).
				AddRow("fund-12345-6789", "Solar school roof", "Panels for the village school roof",
					"100.00", "usr-1", "cat-technology", "Technology", "30.00", 1, time.Now()))

		out, err := store.ListProjects(context.Background(), domain.ProjectFilter{
			CategoryID: "cat-technology",
			Search:     "solar",
			Limit:      12,
		})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.True(t, out[0].Progress.Equal(dec("30")))

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filters by creator", func(t *testing.T) {
		store, mock, db := setupStore(t)
		defer db.Close()

		mock.ExpectQuery(`FROM projects p`).
			WithArgs("", "usr-1", "", 12).
			WillReturnRows(sqlmock.NewRows(summaryCols()).
				AddRow("fund-12345-6789", "Solar school roof", "Panels for the village school roof",
					"100.00", "usr-1", "cat-technology", "Technology", "30.00", 1, time.Now()))

		out, err := store.ListProjects(context.Background(), domain.ProjectFilter{
			CreatorID: "usr-1",
			Limit:     12,
		})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "usr-1", out[0].Project.CreatorID)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}
