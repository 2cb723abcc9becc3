package users

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundforge/crowdfund-backend/internal/ledger/domain"
)

func setupRepo(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepo(db), mock
}

func TestRepo_Exists(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("usr-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), "usr-1")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.Exists(context.Background(), "")
	assert.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Username(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := setupRepo(t)

		mock.ExpectQuery(`SELECT username FROM users`).
			WithArgs("usr-1").
			WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("alice"))

		name, err := repo.Username(context.Background(), "usr-1")
		require.NoError(t, err)
		assert.Equal(t, "alice", name)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo, mock := setupRepo(t)

		mock.ExpectQuery(`SELECT username FROM users`).
			WithArgs("usr-gone").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Username(context.Background(), "usr-gone")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRepo_DeleteCascade(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectExec(`DELETE FROM users`).
		WithArgs("usr-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM users`).
		WithArgs("usr-gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.DeleteCascade(context.Background(), "usr-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeleteCascade(context.Background(), "usr-gone")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}
