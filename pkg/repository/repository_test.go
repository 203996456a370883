package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/applytrack/pkg/repository"
)

func scanName(s repository.Scanner) (string, error) {
	var name string
	err := s.Scan(&name)
	return name, err
}

func TestQueryOptional(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT name FROM things").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("widget"))

		name, found, err := repository.QueryOptional(ctx, db, "SELECT name FROM things WHERE id = $1", []any{1}, scanName)

		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "widget", name)
	})

	t.Run("missing row is not an error", func(t *testing.T) {
		mock.ExpectQuery("SELECT name FROM things").
			WithArgs(2).
			WillReturnRows(sqlmock.NewRows([]string{"name"}))

		name, found, err := repository.QueryOptional(ctx, db, "SELECT name FROM things WHERE id = $1", []any{2}, scanName)

		assert.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, name)
	})

	t.Run("driver error propagates", func(t *testing.T) {
		mock.ExpectQuery("SELECT name FROM things").
			WithArgs(3).
			WillReturnError(sql.ErrConnDone)

		_, found, err := repository.QueryOptional(ctx, db, "SELECT name FROM things WHERE id = $1", []any{3}, scanName)

		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.False(t, found)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryMany(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	t.Run("rows", func(t *testing.T) {
		mock.ExpectQuery("SELECT name FROM things").
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("a").AddRow("b"))

		names, err := repository.QueryMany(ctx, db, "SELECT name FROM things", nil, scanName)

		assert.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, names)
	})

	t.Run("empty result is a non-nil slice", func(t *testing.T) {
		mock.ExpectQuery("SELECT name FROM things").
			WillReturnRows(sqlmock.NewRows([]string{"name"}))

		names, err := repository.QueryMany(ctx, db, "SELECT name FROM things", nil, scanName)

		assert.NoError(t, err)
		assert.NotNil(t, names)
		assert.Empty(t, names)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecAffected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("UPDATE things").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE things").
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repository.ExecAffected(ctx, db, "UPDATE things SET x = 1 WHERE id = $1", 1)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = repository.ExecAffected(ctx, db, "UPDATE things SET x = 1 WHERE id = $1", 2)
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMapError(t *testing.T) {
	errNotFound := errors.New("not found")
	errDuplicate := errors.New("duplicate")
	errInvalid := errors.New("invalid")
	errOther := errors.New("other")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, errNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"invalid text", &pgconn.PgError{Code: "22P02"}, errInvalid},
		{"check violation", &pgconn.PgError{Code: "23514"}, errInvalid},
		{"unrelated", errOther, errOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.err, errNotFound, errDuplicate, errInvalid)
			if !errors.Is(got, tt.want) && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
