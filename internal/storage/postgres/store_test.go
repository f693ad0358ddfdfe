package postgres

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitchain/internal/storage/sqlstore"
)

func mockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewWithDB(db), mock
}

func q(s string) string {
	return regexp.QuoteMeta(s)
}

func TestWithSearchPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"url without params", "postgres://bob@db:5432/habits", "postgres://bob@db:5432/habits?search_path=habitchain"},
		{"url keeps existing", "postgres://bob@db/habits?search_path=public", "postgres://bob@db/habits?search_path=public"},
		{"dsn", "host=db dbname=habits", "host=db dbname=habits search_path=habitchain"},
		{"dsn keeps existing", "host=db SEARCH_PATH=public", "host=db SEARCH_PATH=public"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withSearchPath(tt.in))
		})
	}
}

func TestHasParam(t *testing.T) {
	assert.True(t, hasParam("postgres://db/habits?SSLMode=disable", "sslmode"))
	assert.True(t, hasParam("host=db sslmode=disable", "sslmode"))
	assert.False(t, hasParam("host=db password=sslmode_x", "sslmode"))
	assert.False(t, hasParam("", "sslmode"))
}

func TestIsConnString(t *testing.T) {
	assert.True(t, IsConnString("postgres://db/habits"))
	assert.True(t, IsConnString("postgresql://db/habits"))
	assert.True(t, IsConnString("host=db dbname=habits"))
	assert.False(t, IsConnString("/home/me/.config/habitchain/habitchain.db"))
	assert.False(t, IsConnString("habits.json"))
}

func TestValidateConnString(t *testing.T) {
	tests := []struct {
		name    string
		connStr string
		wantErr error
	}{
		{"url", "postgres://bob@db:5432/habits?sslmode=disable", nil},
		{"dsn", "host=db user=bob dbname=habits", nil},
		{"empty", "   ", ErrInvalidConnectionString},
		{"url with password", "postgres://bob:s3cret@db/habits", ErrEmbeddedCredentials},
		{"dsn with password", "host=db user=bob password=s3cret", ErrEmbeddedCredentials},
		{"incomplete url", "postgres://", ErrInvalidConnectionString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConnString(tt.connStr)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestInit_AppliesMigrations(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectExec(q("CREATE SCHEMA IF NOT EXISTS habitchain")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q("CREATE TABLE IF NOT EXISTS schema_version")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(q("SELECT version FROM schema_version")).
		WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectBegin()
	mock.ExpectExec(q("CREATE TABLE IF NOT EXISTS habits")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q("DELETE FROM schema_version")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q("INSERT INTO schema_version (version) VALUES ($1)")).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Init())
	assert.Equal(t, "postgresql", s.GetConfigPath())
}

func TestGetHabit(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectQuery(q("SELECT id, title, created_at, cadence FROM habits WHERE id = $1")).
		WithArgs("h1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "created_at", "cadence"}).
			AddRow("h1", "Gym", "2026-01-05T12:00:00Z", []byte(`{"type":"weekly","weekdays":[2,4]}`)))
	mock.ExpectQuery(q("SELECT id, habit_id, completed_at FROM habit_completions WHERE habit_id = $1 ORDER BY completed_at")).
		WithArgs("h1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "habit_id", "completed_at"}).
			AddRow("c1", "h1", "2026-01-05T18:30:00Z").
			AddRow("c2", "h1", "2026-01-07T07:00:00Z"))

	h, err := s.GetHabit("h1")
	require.NoError(t, err)
	assert.Equal(t, "Gym", h.Title)
	assert.Len(t, h.Cadence.Weekdays, 2)
	require.Len(t, h.Completions, 2)
	assert.True(t, h.IsCompleted(time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)))
}

func TestGetHabit_NotFound(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectQuery(q("FROM habits WHERE title = $1")).
		WithArgs("Nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "created_at", "cadence"}))

	_, err := s.GetHabitByTitle("Nope")
	assert.ErrorIs(t, err, sqlstore.ErrNotFound)
}

func TestToggleCompletion_Adds(t *testing.T) {
	s, mock := mockStore(t)
	day := time.Date(2026, 1, 9, 8, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT count(*) FROM habits WHERE id = $1")).
		WithArgs("h1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(q("FROM habit_completions WHERE habit_id = $1")).
		WithArgs("h1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "habit_id", "completed_at"}).
			AddRow("c1", "h1", "2026-01-08T08:00:00Z"))
	mock.ExpectExec(q("INSERT INTO habit_completions (id,habit_id,completed_at) VALUES ($1,$2,$3)")).
		WithArgs(sqlmock.AnyArg(), "h1", "2026-01-09T08:00:00.000000000Z").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	done, err := s.ToggleCompletion("h1", day)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestToggleCompletion_Clears(t *testing.T) {
	s, mock := mockStore(t)
	day := time.Date(2026, 1, 9, 8, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT count(*) FROM habits WHERE id = $1")).
		WithArgs("h1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(q("FROM habit_completions WHERE habit_id = $1")).
		WithArgs("h1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "habit_id", "completed_at"}).
			AddRow("c1", "h1", "2026-01-09T01:00:00Z").
			AddRow("c2", "h1", "2026-01-09T22:00:00Z").
			AddRow("c3", "h1", "2026-01-10T01:00:00Z"))
	mock.ExpectExec(q("DELETE FROM habit_completions WHERE id IN ($1,$2)")).
		WithArgs("c1", "c2").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	done, err := s.ToggleCompletion("h1", day)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestRemoveCompletions_RollsBackOnFailure(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT count(*) FROM habits WHERE id = $1")).
		WithArgs("h1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(q("FROM habit_completions WHERE habit_id = $1")).
		WithArgs("h1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "habit_id", "completed_at"}).
			AddRow("c1", "h1", "2026-01-09T10:00:00Z"))
	mock.ExpectExec(q("DELETE FROM habit_completions")).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	n, err := s.RemoveCompletions("h1", time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestCollapseCompletions_KeepsEarliest(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT count(*) FROM habits WHERE id = $1")).
		WithArgs("h1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(q("FROM habit_completions WHERE habit_id = $1")).
		WithArgs("h1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "habit_id", "completed_at"}).
			AddRow("c1", "h1", "2026-01-09T07:00:00.000000000Z").
			AddRow("c2", "h1", "2026-01-09T12:00:00.000000000Z").
			AddRow("c3", "h1", "2026-01-09T20:00:00.000000000Z").
			AddRow("c4", "h1", "2026-01-10T08:00:00.000000000Z"))
	mock.ExpectExec(q("DELETE FROM habit_completions WHERE id IN ($1,$2)")).
		WithArgs("c2", "c3").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := s.CollapseCompletions("h1", time.Date(2026, 1, 9, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCollapseCompletions_SingleIsNoop(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT count(*) FROM habits WHERE id = $1")).
		WithArgs("h1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(q("FROM habit_completions WHERE habit_id = $1")).
		WithArgs("h1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "habit_id", "completed_at"}).
			AddRow("c1", "h1", "2026-01-09T07:00:00.000000000Z"))
	mock.ExpectCommit()

	n, err := s.CollapseCompletions("h1", time.Date(2026, 1, 9, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCollapseCompletions_RollsBackOnFailure(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT count(*) FROM habits WHERE id = $1")).
		WithArgs("h1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(q("FROM habit_completions WHERE habit_id = $1")).
		WithArgs("h1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "habit_id", "completed_at"}).
			AddRow("c1", "h1", "2026-01-09T07:00:00.000000000Z").
			AddRow("c2", "h1", "2026-01-09T12:00:00.000000000Z"))
	mock.ExpectExec(q("DELETE FROM habit_completions")).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	n, err := s.CollapseCompletions("h1", time.Date(2026, 1, 9, 12, 0, 0, 0, time.UTC))
	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestAddHabit_DuplicateTitle(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT count(*) FROM habits WHERE (title = $1)")).
		WithArgs("Read").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := s.AddHabit(newHabit(t, "Read"))
	assert.ErrorIs(t, err, sqlstore.ErrDuplicateTitle)
}

func TestDeleteHabit_NotFound(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(q("DELETE FROM habit_completions WHERE habit_id = $1")).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q("DELETE FROM habits WHERE id = $1")).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, s.DeleteHabit("ghost"), sqlstore.ErrNotFound)
}

func TestNotInitialized(t *testing.T) {
	s := New("postgres://bob@db/habits")
	_, err := s.GetAllHabits()
	assert.ErrorIs(t, err, sqlstore.ErrNotInitialized)
	assert.NoError(t, s.Close())
}
