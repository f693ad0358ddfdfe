// Package sqlstore implements habit persistence over database/sql for every
// supported dialect. Queries are built with squirrel so that only the
// placeholder format differs between SQLite and PostgreSQL.
package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/habitchain/internal/logger"
	"github.com/julianstephens/habitchain/internal/models"
	"github.com/julianstephens/habitchain/internal/utils"
)

const (
	habitsTable      = "habits"
	completionsTable = "habit_completions"
)

var habitColumns = []string{"id", "title", "created_at", "cadence"}

type Store struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

// New wraps an open connection. driverName is the name db was opened with.
func New(db *sql.DB, driverName string, ph sq.PlaceholderFormat) *Store {
	return &Store{
		db: sqlx.NewDb(db, driverName),
		sb: sq.StatementBuilder.PlaceholderFormat(ph),
	}
}

// DB exposes the underlying connection, nil until the store is opened.
func (s *Store) DB() *sql.DB {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.DB
}

type habitRow struct {
	ID        string         `db:"id"`
	Title     string         `db:"title"`
	CreatedAt string         `db:"created_at"`
	Cadence   models.Cadence `db:"cadence"`
}

func (r habitRow) toModel() (*models.Habit, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at of habit %s: %w", r.ID, err)
	}
	return &models.Habit{
		ID:        r.ID,
		Title:     r.Title,
		CreatedAt: created,
		Cadence:   r.Cadence,
	}, nil
}

type completionRow struct {
	ID          string `db:"id"`
	HabitID     string `db:"habit_id"`
	CompletedAt string `db:"completed_at"`
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func (s *Store) ready() error {
	if s == nil || s.db == nil {
		return ErrNotInitialized
	}
	return nil
}

// inTx runs fn inside a transaction, rolling back on error.
func (s *Store) inTx(fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) titleTaken(q sqlx.Queryer, title, exceptID string) (bool, error) {
	where := sq.And{sq.Eq{"title": title}}
	if exceptID != "" {
		where = append(where, sq.NotEq{"id": exceptID})
	}
	query, args, err := s.sb.Select("count(*)").From(habitsTable).Where(where).ToSql()
	if err != nil {
		return false, err
	}
	var n int
	if err := sqlx.Get(q, &n, query, args...); err != nil {
		return false, fmt.Errorf("failed to check title: %w", err)
	}
	return n > 0, nil
}

func (s *Store) habitExists(q sqlx.Queryer, id string) error {
	query, args, err := s.sb.Select("count(*)").From(habitsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	var n int
	if err := sqlx.Get(q, &n, query, args...); err != nil {
		return fmt.Errorf("failed to look up habit %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *Store) insertCompletion(e sqlx.Execer, habitID string, at time.Time) error {
	query, args, err := s.sb.Insert(completionsTable).
		Columns("id", "habit_id", "completed_at").
		Values(uuid.New().String(), habitID, formatTime(at)).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := e.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert completion: %w", err)
	}
	return nil
}

func (s *Store) completionsFor(q sqlx.Queryer, habitID string) ([]completionRow, error) {
	query, args, err := s.sb.Select("id", "habit_id", "completed_at").
		From(completionsTable).
		Where(sq.Eq{"habit_id": habitID}).
		OrderBy("completed_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	var rows []completionRow
	if err := sqlx.Select(q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}
	return rows, nil
}

// sameDay returns the ids of rows whose timestamp falls on day's calendar date
// in day's location.
func sameDay(rows []completionRow, day time.Time) ([]string, error) {
	var ids []string
	for _, r := range rows {
		at, err := parseTime(r.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse completion %s: %w", r.ID, err)
		}
		if utils.SameDay(at, day) {
			ids = append(ids, r.ID)
		}
	}
	return ids, nil
}

func (s *Store) deleteCompletions(e sqlx.Execer, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := s.sb.Delete(completionsTable).Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return err
	}
	if _, err := e.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to delete completions: %w", err)
	}
	return nil
}

func (s *Store) AddHabit(h *models.Habit) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.inTx(func(tx *sqlx.Tx) error {
		taken, err := s.titleTaken(tx, h.Title, "")
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %q", ErrDuplicateTitle, h.Title)
		}

		query, args, err := s.sb.Insert(habitsTable).
			Columns(habitColumns...).
			Values(h.ID, h.Title, formatTime(h.CreatedAt), h.Cadence).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to insert habit: %w", err)
		}
		for _, c := range h.Completions {
			if err := s.insertCompletion(tx, h.ID, c); err != nil {
				return err
			}
		}
		logger.Debug("Added habit", "habit", h.ID, "title", h.Title)
		return nil
	})
}

func (s *Store) getHabitWhere(pred sq.Sqlizer, label string) (*models.Habit, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	query, args, err := s.sb.Select(habitColumns...).From(habitsTable).Where(pred).ToSql()
	if err != nil {
		return nil, err
	}

	var row habitRow
	if err := s.db.Get(&row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, label)
		}
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}
	h, err := row.toModel()
	if err != nil {
		return nil, err
	}

	completions, err := s.completionsFor(s.db, h.ID)
	if err != nil {
		return nil, err
	}
	for _, c := range completions {
		at, err := parseTime(c.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse completion %s: %w", c.ID, err)
		}
		h.Completions = append(h.Completions, at)
	}
	return h, nil
}

func (s *Store) GetHabit(id string) (*models.Habit, error) {
	return s.getHabitWhere(sq.Eq{"id": id}, id)
}

func (s *Store) GetHabitByTitle(title string) (*models.Habit, error) {
	return s.getHabitWhere(sq.Eq{"title": title}, title)
}

// GetAllHabits returns every habit with its completions, oldest first.
func (s *Store) GetAllHabits() ([]*models.Habit, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	query, args, err := s.sb.Select(habitColumns...).From(habitsTable).OrderBy("created_at", "title").ToSql()
	if err != nil {
		return nil, err
	}
	var rows []habitRow
	if err := s.db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}

	habits := make([]*models.Habit, 0, len(rows))
	byID := make(map[string]*models.Habit, len(rows))
	for _, r := range rows {
		h, err := r.toModel()
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
		byID[h.ID] = h
	}
	if len(habits) == 0 {
		return habits, nil
	}

	query, args, err = s.sb.Select("id", "habit_id", "completed_at").
		From(completionsTable).
		OrderBy("completed_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	var completions []completionRow
	if err := s.db.Select(&completions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	for _, c := range completions {
		h, ok := byID[c.HabitID]
		if !ok {
			continue
		}
		at, err := parseTime(c.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse completion %s: %w", c.ID, err)
		}
		h.Completions = append(h.Completions, at)
	}
	return habits, nil
}

// UpdateHabit persists the title and cadence. Completions are managed
// through AddCompletion, RemoveCompletions and ToggleCompletion.
func (s *Store) UpdateHabit(h *models.Habit) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.inTx(func(tx *sqlx.Tx) error {
		taken, err := s.titleTaken(tx, h.Title, h.ID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %q", ErrDuplicateTitle, h.Title)
		}

		query, args, err := s.sb.Update(habitsTable).
			Set("title", h.Title).
			Set("cadence", h.Cadence).
			Where(sq.Eq{"id": h.ID}).
			ToSql()
		if err != nil {
			return err
		}
		res, err := tx.Exec(query, args...)
		if err != nil {
			return fmt.Errorf("failed to update habit: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, h.ID)
		}
		return nil
	})
}

// DeleteHabit removes the habit and all of its completions.
func (s *Store) DeleteHabit(id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.inTx(func(tx *sqlx.Tx) error {
		query, args, err := s.sb.Delete(completionsTable).Where(sq.Eq{"habit_id": id}).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to delete completions: %w", err)
		}

		query, args, err = s.sb.Delete(habitsTable).Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return err
		}
		res, err := tx.Exec(query, args...)
		if err != nil {
			return fmt.Errorf("failed to delete habit: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		logger.Debug("Deleted habit", "habit", id)
		return nil
	})
}

// AddCompletion appends a completion without checking for an existing entry
// on the same day.
func (s *Store) AddCompletion(habitID string, at time.Time) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.inTx(func(tx *sqlx.Tx) error {
		if err := s.habitExists(tx, habitID); err != nil {
			return err
		}
		return s.insertCompletion(tx, habitID, at)
	})
}

// RemoveCompletions deletes every completion on day's calendar date, judged
// in day's location, and returns how many were removed.
func (s *Store) RemoveCompletions(habitID string, day time.Time) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var removed int
	err := s.inTx(func(tx *sqlx.Tx) error {
		if err := s.habitExists(tx, habitID); err != nil {
			return err
		}
		rows, err := s.completionsFor(tx, habitID)
		if err != nil {
			return err
		}
		ids, err := sameDay(rows, day)
		if err != nil {
			return err
		}
		if err := s.deleteCompletions(tx, ids); err != nil {
			return err
		}
		removed = len(ids)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// CollapseCompletions keeps the earliest completion on day's calendar date
// and deletes the others in one transaction. It returns how many were removed.
func (s *Store) CollapseCompletions(habitID string, day time.Time) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var removed int
	err := s.inTx(func(tx *sqlx.Tx) error {
		if err := s.habitExists(tx, habitID); err != nil {
			return err
		}
		rows, err := s.completionsFor(tx, habitID)
		if err != nil {
			return err
		}
		ids, err := sameDay(rows, day)
		if err != nil {
			return err
		}
		if len(ids) < 2 {
			return nil
		}
		// rows are ordered by completed_at, so ids[0] is the earliest
		if err := s.deleteCompletions(tx, ids[1:]); err != nil {
			return err
		}
		removed = len(ids) - 1
		return nil
	})
	if err != nil {
		return 0, err
	}
	logger.Debug("Collapsed completions", "habit", habitID, "day", day.Format(time.DateOnly), "removed", removed)
	return removed, nil
}

// ToggleCompletion clears day if it has any completion, otherwise records
// one at day. It returns whether the day is completed afterwards.
func (s *Store) ToggleCompletion(habitID string, day time.Time) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	var completed bool
	err := s.inTx(func(tx *sqlx.Tx) error {
		if err := s.habitExists(tx, habitID); err != nil {
			return err
		}
		rows, err := s.completionsFor(tx, habitID)
		if err != nil {
			return err
		}
		ids, err := sameDay(rows, day)
		if err != nil {
			return err
		}
		if len(ids) > 0 {
			completed = false
			return s.deleteCompletions(tx, ids)
		}
		completed = true
		return s.insertCompletion(tx, habitID, day)
	})
	if err != nil {
		return false, err
	}
	logger.Debug("Toggled completion", "habit", habitID, "day", day.Format(time.DateOnly), "completed", completed)
	return completed, nil
}
