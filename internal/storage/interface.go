// Package storage defines the persistence contract for habits and selects a
// backend from a connection string.
package storage

import (
	"time"

	"github.com/julianstephens/habitchain/internal/models"
	"github.com/julianstephens/habitchain/internal/storage/sqlstore"
)

var (
	ErrNotFound       = sqlstore.ErrNotFound
	ErrDuplicateTitle = sqlstore.ErrDuplicateTitle
	ErrNotInitialized = sqlstore.ErrNotInitialized
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	AddHabit(*models.Habit) error
	GetHabit(id string) (*models.Habit, error)
	GetHabitByTitle(title string) (*models.Habit, error)
	GetAllHabits() ([]*models.Habit, error)
	// UpdateHabit persists title and cadence only.
	UpdateHabit(*models.Habit) error
	// DeleteHabit is permanent and removes the habit's completions too.
	DeleteHabit(id string) error

	// Completions. Day arguments are matched by calendar date in their own
	// location.
	AddCompletion(habitID string, at time.Time) error
	RemoveCompletions(habitID string, day time.Time) (int, error)
	// CollapseCompletions keeps one completion on day and removes the rest
	// atomically.
	CollapseCompletions(habitID string, day time.Time) (int, error)
	ToggleCompletion(habitID string, day time.Time) (bool, error)

	// Utils
	GetConfigPath() string
}
