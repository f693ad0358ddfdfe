package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitchain/internal/utils"
)

var (
	ErrEmptyTitle     = errors.New("habit title cannot be empty")
	ErrInvalidCadence = errors.New("invalid cadence")
	ErrInvalidWeekday = errors.New("invalid weekday")
	ErrInvalidDay     = errors.New("invalid day of month")
	ErrInvalidMonth   = errors.New("invalid month")
)

// Habit represents a recurring goal and the days it was completed
type Habit struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	CreatedAt   time.Time   `json:"created_at"`
	Cadence     Cadence     `json:"cadence"`
	Completions []time.Time `json:"completions"`
}

// NewHabit validates the title and cadence and returns a habit with a fresh ID.
func NewHabit(title string, cadence Cadence, createdAt time.Time) (*Habit, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if err := cadence.Validate(); err != nil {
		return nil, err
	}
	if cadence.Type == CadenceWeekly {
		cadence.Weekdays = normalizeWeekdays(cadence.Weekdays)
	}
	return &Habit{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: createdAt,
		Cadence:   cadence,
	}, nil
}

// IsDue reports whether the cadence obligates the habit on date.
func (h *Habit) IsDue(date time.Time) bool {
	return h.Cadence.Matches(date)
}

// IsCompleted reports whether any completion falls on the same calendar day as
// date, judged in date's location.
func (h *Habit) IsCompleted(date time.Time) bool {
	for _, c := range h.Completions {
		if utils.SameDay(c, date) {
			return true
		}
	}
	return false
}

// AddCompletion appends date without checking for an existing entry.
func (h *Habit) AddCompletion(date time.Time) {
	h.Completions = append(h.Completions, date)
}

// RemoveCompletion drops every completion on date's calendar day and returns
// how many were removed.
func (h *Habit) RemoveCompletion(date time.Time) int {
	before := len(h.Completions)
	h.Completions = slices.DeleteFunc(h.Completions, func(c time.Time) bool {
		return utils.SameDay(c, date)
	})
	return before - len(h.Completions)
}

// CollapseCompletions keeps the earliest completion on date's calendar day,
// drops the rest, and returns how many were removed.
func (h *Habit) CollapseCompletions(date time.Time) int {
	keep := -1
	for i, c := range h.Completions {
		if utils.SameDay(c, date) && (keep < 0 || c.Before(h.Completions[keep])) {
			keep = i
		}
	}
	if keep < 0 {
		return 0
	}
	kept := h.Completions[keep]
	removed := h.RemoveCompletion(date) - 1
	h.AddCompletion(kept)
	return removed
}

// ToggleCompletion removes the day's completions if present, otherwise adds
// one. It returns whether the day is completed afterwards.
func (h *Habit) ToggleCompletion(date time.Time) bool {
	if h.RemoveCompletion(date) > 0 {
		return false
	}
	h.AddCompletion(date)
	return true
}

// SetCadence replaces the cadence after validating it.
func (h *Habit) SetCadence(c Cadence) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Type == CadenceWeekly {
		c.Weekdays = normalizeWeekdays(c.Weekdays)
	}
	h.Cadence = c
	return nil
}

// SetWeekdays replaces the weekday set of a weekly habit.
func (h *Habit) SetWeekdays(days []Weekday) error {
	if h.Cadence.Type != CadenceWeekly {
		return fmt.Errorf("%w: weekdays only apply to weekly habits (habit is %s)", ErrInvalidCadence, h.Cadence.Type)
	}
	return h.SetCadence(Weekly(days...))
}

// Rename changes the display title.
func (h *Habit) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	h.Title = title
	return nil
}
