// Package adherence derives streaks and completion ratios from a habit's
// cadence and completion history. Every query takes the reference date as an
// argument and never mutates the habit.
package adherence

import (
	"time"

	"github.com/julianstephens/habitchain/internal/constants"
	"github.com/julianstephens/habitchain/internal/models"
	"github.com/julianstephens/habitchain/internal/utils"
)

// DefaultStreakLimit bounds how many days Streak walks backwards. Streaks
// longer than the limit are reported as the limit's worth of due days.
const DefaultStreakLimit = 365

type Engine struct {
	// StreakLimit is the maximum number of calendar days inspected by Streak.
	StreakLimit int
	// WindowDays is the width of the Recent strip in summaries.
	WindowDays int
}

type Option func(*Engine)

// WithStreakLimit overrides DefaultStreakLimit. Non-positive values keep the
// default.
func WithStreakLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.StreakLimit = n
		}
	}
}

// WithWindowDays sets how many recent days a Summary carries.
func WithWindowDays(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.WindowDays = n
		}
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		StreakLimit: DefaultStreakLimit,
		WindowDays:  constants.DefaultWindowDays,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = New()

// Streak counts consecutive due-and-completed days ending at asOf using the
// default engine.
func Streak(h *models.Habit, asOf time.Time) int {
	return defaultEngine.Streak(h, asOf)
}

// Adherence returns the lifetime completion ratio using the default engine.
func Adherence(h *models.Habit, asOf time.Time) float64 {
	return defaultEngine.Adherence(h, asOf)
}

// Streak walks backwards from asOf one calendar day at a time. Days that are
// not due are skipped, a due day without a completion ends the walk. An
// unfinished asOf is skipped rather than counted as a miss.
func (e *Engine) Streak(h *models.Habit, asOf time.Time) int {
	check := utils.StartOfDay(asOf)
	if !h.IsDue(check) || !h.IsCompleted(check) {
		check = utils.AddDays(check, -1)
	}

	streak := 0
	for i := 0; i < e.streakLimit(); i++ {
		if h.IsDue(check) {
			if !h.IsCompleted(check) {
				break
			}
			streak++
		}
		check = utils.AddDays(check, -1)
	}
	return streak
}

// Tally is the count of due days and completed due days in a range.
type Tally struct {
	Required  int `json:"required"`
	Completed int `json:"completed"`
}

// Ratio is Completed/Required, or 0 when nothing was required.
func (t Tally) Ratio() float64 {
	if t.Required == 0 {
		return 0
	}
	return float64(t.Completed) / float64(t.Required)
}

// Tally scans every calendar day from the habit's creation day through asOf,
// both inclusive, in asOf's location. An asOf before creation yields an empty
// tally.
func (e *Engine) Tally(h *models.Habit, asOf time.Time) Tally {
	end := utils.StartOfDay(asOf)
	start := utils.StartOfDay(h.CreatedAt.In(end.Location()))
	totalDays := utils.DaysBetween(start, end)

	var t Tally
	for i := 0; i <= totalDays; i++ {
		day := utils.AddDays(start, i)
		if !h.IsDue(day) {
			continue
		}
		t.Required++
		if h.IsCompleted(day) {
			t.Completed++
		}
	}
	return t
}

// Adherence is the lifetime completion ratio in [0, 1].
func (e *Engine) Adherence(h *models.Habit, asOf time.Time) float64 {
	return e.Tally(h, asOf).Ratio()
}

func (e *Engine) streakLimit() int {
	if e.StreakLimit <= 0 {
		return DefaultStreakLimit
	}
	return e.StreakLimit
}
