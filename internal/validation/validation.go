// Package validation finds stored habits whose data will not score the way a
// user expects.
package validation

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/habitchain/internal/constants"
	"github.com/julianstephens/habitchain/internal/models"
	"github.com/julianstephens/habitchain/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictNeverDue              ConflictType = "never_due"
	ConflictSkipsShortMonths      ConflictType = "skips_short_months"
	ConflictLeapDayOnly           ConflictType = "leap_day_only"
	ConflictSimilarTitles         ConflictType = "similar_titles"
	ConflictDuplicateCompletion   ConflictType = "duplicate_completion"
	ConflictCompletionBeforeHabit ConflictType = "completion_before_habit"
	ConflictFutureCompletion      ConflictType = "future_completion"
)

// Conflict is one problem found in the stored habits
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // Habit titles involved
	HabitIDs    []string
}

type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks habits against the current instant. Days are judged in
// now's location.
type Validator struct {
	now func() time.Time
}

func New() *Validator {
	return &Validator{now: time.Now}
}

// WithClock returns a validator that reads the current time from now.
func WithClock(now func() time.Time) *Validator {
	return &Validator{now: now}
}

func (v *Validator) ValidateHabits(habits []*models.Habit) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	now := v.now()

	// Titles are unique in storage, but ones differing only in case or
	// spacing are easy to mix up on the command line.
	byKey := make(map[string][]*models.Habit)
	var keys []string
	for _, h := range habits {
		k := strings.ToLower(strings.Join(strings.Fields(h.Title), " "))
		if _, ok := byKey[k]; !ok {
			keys = append(keys, k)
		}
		byKey[k] = append(byKey[k], h)
	}
	for _, k := range keys {
		group := byKey[k]
		if len(group) < 2 {
			continue
		}
		c := Conflict{Type: ConflictSimilarTitles}
		for _, h := range group {
			c.Items = append(c.Items, h.Title)
			c.HabitIDs = append(c.HabitIDs, h.ID)
		}
		c.Description = fmt.Sprintf("Habits with near-identical titles: %q", c.Items)
		result.Conflicts = append(result.Conflicts, c)
	}

	for _, h := range habits {
		result.Conflicts = append(result.Conflicts, v.validateCadence(h)...)
		result.Conflicts = append(result.Conflicts, v.validateCompletions(h, now)...)
	}
	return result
}

func (v *Validator) validateCadence(h *models.Habit) []Conflict {
	single := func(t ConflictType, format string, args ...any) []Conflict {
		return []Conflict{{
			Type:        t,
			Description: fmt.Sprintf("Habit %q ", h.Title) + fmt.Sprintf(format, args...),
			Items:       []string{h.Title},
			HabitIDs:    []string{h.ID},
		}}
	}

	c := h.Cadence
	switch c.Type {
	case models.CadenceWeekly:
		if len(c.Weekdays) == 0 {
			return single(ConflictNeverDue, "is weekly but has no weekdays, so it is never due")
		}
	case models.CadenceMonthly:
		if c.Day == nil {
			return single(ConflictNeverDue, "is monthly but has no day of month, so it is never due")
		}
		if *c.Day > 28 {
			return single(ConflictSkipsShortMonths, "is due on day %d and is skipped in shorter months", *c.Day)
		}
	case models.CadenceYearly:
		if c.Day == nil || c.Month == nil {
			return single(ConflictNeverDue, "is yearly but has no date, so it is never due")
		}
		if *c.Month == int(time.February) && *c.Day == 29 {
			return single(ConflictLeapDayOnly, "is due on Feb 29 and only counts in leap years")
		}
	}
	return nil
}

func (v *Validator) validateCompletions(h *models.Habit, now time.Time) []Conflict {
	var out []Conflict
	loc := now.Location()
	created := utils.StartOfDay(h.CreatedAt.In(loc))

	counts := make(map[string]int)
	var days []string
	for _, c := range h.Completions {
		day := c.In(loc)
		key := day.Format(constants.DateFormat)
		if counts[key] == 0 {
			days = append(days, key)
		}
		counts[key]++

		if counts[key] > 1 {
			continue
		}
		switch {
		case day.Before(created):
			out = append(out, Conflict{
				Type:        ConflictCompletionBeforeHabit,
				Description: fmt.Sprintf("Habit %q has a completion on %s, before it was created; it does not count", h.Title, key),
				Date:        key,
				Items:       []string{h.Title},
				HabitIDs:    []string{h.ID},
			})
		case utils.DaysBetween(now, day) > 0:
			out = append(out, Conflict{
				Type:        ConflictFutureCompletion,
				Description: fmt.Sprintf("Habit %q has a completion in the future (%s)", h.Title, key),
				Date:        key,
				Items:       []string{h.Title},
				HabitIDs:    []string{h.ID},
			})
		}
	}

	slices.Sort(days)
	for _, key := range days {
		if n := counts[key]; n > 1 {
			out = append(out, Conflict{
				Type:        ConflictDuplicateCompletion,
				Description: fmt.Sprintf("Habit %q has %d completions on %s", h.Title, n, key),
				Date:        key,
				Items:       []string{h.Title},
				HabitIDs:    []string{h.ID},
			})
		}
	}
	return out
}

// AutoFixDuplicateCompletions collapses each duplicated day to a single
// completion. collapse is called with the habit id and the day; it must leave
// the day untouched when it fails.
func AutoFixDuplicateCompletions(conflicts []Conflict, collapse func(habitID string, day time.Time) error, loc *time.Location) []FixAction {
	actions := []FixAction{}
	for _, c := range conflicts {
		if c.Type != ConflictDuplicateCompletion || len(c.HabitIDs) != 1 {
			continue
		}
		day, err := utils.ParseDateInLocation(c.Date, loc)
		if err != nil {
			continue
		}
		// Midday keeps the lookup on the same date if the offset shifts
		day = day.Add(12 * time.Hour)

		action := fmt.Sprintf("Collapsed completions of %q on %s into one", c.Items[0], c.Date)
		if err := collapse(c.HabitIDs[0], day); err != nil {
			action = fmt.Sprintf("Failed to collapse completions of %q on %s: %v", c.Items[0], c.Date, err)
		}
		actions = append(actions, FixAction{Action: action, SourceConflict: c})
	}
	return actions
}
