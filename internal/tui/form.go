package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitchain/internal/models"
)

type HabitFormModel struct {
	Title    string
	Cadence  models.CadenceType
	Weekdays []models.Weekday
}

// Habit builds the habit described by the form. Monthly and yearly habits
// target created's day and month.
func (fm *HabitFormModel) Habit(created time.Time) (*models.Habit, error) {
	var c models.Cadence
	switch fm.Cadence {
	case models.CadenceWeekly:
		if len(fm.Weekdays) == 0 {
			return nil, errors.New("pick at least one weekday")
		}
		c = models.Weekly(fm.Weekdays...)
	case models.CadenceMonthly:
		c = models.Monthly(created.Day())
	case models.CadenceYearly:
		c = models.Yearly(created.Day(), created.Month())
	default:
		c = models.Daily()
	}
	return models.NewHabit(fm.Title, c, created)
}

func NewHabitForm(fm *HabitFormModel) *huh.Form {
	weekdays := make([]huh.Option[models.Weekday], 0, 7)
	for wd := models.Sunday; wd <= models.Saturday; wd++ {
		weekdays = append(weekdays, huh.NewOption(wd.String(), wd))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return models.ErrEmptyTitle
					}
					return nil
				}),
			huh.NewSelect[models.CadenceType]().
				Title("Cadence").
				Description("Monthly and yearly habits are due on today's date").
				Options(
					huh.NewOption("Daily", models.CadenceDaily),
					huh.NewOption("Weekly", models.CadenceWeekly),
					huh.NewOption("Monthly", models.CadenceMonthly),
					huh.NewOption("Yearly", models.CadenceYearly),
				).
				Value(&fm.Cadence),
		),
		huh.NewGroup(
			huh.NewMultiSelect[models.Weekday]().
				Title("Weekdays").
				Options(weekdays...).
				Value(&fm.Weekdays),
		).WithHideFunc(func() bool { return fm.Cadence != models.CadenceWeekly }),
	)
}
