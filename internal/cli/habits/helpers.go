package habits

import (
	"fmt"

	"github.com/julianstephens/habitchain/internal/adherence"
	"github.com/julianstephens/habitchain/internal/cli"
	"github.com/julianstephens/habitchain/internal/models"
)

func adherenceDay(due, completed bool) adherence.Day {
	return adherence.Day{Due: due, Completed: completed}
}

func streakText(n int) string {
	return fmt.Sprintf("%s %d", cli.MarkStreak, n)
}

// selectHabits returns every habit, or just the named one.
func selectHabits(ctx *cli.Context, title string) ([]*models.Habit, error) {
	if title == "" {
		return ctx.Store.GetAllHabits()
	}
	h, err := ctx.FindHabit(title)
	if err != nil {
		return nil, err
	}
	return []*models.Habit{h}, nil
}
