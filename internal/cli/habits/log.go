package habits

import (
	"errors"
	"strings"

	"github.com/julianstephens/habitchain/internal/adherence"
	"github.com/julianstephens/habitchain/internal/cli"
)

type LogCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Only show this habit."`
}

// Run prints one row per habit with a mark for each of the last N days.
func (c *LogCmd) Run(ctx *cli.Context) error {
	if c.Days <= 0 {
		return errors.New("--days must be positive")
	}

	habits, err := selectHabits(ctx, c.Habit)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		ctx.Println("No habits yet.")
		return nil
	}

	today := ctx.Today()
	header := adherence.Window(habits[0], today, c.Days)
	labels := make([]string, len(header))
	for i, d := range header {
		// First letter of the weekday keeps columns one rune wide.
		labels[i] = d.Date.Weekday().String()[:1]
	}
	ctx.Printf("%s %s\n", cli.PadTitle(""), cli.MutedStyle.Render(strings.Join(labels, " ")))

	for _, h := range habits {
		ctx.Printf("%s %s\n", cli.PadTitle(h.Title), cli.Strip(adherence.Window(h, today, c.Days)))
	}
	return nil
}
