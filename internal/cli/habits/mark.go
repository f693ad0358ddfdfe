package habits

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitchain/internal/cli"
	"github.com/julianstephens/habitchain/internal/constants"
	"github.com/julianstephens/habitchain/internal/utils"
)

type MarkCmd struct {
	Habit string `arg:"" help:"Title of the habit."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
}

// Run toggles the completion for the day: marking a completed day clears it.
func (c *MarkCmd) Run(ctx *cli.Context) error {
	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	day := ctx.Today()
	if c.Date != "" {
		d, err := utils.ParseDateInLocation(c.Date, day.Location())
		if err != nil {
			return fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", c.Date, err)
		}
		if d.After(day) {
			return fmt.Errorf("cannot mark %s, it is in the future", c.Date)
		}
		// Midday keeps the timestamp on the same date if the timezone shifts slightly.
		day = d.Add(12 * time.Hour)
	}

	done, err := ctx.Store.ToggleCompletion(h.ID, day)
	if err != nil {
		return err
	}

	label := day.Format(constants.DateFormat)
	if done {
		if !h.IsDue(day) {
			ctx.Printf("%s Marked %q for %s %s\n", cli.SuccessStyle.Render(cli.MarkDone), h.Title, label,
				cli.MutedStyle.Render("(not a due day, it will not count towards adherence)"))
			return nil
		}
		ctx.Printf("%s Marked %q for %s\n", cli.SuccessStyle.Render(cli.MarkDone), h.Title, label)
		return nil
	}
	ctx.Printf("Unmarked %q for %s\n", h.Title, label)
	return nil
}
