package habits

import (
	"github.com/julianstephens/habitchain/internal/cli"
	"github.com/julianstephens/habitchain/internal/constants"
)

type TodayCmd struct {
	All bool `help:"Also show habits that are not due today."`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return err
	}

	today := ctx.Today()
	ctx.Println(cli.HeaderStyle.Render(today.Format("Monday, " + constants.DateFormat)))

	due, open := 0, 0
	for _, h := range habits {
		day := adherenceDay(h.IsDue(today), h.IsCompleted(today))
		if !day.Due && !c.All {
			continue
		}
		if day.Due {
			due++
		}
		if day.Open() {
			open++
		}

		mark := cli.Mark(day)
		streak := ctx.Engine.Streak(h, today)
		line := cli.PadTitle(h.Title)
		if streak > 0 {
			line += cli.MutedStyle.Render(streakText(streak))
		}
		ctx.Printf("  %s %s\n", mark, line)
	}

	if due == 0 {
		ctx.Println("Nothing due today.")
		return nil
	}
	ctx.Printf("\nRecorded %d/%d\n", due-open, due)
	return nil
}
