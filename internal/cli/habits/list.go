package habits

import (
	"context"
	"fmt"

	"github.com/julianstephens/habitchain/internal/adherence"
	"github.com/julianstephens/habitchain/internal/cli"
)

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		ctx.Println("No habits yet. Add one with `habitchain add <title>`.")
		return nil
	}

	summaries, err := ctx.Engine.SummarizeAll(context.Background(), habits, ctx.Today())
	if err != nil {
		return err
	}

	ctx.Println(cli.HeaderStyle.Render(fmt.Sprintf("%-24s %-22s %6s %5s  %-11s %s",
		"Habit", "Cadence", "Streak", "Rate", "Status", "Recent")))
	for _, s := range summaries {
		ctx.Printf("%s %-22s %6d %s  %s %s\n",
			cli.PadTitle(s.Title),
			cli.Truncate(s.Cadence.String(), 22),
			s.Streak,
			cli.Percent(s.Ratio),
			padStatus(s.Status),
			cli.Strip(s.Recent),
		)
	}
	return nil
}

func padStatus(s adherence.Status) string {
	label := cli.StatusLabel(s)
	if pad := 11 - len(s.String()); pad > 0 {
		label += fmt.Sprintf("%*s", pad, "")
	}
	return label
}
