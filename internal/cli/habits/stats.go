package habits

import (
	"context"

	"github.com/julianstephens/habitchain/internal/cli"
	"github.com/julianstephens/habitchain/internal/constants"
)

type StatsCmd struct {
	Habit string `help:"Only show this habit."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	habits, err := selectHabits(ctx, c.Habit)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		ctx.Println("No habits yet.")
		return nil
	}

	summaries, err := ctx.Engine.SummarizeAll(context.Background(), habits, ctx.Today())
	if err != nil {
		return err
	}

	for i, s := range summaries {
		if i > 0 {
			ctx.Println()
		}
		ctx.Println(cli.HeaderStyle.Render(s.Title))
		ctx.Printf("  Cadence:   %s\n", s.Cadence)
		ctx.Printf("  Since:     %s\n", habits[i].CreatedAt.In(ctx.Location).Format(constants.DateFormat))
		ctx.Printf("  Streak:    %d\n", s.Streak)
		ctx.Printf("  Done/Due:  %d/%d\n", s.Tally.Completed, s.Tally.Required)
		ctx.Printf("  Adherence: %s\n", cli.Percent(s.Ratio))
		ctx.Printf("  Status:    %s\n", cli.StatusLabel(s.Status))
		ctx.Printf("  Recent:    %s\n", cli.Strip(s.Recent))
	}
	return nil
}
