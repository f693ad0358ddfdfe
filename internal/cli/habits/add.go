package habits

import (
	"github.com/julianstephens/habitchain/internal/cli"
	"github.com/julianstephens/habitchain/internal/models"
)

type AddCmd struct {
	Title   string `arg:"" help:"Habit title."`
	Cadence string `help:"How often the habit is due." enum:"daily,weekly,monthly,yearly" default:"daily"`
	Days    string `help:"Weekdays for weekly habits (e.g. mon,wed,fri or 2,4,6)."`
	Day     int    `help:"Day of month for monthly and yearly habits (default: today)."`
	Month   int    `help:"Month (1-12) for yearly habits (default: this month)."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	today := ctx.Today()
	cadence, err := ParseCadence(c.Cadence, c.Days, c.Day, c.Month, today)
	if err != nil {
		return err
	}

	h, err := models.NewHabit(c.Title, cadence, today)
	if err != nil {
		return err
	}
	if err := ctx.Store.AddHabit(h); err != nil {
		return err
	}

	ctx.Printf("%s Added habit %q (%s)\n", cli.SuccessStyle.Render(cli.MarkDone), h.Title, h.Cadence)
	return nil
}
