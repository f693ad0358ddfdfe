package habits

import (
	"errors"

	"github.com/julianstephens/habitchain/internal/cli"
	"github.com/julianstephens/habitchain/internal/models"
)

type EditCmd struct {
	Habit string `arg:"" help:"Title of the habit to edit."`
	Title string `help:"New title."`
	Days  string `help:"Replace the weekdays of a weekly habit (e.g. tue,thu)."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	if c.Title == "" && c.Days == "" {
		return errors.New("nothing to change, pass --title and/or --days")
	}

	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	if c.Title != "" {
		if err := h.Rename(c.Title); err != nil {
			return err
		}
	}
	if c.Days != "" {
		days, err := models.ParseWeekdays(c.Days)
		if err != nil {
			return err
		}
		if len(days) == 0 {
			return ErrNoWeekdays
		}
		if err := h.SetWeekdays(days); err != nil {
			return err
		}
	}

	if err := ctx.Store.UpdateHabit(h); err != nil {
		return err
	}
	ctx.Printf("%s Updated habit %q (%s)\n", cli.SuccessStyle.Render(cli.MarkDone), h.Title, h.Cadence)
	return nil
}
