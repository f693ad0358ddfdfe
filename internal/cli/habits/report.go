package habits

import (
	"context"

	"github.com/julianstephens/habitchain/internal/cli"
	"github.com/julianstephens/habitchain/internal/report"
	"github.com/julianstephens/habitchain/internal/utils"
)

type ReportCmd struct {
	Out string `help:"Path of the PDF file to write." default:"habitchain-report.pdf"`
}

func (c *ReportCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return err
	}

	now := ctx.Today()
	summaries, err := ctx.Engine.SummarizeAll(context.Background(), habits, now)
	if err != nil {
		return err
	}

	path := utils.ExpandHome(c.Out)
	if err := report.Save(path, summaries, now); err != nil {
		return err
	}
	ctx.Printf("%s Wrote report for %d habit(s) to %s\n", cli.SuccessStyle.Render(cli.MarkDone), len(summaries), path)
	return nil
}
