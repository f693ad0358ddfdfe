package habits

import (
	"github.com/julianstephens/habitchain/internal/cli"
	"github.com/julianstephens/habitchain/internal/logger"
)

type DeleteCmd struct {
	Habit string `arg:"" help:"Title of the habit to delete."`
}

// Run removes the habit and its history for good. SQLite stores are backed
// up first.
func (c *DeleteCmd) Run(ctx *cli.Context) error {
	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.DeleteHabit(h.ID); err != nil {
		return err
	}

	logger.Info("Deleted habit", "habit", h.ID, "completions", len(h.Completions))
	ctx.Printf("Deleted habit %q and %d completion(s)\n", h.Title, len(h.Completions))
	return nil
}
