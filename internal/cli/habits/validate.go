package habits

import (
	"time"

	"github.com/julianstephens/habitchain/internal/cli"
	"github.com/julianstephens/habitchain/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Collapse duplicate completions on the same day."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return err
	}

	ctx.Println("Validating habits...")
	result := validation.WithClock(ctx.Today).ValidateHabits(habits)
	ctx.Println()
	ctx.Println(result.FormatReport())

	if !c.Fix || !result.HasConflicts() {
		return nil
	}

	ctx.PerformAutomaticBackup()
	collapse := func(id string, day time.Time) error {
		_, err := ctx.Store.CollapseCompletions(id, day)
		return err
	}
	actions := validation.AutoFixDuplicateCompletions(result.Conflicts, collapse, ctx.Today().Location())

	if len(actions) == 0 {
		ctx.Println("Nothing to fix automatically.")
		return nil
	}
	for _, a := range actions {
		ctx.Printf("  %s\n", a.Action)
	}
	return nil
}
