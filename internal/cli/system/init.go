package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitchain/internal/cli"
	"github.com/julianstephens/habitchain/internal/logger"
	"github.com/julianstephens/habitchain/internal/storage/postgres"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the existing database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized habitchain storage at: %s\n", ctx.Store.GetConfigPath())

	if ctx.Config == nil {
		return nil
	}
	path := ctx.Config.Path()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := ctx.Config.Save(path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		ctx.Printf("Wrote default config to: %s\n", path)
	}
	return nil
}

// reset removes a file-backed database. PostgreSQL schemas are left alone.
func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*postgres.Store); ok {
		return errors.New("--force is not supported for PostgreSQL; drop the habitchain schema manually")
	}

	dbPath := ctx.Store.GetConfigPath()
	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	logger.Info("Deleted database for reinitialization", "path", dbPath)
	ctx.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}
