package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitchain/internal/cli"
	"github.com/julianstephens/habitchain/internal/cli/backups"
	"github.com/julianstephens/habitchain/internal/cli/habits"
	"github.com/julianstephens/habitchain/internal/cli/system"
	"github.com/julianstephens/habitchain/internal/config"
	"github.com/julianstephens/habitchain/internal/constants"
	"github.com/julianstephens/habitchain/internal/errors"
	"github.com/julianstephens/habitchain/internal/logger"
	"github.com/julianstephens/habitchain/internal/storage"
)

type App struct {
	Version  kong.VersionFlag
	Config   string `help:"Config file path (default: ~/.config/habitchain/config.yaml, or $HABITCHAIN_CONFIG)." type:"string"`
	DB       string `name:"db" help:"SQLite path, .json file, PostgreSQL connection string or \"keyring\". Overrides the config file. PostgreSQL passwords must NOT be embedded; use the OS keyring, $HABITCHAIN_DB_CONNECTION or .pgpass instead." type:"string"`
	Debug    bool   `help:"Log debug output to stderr."`
	Timezone string `help:"IANA timezone used to decide which day it is (default: local)."`

	Init     system.InitCmd     `cmd:"" help:"Initialize habitchain storage and write a default config."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Add      habits.AddCmd      `cmd:"" help:"Add a habit."`
	List     habits.ListCmd     `cmd:"" help:"List habits with streak and adherence."`
	Edit     habits.EditCmd     `cmd:"" help:"Rename a habit or change its weekdays."`
	Mark     habits.MarkCmd     `cmd:"" help:"Toggle a habit's completion for a day."`
	Today    habits.TodayCmd    `cmd:"" help:"Show the habits due today."`
	Log      habits.LogCmd      `cmd:"" help:"Show recent completions as a grid."`
	Stats    habits.StatsCmd    `cmd:"" help:"Show detailed statistics."`
	Delete   habits.DeleteCmd   `cmd:"" help:"Delete a habit and its history."`
	Report   habits.ReportCmd   `cmd:"" help:"Write a PDF adherence report."`
	Validate habits.ValidateCmd `cmd:"" help:"Check stored habits for data that will not score as expected."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check keyring availability."`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

var CLI App

func options() []kong.Option {
	return []kong.Option{
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streaks and adherence scoring"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	}
}

func main() {
	ctx := kong.Parse(&CLI, options()...)
	if err := run(ctx, &CLI, os.Stdout); err != nil {
		errors.Fatal(err)
	}
}

// run loads config, opens storage and executes the selected command, writing
// command output to out.
func run(kctx *kong.Context, app *App, out io.Writer) error {
	cfg, err := config.Load(config.ResolvePath(app.Config))
	if err != nil {
		return err
	}
	if app.DB != "" {
		cfg.Database = app.DB
	}
	if app.Timezone != "" {
		cfg.Timezone = app.Timezone
	}
	cfg.Debug = cfg.Debug || app.Debug
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.Dir()}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Close()

	command := kctx.Command()
	logger.Debug("Starting", "command", command, "version", constants.Version)

	// Keyring commands must work before any database is reachable.
	var store storage.Provider
	if !strings.HasPrefix(command, "keyring") {
		store, err = storage.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	appCtx, err := cli.NewContext(cfg, store)
	if err != nil {
		return err
	}
	appCtx.Out = out

	// Init handles its own loading
	if store != nil && !strings.HasPrefix(command, "init") {
		if err := store.Load(); err != nil {
			return err
		}
	}

	return kctx.Run(appCtx)
}
