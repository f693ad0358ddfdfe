// Package cli holds the state shared by every command.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/habitchain/internal/adherence"
	"github.com/julianstephens/habitchain/internal/backup"
	"github.com/julianstephens/habitchain/internal/config"
	"github.com/julianstephens/habitchain/internal/logger"
	"github.com/julianstephens/habitchain/internal/models"
	"github.com/julianstephens/habitchain/internal/storage"
	"github.com/julianstephens/habitchain/internal/storage/sqlite"
)

type Context struct {
	Store    storage.Provider
	Config   *config.Config
	Engine   *adherence.Engine
	Location *time.Location
	Out      io.Writer
	In       io.Reader
	// Now is replaceable so commands can be run against a fixed clock.
	Now func() time.Time
}

// NewContext wires a context from a loaded config and an unopened store.
func NewContext(cfg *config.Config, store storage.Provider) (*Context, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	return &Context{
		Store:    store,
		Config:   cfg,
		Engine:   cfg.Engine(),
		Location: loc,
		Out:      os.Stdout,
		In:       os.Stdin,
		Now:      time.Now,
	}, nil
}

// Today is the current instant in the configured timezone.
func (c *Context) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc)
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Confirm asks a yes/no question and reports whether the answer was yes.
// Anything other than "y" or "yes" counts as no.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// FindHabit looks a habit up by title and turns a miss into a readable error.
func (c *Context) FindHabit(title string) (*models.Habit, error) {
	h, err := c.Store.GetHabitByTitle(title)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("habit %q not found: %w", title, err)
	}
	return h, err
}

// PerformAutomaticBackup snapshots SQLite stores before destructive commands.
// Other backends are skipped and failures are only logged.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	if _, err := backup.NewManager(c.Store.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
