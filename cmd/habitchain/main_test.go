package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitchain/internal/constants"
)

type harness struct {
	t   *testing.T
	dir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv(constants.EnvDBConnection, "")
	t.Setenv(constants.EnvConfigPath, "")
	return &harness{t: t, dir: t.TempDir()}
}

func (h *harness) configPath() string { return filepath.Join(h.dir, "config.yaml") }

// exec parses args against a fresh App and runs the command in-process.
func (h *harness) exec(args ...string) (string, error) {
	h.t.Helper()
	var app App
	parser, err := kong.New(&app, append(options(), kong.Exit(func(int) {}))...)
	require.NoError(h.t, err)

	full := append([]string{"--config", h.configPath(), "--timezone", "UTC"}, args...)
	kctx, err := parser.Parse(full)
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	err = run(kctx, &app, &out)
	return out.String(), err
}

func (h *harness) mustExec(args ...string) string {
	h.t.Helper()
	out, err := h.exec(args...)
	require.NoError(h.t, err, "habitchain %v", args)
	return out
}

func TestWorkflow(t *testing.T) {
	h := newHarness(t)
	dbPath := filepath.Join(h.dir, "habits.db")

	out := h.mustExec("--db", dbPath, "init")
	assert.Contains(t, out, "Initialized habitchain storage at: "+dbPath)
	assert.Contains(t, out, "Wrote default config to: "+h.configPath())

	// The saved config remembers the database, so --db is no longer needed.
	out = h.mustExec("add", "Read")
	assert.Contains(t, out, `Added habit "Read" (daily)`)

	out = h.mustExec("add", "Gym", "--cadence", "weekly", "--days", "mon,wed,fri")
	assert.Contains(t, out, `Added habit "Gym" (weekly on Mon,Wed,Fri)`)

	out = h.mustExec("mark", "Read")
	assert.Contains(t, out, `Marked "Read" for`)

	out = h.mustExec("today")
	assert.Contains(t, out, "Read")
	assert.Contains(t, out, "Recorded 1/")

	out = h.mustExec("list")
	assert.Contains(t, out, "Habit")
	assert.Contains(t, out, "Read")
	assert.Contains(t, out, "Gym")

	out = h.mustExec("stats", "--habit", "Read")
	assert.Contains(t, out, "Streak:    1")
	assert.Contains(t, out, "Done/Due:  1/1")

	out = h.mustExec("validate")
	assert.Contains(t, out, "No conflicts detected.")

	out = h.mustExec("delete", "Read")
	assert.Contains(t, out, `Deleted habit "Read" and 1 completion(s)`)

	out = h.mustExec("backup", "list")
	assert.Contains(t, out, "1 total")

	out = h.mustExec("list")
	assert.Contains(t, out, "Gym")
	assert.NotContains(t, out, "Read ")
}

func TestWorkflow_JSONStore(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(h.dir, "habits.json")

	h.mustExec("--db", path, "init")
	h.mustExec("add", "Budget", "--cadence", "monthly", "--day", "15")

	out := h.mustExec("list")
	assert.Contains(t, out, "Budget")
	assert.Contains(t, out, "monthly on day 15")

	_, err := h.exec("backup", "list")
	assert.Error(t, err)
}

func TestRun_RequiresInit(t *testing.T) {
	h := newHarness(t)

	_, err := h.exec("--db", filepath.Join(h.dir, "missing.db"), "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "habitchain init")
}

func TestRun_InvalidTimezone(t *testing.T) {
	h := newHarness(t)

	_, err := h.exec("--db", filepath.Join(h.dir, "h.db"), "--timezone", "Mars/Olympus", "init")
	assert.Error(t, err)
}

func TestParse_UnknownCadence(t *testing.T) {
	h := newHarness(t)

	_, err := h.exec("--db", filepath.Join(h.dir, "h.db"), "add", "Read", "--cadence", "hourly")
	assert.Error(t, err)
}
