package backups

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcess struct {
	pid int
	exe string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.exe }

func stubProcesses(t *testing.T, fn func() ([]ps.Process, error)) {
	t.Helper()
	old := processesFunc
	processesFunc = fn
	t.Cleanup(func() { processesFunc = old })
}

func TestOtherInstances(t *testing.T) {
	stubProcesses(t, func() ([]ps.Process, error) {
		return []ps.Process{
			fakeProcess{pid: os.Getpid(), exe: "habitchain"},
			fakeProcess{pid: 4242, exe: "habitchain"},
			fakeProcess{pid: 4343, exe: "bash"},
			nil,
		}, nil
	})

	assert.Equal(t, []int{4242}, otherInstances())
}

func TestOtherInstances_ListFails(t *testing.T) {
	stubProcesses(t, func() ([]ps.Process, error) {
		return nil, errors.New("permission denied")
	})

	assert.Empty(t, otherInstances())
}

func TestBackupRestoreCmd_WarnsAboutRunningInstances(t *testing.T) {
	stubProcesses(t, func() ([]ps.Process, error) {
		return []ps.Process{
			fakeProcess{pid: 4242, exe: "habitchain"},
			fakeProcess{pid: 4343, exe: "habitchain"},
		}, nil
	})

	ctx, store, out := setupTestDB(t)
	addHabit(t, store, "Read")
	require.NoError(t, (&BackupCreateCmd{}).Run(ctx))

	mgr, err := manager(ctx)
	require.NoError(t, err)
	backups, err := mgr.List()
	require.NoError(t, err)
	require.Len(t, backups, 1)

	ctx.In = strings.NewReader("n\n")
	require.NoError(t, (&BackupRestoreCmd{BackupFile: backups[0].Path}).Run(ctx))
	assert.Contains(t, out.String(), "habitchain is still running (PID 4242, 4343).")
	assert.Contains(t, out.String(), "Restore cancelled.")
}
