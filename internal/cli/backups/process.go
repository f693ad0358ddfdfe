package backups

import (
	"os"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitchain/internal/constants"
	"github.com/julianstephens/habitchain/internal/logger"
)

var processesFunc = ps.Processes

// otherInstances returns the PIDs of habitchain processes besides this one.
// A failure to list processes yields nil.
func otherInstances() []int {
	procs, err := processesFunc()
	if err != nil {
		logger.Debug("Failed to list processes", "error", err)
		return nil
	}

	self := os.Getpid()
	var pids []int
	for _, p := range procs {
		if p == nil || p.Pid() == self {
			continue
		}
		if strings.HasPrefix(p.Executable(), constants.AppName) {
			pids = append(pids, p.Pid())
		}
	}
	return pids
}
