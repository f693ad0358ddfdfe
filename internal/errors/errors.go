// Package errors formats user-facing failures and terminates the process.
package errors

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/habitchain/internal/logger"
)

const prefix = "Error: "

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

func Format(err error) string {
	if err == nil {
		return ""
	}
	return prefix + err.Error()
}

func Formatf(format string, args ...any) string {
	return prefix + fmt.Sprintf(format, args...)
}

// Fatal logs err, prints it to stderr and exits with status 1. A nil err is a
// no-op.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command failed", "error", err)
	fmt.Fprintln(stderr, Format(err))
	exit(1)
}

func Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command failed", "error", msg)
	fmt.Fprintln(stderr, prefix+msg)
	exit(1)
}
