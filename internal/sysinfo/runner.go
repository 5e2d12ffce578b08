package sysinfo

import (
	"context"
	"os/exec"
)

// Runner executes an external inventory tool and returns its combined
// output. Everything the package shells out to goes through this interface
// so tests can fake tool output without any hardware present.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs the real binaries.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}
