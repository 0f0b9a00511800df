package ffmpeg

import (
	"context"
	"os/exec"
)

// Executor abstracts command execution for testability. Run returns the
// combined diagnostic output of the invocation; ffmpeg writes progress and
// stream metadata to stderr, and callers parse that text even when the
// process exits nonzero.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (string, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	return string(output), err
}
