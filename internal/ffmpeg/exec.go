package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/hbomb79/mediagate/pkg/logger"
)

var log = logger.Get("FFmpeg")

// waitDelay bounds how long Run waits for output pipes to close after the
// process has exited or been killed.
const waitDelay = 2 * time.Second

type (
	// Result is the outcome of an external process which was started
	// successfully. A non-zero ExitCode indicates the tool itself failed.
	Result struct {
		Stdout   []byte
		Stderr   []byte
		ExitCode int
	}

	// Runner executes an external command to completion. An error is returned
	// only when the command could not be run at all (missing binary, context
	// cancelled or timed out); a command that runs and fails is reported
	// through Result.ExitCode.
	Runner interface {
		Run(ctx context.Context, name string, args ...string) (*Result, error)
	}

	ExecRunner struct{}
)

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (runner *ExecRunner) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	var outb, errb bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &outb
	cmd.Stderr = &errb
	cmd.WaitDelay = waitDelay

	started := time.Now()
	log.Emit(logger.VERBOSE, "Running %s %s\n", name, strings.Join(args, " "))
	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%s did not complete: %w", name, ctxErr)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, err
		}

		log.Emit(logger.DEBUG, "%s exited with status %d after %s\n", name, exitErr.ExitCode(), time.Since(started))
		return &Result{Stdout: outb.Bytes(), Stderr: errb.Bytes(), ExitCode: exitErr.ExitCode()}, nil
	}

	log.Emit(logger.DEBUG, "%s completed after %s\n", name, time.Since(started))
	return &Result{Stdout: outb.Bytes(), Stderr: errb.Bytes()}, nil
}

// contextWithOptionalTimeout derives a context from parent which is cancelled after
// the timeout provided, unless the timeout is zero (or negative) in which case
// no deadline is applied.
func contextWithOptionalTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}

	return context.WithTimeout(parent, timeout)
}
