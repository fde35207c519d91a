// Package executor implements the local, interpreted and remote step
// executors on top of a shared shell-runner capability.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
)

// ExitInterrupted is the exit code reported when the operator interrupts a
// running command.
const ExitInterrupted = 130

// RunResult carries the outcome of one shell invocation.
type RunResult struct {
	ExitCode    int
	Stdout      []byte // only populated when capture was requested
	Interrupted bool   // SIGINT reached the supervising process while waiting
}

// ShellRunner runs a single shell-evaluable command line as one local
// subprocess. With capture, stdout is collected into the result; otherwise
// stdout and stderr stream through untouched.
type ShellRunner interface {
	Run(ctx context.Context, command string, capture bool) (*RunResult, error)
}

// BashRunner executes command lines through bash -c with stdin and stderr
// attached to the supervising process.
type BashRunner struct {
	Log *slog.Logger
}

// Run starts the child and blocks until it exits. A SIGINT delivered while
// waiting is recorded on the result; the terminal sends the signal to the
// whole foreground process group, so the child is already terminating by the
// time Wait returns.
func (r *BashRunner) Run(ctx context.Context, command string, capture bool) (*RunResult, error) {
	r.Log.Debug("executing", "cmd", command)

	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	cmd.Stdin = os.Stdin
	cmd.Stderr = os.Stderr

	var stdout bytes.Buffer
	if capture {
		cmd.Stdout = &stdout
	} else {
		cmd.Stdout = os.Stdout
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	defer signal.Stop(sigc)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start command: %w", err)
	}
	waitErr := cmd.Wait()

	res := &RunResult{Stdout: stdout.Bytes()}
	select {
	case <-sigc:
		res.Interrupted = true
	default:
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else if !res.Interrupted {
			return nil, fmt.Errorf("run command: %w", waitErr)
		}
	}
	return res, nil
}
