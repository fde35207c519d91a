package executor

import (
	"context"
	"log/slog"

	"github.com/ormasoftchile/runpipe/pkg/pipeline"
)

// Local runs a step's command against the local shell.
type Local struct {
	Runner     ShellRunner
	ImportRoot string // directory import scripts are sourced from, "." if empty
	Log        *slog.Logger
}

// Execute builds and runs the step's command as one shell invocation. With
// an assignment target the child's stdout is captured as text into the
// shared variable store; otherwise output streams through. Returns the
// child's exit code, or 130 when the operator interrupts the run — the
// already-terminated subprocess is never retried here.
func (l *Local) Execute(ctx context.Context, step *pipeline.Step, run *pipeline.Context) (int, error) {
	root := l.ImportRoot
	if root == "" {
		root = "."
	}
	cmd, err := step.BuildCommand(run, root)
	if err != nil {
		return 0, err
	}

	res, err := l.Runner.Run(ctx, cmd, step.Assignment)
	if err != nil {
		return 0, err
	}
	if res.Interrupted {
		l.Log.Info("command interrupted by operator, exit code set to 130")
		return ExitInterrupted, nil
	}
	if step.Assignment {
		out := string(res.Stdout)
		run.Variables[step.AssignmentVar] = out
		l.Log.Info("variable assigned", "name", step.AssignmentVar, "value", out)
	}
	return res.ExitCode, nil
}
