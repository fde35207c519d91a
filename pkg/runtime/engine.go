// Package runtime implements the execution controller that drives a pipeline
// run step by step through its gate, dispatch and failure-gate states.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ormasoftchile/runpipe/pkg/executor"
	"github.com/ormasoftchile/runpipe/pkg/logging"
	"github.com/ormasoftchile/runpipe/pkg/pipeline"
	"github.com/ormasoftchile/runpipe/pkg/prompt"
	"github.com/ormasoftchile/runpipe/pkg/schema"
)

// Executor dispatches one classified step against its target and reports the
// resulting exit code.
type Executor interface {
	Execute(ctx context.Context, step *pipeline.Step, run *pipeline.Context) (int, error)
}

// Engine is the per-run execution controller. Steps execute strictly in
// order; one step fully completes (or is interrupted) before the next
// begins.
type Engine struct {
	Pipeline    *schema.Pipeline
	State       *pipeline.Context
	Local       Executor
	Interpreted Executor
	Remote      Executor
	Prompter    prompt.Prompter
	Log         *slog.Logger

	Interactive bool // confirm every step, not only manual ones
	Force       bool // absorb nonzero exit codes without the failure gate
}

// NewEngine wires an engine with the stock executors over a shared bash
// runner and the default SSH transport.
func NewEngine(p *schema.Pipeline, state *pipeline.Context, importRoot string, prompter prompt.Prompter, log *slog.Logger) *Engine {
	runner := &executor.BashRunner{Log: log}
	transport := executor.DefaultTransport
	return &Engine{
		Pipeline: p,
		State:    state,
		Local: &executor.Local{
			Runner:     runner,
			ImportRoot: importRoot,
			Log:        log,
		},
		Interpreted: &executor.Interpreted{
			Evaluator: executor.ExprEvaluator{},
			Log:       log,
		},
		Remote: &executor.Remote{
			Runner: runner,
			Processes: &executor.ShellProcessDirectory{
				Runner:    runner,
				Transport: transport,
				Log:       log,
			},
			Prompter:   prompter,
			Transport:  transport,
			ImportRoot: importRoot,
			Log:        log,
		},
		Prompter: prompter,
		Log:      log,
	}
}

// Execute runs the whole pipeline in order. Only an *AbortError crosses step
// boundaries; classification, resolution and host-lookup failures are static
// authoring errors that abort the run as plain errors.
func (e *Engine) Execute(ctx context.Context) error {
	for i, entry := range e.Pipeline.Pipeline {
		step := pipeline.NewStep(entry, i+1)
		if err := e.ExecuteStep(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

// ExecuteStep drives one step to its terminal state. A retry chosen at the
// failure gate restarts the step end to end: re-resolution, re-prompting,
// fresh execution of the same Step.
func (e *Engine) ExecuteStep(ctx context.Context, step *pipeline.Step) error {
	for {
		retry, err := e.runOnce(ctx, step)
		if err != nil || !retry {
			return err
		}
	}
}

// runOnce is a single pass through the step state machine. It reports
// whether the operator chose to retry.
func (e *Engine) runOnce(ctx context.Context, step *pipeline.Step) (retry bool, err error) {
	kind, err := step.Kind()
	if err != nil {
		return false, err
	}

	// Resolve before the manual gate so the operator sees exactly what
	// will run.
	resolved, err := step.Resolve(e.State)
	if err != nil {
		return false, err
	}
	logging.Notice(e.Log, fmt.Sprintf("(%d) [%s]: %s", step.Index, step.OriginalKey, resolved))

	if kind == pipeline.KindManual || e.Interactive {
		answer, err := e.Prompter.Choose("Proceed?", []prompt.Option{
			{Key: "p", Label: "proceed"},
			{Key: "s", Label: "skip"},
			{Key: "a", Label: "abort"},
		}, "p")
		if err != nil {
			return false, err
		}
		switch answer {
		case "s":
			return false, nil
		case "a":
			return false, &AbortError{Code: "1"}
		}
	}

	exit, err := e.dispatch(ctx, kind, step)
	if err != nil {
		return false, err
	}
	if exit == 0 {
		return false, nil
	}

	// The failure is logged before any prompt so the operator has the
	// exit code in view when deciding.
	e.Log.Error("command failed", "index", step.Index, "exitcode", exit)
	if e.Force {
		return false, nil
	}

	answer, err := e.Prompter.Choose("What should I do?", []prompt.Option{
		{Key: "p", Label: "proceed"},
		{Key: "r", Label: "retry"},
		{Key: "a", Label: "abort"},
	}, "p")
	if err != nil {
		return false, err
	}
	switch answer {
	case "r":
		return true, nil
	case "a":
		return false, &AbortError{Code: strconv.Itoa(exit)}
	}
	return false, nil
}

// dispatch routes the step to its executor. A manual step past its gate is a
// confirmation point bound to externally-performed work: nothing runs and
// the exit code is 0.
func (e *Engine) dispatch(ctx context.Context, kind pipeline.Kind, step *pipeline.Step) (int, error) {
	switch kind {
	case pipeline.KindLocal:
		return e.Local.Execute(ctx, step, e.State)
	case pipeline.KindInterpreted:
		return e.Interpreted.Execute(ctx, step, e.State)
	case pipeline.KindRemote:
		return e.Remote.Execute(ctx, step, e.State)
	default:
		return 0, nil
	}
}
