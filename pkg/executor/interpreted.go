package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/expr-lang/expr"
	"github.com/ormasoftchile/runpipe/pkg/pipeline"
)

// ActionEvaluator evaluates interpreted action text against the mutable
// variable store and returns the produced value. It is a capability
// interface: the core stays decoupled from any specific embedded-language
// runtime.
type ActionEvaluator interface {
	Evaluate(ctx context.Context, src string, vars map[string]string) (any, error)
}

// ExprEvaluator evaluates actions as expr-lang expressions. Every variable
// is exposed in the environment by name; the setvar(name, value) builtin
// writes back to the store.
type ExprEvaluator struct{}

func (ExprEvaluator) Evaluate(ctx context.Context, src string, vars map[string]string) (any, error) {
	env := make(map[string]any, len(vars)+1)
	for k, v := range vars {
		env[k] = v
	}
	env["setvar"] = func(name, value string) string {
		vars[name] = value
		return value
	}

	program, err := expr.Compile(src, expr.Env(env), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile action: %w", err)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("eval action: %w", err)
	}
	return out, nil
}

// Interpreted runs the resolved command text as an in-process action. The
// action runs with the same trust level as this process; callers are
// responsible for trusting pipeline content.
type Interpreted struct {
	Evaluator ActionEvaluator
	Log       *slog.Logger
}

// Execute evaluates the step's resolved text. With an assignment target the
// produced value is stored in the shared variable store. Returns 0 on
// success and 130 on operator interrupt. Any other evaluation failure is
// absorbed here: logged and mapped to exit code 1, never surfaced to the
// controller.
func (i *Interpreted) Execute(ctx context.Context, step *pipeline.Step, run *pipeline.Context) (int, error) {
	src, err := step.Resolve(run)
	if err != nil {
		return 0, err
	}
	i.Log.Debug("run interpreted action", "action", src)

	// The action runs in-process, so a terminal SIGINT would kill this
	// process outright. Observe it here instead, the same way the shell
	// runner does, and end the step with 130.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	defer signal.Stop(sigc)

	val, err := i.eval(ctx, src, run.Variables)

	select {
	case <-sigc:
		i.Log.Info("action interrupted by operator, exit code set to 130")
		return ExitInterrupted, nil
	default:
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			i.Log.Info("action interrupted by operator, exit code set to 130")
			return ExitInterrupted, nil
		}
		i.Log.Error("interpreted action failed", "error", err)
		return 1, nil
	}
	if step.Assignment {
		run.Variables[step.AssignmentVar] = fmt.Sprint(val)
		i.Log.Info("variable assigned", "name", step.AssignmentVar, "value", run.Variables[step.AssignmentVar])
	}
	return 0, nil
}

// eval shields the controller from evaluator panics as well as errors.
func (i *Interpreted) eval(ctx context.Context, src string, vars map[string]string) (val any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action panic: %v", r)
		}
	}()
	return i.Evaluator.Evaluate(ctx, src, vars)
}
