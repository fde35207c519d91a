package pipeline

import (
	"fmt"
	"strings"
)

// UnknownCommandKindError reports a step key that matches no execution kind.
// It is a static authoring error: classification fails before anything runs.
type UnknownCommandKindError struct {
	Key string
}

func (e *UnknownCommandKindError) Error() string {
	return fmt.Sprintf("command kind %q is not known", e.Key)
}

// UnknownHostError reports a remote step referencing a symbolic host name
// that is not registered in the pipeline's systems table.
type UnknownHostError struct {
	Name string
}

func (e *UnknownHostError) Error() string {
	return fmt.Sprintf("host %q is not registered in systems", e.Name)
}

// UnresolvedVariableError reports placeholders in a step's template that are
// absent from the merged variables and constants mapping. Missing names fail
// loudly; they are never substituted with an empty string.
type UnresolvedVariableError struct {
	Key   string
	Names []string
}

func (e *UnresolvedVariableError) Error() string {
	return fmt.Sprintf("step [%s] references unresolved variable(s): %s", e.Key, strings.Join(e.Names, ", "))
}
