package pipeline

import "github.com/ormasoftchile/runpipe/pkg/schema"

// ConstPrefix is the reserved placeholder-name prefix under which process
// constants are merged into resolution, keeping them out of the user
// variable namespace.
const ConstPrefix = "const_"

// Context is the per-run state shared by every step of a pipeline run.
// Variables is mutated in place by capturing executors; Systems, Imports and
// Constants are read-only for the run.
type Context struct {
	Variables map[string]string
	Systems   map[string]string
	Imports   []string
	Constants map[string]string
}

// NewContext builds a run context from a pipeline document and the
// process-wide constants. The document's vars are copied so a run never
// mutates the decoded document.
func NewContext(p *schema.Pipeline, constants map[string]string) *Context {
	vars := make(map[string]string, len(p.Vars))
	for k, v := range p.Vars {
		vars[k] = v
	}
	return &Context{
		Variables: vars,
		Systems:   p.Systems,
		Imports:   p.Imports,
		Constants: constants,
	}
}
