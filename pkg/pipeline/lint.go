package pipeline

import (
	"fmt"
	"regexp"

	"github.com/ormasoftchile/runpipe/pkg/schema"
)

// identRe constrains assignment variable names to placeholder-resolvable
// identifiers.
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Lint performs domain validation of a pipeline document: every step key must
// classify into a known kind, every remote host must be registered in
// systems, and assignment targets must be valid identifiers. It lives next to
// the classifier so the key grammar has a single definition.
func Lint(p *schema.Pipeline) []*schema.ValidationError {
	var errs []*schema.ValidationError

	for i, entry := range p.Pipeline {
		path := fmt.Sprintf("pipeline[%d]", i)
		step := NewStep(entry, i+1)

		if step.Assignment && !identRe.MatchString(step.AssignmentVar) {
			errs = append(errs, &schema.ValidationError{
				Phase:    "domain",
				Path:     path,
				Message:  fmt.Sprintf("assignment target %q is not a valid variable name", step.AssignmentVar),
				Severity: "error",
			})
		}

		kind, err := step.Kind()
		if err != nil {
			errs = append(errs, &schema.ValidationError{
				Phase:    "domain",
				Path:     path,
				Message:  err.Error(),
				Severity: "error",
			})
			continue
		}

		if kind == KindRemote {
			if _, ok := p.Systems[step.HostName()]; !ok {
				errs = append(errs, &schema.ValidationError{
					Phase:    "domain",
					Path:     path,
					Message:  fmt.Sprintf("host %q is not registered in systems", step.HostName()),
					Severity: "error",
				})
			}
		}

		if kind == KindManual && step.Assignment {
			errs = append(errs, &schema.ValidationError{
				Phase:    "domain",
				Path:     path,
				Message:  "manual steps execute nothing and cannot assign a variable",
				Severity: "warning",
			})
		}
	}

	return errs
}
