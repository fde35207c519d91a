package pipeline

import (
	"regexp"
	"strings"
)

// placeholderRe matches {name} placeholders. Braces are literal delimiters;
// nested or escaped braces are not supported.
var placeholderRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Resolve substitutes {name} placeholders in the step's value template from
// the merged variables and constants mapping (constants under the const_
// prefix). Substitution is a single pass: a resolved value is never
// re-scanned for further placeholders. Resolution has no side effects, so
// resolving twice against an unchanged context yields identical output.
func (s *Step) Resolve(run *Context) (string, error) {
	merged := make(map[string]string, len(run.Variables)+len(run.Constants))
	for k, v := range run.Variables {
		merged[k] = v
	}
	for k, v := range run.Constants {
		merged[ConstPrefix+k] = v
	}

	var missing []string
	out := placeholderRe.ReplaceAllStringFunc(s.ValueTemplate, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := merged[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return v
	})
	if len(missing) > 0 {
		return "", &UnresolvedVariableError{Key: s.OriginalKey, Names: missing}
	}
	return out, nil
}

// BuildCommand composes the final shell text for the step: one source
// directive per import script under path, joined by statement separators,
// followed by the resolved command. This lets a step use environment and
// functions defined by prior import scripts without re-declaring them.
// With no imports the resolved command is returned unchanged.
func (s *Step) BuildCommand(run *Context, path string) (string, error) {
	resolved, err := s.Resolve(run)
	if err != nil {
		return "", err
	}
	if len(run.Imports) == 0 {
		return resolved, nil
	}
	var b strings.Builder
	for _, imp := range run.Imports {
		b.WriteString(". " + path + "/" + imp + "; ")
	}
	b.WriteString(resolved)
	return b.String(), nil
}
