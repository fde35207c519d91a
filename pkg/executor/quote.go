package executor

import (
	"regexp"
	"strings"
)

// shellSafeRe matches strings that need no quoting on a shell command line.
var shellSafeRe = regexp.MustCompile(`^[A-Za-z0-9@%+=:,./_-]+$`)

// ShellQuote returns s in a form safe to embed in a bash command line:
// unchanged when it contains only safe characters, otherwise wrapped in
// single quotes with embedded single quotes escaped.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if shellSafeRe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
