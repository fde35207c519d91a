package runtime

import (
	"fmt"
	"strconv"
)

// AbortError terminates the whole pipeline run. It is raised on operator
// abort at a gate and carries the textual exit code the process should end
// with: "1" for a manual-gate abort, the string form of the failing step's
// exit code otherwise. It propagates out of the run unmodified.
type AbortError struct {
	Code string
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("pipeline aborted with code %s", e.Code)
}

// ExitCode returns the numeric form of Code; 1 when Code is unparsable or
// zero.
func (e *AbortError) ExitCode() int {
	n, err := strconv.Atoi(e.Code)
	if err != nil || n == 0 {
		return 1
	}
	return n
}
