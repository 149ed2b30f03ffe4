package pipeline

import (
	"fmt"
	"strings"
)

// WorkerExecutionError reports a worker that exited nonzero. The orchestrator
// propagates the code unchanged and keeps the exact command so the operator
// can re-run the failed stage by hand.
type WorkerExecutionError struct {
	Stage   string
	Code    int
	Command string
}

func (e *WorkerExecutionError) Error() string {
	return fmt.Sprintf("%s worker exited with code %d; re-run manually: %s", e.Stage, e.Code, e.Command)
}

// PostconditionError reports a worker that exited zero yet left required
// artifacts missing. Worker-reported success is never trusted blindly; the
// message enumerates exactly what is still absent.
type PostconditionError struct {
	Missing []string
	Command string
}

func (e *PostconditionError) Error() string {
	return fmt.Sprintf("worker reported success but artifacts are still missing: %s (produced by: %s)",
		strings.Join(e.Missing, ", "), e.Command)
}
