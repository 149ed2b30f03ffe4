package pipeline

import (
	"strconv"
	"strings"

	"github.com/formforge/formforge/internal/artifact"
)

// SkipSteps returns the ascending 1-based indices of steps whose entire
// artifact set is already present in dir. A paired structural step only
// becomes skippable once both of its halves exist. The list is re-derived
// from the live filesystem on every call; no last-run state is consulted,
// which is what makes repeated orchestrator runs safe.
func SkipSteps(store *artifact.Store, dir string, mode artifact.Mode) ([]int, error) {
	var skip []int
	for _, step := range artifact.Steps(mode) {
		complete := true
		for _, name := range step.Artifacts {
			ok, err := store.Present(dir, name)
			if err != nil {
				return nil, err
			}
			if !ok {
				complete = false
				break
			}
		}
		if complete {
			skip = append(skip, step.Index)
		}
	}
	return skip, nil
}

// FormatSkipSteps renders indices as the comma-joined argument the pipeline
// worker expects. Empty input yields the empty string; callers omit the flag
// entirely in that case.
func FormatSkipSteps(steps []int) string {
	if len(steps) == 0 {
		return ""
	}
	parts := make([]string, 0, len(steps))
	for _, idx := range steps {
		parts = append(parts, strconv.Itoa(idx))
	}
	return strings.Join(parts, ",")
}
