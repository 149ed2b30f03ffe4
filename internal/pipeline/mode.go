package pipeline

import (
	"regexp"
	"strings"

	"github.com/formforge/formforge/internal/artifact"
)

// pairedHintPattern matches form-name hints that belong to a paired subject:
// one or more word characters followed by Search or Detail, case-insensitive.
// Anything else is an explicit request for a standalone form.
var pairedHintPattern = regexp.MustCompile(`(?i)^\w+(search|detail)$`)

// DetectMode fixes the mode for a run. Precedence, first match wins:
//
//  1. An explicit hint that does not look like a Search/Detail form name
//     forces single mode.
//  2. A single-mode marker artifact already on disk means single.
//  3. Any paired-mode marker artifact on disk means paired.
//  4. Paired is the default.
//
// The existing-name set is injected by the caller, so detection is a pure
// function of its inputs and never touches the filesystem itself.
func DetectMode(hint string, existing map[string]bool) artifact.Mode {
	if trimmed := strings.TrimSpace(hint); trimmed != "" && !pairedHintPattern.MatchString(trimmed) {
		return artifact.ModeSingle
	}
	if existing[artifact.SingleMarker] {
		return artifact.ModeSingle
	}
	for _, name := range artifact.PairedMarkers() {
		if existing[name] {
			return artifact.ModePaired
		}
	}
	return artifact.ModePaired
}
