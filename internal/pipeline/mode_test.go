package pipeline

import (
	"testing"

	"github.com/formforge/formforge/internal/artifact"
)

func TestDetectModeHintForcesSingle(t *testing.T) {
	cases := []struct {
		hint string
		want artifact.Mode
	}{
		// Hints shaped like <Name>Search / <Name>Detail stay paired.
		{"CustomerSearch", artifact.ModePaired},
		{"customersearch", artifact.ModePaired},
		{"InvoiceDETAIL", artifact.ModePaired},
		// Anything else is an explicit standalone form.
		{"CustomerEntry", artifact.ModeSingle},
		{"Search", artifact.ModeSingle}, // no prefix word
		{"Customer Search", artifact.ModeSingle},
	}
	for _, tc := range cases {
		if got := DetectMode(tc.hint, nil); got != tc.want {
			t.Fatalf("DetectMode(%q) = %s, want %s", tc.hint, got, tc.want)
		}
	}
}

func TestDetectModeMarkersOnDisk(t *testing.T) {
	single := map[string]bool{artifact.FormJSON: true}
	if got := DetectMode("", single); got != artifact.ModeSingle {
		t.Fatalf("single marker ignored: %s", got)
	}

	paired := map[string]bool{artifact.DetailFormJSON: true}
	if got := DetectMode("", paired); got != artifact.ModePaired {
		t.Fatalf("paired marker ignored: %s", got)
	}

	// Single marker outranks paired markers.
	both := map[string]bool{artifact.FormJSON: true, artifact.SearchFormJSON: true}
	if got := DetectMode("", both); got != artifact.ModeSingle {
		t.Fatalf("marker precedence wrong: %s", got)
	}
}

func TestDetectModeDefaultsToPaired(t *testing.T) {
	if got := DetectMode("", map[string]bool{}); got != artifact.ModePaired {
		t.Fatalf("expected paired default, got %s", got)
	}
}

func TestDetectModeIsPure(t *testing.T) {
	existing := map[string]bool{artifact.AnalysisJSON: true}
	first := DetectMode("CustomerSearch", existing)
	for i := 0; i < 5; i++ {
		if got := DetectMode("CustomerSearch", existing); got != first {
			t.Fatalf("detection not deterministic: %s vs %s", got, first)
		}
	}
}
