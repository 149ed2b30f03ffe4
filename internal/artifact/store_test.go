package artifact

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRequiredTablesAreStable(t *testing.T) {
	paired := Required(ModePaired)
	if len(paired) != 11 {
		t.Fatalf("expected 11 paired artifacts, got %d", len(paired))
	}
	single := Required(ModeSingle)
	if len(single) != 10 {
		t.Fatalf("expected 10 single artifacts, got %d", len(single))
	}
	again := Required(ModePaired)
	for i, name := range paired {
		if again[i] != name {
			t.Fatalf("required order unstable at %d: %s vs %s", i, name, again[i])
		}
	}
	// Mutating a returned table must not leak into later calls.
	paired[0] = "corrupted"
	if Required(ModePaired)[0] != AnalysisJSON {
		t.Fatal("required table aliased caller slice")
	}
}

func TestStepTableEndsWithStructuralStep(t *testing.T) {
	steps := Steps(ModePaired)
	last := steps[len(steps)-1]
	if last.Index != 10 || len(last.Artifacts) != 2 {
		t.Fatalf("unexpected paired structural step: %+v", last)
	}
	last = Steps(ModeSingle)[len(steps)-1]
	if last.Index != 10 || len(last.Artifacts) != 1 || last.Artifacts[0] != FormJSON {
		t.Fatalf("unexpected single structural step: %+v", last)
	}
}

func TestMissingIsSubsetAndOrdered(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Dir(dir))
	writeFile(t, dir, FieldsJSON)
	writeFile(t, dir, TabsJSON)

	required := Required(ModeSingle)
	missing, err := store.Missing(dir, required)
	if err != nil {
		t.Fatalf("missing: %v", err)
	}
	if len(missing) != len(required)-2 {
		t.Fatalf("expected %d missing, got %d", len(required)-2, len(missing))
	}
	seen := map[string]bool{}
	for _, name := range required {
		seen[name] = true
	}
	for _, name := range missing {
		if !seen[name] {
			t.Fatalf("missing reported %s which is not required", name)
		}
		if name == FieldsJSON || name == TabsJSON {
			t.Fatalf("missing reported present artifact %s", name)
		}
	}
}

func TestMissingOnAbsentDirReportsEverything(t *testing.T) {
	store := NewStore(t.TempDir())
	dir := store.SubjectDir("Acme")
	required := Required(ModePaired)
	missing, err := store.Missing(dir, required)
	if err != nil {
		t.Fatalf("missing: %v", err)
	}
	if len(missing) != len(required) {
		t.Fatalf("expected all %d artifacts missing, got %d", len(required), len(missing))
	}
}

func TestPresentIgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	if err := os.Mkdir(filepath.Join(dir, AnalysisJSON), 0o755); err != nil {
		t.Fatal(err)
	}
	ok, err := store.Present(dir, AnalysisJSON)
	if err != nil {
		t.Fatalf("present: %v", err)
	}
	if ok {
		t.Fatal("directory counted as artifact")
	}
}

func TestTabNames(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	tabs, err := store.TabNames(dir)
	if err != nil {
		t.Fatalf("tab names on empty dir: %v", err)
	}
	if len(tabs) != 0 {
		t.Fatalf("expected no tabs, got %v", tabs)
	}

	if err := os.WriteFile(filepath.Join(dir, TabsJSON), []byte(`{"tabs":["Billing","Audit"]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	tabs, err = store.TabNames(dir)
	if err != nil {
		t.Fatalf("tab names: %v", err)
	}
	if len(tabs) != 2 || tabs[0] != "Billing" || tabs[1] != "Audit" {
		t.Fatalf("unexpected tabs: %v", tabs)
	}
}

func TestWriteJSONCreatesSubjectDir(t *testing.T) {
	store := NewStore(t.TempDir())
	dir := store.SubjectDir("Acme")
	if err := store.WriteJSON(dir, ClassificationJSON, map[string][]string{"general": {"a.png"}}); err != nil {
		t.Fatalf("write json: %v", err)
	}
	ok, err := store.Present(dir, ClassificationJSON)
	if err != nil || !ok {
		t.Fatalf("classification artifact not written: ok=%v err=%v", ok, err)
	}
}
