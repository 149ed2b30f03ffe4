package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	projectDir := t.TempDir()
	cfg, err := Load(projectDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Project.Version != 1 {
		t.Fatalf("expected default version 1, got %d", cfg.Project.Version)
	}
	if cfg.Project.Worker.Pipeline != "forge-analyze" {
		t.Fatalf("unexpected default worker: %q", cfg.Project.Worker.Pipeline)
	}
	if got := cfg.OutputRoot(); got != filepath.Join(projectDir, DefaultOutputRoot) {
		t.Fatalf("unexpected output root %q", got)
	}
	if len(cfg.Mappings()) != 3 {
		t.Fatalf("expected 3 default mappings, got %d", len(cfg.Mappings()))
	}
}

func TestLoadParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	configYAML := strings.TrimSpace(`
version: 1
output: artifacts
worker:
  pipeline: custom-analyze
deploy:
  mappings:
    - source: templates/shared
      dest: /srv/forms/shared
`)
	if err := os.WriteFile(filepath.Join(projectDir, ConfigFileName), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(projectDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Project.Output != "artifacts" {
		t.Fatalf("output not overridden: %q", cfg.Project.Output)
	}
	if cfg.Project.Worker.Pipeline != "custom-analyze" {
		t.Fatalf("worker not overridden: %q", cfg.Project.Worker.Pipeline)
	}
	// Generator keeps its default when the file does not name one.
	if cfg.Project.Worker.Generator != "forge-generate" {
		t.Fatalf("generator default lost: %q", cfg.Project.Worker.Generator)
	}
	mappings := cfg.Mappings()
	if len(mappings) != 1 || mappings[0].Dest != "/srv/forms/shared" {
		t.Fatalf("unexpected mappings: %+v", mappings)
	}
}

func TestLoadRejectsMalformedYaml(t *testing.T) {
	projectDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(projectDir, ConfigFileName), []byte("worker: [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(projectDir); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverridesWin(t *testing.T) {
	projectDir := t.TempDir()
	t.Setenv(envWorker, "env-analyze")
	t.Setenv(envOutputRoot, "/tmp/forge-out")
	cfg, err := Load(projectDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Project.Worker.Pipeline != "env-analyze" {
		t.Fatalf("env worker override lost: %q", cfg.Project.Worker.Pipeline)
	}
	if cfg.OutputRoot() != "/tmp/forge-out" {
		t.Fatalf("env output override lost: %q", cfg.OutputRoot())
	}
}

func TestDotEnvFillsGaps(t *testing.T) {
	projectDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(projectDir, ".env"), []byte("FORMFORGE_GENERATOR=dotenv-generate\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv only fills variables that are unset in the real environment.
	t.Setenv(envGenerator, "")
	os.Unsetenv(envGenerator)
	cfg, err := Load(projectDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Project.Worker.Generator != "dotenv-generate" {
		t.Fatalf(".env override lost: %q", cfg.Project.Worker.Generator)
	}
}
