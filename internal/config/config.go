// internal/config/config.go
//
// Runtime settings for formforge. A project may carry a formforge.yaml next
// to where the CLI runs; anything not set there falls back to the embedded
// defaults below. A .env file (if present) and FORMFORGE_* variables override
// individual entries last.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is looked up in the working directory.
	ConfigFileName = "formforge.yaml"

	// DefaultOutputRoot holds one artifact directory per subject.
	DefaultOutputRoot = "output"

	envWorker     = "FORMFORGE_WORKER"
	envGenerator  = "FORMFORGE_GENERATOR"
	envOutputRoot = "FORMFORGE_OUTPUT"
)

const defaultConfigYAML = `# formforge configuration
version: 1

# Root directory that holds one artifact folder per entity.
output: output

# External worker commands. The pipeline worker runs the staged analysis;
# the generator runs the interactive generation stage.
worker:
  pipeline: forge-analyze
  generator: forge-generate

# Where generated template layers get mirrored during deployment.
# Every destination must already exist; formforge never creates deploy roots.
deploy:
  mappings:
    - source: templates/shared
      dest: ../app/src/shared/forms
    - source: templates/api
      dest: ../app/server/forms
    - source: templates/ui
      dest: ../app/src/ui/forms
`

// Mapping pairs a generated subtree with the destination it deploys to.
type Mapping struct {
	Source string `yaml:"source"`
	Dest   string `yaml:"dest"`
}

// WorkerConfig names the external commands work is delegated to.
type WorkerConfig struct {
	Pipeline  string `yaml:"pipeline"`
	Generator string `yaml:"generator"`
}

// DeployConfig holds the deployment mapping table.
type DeployConfig struct {
	Mappings []Mapping `yaml:"mappings"`
}

// ProjectConfig models formforge.yaml.
type ProjectConfig struct {
	Version int          `yaml:"version"`
	Output  string       `yaml:"output"`
	Worker  WorkerConfig `yaml:"worker"`
	Deploy  DeployConfig `yaml:"deploy"`
}

// Config is the resolved runtime configuration.
type Config struct {
	// ProjectDir is where the CLI was invoked from; relative paths in the
	// config resolve against it.
	ProjectDir string

	Project ProjectConfig
}

func defaultProjectConfig() ProjectConfig {
	var cfg ProjectConfig
	if err := yaml.Unmarshal([]byte(defaultConfigYAML), &cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load resolves the configuration for a project directory. Absent files are
// not errors; the embedded defaults apply.
func Load(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir: projectDir,
		Project:    defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	// .env values only fill gaps in the real environment, matching godotenv's
	// non-overload behavior.
	_ = godotenv.Load(filepath.Join(projectDir, ".env"))
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadProjectConfig() error {
	path := filepath.Join(c.ProjectDir, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", ConfigFileName, err)
	}
	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", ConfigFileName, err)
	}
	c.merge(parsed)
	return nil
}

func (c *Config) merge(parsed ProjectConfig) {
	if parsed.Version != 0 {
		c.Project.Version = parsed.Version
	}
	if strings.TrimSpace(parsed.Output) != "" {
		c.Project.Output = parsed.Output
	}
	if strings.TrimSpace(parsed.Worker.Pipeline) != "" {
		c.Project.Worker.Pipeline = parsed.Worker.Pipeline
	}
	if strings.TrimSpace(parsed.Worker.Generator) != "" {
		c.Project.Worker.Generator = parsed.Worker.Generator
	}
	if len(parsed.Deploy.Mappings) > 0 {
		c.Project.Deploy.Mappings = parsed.Deploy.Mappings
	}
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(envWorker)); v != "" {
		c.Project.Worker.Pipeline = v
	}
	if v := strings.TrimSpace(os.Getenv(envGenerator)); v != "" {
		c.Project.Worker.Generator = v
	}
	if v := strings.TrimSpace(os.Getenv(envOutputRoot)); v != "" {
		c.Project.Output = v
	}
}

// OutputRoot returns the absolute output root directory.
func (c *Config) OutputRoot() string {
	return c.resolve(c.Project.Output)
}

// Mappings resolves the deployment table against the project directory.
func (c *Config) Mappings() []Mapping {
	resolved := make([]Mapping, 0, len(c.Project.Deploy.Mappings))
	for _, m := range c.Project.Deploy.Mappings {
		resolved = append(resolved, Mapping{Source: m.Source, Dest: c.resolve(m.Dest)})
	}
	return resolved
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(c.ProjectDir, path)
}
