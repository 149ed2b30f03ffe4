// Package pipeline drives the analysis-and-generation workflow for one
// subject: decide which steps still need to run, hand the work to the
// external worker with resumption hints, verify the worker delivered, then
// launch the interactive generation stage with classified reference images.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/formforge/formforge/internal/artifact"
	"github.com/formforge/formforge/internal/assets"
	"github.com/formforge/formforge/internal/logging"
	"github.com/formforge/formforge/internal/worker"
)

// Runner abstracts worker process supervision so tests can substitute a stub
// for the real spawner.
type Runner interface {
	Run(ctx context.Context, inv worker.Invocation) (int, error)
}

// Commands names the external programs each stage delegates to.
type Commands struct {
	Pipeline  string
	Generator string
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithLogger attaches the run log.
func WithLogger(log *logging.Logger) Option {
	return func(o *Orchestrator) {
		o.log = log
	}
}

// WithStatusFunc overrides where human-facing status lines go. Defaults to
// stdout.
func WithStatusFunc(statusf func(format string, args ...any)) Option {
	return func(o *Orchestrator) {
		if statusf != nil {
			o.statusf = statusf
		}
	}
}

// Orchestrator reconciles a subject's artifact directory against the
// required set, exactly once per call. It never loops or retries; a caller
// wanting another attempt calls again, and because every computation is
// re-derived from the filesystem the second call picks up where the first
// left off.
type Orchestrator struct {
	store    *artifact.Store
	runner   Runner
	commands Commands
	log      *logging.Logger
	statusf  func(format string, args ...any)
}

// New wires an orchestrator over an artifact store and a worker runner.
func New(store *artifact.Store, runner Runner, commands Commands, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:    store,
		runner:   runner,
		commands: commands,
		statusf: func(format string, args ...any) {
			fmt.Printf(format+"\n", args...)
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Run performs the whole workflow for a subject: fix the mode, ensure the
// analysis artifacts exist, then hand off to the generation stage. The
// detected mode is returned so callers can report it.
func (o *Orchestrator) Run(ctx context.Context, subject, formName string) (artifact.Mode, error) {
	dir := o.store.SubjectDir(subject)
	existing, err := o.store.Existing(dir)
	if err != nil {
		return "", err
	}
	mode := DetectMode(formName, existing)
	o.logf("subject %s resolved to %s mode", subject, mode)
	if err := o.EnsureArtifacts(ctx, subject, dir, mode, formName); err != nil {
		return mode, err
	}
	if err := o.Generate(ctx, subject, dir); err != nil {
		return mode, err
	}
	return mode, nil
}

// EnsureArtifacts makes sure every required artifact for the mode exists in
// dir, invoking the pipeline worker at most once. Postconditions are
// re-checked from disk afterwards; the worker's exit status alone is never
// taken as proof of delivery.
func (o *Orchestrator) EnsureArtifacts(ctx context.Context, subject, dir string, mode artifact.Mode, formName string) error {
	required := artifact.Required(mode)
	missing, err := o.store.Missing(dir, required)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		o.statusf("all %d artifacts present for %s, skipping analysis", len(required), subject)
		o.logf("fast path: nothing missing for %s", subject)
		return nil
	}

	skip, err := SkipSteps(o.store, dir, mode)
	if err != nil {
		return err
	}
	inv := o.pipelineInvocation(subject, dir, mode, formName, skip)
	o.statusf("%d of %d artifacts missing for %s, running analysis pipeline", len(missing), len(required), subject)
	o.logf("running %s (missing: %v)", inv.String(), missing)

	code, err := o.runner.Run(ctx, inv)
	if err != nil {
		return fmt.Errorf("pipeline: analysis worker: %w", err)
	}
	if code != 0 {
		return &WorkerExecutionError{Stage: "analysis", Code: code, Command: inv.String()}
	}

	stillMissing, err := o.store.Missing(dir, required)
	if err != nil {
		return err
	}
	if len(stillMissing) > 0 {
		return &PostconditionError{Missing: stillMissing, Command: inv.String()}
	}
	o.logf("analysis complete for %s", subject)
	return nil
}

// Generate classifies the subject's reference images, persists the
// classification artifact, and launches the interactive generation worker in
// the subject directory.
func (o *Orchestrator) Generate(ctx context.Context, subject, dir string) error {
	classification, err := o.classifyImages(dir)
	if err != nil {
		return err
	}
	if err := o.store.WriteJSON(dir, artifact.ClassificationJSON, classification.Buckets()); err != nil {
		return err
	}
	o.statusf("classified %d reference images for %s", classification.Len(), subject)

	inv := worker.Invocation{
		Command: o.commands.Generator,
		Args:    []string{"--entity", subject},
		Dir:     dir,
		Env: []string{
			"FORMFORGE_ENTITY=" + subject,
			"FORMFORGE_OUTPUT=" + dir,
		},
	}
	o.logf("running %s", inv.String())
	code, err := o.runner.Run(ctx, inv)
	if err != nil {
		return fmt.Errorf("pipeline: generation worker: %w", err)
	}
	if code != 0 {
		return &WorkerExecutionError{Stage: "generation", Code: code, Command: inv.String()}
	}
	o.logf("generation complete for %s", subject)
	return nil
}

func (o *Orchestrator) pipelineInvocation(subject, dir string, mode artifact.Mode, formName string, skip []int) worker.Invocation {
	args := []string{"--entity", subject, "--output", dir}
	if mode == artifact.ModeSingle && formName != "" {
		args = append(args, "--form-name", formName)
	}
	if joined := FormatSkipSteps(skip); joined != "" {
		args = append(args, "--skip-steps", joined)
	}
	return worker.Invocation{
		Command: o.commands.Pipeline,
		Args:    args,
		Env: []string{
			"FORMFORGE_ENTITY=" + subject,
			"FORMFORGE_OUTPUT=" + dir,
		},
	}
}

// classifyImages walks the subject's images directory in lexical order. An
// absent directory just means there is nothing to classify.
func (o *Orchestrator) classifyImages(dir string) (assets.Classification, error) {
	imagesDir := filepath.Join(dir, artifact.ImagesDir)
	entries, err := os.ReadDir(imagesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return assets.Classify(nil, nil), nil
		}
		return assets.Classification{}, fmt.Errorf("pipeline: read images dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	tabs, err := o.store.TabNames(dir)
	if err != nil {
		return assets.Classification{}, err
	}
	return assets.Classify(files, tabs), nil
}

func (o *Orchestrator) logf(format string, args ...any) {
	if o.log != nil {
		o.log.Printf(format, args...)
	}
}
