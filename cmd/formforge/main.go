// cmd/formforge/main.go
//
// Entry point for the formforge CLI. One invocation reconciles one entity:
// run the analysis pipeline for whatever artifacts are missing, classify
// reference images, hand off to the interactive generation worker, then
// mirror the generated templates into the deployment targets.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"

	"github.com/formforge/formforge/internal/artifact"
	"github.com/formforge/formforge/internal/config"
	"github.com/formforge/formforge/internal/deploy"
	"github.com/formforge/formforge/internal/logging"
	"github.com/formforge/formforge/internal/pipeline"
	"github.com/formforge/formforge/internal/tui"
	"github.com/formforge/formforge/internal/worker"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
)

func main() {
	os.Exit(run())
}

func run() int {
	entity := flag.String("entity", "", "entity to run the pipeline for (required)")
	output := flag.String("output", "", "override the configured output root")
	formName := flag.String("form-name", "", "form name hint; a non Search/Detail name forces single mode")
	dryRun := flag.Bool("dry-run", false, "preview the deployment copy without writing anything")
	status := flag.Bool("status", false, "show the artifact dashboard instead of running the pipeline")
	skipDeploy := flag.Bool("skip-deploy", false, "stop after generation, do not mirror templates")
	flag.Parse()

	if *entity == "" {
		fail(&config.ConfigurationError{Msg: "--entity is required"})
		flag.Usage()
		return 1
	}

	cwd, err := os.Getwd()
	if err != nil {
		fail(fmt.Errorf("determine working directory: %w", err))
		return 1
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		fail(err)
		return 1
	}
	if *output != "" {
		cfg.Project.Output = *output
	}

	store := artifact.NewStore(cfg.OutputRoot())
	subjectDir := store.SubjectDir(*entity)

	if *status {
		existing, err := store.Existing(subjectDir)
		if err != nil {
			fail(err)
			return 1
		}
		mode := pipeline.DetectMode(*formName, existing)
		steps, err := tui.BuildSteps(store, subjectDir, mode)
		if err != nil {
			fail(err)
			return 1
		}
		if err := tui.Show(*entity, mode, steps); err != nil {
			fail(err)
			return 1
		}
		return 0
	}

	logger, err := logging.New(cfg.OutputRoot())
	if err != nil {
		// The run log is best-effort; a read-only output root should not stop
		// the pipeline.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	defer logger.Close()

	// SIGINT/SIGTERM cancel the run context; the active worker gets a
	// graceful stop and the handlers die with main.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch := pipeline.New(
		store,
		worker.NewRunner(),
		pipeline.Commands{
			Pipeline:  cfg.Project.Worker.Pipeline,
			Generator: cfg.Project.Worker.Generator,
		},
		pipeline.WithLogger(logger),
		pipeline.WithStatusFunc(printStatus),
	)

	mode, err := orch.Run(ctx, *entity, *formName)
	if err != nil {
		logger.Printf("run failed: %v", err)
		fail(err)
		var workerErr *pipeline.WorkerExecutionError
		if errors.As(err, &workerErr) && workerErr.Code > 0 {
			return workerErr.Code
		}
		return 1
	}
	printStatus("pipeline complete for %s (%s mode)", *entity, mode)

	if *skipDeploy {
		return 0
	}
	copier := deploy.New(deploy.WithLogFunc(func(format string, args ...any) {
		logger.Printf(format, args...)
		printStatus(format, args...)
	}))
	result, err := copier.Copy(subjectDir, deployMappings(cfg), *dryRun)
	if err != nil {
		logger.Printf("deploy failed: %v", err)
		fail(err)
		return 1
	}
	if *dryRun {
		printStatus("dry run: %d files would be deployed", result.Planned)
		return 0
	}
	if len(result.Errors) > 0 {
		for _, copyErr := range result.Errors {
			fail(copyErr)
		}
		printStatus("deployed %d of %d files; %d failed", result.Copied, result.Planned, len(result.Errors))
		return 1
	}
	printStatus("deployed %d files", result.Copied)
	return 0
}

func deployMappings(cfg *config.Config) []deploy.Mapping {
	mappings := make([]deploy.Mapping, 0, len(cfg.Mappings()))
	for _, m := range cfg.Mappings() {
		mappings = append(mappings, deploy.Mapping{Source: m.Source, Dest: m.Dest})
	}
	return mappings
}

func printStatus(format string, args ...any) {
	fmt.Println(statusStyle.Render(fmt.Sprintf(format, args...)))
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("error: %v", err)))
}
