// Package app implements the packga command line: scenario selection,
// configuration, and wiring of the engine to its reporters and outputs.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/piwi3910/packga/internal/engine"
	"github.com/piwi3910/packga/internal/export"
	"github.com/piwi3910/packga/internal/history"
	"github.com/piwi3910/packga/internal/importer"
	"github.com/piwi3910/packga/internal/metrics"
	"github.com/piwi3910/packga/internal/model"
	"github.com/piwi3910/packga/internal/project"
	"github.com/piwi3910/packga/internal/report"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitConfig  = 2
)

// configError marks problems with flags, config files or input data.
// They end the process with ExitConfig before the engine starts.
type configError struct{ err error }

func (e configError) Error() string { return e.err.Error() }
func (e configError) Unwrap() error { return e.err }

func configErrorf(format string, args ...any) error {
	return configError{fmt.Errorf(format, args...)}
}

// App holds the process-level dependencies of a command invocation.
type App struct {
	stdout io.Writer
	stderr io.Writer

	// notify subscribes to stop signals. Tests replace it.
	notify     func(c chan<- os.Signal)
	stopNotify func(c chan<- os.Signal)
	exit       func(code int)
}

// New creates an App writing results to stdout and logs to stderr.
func New(stdout, stderr io.Writer) *App {
	return &App{
		stdout:     stdout,
		stderr:     stderr,
		notify:     func(c chan<- os.Signal) { signal.Notify(c, os.Interrupt, syscall.SIGTERM) },
		stopNotify: func(c chan<- os.Signal) { signal.Stop(c) },
		exit:       os.Exit,
	}
}

// Run executes the command in args (without the program name) and returns
// the process exit code.
func (a *App) Run(args []string) int {
	if len(args) == 0 {
		a.usage()
		return ExitConfig
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "random", "file":
		err = a.runSearch(cmd, rest)
	case "render":
		err = a.runRender(rest)
	case "history":
		err = a.runHistory(rest)
	case "config":
		err = a.runConfig(rest)
	case "help", "-h", "--help":
		a.usage()
		return ExitOK
	default:
		fmt.Fprintf(a.stderr, "unknown command %q\n\n", cmd)
		a.usage()
		return ExitConfig
	}

	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return ExitOK
	case errors.As(err, new(configError)):
		fmt.Fprintf(a.stderr, "error: %v\n", err)
		return ExitConfig
	default:
		fmt.Fprintf(a.stderr, "error: %v\n", err)
		return ExitFailure
	}
}

func (a *App) usage() {
	fmt.Fprint(a.stderr, `Genetic algorithm for knapsack 2D rectangle allocation.

Usage:
  packga random --container-square-side N --item-count N --item-max-square-side N --max-benefit N [options]
  packga file --file-input PATH [--container-width W --container-height H] [options]
  packga render --snapshot PATH --image PATH
  packga history [--history-db PATH] [--limit N]
  packga history --run ID [--history-db PATH] [--image PATH]
  packga config init [--config PATH] [--force]

Run "packga <command> -h" for the options of a command.
`)
}

// runSearch builds the scenario, runs the search and writes the outputs.
func (a *App) runSearch(cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	common := addCommonFlags(fs)

	var randomParams importer.RandomParams
	var fileInput string
	var container model.Container
	if cmd == "random" {
		fs.IntVar(&randomParams.ContainerSide, "container-square-side", 0, "side of the square container")
		fs.IntVar(&randomParams.ItemCount, "item-count", 0, "number of random items")
		fs.IntVar(&randomParams.ItemMaxSide, "item-max-square-side", 0, "largest item side")
		fs.IntVar(&randomParams.MaxBenefit, "max-benefit", 0, "largest item benefit")
	} else {
		fs.StringVar(&fileInput, "file-input", "", "scenario file (.txt, .csv or .xlsx)")
		fs.IntVar(&container.Width, "container-width", 0, "container width, required for .csv and .xlsx")
		fs.IntVar(&container.Height, "container-height", 0, "container height, required for .csv and .xlsx")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return configError{err}
	}

	cfg, err := common.resolve(fs)
	if err != nil {
		return err
	}
	logger, err := newLogger(a.stderr, cfg.Logging)
	if err != nil {
		return err
	}

	var scenario model.Scenario
	if cmd == "random" {
		scenario, err = importer.Random(randomParams, rand.New(rand.NewSource(seedOrNow(cfg.Genetic.Seed))))
		if err != nil {
			return configError{err}
		}
	} else {
		if fileInput == "" {
			return configErrorf("--file-input is required")
		}
		if (container.Width == 0) != (container.Height == 0) {
			return configErrorf("--container-width and --container-height must be given together")
		}
		scenario, err = loadScenario(logger, fileInput, container)
		if err != nil {
			return err
		}
	}

	logger.Info("scenario ready",
		"container", scenario.Container.String(),
		"items", len(scenario.Items),
		"max_possible_score", scenario.MaxPossibleScore(),
	)

	if len(common.seeds) > 0 {
		return a.compareSeeds(scenario, cfg.Genetic, common.seeds)
	}
	return a.search(logger, scenario, cfg)
}

func loadScenario(logger *slog.Logger, path string, container model.Container) (model.Scenario, error) {
	result := importer.ImportFile(path, container)
	for _, w := range result.Warnings {
		logger.Warn("import", "file", path, "warning", w)
	}
	for _, e := range result.Errors {
		logger.Error("import", "file", path, "error", e)
	}
	if !result.OK() {
		if len(result.Errors) > 0 {
			return model.Scenario{}, configErrorf("cannot import %s: %s", path, result.Errors[0])
		}
		return model.Scenario{}, configErrorf("cannot import %s: no items", path)
	}
	return result.Scenario, nil
}

func (a *App) search(logger *slog.Logger, scenario model.Scenario, cfg model.AppConfig) error {
	e, err := engine.NewEngine(scenario, cfg.Genetic)
	if err != nil {
		return configError{err}
	}

	reporters := report.Multi{report.NewConsole(logger, a.stdout, cfg.Output.ProgressEvery)}
	opts := []engine.Option{engine.WithLogger(logger)}
	if cfg.Output.Image != "" {
		renderer, err := export.RendererFor(cfg.Output.Image)
		if err != nil {
			return configError{err}
		}
		opts = append(opts, engine.WithRenderer(renderer))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Metrics.Addr != "" {
		m := metrics.NewReporter()
		if err := metrics.NewServer(cfg.Metrics.Addr, m.Registry(), logger).Start(ctx); err != nil {
			return configError{err}
		}
		reporters = append(reporters, m)
	}
	opts = append(opts, engine.WithReporter(reporters))

	ctrl := engine.NewController(e, model.NewStats(scenario.Items), opts...)

	signals := make(chan os.Signal, 2)
	a.notify(signals)
	go engine.WatchSignals(signals, ctrl, func() { a.exit(ExitFailure) })
	defer func() {
		a.stopNotify(signals)
		close(signals)
	}()

	stats, runErr := ctrl.Run()

	if cfg.Output.Snapshot != "" {
		if err := project.SaveResult(cfg.Output.Snapshot, scenario, cfg.Genetic, stats); err != nil {
			return err
		}
		logger.Info("snapshot saved", "path", cfg.Output.Snapshot)
	}
	if cfg.Output.HistoryDB != "" {
		if err := recordHistory(cfg.Output.HistoryDB, scenario, cfg.Genetic, stats); err != nil {
			return err
		}
		logger.Info("run recorded", "db", cfg.Output.HistoryDB, "run_id", stats.RunID)
	}
	if runErr != nil {
		return runErr
	}
	if cfg.Output.Image != "" {
		logger.Info("layout written", "path", cfg.Output.Image)
	}
	return nil
}

func recordHistory(path string, scenario model.Scenario, settings model.GeneticSettings, stats model.Stats) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(scenario, settings, stats)
}

func seedOrNow(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}
