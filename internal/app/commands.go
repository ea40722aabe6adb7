package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/piwi3910/packga/internal/engine"
	"github.com/piwi3910/packga/internal/export"
	"github.com/piwi3910/packga/internal/history"
	"github.com/piwi3910/packga/internal/model"
	"github.com/piwi3910/packga/internal/project"
	"github.com/piwi3910/packga/internal/report"
)

// compareSeeds runs one bounded search per seed and prints a table.
func (a *App) compareSeeds(scenario model.Scenario, settings model.GeneticSettings, seeds []int64) error {
	results, err := engine.CompareSeeds(scenario, settings, seeds)
	if err != nil {
		return configError{err}
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEED\tBEST\tWASTED\tGENERATIONS\tFOUND AT\tREASON\tSOLUTION")
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%s\t%s\n",
			r.Seed, r.BestScore, r.Wasted, r.Generations, r.FoundAt, r.Reason, r.Identifier)
	}
	tw.Flush()

	if best, ok := engine.BestComparison(results); ok {
		fmt.Fprintf(a.stdout, "Best seed: %d (score %d of %d)\n", best.Seed, best.BestScore, scenario.MaxPossibleScore())
	}
	return nil
}

// runRender draws the best layout of a saved snapshot.
func (a *App) runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	snapshot := fs.String("snapshot", "", "JSON result snapshot")
	image := fs.String("image", "solution.png", "output .png, .pdf or .dxf file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return configError{err}
	}
	if *snapshot == "" {
		return configErrorf("--snapshot is required")
	}

	snap, err := project.LoadResult(*snapshot)
	if err != nil {
		return configError{err}
	}
	renderer, err := export.RendererFor(*image)
	if err != nil {
		return configError{err}
	}
	if err := renderer.Render(snap.Scenario, snap.Stats); err != nil {
		return fmt.Errorf("render %s: %w", *image, err)
	}
	fmt.Fprintf(a.stdout, "Rendered run %s to %s\n", snap.Stats.RunID, *image)
	return nil
}

// runHistory lists recorded runs, newest first, or shows a single run.
func (a *App) runHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	dbPath := fs.String("history-db", filepath.Join(project.DefaultConfigDir(), "history.db"), "SQLite run history")
	limit := fs.Int("limit", 20, "number of runs to show")
	runID := fs.String("run", "", "show a single run by ID")
	image := fs.String("image", "", "with --run, render the run's best layout to this .png, .pdf or .dxf file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return configError{err}
	}
	if *limit < 1 {
		return configErrorf("--limit must be positive, got %d", *limit)
	}
	if *image != "" && *runID == "" {
		return configErrorf("--image needs --run")
	}

	store, err := history.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if *runID != "" {
		return a.showRun(store, *runID, *image)
	}

	total, err := store.Count()
	if err != nil {
		return err
	}
	if total == 0 {
		fmt.Fprintln(a.stdout, "No runs recorded.")
		return nil
	}
	runs, err := store.Recent(*limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tSTARTED\tCONTAINER\tITEMS\tSCORE\tMAX\tWASTED\tGENERATIONS\tREASON\tSEED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%d\t%d\t%d\t%d\t%d\t%s\t%d\n",
			r.RunID, r.StartedAt.Local().Format(time.DateTime), r.ContainerWidth, r.ContainerHeight,
			r.ItemCount, r.BestScore, r.MaxScore, r.WastedCells, r.Generations, r.StopReason, r.Seed)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Showing %d of %d runs\n", len(runs), total)
	return nil
}

// showRun prints one recorded run and optionally renders its layout.
func (a *App) showRun(store *history.Store, runID, image string) error {
	run, err := store.Get(runID)
	if errors.Is(err, history.ErrNotFound) {
		return configError{err}
	}
	if err != nil {
		return err
	}

	stats := run.Stats()
	report.WriteSummary(a.stdout, stats)

	if image == "" {
		return nil
	}
	renderer, err := export.RendererFor(image)
	if err != nil {
		return configError{err}
	}
	if err := renderer.Render(run.Scenario(), stats); err != nil {
		return fmt.Errorf("render %s: %w", image, err)
	}
	fmt.Fprintf(a.stdout, "Rendered run %s to %s\n", run.RunID, image)
	return nil
}

// runConfig handles "config init", which writes the default run config.
func (a *App) runConfig(args []string) error {
	if len(args) == 0 || args[0] != "init" {
		return configErrorf("usage: packga config init [--config PATH] [--force]")
	}
	fs := flag.NewFlagSet("config init", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	path := fs.String("config", project.DefaultConfigPath(), "where to write the YAML run config")
	force := fs.Bool("force", false, "overwrite an existing file")
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return configError{err}
	}

	if _, err := os.Stat(*path); err == nil && !*force {
		return configErrorf("%s already exists, use --force to overwrite", *path)
	}
	if err := project.SaveConfig(*path, model.DefaultAppConfig()); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Wrote default config to %s\n", *path)
	return nil
}
