package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/piwi3910/packga/internal/model"
)

// Reporter receives progress after every generation and the final
// statistics once the run has ended.
type Reporter interface {
	Progress(stats model.Stats, gen model.GenerationSummary)
	Summary(stats model.Stats)
}

// Renderer persists a visual artifact of the best solution
// (stats.BestSolution). It is called once, after the run loop ends.
type Renderer interface {
	Render(scenario model.Scenario, stats model.Stats) error
}

// Controller drives an Engine until the global optimum is reached, the
// generation budget is used up or Stop is called. Stop may be called from
// any goroutine; everything else belongs to the goroutine calling Run.
type Controller struct {
	engine    *Engine
	stats     model.Stats
	reporters []Reporter
	renderer  Renderer
	logger    *slog.Logger

	stopped atomic.Bool
	ran     bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithReporter adds a reporter. Reporters are called in the order added.
func WithReporter(r Reporter) Option {
	return func(c *Controller) { c.reporters = append(c.reporters, r) }
}

// WithRenderer sets the renderer for the final solution.
func WithRenderer(r Renderer) Option {
	return func(c *Controller) { c.renderer = r }
}

// WithLogger sets the controller's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController takes ownership of stats for the duration of the run.
func NewController(e *Engine, stats model.Stats, opts ...Option) *Controller {
	c := &Controller{
		engine: e,
		stats:  stats,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stop asks the run loop to finish after the current generation.
func (c *Controller) Stop() {
	c.stopped.Store(true)
}

// Run executes generations until a termination condition is met, then
// hands the final statistics to the reporters and the renderer exactly
// once. The stop flag is only checked between generations.
func (c *Controller) Run() (model.Stats, error) {
	if c.ran {
		return model.Stats{}, errors.New("engine: controller already ran")
	}
	c.ran = true

	maxGenerations := c.engine.Settings().MaxGenerations
	reason := model.StopNone

	c.logger.Info("run started",
		"run_id", c.stats.RunID,
		"items", len(c.engine.Items()),
		"container", c.engine.Container().String(),
		"max_possible_score", c.stats.MaxPossibleScore,
	)

	for reason == model.StopNone {
		if c.stopped.Load() {
			reason = model.StopCancelled
			break
		}

		optimum := c.engine.Step(&c.stats)
		gen := c.engine.Last()
		for _, r := range c.reporters {
			r.Progress(c.stats, gen)
		}

		switch {
		case optimum:
			reason = model.StopOptimum
		case maxGenerations > 0 && c.stats.TotalGenerations >= maxGenerations:
			reason = model.StopGenerationLimit
		}
	}

	c.stats.StopReason = reason
	c.stats.FinishedAt = time.Now().UTC()
	c.logger.Info("run finished",
		"run_id", c.stats.RunID,
		"reason", string(reason),
		"generations", c.stats.TotalGenerations,
		"best_score", c.stats.BestScore,
	)

	final := c.stats.Clone()
	for _, r := range c.reporters {
		r.Summary(final)
	}

	if c.renderer != nil {
		scenario := model.Scenario{Container: c.engine.Container(), Items: c.engine.Items()}
		if err := c.renderer.Render(scenario, final); err != nil {
			c.logger.Error("render failed", "error", err)
			return final, fmt.Errorf("render best solution: %w", err)
		}
	}
	return final, nil
}

// WatchSignals stops the controller on the first signal received and
// calls forceExit on the second. It returns when signals is closed or
// after forceExit has been called.
func WatchSignals(signals <-chan os.Signal, c *Controller, forceExit func()) {
	received := 0
	for sig := range signals {
		received++
		if received == 1 {
			c.logger.Warn("stopping after the current generation, signal again to abort", "signal", sig.String())
			c.Stop()
			continue
		}
		c.logger.Error("second signal received, aborting", "signal", sig.String())
		forceExit()
		return
	}
}
