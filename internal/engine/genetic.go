package engine

import (
	"fmt"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/piwi3910/packga/internal/model"
)

// Engine owns the working population and advances it one generation at a
// time. It is not safe for concurrent use.
type Engine struct {
	container  model.Container
	items      []model.Item
	settings   model.GeneticSettings
	rng        *rand.Rand
	population []model.Permutation
	last       model.GenerationSummary
}

// NewEngine validates the scenario and settings and seeds the initial
// population with independent random shuffles of the item indices.
func NewEngine(scenario model.Scenario, settings model.GeneticSettings) (*Engine, error) {
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid genetic settings: %w", err)
	}

	seed := settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	items := make([]model.Item, len(scenario.Items))
	copy(items, scenario.Items)

	e := &Engine{
		container: scenario.Container,
		items:     items,
		settings:  settings,
		rng:       rand.New(rand.NewSource(seed)),
	}
	e.population = e.initPopulation()
	return e, nil
}

// initPopulation creates the initial random population.
func (e *Engine) initPopulation() []model.Permutation {
	population := make([]model.Permutation, e.settings.PopulationSize)
	for i := range population {
		population[i] = randomPermutation(e.rng, len(e.items))
	}
	return population
}

// Container returns the container the engine packs into.
func (e *Engine) Container() model.Container { return e.container }

// Items returns the engine's item list. Callers must not modify it.
func (e *Engine) Items() []model.Item { return e.items }

// Settings returns the settings the engine was built with.
func (e *Engine) Settings() model.GeneticSettings { return e.settings }

// Last returns the summary of the most recent Step.
func (e *Engine) Last() model.GenerationSummary { return e.last }

// evaluate scores every individual in the current population.
func (e *Engine) evaluate() []Scored {
	scored := make([]Scored, len(e.population))
	for i, p := range e.population {
		scored[i] = Scored{Solution: p, Score: Evaluate(e.container, e.items, p)}
	}
	return scored
}

// Step evaluates the current generation, records a strictly better best
// solution into stats and, unless the global optimum was reached, replaces
// the population with the next generation. It returns true when the best
// score equals the sum of all item benefits.
func (e *Engine) Step(stats *model.Stats) bool {
	scored := e.evaluate()
	e.last = model.GenerationSummary{
		Generation:     stats.TotalGenerations,
		MeanScore:      stat.Mean(benefits(scored), nil),
		PopulationSize: len(scored),
	}

	Rank(scored)
	best := scored[0]
	e.last.BestScore = best.Score.Benefit
	e.last.BestWasted = best.Score.Wasted

	if best.Score.Benefit > stats.BestScore {
		stats.BestScore = best.Score.Benefit
		stats.BestWastedCells = best.Score.Wasted
		stats.BestIdentifier = best.Solution.Digest()
		stats.BestSolution = best.Solution.Clone()
		stats.OptimaFoundAtGenerations = append(stats.OptimaFoundAtGenerations, stats.TotalGenerations)

		// Wasted space is not minimized, so an empty grid does not
		// mean the search is done. Only the benefit bound does.
		if stats.BestScore == stats.MaxPossibleScore {
			return true
		}
	}

	survivors := SelectSurvivors(scored, e.settings.MinSurvivors)
	e.last.Survivors = len(survivors)
	e.population = NextGeneration(survivors, e.settings, e.rng)
	stats.TotalGenerations++
	return false
}
