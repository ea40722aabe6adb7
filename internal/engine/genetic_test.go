package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/packga/internal/model"
)

func makeTestSettings(seed int64) model.GeneticSettings {
	s := model.DefaultGeneticSettings()
	s.Seed = seed
	return s
}

// unreachableScenario holds an item that can never fit, so the sum of all
// benefits is never reached.
func unreachableScenario() model.Scenario {
	return model.Scenario{
		Container: model.Container{Width: 2, Height: 2},
		Items:     []model.Item{model.NewItem(1, 1, 10), model.NewItem(1, 1, 20), model.NewItem(3, 3, 1000)},
	}
}

func reachableScenario() model.Scenario {
	return model.Scenario{
		Container: model.Container{Width: 2, Height: 2},
		Items: []model.Item{
			model.NewItem(1, 1, 5), model.NewItem(1, 1, 6),
			model.NewItem(1, 1, 7), model.NewItem(1, 1, 8),
		},
	}
}

func TestNewEngine_InitialPopulation(t *testing.T) {
	e, err := NewEngine(unreachableScenario(), makeTestSettings(1))
	require.NoError(t, err)

	pop := e.population
	require.Len(t, pop, 100)
	for _, p := range pop {
		assert.True(t, p.IsValid(3))
	}
}

func TestNewEngine_RejectsInvalidInput(t *testing.T) {
	bad := unreachableScenario()
	bad.Container.Width = 0
	_, err := NewEngine(bad, makeTestSettings(1))
	assert.Error(t, err)

	settings := makeTestSettings(1)
	settings.PopulationSize = 0
	_, err = NewEngine(unreachableScenario(), settings)
	assert.Error(t, err)
}

func TestNewEngine_CopiesItems(t *testing.T) {
	scenario := unreachableScenario()
	e, err := NewEngine(scenario, makeTestSettings(1))
	require.NoError(t, err)

	scenario.Items[0].Benefit = 999
	assert.Equal(t, 10, e.Items()[0].Benefit)
}

func TestStep_NeverClaimsUnreachableOptimum(t *testing.T) {
	scenario := unreachableScenario()
	e, err := NewEngine(scenario, makeTestSettings(3))
	require.NoError(t, err)
	stats := model.NewStats(scenario.Items)
	require.Equal(t, 1030, stats.MaxPossibleScore)

	for gen := 0; gen < 50; gen++ {
		require.False(t, e.Step(&stats), "generation %d falsely reported the optimum", gen)
	}

	assert.Equal(t, 30, stats.BestScore)
	assert.Equal(t, 2, stats.BestWastedCells)
	assert.Equal(t, 50, stats.TotalGenerations)
	assert.Equal(t, []int{0}, stats.OptimaFoundAtGenerations)
	assert.Equal(t, stats.BestSolution.Digest(), stats.BestIdentifier)
	assert.True(t, stats.BestSolution.IsValid(3))
}

func TestStep_ReportsReachableOptimumImmediately(t *testing.T) {
	scenario := reachableScenario()
	e, err := NewEngine(scenario, makeTestSettings(5))
	require.NoError(t, err)
	stats := model.NewStats(scenario.Items)
	before := e.population

	done := e.Step(&stats)

	assert.True(t, done)
	assert.Equal(t, 26, stats.BestScore)
	assert.Equal(t, 0, stats.BestWastedCells)
	assert.Equal(t, 0, stats.TotalGenerations, "no further generation is produced")
	assert.Equal(t, []int{0}, stats.OptimaFoundAtGenerations)
	assert.Equal(t, before, e.population, "population must not be replaced")
	assert.True(t, stats.OptimumReached())
}

func TestStep_BestScoreIsMonotonic(t *testing.T) {
	scenario := model.Scenario{
		Container: model.Container{Width: 8, Height: 8},
		Items: []model.Item{
			model.NewItem(5, 3, 12), model.NewItem(3, 3, 9), model.NewItem(4, 4, 15),
			model.NewItem(2, 6, 10), model.NewItem(6, 2, 11), model.NewItem(1, 1, 1),
			model.NewItem(3, 5, 13), model.NewItem(7, 1, 6), model.NewItem(2, 2, 5),
		},
	}
	e, err := NewEngine(scenario, makeTestSettings(11))
	require.NoError(t, err)
	stats := model.NewStats(scenario.Items)

	prev := 0
	for gen := 0; gen < 40; gen++ {
		if e.Step(&stats) {
			break
		}
		require.GreaterOrEqual(t, stats.BestScore, prev)
		prev = stats.BestScore
		for _, p := range e.population {
			require.True(t, p.IsValid(len(scenario.Items)))
		}
	}

	for i := 1; i < len(stats.OptimaFoundAtGenerations); i++ {
		assert.Greater(t, stats.OptimaFoundAtGenerations[i], stats.OptimaFoundAtGenerations[i-1])
	}
	assert.Equal(t, Evaluate(scenario.Container, scenario.Items, stats.BestSolution).Benefit, stats.BestScore)
}

func TestStep_BestSolutionIsACopy(t *testing.T) {
	scenario := unreachableScenario()
	e, err := NewEngine(scenario, makeTestSettings(2))
	require.NoError(t, err)
	stats := model.NewStats(scenario.Items)

	e.Step(&stats)
	snapshot := stats.BestSolution.Clone()
	for i := 0; i < 10; i++ {
		e.Step(&stats)
	}

	assert.Equal(t, snapshot, stats.BestSolution)
}

func TestStep_LastSummary(t *testing.T) {
	scenario := unreachableScenario()
	e, err := NewEngine(scenario, makeTestSettings(2))
	require.NoError(t, err)
	stats := model.NewStats(scenario.Items)

	e.Step(&stats)
	last := e.Last()

	assert.Equal(t, 0, last.Generation)
	assert.Equal(t, 30, last.BestScore)
	assert.Equal(t, 100, last.PopulationSize)
	assert.InDelta(t, 30.0, last.MeanScore, 1e-9)
	assert.GreaterOrEqual(t, last.Survivors, 10)
}

func TestEngine_SameSeedSameRun(t *testing.T) {
	scenario := model.Scenario{
		Container: model.Container{Width: 6, Height: 6},
		Items: []model.Item{
			model.NewItem(3, 2, 7), model.NewItem(2, 2, 4), model.NewItem(4, 1, 3),
			model.NewItem(1, 5, 6), model.NewItem(2, 3, 5), model.NewItem(5, 2, 9),
		},
	}
	run := func() model.Stats {
		e, err := NewEngine(scenario, makeTestSettings(99))
		require.NoError(t, err)
		stats := model.NewStats(scenario.Items)
		for i := 0; i < 15 && !e.Step(&stats); i++ {
		}
		return stats
	}

	a, b := run(), run()
	assert.Equal(t, a.BestSolution, b.BestSolution)
	assert.Equal(t, a.OptimaFoundAtGenerations, b.OptimaFoundAtGenerations)
}
