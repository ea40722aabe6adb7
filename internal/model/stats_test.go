package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStatsComputesMaxPossibleScore(t *testing.T) {
	stats := NewStats([]Item{NewItem(1, 1, 10), NewItem(2, 2, 32)})

	assert.Equal(t, 42, stats.MaxPossibleScore)
	assert.Equal(t, 0, stats.BestScore)
	assert.Equal(t, 0, stats.TotalGenerations)
	assert.NotEmpty(t, stats.RunID)
	assert.NotNil(t, stats.OptimaFoundAtGenerations)
	assert.False(t, stats.OptimumReached())
}

func TestStatsCloneIsDeep(t *testing.T) {
	stats := NewStats([]Item{NewItem(1, 1, 1)})
	stats.BestSolution = Permutation{0}
	stats.OptimaFoundAtGenerations = append(stats.OptimaFoundAtGenerations, 3)

	cp := stats.Clone()
	cp.BestSolution[0] = 7
	cp.OptimaFoundAtGenerations[0] = 9

	require.Equal(t, Permutation{0}, stats.BestSolution)
	require.Equal(t, []int{3}, stats.OptimaFoundAtGenerations)
}

func TestDefaultGeneticSettingsAreValid(t *testing.T) {
	s := DefaultGeneticSettings()
	require.NoError(t, s.Validate())

	assert.Equal(t, 100, s.PopulationSize)
	assert.Equal(t, 10, s.MinSurvivors)
	assert.Equal(t, 11, s.EliteCount)
	assert.InDelta(t, 0.01, s.CloneRate, 1e-12)
	assert.InDelta(t, 0.2, s.OffspringRate, 1e-12)
	assert.InDelta(t, 0.1, s.CrossoverSwitchRate, 1e-12)
	assert.InDelta(t, 0.9, s.MutationSkipRate, 1e-12)
	assert.InDelta(t, 0.8, s.GeneKeepRate, 1e-12)
}

func TestGeneticSettingsValidateRejectsBadValues(t *testing.T) {
	s := DefaultGeneticSettings()
	s.PopulationSize = 0
	s.GeneKeepRate = 1.5
	s.MaxGenerations = -1

	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "population_size")
	assert.Contains(t, err.Error(), "gene_keep_rate")
	assert.Contains(t, err.Error(), "max_generations")
}

func TestGeneticSettingsValidateRejectsZeroCloneRate(t *testing.T) {
	s := DefaultGeneticSettings()
	s.CloneRate = 0
	s.OffspringRate = 0.5

	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clone_rate")
}

func TestDefaultAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()

	assert.Equal(t, DefaultGeneticSettings(), cfg.Genetic)
	assert.Equal(t, "solution.png", cfg.Output.Image)
	assert.Equal(t, 1, cfg.Output.ProgressEvery)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.Metrics.Addr)
}
