package model

import (
	"errors"
	"fmt"
)

// GeneticSettings holds the numeric contracts of the genetic search.
// The defaults are the tuned values; changing them changes the search.
type GeneticSettings struct {
	PopulationSize      int     `yaml:"population_size" json:"population_size"`             // Target size of every generation
	MinSurvivors        int     `yaml:"min_survivors" json:"min_survivors"`                 // Survivors kept regardless of the stddev cut
	EliteCount          int     `yaml:"elite_count" json:"elite_count"`                     // Survivors copied verbatim into the next pool
	CloneRate           float64 `yaml:"clone_rate" json:"clone_rate"`                       // Chance a survivor is cloned again per pass
	OffspringRate       float64 `yaml:"offspring_rate" json:"offspring_rate"`               // Chance a survivor breeds per pass
	CrossoverSwitchRate float64 `yaml:"crossover_switch_rate" json:"crossover_switch_rate"` // Chance crossover switches parent after each read
	MutationSkipRate    float64 `yaml:"mutation_skip_rate" json:"mutation_skip_rate"`       // Chance an individual is left unmutated
	GeneKeepRate        float64 `yaml:"gene_keep_rate" json:"gene_keep_rate"`               // Chance a position is left alone during mutation

	Seed           int64 `yaml:"seed" json:"seed"`                       // 0 picks a time-based seed
	MaxGenerations int   `yaml:"max_generations" json:"max_generations"` // 0 runs until optimum or stop
}

// DefaultGeneticSettings returns the tuned search parameters.
func DefaultGeneticSettings() GeneticSettings {
	return GeneticSettings{
		PopulationSize:      100,
		MinSurvivors:        10,
		EliteCount:          11,
		CloneRate:           0.01,
		OffspringRate:       0.2,
		CrossoverSwitchRate: 0.1,
		MutationSkipRate:    0.9,
		GeneKeepRate:        0.8,
	}
}

// Validate rejects settings the engine cannot run with.
func (g GeneticSettings) Validate() error {
	var errs []error
	if g.PopulationSize <= 0 {
		errs = append(errs, fmt.Errorf("population_size must be positive, got %d", g.PopulationSize))
	}
	if g.MinSurvivors <= 0 {
		errs = append(errs, fmt.Errorf("min_survivors must be positive, got %d", g.MinSurvivors))
	}
	if g.EliteCount < 0 {
		errs = append(errs, fmt.Errorf("elite_count must not be negative, got %d", g.EliteCount))
	}
	if g.MaxGenerations < 0 {
		errs = append(errs, fmt.Errorf("max_generations must not be negative, got %d", g.MaxGenerations))
	}
	rates := []struct {
		name string
		v    float64
	}{
		{"clone_rate", g.CloneRate},
		{"offspring_rate", g.OffspringRate},
		{"crossover_switch_rate", g.CrossoverSwitchRate},
		{"mutation_skip_rate", g.MutationSkipRate},
		{"gene_keep_rate", g.GeneKeepRate},
	}
	for _, r := range rates {
		if r.v < 0 || r.v > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0, 1], got %g", r.name, r.v))
		}
	}
	// A lone survivor can only grow the pool through clones.
	if g.CloneRate == 0 {
		errs = append(errs, errors.New("clone_rate must be greater than zero"))
	}
	return errors.Join(errs...)
}

// OutputConfig controls artifacts written after a run.
type OutputConfig struct {
	Image         string `yaml:"image"`          // .png, .pdf or .dxf; empty disables rendering
	Snapshot      string `yaml:"snapshot"`       // JSON result snapshot path; empty disables
	HistoryDB     string `yaml:"history_db"`     // SQLite run history; empty disables
	ProgressEvery int    `yaml:"progress_every"` // Log every Nth generation
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// MetricsConfig enables the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // e.g. ":9090"; empty disables
}

// AppConfig is the full run configuration, loaded from YAML and
// overridden by command-line flags.
type AppConfig struct {
	Genetic GeneticSettings `yaml:"genetic"`
	Output  OutputConfig    `yaml:"output"`
	Logging LoggingConfig   `yaml:"logging"`
	Metrics MetricsConfig   `yaml:"metrics"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Genetic: DefaultGeneticSettings(),
		Output: OutputConfig{
			Image:         "solution.png",
			ProgressEvery: 1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
