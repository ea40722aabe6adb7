package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/piwi3910/packga/internal/model"
)

// ComparisonResult holds the outcome of one bounded run.
type ComparisonResult struct {
	Seed        int64
	BestScore   int
	Wasted      int
	Generations int
	FoundAt     int // generation of the last improvement, -1 if none
	Identifier  string
	Reason      model.StopReason
}

// CompareSeeds runs the same scenario once per seed with a fixed
// generation budget and returns the results in seed order. This shows how
// much the outcome depends on the random stream.
func CompareSeeds(scenario model.Scenario, settings model.GeneticSettings, seeds []int64) ([]ComparisonResult, error) {
	if settings.MaxGenerations <= 0 {
		return nil, errors.New("seed comparison needs a positive generation limit")
	}
	if len(seeds) == 0 {
		return nil, errors.New("no seeds to compare")
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	results := make([]ComparisonResult, 0, len(seeds))

	for _, seed := range seeds {
		s := settings
		s.Seed = seed

		e, err := NewEngine(scenario, s)
		if err != nil {
			return nil, fmt.Errorf("seed %d: %w", seed, err)
		}
		stats, err := NewController(e, model.NewStats(scenario.Items), WithLogger(quiet)).Run()
		if err != nil {
			return nil, fmt.Errorf("seed %d: %w", seed, err)
		}

		foundAt := -1
		if n := len(stats.OptimaFoundAtGenerations); n > 0 {
			foundAt = stats.OptimaFoundAtGenerations[n-1]
		}
		results = append(results, ComparisonResult{
			Seed:        seed,
			BestScore:   stats.BestScore,
			Wasted:      stats.BestWastedCells,
			Generations: stats.TotalGenerations,
			FoundAt:     foundAt,
			Identifier:  stats.BestIdentifier,
			Reason:      stats.StopReason,
		})
	}

	return results, nil
}

// BestComparison returns the result with the highest score. Ties go to
// the earlier seed.
func BestComparison(results []ComparisonResult) (ComparisonResult, bool) {
	if len(results) == 0 {
		return ComparisonResult{}, false
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.BestScore > best.BestScore {
			best = r
		}
	}
	return best, true
}
