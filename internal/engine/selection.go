package engine

import (
	"slices"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/piwi3910/packga/internal/model"
)

// Scored pairs an individual with its placement score.
type Scored struct {
	Solution model.Permutation
	Score    Score
}

// Rank orders individuals best first by (Benefit, Wasted), descending.
// The slice is sorted ascending and then reversed, so on equal benefit the
// individual with more wasted cells comes first.
func Rank(scored []Scored) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score.Less(scored[j].Score)
	})
	slices.Reverse(scored)
}

// benefits extracts the benefit column as float64 for the stat package.
func benefits(scored []Scored) []float64 {
	out := make([]float64, len(scored))
	for i, s := range scored {
		out[i] = float64(s.Score.Benefit)
	}
	return out
}

// SelectSurvivors walks a ranked population from best to worst and keeps
// individuals while fewer than minSurvivors have been kept or the benefit
// is above the population standard deviation of benefit. It stops at the
// first individual that meets neither condition.
func SelectSurvivors(ranked []Scored, minSurvivors int) []model.Permutation {
	if len(ranked) == 0 {
		return nil
	}
	stddev := stat.PopStdDev(benefits(ranked), nil)

	survivors := make([]model.Permutation, 0, minSurvivors)
	for _, s := range ranked {
		if len(survivors) < minSurvivors || float64(s.Score.Benefit) > stddev {
			survivors = append(survivors, s.Solution)
			continue
		}
		break
	}
	return survivors
}
