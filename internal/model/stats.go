package model

import (
	"time"

	"github.com/google/uuid"
)

// StopReason records why a run ended.
type StopReason string

const (
	StopNone            StopReason = ""
	StopOptimum         StopReason = "optimum"          // Best score reached the sum of all benefits
	StopCancelled       StopReason = "cancelled"        // Operator requested a stop
	StopGenerationLimit StopReason = "generation-limit" // Configured generation budget used up
)

// Stats is the run-lifetime record of the search. It is owned by the
// compute loop while the run is active and handed to reporters afterwards.
type Stats struct {
	RunID                    string      `json:"run_id"`
	MaxPossibleScore         int         `json:"max_possible_score"`
	TotalGenerations         int         `json:"total_generations"`
	BestScore                int         `json:"best_score"`
	BestWastedCells          int         `json:"best_wasted_cells"`
	BestSolution             Permutation `json:"best_solution"`
	BestIdentifier           string      `json:"best_identifier"`
	OptimaFoundAtGenerations []int       `json:"optima_found_at_generations"`
	StartedAt                time.Time   `json:"started_at"`
	FinishedAt               time.Time   `json:"finished_at,omitempty"`
	StopReason               StopReason  `json:"stop_reason,omitempty"`
}

// NewStats initializes run statistics for the given items.
func NewStats(items []Item) Stats {
	return Stats{
		RunID:                    uuid.New().String(),
		MaxPossibleScore:         Scenario{Items: items}.MaxPossibleScore(),
		OptimaFoundAtGenerations: []int{},
		StartedAt:                time.Now().UTC(),
	}
}

// OptimumReached reports whether the best score equals the theoretical maximum.
func (s Stats) OptimumReached() bool {
	return s.MaxPossibleScore > 0 && s.BestScore == s.MaxPossibleScore
}

// Elapsed returns the run duration, up to now if the run has not finished.
func (s Stats) Elapsed() time.Duration {
	if s.FinishedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Clone returns a deep copy so the receiver can keep mutating the original.
func (s Stats) Clone() Stats {
	cp := s
	cp.BestSolution = s.BestSolution.Clone()
	cp.OptimaFoundAtGenerations = append([]int(nil), s.OptimaFoundAtGenerations...)
	return cp
}

// GenerationSummary describes a single evaluated generation.
type GenerationSummary struct {
	Generation     int     `json:"generation"`
	BestScore      int     `json:"best_score"`
	BestWasted     int     `json:"best_wasted"`
	MeanScore      float64 `json:"mean_score"`
	Survivors      int     `json:"survivors"`
	PopulationSize int     `json:"population_size"`
}
