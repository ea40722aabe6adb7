package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/packga/internal/model"
)

// SnapshotVersion is written into every result snapshot.
const SnapshotVersion = "1.0.0"

// Snapshot is a self-contained record of a finished run: the scenario,
// the settings it ran with and the final statistics. Loading it is enough
// to re-render the best layout.
type Snapshot struct {
	Version   string                `json:"version"`
	CreatedAt string                `json:"created_at"`
	Scenario  model.Scenario        `json:"scenario"`
	Settings  model.GeneticSettings `json:"settings"`
	Stats     model.Stats           `json:"stats"`
}

// SaveResult writes a snapshot of the run to path as indented JSON.
func SaveResult(path string, scenario model.Scenario, settings model.GeneticSettings, stats model.Stats) error {
	snap := Snapshot{
		Version:   SnapshotVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Scenario:  scenario,
		Settings:  settings,
		Stats:     stats,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// LoadResult reads a snapshot and checks that its solution still matches
// its scenario.
func LoadResult(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if snap.Version == "" {
		return Snapshot{}, fmt.Errorf("invalid snapshot: missing version field")
	}
	if sol := snap.Stats.BestSolution; sol != nil && !sol.IsValid(len(snap.Scenario.Items)) {
		return Snapshot{}, fmt.Errorf("invalid snapshot: solution does not cover %d items", len(snap.Scenario.Items))
	}
	if snap.Stats.OptimaFoundAtGenerations == nil {
		snap.Stats.OptimaFoundAtGenerations = []int{}
	}
	return snap, nil
}
