package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/packga/internal/model"
)

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := model.DefaultAppConfig()
	cfg.Genetic.Seed = 42
	cfg.Genetic.MaxGenerations = 500
	cfg.Output.Image = "out.pdf"
	cfg.Logging.Format = "json"
	cfg.Metrics.Addr = ":9100"

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded != cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadConfig_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != model.DefaultAppConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "genetic:\n  seed: 7\n  population_size: 40\nlogging:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Genetic.Seed != 7 || cfg.Genetic.PopulationSize != 40 {
		t.Errorf("file values not applied: %+v", cfg.Genetic)
	}
	if cfg.Genetic.EliteCount != 11 || cfg.Genetic.OffspringRate != 0.2 {
		t.Errorf("defaults lost: %+v", cfg.Genetic)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
	if cfg.Output.Image != "solution.png" {
		t.Errorf("expected default image, got %q", cfg.Output.Image)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"syntax.yaml": "genetic: [unclosed",
		"rates.yaml":  "genetic:\n  clone_rate: 1.5\n",
	}
	for name, content := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func sampleSnapshot() (model.Scenario, model.GeneticSettings, model.Stats) {
	scenario := model.Scenario{
		Container: model.Container{Width: 10, Height: 5},
		Items:     []model.Item{model.NewItem(5, 5, 10), model.NewItem(5, 5, 20), {Label: "big", Width: 3, Height: 3, Benefit: 1000}},
	}
	stats := model.NewStats(scenario.Items)
	stats.BestSolution = model.Permutation{1, 0, 2}
	stats.BestScore = 30
	stats.BestIdentifier = stats.BestSolution.Digest()
	stats.OptimaFoundAtGenerations = []int{0}
	stats.StopReason = model.StopCancelled
	return scenario, model.DefaultGeneticSettings(), stats
}

func TestSaveAndLoadResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "result.json")
	scenario, settings, stats := sampleSnapshot()

	if err := SaveResult(path, scenario, settings, stats); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}
	snap, err := LoadResult(path)
	if err != nil {
		t.Fatalf("LoadResult failed: %v", err)
	}

	if snap.Version != SnapshotVersion {
		t.Errorf("expected version %s, got %s", SnapshotVersion, snap.Version)
	}
	if snap.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if snap.Scenario.Items[2].Label != "big" || snap.Scenario.Container.Width != 10 {
		t.Errorf("scenario mismatch: %+v", snap.Scenario)
	}
	if snap.Settings != settings {
		t.Errorf("settings mismatch: %+v", snap.Settings)
	}
	if snap.Stats.RunID != stats.RunID || snap.Stats.BestIdentifier != stats.BestIdentifier {
		t.Errorf("stats mismatch: %+v", snap.Stats)
	}
	if got := snap.Stats.BestSolution; len(got) != 3 || got[0] != 1 {
		t.Errorf("solution mismatch: %v", got)
	}
	if !snap.Stats.StartedAt.Equal(stats.StartedAt) {
		t.Errorf("StartedAt mismatch: %v vs %v", snap.Stats.StartedAt, stats.StartedAt)
	}
}

func TestLoadResult_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing file", filepath.Join(dir, "nope.json"), "read"},
		{"invalid json", write("bad.json", "{not json}"), "parse"},
		{"no version", write("nover.json", `{"scenario":{}}`), "version"},
		{"bad solution", write("sol.json", `{"version":"1.0.0","scenario":{"items":[{"width":1,"height":1,"benefit":1}]},"stats":{"best_solution":[0,0]}}`), "solution"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadResult(tt.path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
