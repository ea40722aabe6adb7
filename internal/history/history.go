// Package history keeps a SQLite record of finished runs.
package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/piwi3910/packga/internal/model"
)

// timeLayout keeps stored timestamps fixed-width so they sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a run ID is not in the history.
var ErrNotFound = errors.New("run not found")

// Run is one finished run as stored in the history.
type Run struct {
	RunID           string            `db:"run_id"`
	StartedAt       time.Time         `db:"-"`
	FinishedAt      time.Time         `db:"-"`
	ContainerWidth  int               `db:"container_width"`
	ContainerHeight int               `db:"container_height"`
	ItemCount       int               `db:"item_count"`
	MaxScore        int               `db:"max_score"`
	BestScore       int               `db:"best_score"`
	WastedCells     int               `db:"wasted_cells"`
	Generations     int               `db:"generations"`
	Identifier      string            `db:"identifier"`
	StopReason      model.StopReason  `db:"stop_reason"`
	Seed            int64             `db:"seed"`
	Solution        model.Permutation `db:"-"`
	Items           []model.Item      `db:"-"`
}

// Scenario rebuilds the scenario the run searched.
func (r Run) Scenario() model.Scenario {
	return model.Scenario{
		Container: model.Container{Width: r.ContainerWidth, Height: r.ContainerHeight},
		Items:     r.Items,
	}
}

// Stats rebuilds the final statistics of the run, enough to render its
// best layout.
func (r Run) Stats() model.Stats {
	return model.Stats{
		RunID:            r.RunID,
		MaxPossibleScore: r.MaxScore,
		TotalGenerations: r.Generations,
		BestScore:        r.BestScore,
		BestWastedCells:  r.WastedCells,
		BestSolution:     r.Solution,
		BestIdentifier:   r.Identifier,
		StartedAt:        r.StartedAt,
		FinishedAt:       r.FinishedAt,
		StopReason:       r.StopReason,
	}
}

// row is the on-disk shape of Run.
type row struct {
	Run
	StartedAtText  string `db:"started_at"`
	FinishedAtText string `db:"finished_at"`
	SolutionJSON   string `db:"solution_json"`
	ItemsJSON      string `db:"items_json"`
}

// Store wraps a SQLite connection holding the run history.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate history: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		container_width INTEGER NOT NULL,
		container_height INTEGER NOT NULL,
		item_count INTEGER NOT NULL,
		max_score INTEGER NOT NULL,
		best_score INTEGER NOT NULL,
		wasted_cells INTEGER NOT NULL,
		generations INTEGER NOT NULL,
		identifier TEXT NOT NULL,
		stop_reason TEXT NOT NULL,
		seed INTEGER NOT NULL,
		solution_json TEXT NOT NULL,
		items_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Record stores a finished run. Recording the same run twice replaces the
// earlier entry.
func (s *Store) Record(scenario model.Scenario, settings model.GeneticSettings, stats model.Stats) error {
	solution := stats.BestSolution
	if solution == nil {
		solution = model.Permutation{}
	}
	solutionJSON, err := json.Marshal(solution)
	if err != nil {
		return fmt.Errorf("marshal solution: %w", err)
	}
	itemsJSON, err := json.Marshal(scenario.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	r := row{
		Run: Run{
			RunID:           stats.RunID,
			ContainerWidth:  scenario.Container.Width,
			ContainerHeight: scenario.Container.Height,
			ItemCount:       len(scenario.Items),
			MaxScore:        stats.MaxPossibleScore,
			BestScore:       stats.BestScore,
			WastedCells:     stats.BestWastedCells,
			Generations:     stats.TotalGenerations,
			Identifier:      stats.BestIdentifier,
			StopReason:      stats.StopReason,
			Seed:            settings.Seed,
		},
		StartedAtText:  stats.StartedAt.UTC().Format(timeLayout),
		FinishedAtText: stats.FinishedAt.UTC().Format(timeLayout),
		SolutionJSON:   string(solutionJSON),
		ItemsJSON:      string(itemsJSON),
	}

	_, err = s.conn.NamedExec(`
		INSERT OR REPLACE INTO runs (
			run_id, started_at, finished_at, container_width, container_height,
			item_count, max_score, best_score, wasted_cells, generations,
			identifier, stop_reason, seed, solution_json, items_json
		) VALUES (
			:run_id, :started_at, :finished_at, :container_width, :container_height,
			:item_count, :max_score, :best_score, :wasted_cells, :generations,
			:identifier, :stop_reason, :seed, :solution_json, :items_json
		)`, r)
	if err != nil {
		return fmt.Errorf("record run %s: %w", stats.RunID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	var rows []row
	if err := s.conn.Select(&rows, "SELECT * FROM runs ORDER BY started_at DESC LIMIT ?", limit); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	runs := make([]Run, 0, len(rows))
	for _, r := range rows {
		run, err := r.decode()
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// Get returns a single run by ID.
func (s *Store) Get(runID string) (Run, error) {
	var r row
	err := s.conn.Get(&r, "SELECT * FROM runs WHERE run_id = ?", runID)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", runID, err)
	}
	return r.decode()
}

// Count returns the number of recorded runs.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.conn.Get(&n, "SELECT COUNT(*) FROM runs"); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

func (r row) decode() (Run, error) {
	run := r.Run
	var err error
	if run.StartedAt, err = time.Parse(timeLayout, r.StartedAtText); err != nil {
		return Run{}, fmt.Errorf("run %s: bad started_at: %w", run.RunID, err)
	}
	if run.FinishedAt, err = time.Parse(timeLayout, r.FinishedAtText); err != nil {
		return Run{}, fmt.Errorf("run %s: bad finished_at: %w", run.RunID, err)
	}
	if err := json.Unmarshal([]byte(r.SolutionJSON), &run.Solution); err != nil {
		return Run{}, fmt.Errorf("run %s: bad solution: %w", run.RunID, err)
	}
	if err := json.Unmarshal([]byte(r.ItemsJSON), &run.Items); err != nil {
		return Run{}, fmt.Errorf("run %s: bad items: %w", run.RunID, err)
	}
	return run, nil
}
