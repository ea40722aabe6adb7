// Package report turns run progress into log records and a final summary.
package report

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/piwi3910/packga/internal/engine"
	"github.com/piwi3910/packga/internal/model"
)

// Console logs one record per reported generation and prints a summary
// table when the run ends.
type Console struct {
	logger *slog.Logger
	out    io.Writer
	every  int
	lastID string
}

var _ engine.Reporter = (*Console)(nil)

// NewConsole logs progress every n generations. Generations that improve
// the best solution are always logged. n < 1 is treated as 1.
func NewConsole(logger *slog.Logger, out io.Writer, every int) *Console {
	if every < 1 {
		every = 1
	}
	return &Console{logger: logger, out: out, every: every}
}

// Progress logs the generation when it is due or when it brought a new best.
func (c *Console) Progress(stats model.Stats, gen model.GenerationSummary) {
	improved := stats.BestIdentifier != c.lastID
	c.lastID = stats.BestIdentifier
	if !improved && gen.Generation%c.every != 0 {
		return
	}

	c.logger.Info("generation",
		"gen", gen.Generation,
		"gen_best", gen.BestScore,
		"gen_mean", fmt.Sprintf("%.2f", gen.MeanScore),
		"survivors", gen.Survivors,
		"best", stats.BestScore,
		"best_id", stats.BestIdentifier,
		"wasted", stats.BestWastedCells,
	)
}

// Summary writes the final statistics as an aligned table.
func (c *Console) Summary(stats model.Stats) {
	WriteSummary(c.out, stats)
}

// WriteSummary prints stats as a two column table.
func WriteSummary(w io.Writer, stats model.Stats) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Run\t"+stats.RunID)
	fmt.Fprintf(tw, "Stop reason\t%s\n", stats.StopReason)
	fmt.Fprintf(tw, "Generations\t%d\n", stats.TotalGenerations)
	fmt.Fprintf(tw, "Max possible score\t%d\n", stats.MaxPossibleScore)
	fmt.Fprintf(tw, "Best score\t%d\n", stats.BestScore)
	fmt.Fprintf(tw, "Wasted cells\t%d\n", stats.BestWastedCells)
	fmt.Fprintf(tw, "Solution ID\t%s\n", stats.BestIdentifier)
	fmt.Fprintf(tw, "Improved at\t%s\n", formatGenerations(stats.OptimaFoundAtGenerations))
	fmt.Fprintf(tw, "Elapsed\t%s\n", stats.Elapsed().Round(time.Millisecond))
	tw.Flush()
}

func formatGenerations(gens []int) string {
	if len(gens) == 0 {
		return "-"
	}
	parts := make([]string, len(gens))
	for i, g := range gens {
		parts[i] = fmt.Sprint(g)
	}
	return strings.Join(parts, " ")
}

// Multi fans reports out to several reporters in order.
type Multi []engine.Reporter

func (m Multi) Progress(stats model.Stats, gen model.GenerationSummary) {
	for _, r := range m {
		r.Progress(stats, gen)
	}
}

func (m Multi) Summary(stats model.Stats) {
	for _, r := range m {
		r.Summary(stats)
	}
}
