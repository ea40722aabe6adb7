// Package metrics exports run progress as Prometheus metrics and serves
// them over HTTP.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/piwi3910/packga/internal/engine"
	"github.com/piwi3910/packga/internal/model"
)

// Reporter updates Prometheus collectors from run progress. The collectors
// live on their own registry so several runs in one process do not clash.
type Reporter struct {
	registry *prometheus.Registry

	generations  prometheus.Counter
	improvements prometheus.Counter
	bestScore    prometheus.Gauge
	maxScore     prometheus.Gauge
	wastedCells  prometheus.Gauge
	genBest      prometheus.Gauge
	genMean      prometheus.Gauge
	survivors    prometheus.Gauge
	runsFinished *prometheus.CounterVec

	lastID string
}

var _ engine.Reporter = (*Reporter)(nil)

// NewReporter creates and registers the run collectors.
func NewReporter() *Reporter {
	r := &Reporter{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "packga_generations_total",
			Help: "Generations evaluated.",
		}),
		improvements: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "packga_improvements_total",
			Help: "Times a strictly better solution was found.",
		}),
		bestScore:   prometheus.NewGauge(prometheus.GaugeOpts{Name: "packga_best_score", Help: "Benefit of the best solution so far."}),
		maxScore:    prometheus.NewGauge(prometheus.GaugeOpts{Name: "packga_max_possible_score", Help: "Sum of all item benefits."}),
		wastedCells: prometheus.NewGauge(prometheus.GaugeOpts{Name: "packga_best_wasted_cells", Help: "Free cells left by the best solution."}),
		genBest:     prometheus.NewGauge(prometheus.GaugeOpts{Name: "packga_generation_best_score", Help: "Best benefit in the latest generation."}),
		genMean:     prometheus.NewGauge(prometheus.GaugeOpts{Name: "packga_generation_mean_score", Help: "Mean benefit of the latest generation."}),
		survivors:   prometheus.NewGauge(prometheus.GaugeOpts{Name: "packga_generation_survivors", Help: "Survivors selected from the latest generation."}),
		runsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "packga_runs_finished_total",
			Help: "Finished runs by stop reason.",
		}, []string{"reason"}),
	}
	r.registry.MustRegister(r.generations, r.improvements, r.bestScore, r.maxScore,
		r.wastedCells, r.genBest, r.genMean, r.survivors, r.runsFinished)
	return r
}

// Registry returns the registry holding the run collectors.
func (r *Reporter) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Reporter) Progress(stats model.Stats, gen model.GenerationSummary) {
	r.generations.Inc()
	if stats.BestIdentifier != r.lastID {
		r.improvements.Inc()
		r.lastID = stats.BestIdentifier
	}
	r.bestScore.Set(float64(stats.BestScore))
	r.maxScore.Set(float64(stats.MaxPossibleScore))
	r.wastedCells.Set(float64(stats.BestWastedCells))
	r.genBest.Set(float64(gen.BestScore))
	r.genMean.Set(gen.MeanScore)
	r.survivors.Set(float64(gen.Survivors))
}

func (r *Reporter) Summary(stats model.Stats) {
	r.bestScore.Set(float64(stats.BestScore))
	r.wastedCells.Set(float64(stats.BestWastedCells))
	r.runsFinished.WithLabelValues(string(stats.StopReason)).Inc()
}
