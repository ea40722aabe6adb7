package metrics

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/packga/internal/model"
)

func TestReporter_Progress(t *testing.T) {
	r := NewReporter()
	stats := model.Stats{MaxPossibleScore: 100, BestScore: 40, BestWastedCells: 3, BestIdentifier: "a"}

	r.Progress(stats, model.GenerationSummary{Generation: 0, BestScore: 40, MeanScore: 21.5, Survivors: 12})
	r.Progress(stats, model.GenerationSummary{Generation: 1, BestScore: 38, MeanScore: 25, Survivors: 10})
	stats.BestScore, stats.BestIdentifier = 44, "b"
	r.Progress(stats, model.GenerationSummary{Generation: 2, BestScore: 44, MeanScore: 30, Survivors: 11})

	assert.Equal(t, 3.0, testutil.ToFloat64(r.generations))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.improvements))
	assert.Equal(t, 44.0, testutil.ToFloat64(r.bestScore))
	assert.Equal(t, 100.0, testutil.ToFloat64(r.maxScore))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.wastedCells))
	assert.Equal(t, 30.0, testutil.ToFloat64(r.genMean))
	assert.Equal(t, 11.0, testutil.ToFloat64(r.survivors))
}

func TestReporter_Summary(t *testing.T) {
	r := NewReporter()

	r.Summary(model.Stats{BestScore: 7, StopReason: model.StopOptimum})

	assert.Equal(t, 7.0, testutil.ToFloat64(r.bestScore))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runsFinished.WithLabelValues("optimum")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.runsFinished.WithLabelValues("cancelled")))
}

func TestReporter_SeparateRegistries(t *testing.T) {
	a, b := NewReporter(), NewReporter()
	a.Progress(model.Stats{}, model.GenerationSummary{})

	assert.Equal(t, 1.0, testutil.ToFloat64(a.generations))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.generations))
}

func TestServer_Routes(t *testing.T) {
	r := NewReporter()
	r.Progress(model.Stats{BestScore: 9}, model.GenerationSummary{})
	srv := httptest.NewServer(NewServer(":0", r.Registry(), slog.New(slog.NewTextHandler(io.Discard, nil))).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "packga_best_score 9")

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"healthy"`)
}

func TestServer_StartReportsBindFailure(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err = NewServer(busy.Addr().String(), NewReporter().Registry(), logger).Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics server")
}

func TestServer_StartServesUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, NewServer("127.0.0.1:0", NewReporter().Registry(), logger).Start(ctx))
}
