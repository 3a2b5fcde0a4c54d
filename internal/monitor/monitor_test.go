package monitor

import (
	"context"
	"fmt"
	"github.com/packagewjx/container-anomaly/internal/classify"
	"github.com/packagewjx/container-anomaly/internal/dataset"
	"github.com/packagewjx/container-anomaly/pkg/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"strings"
	"testing"
	"time"
)

type fakeSource struct {
	rows []*core.MetricRow
	next int
	err  error
}

func (f *fakeSource) Sample(ctx context.Context) (*core.MetricRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	row := f.rows[f.next%len(f.rows)]
	f.next++
	return row, nil
}

func trainForest(t *testing.T) *classify.IsolationForest {
	rows, err := dataset.Generate(&dataset.GeneratorConfig{NumSamples: 2000, AnomalyProb: 0.1, Seed: 41})
	require.NoError(t, err)
	forest, err := classify.NewIsolationForest(classify.DefaultForestParams())
	require.NoError(t, err)
	require.NoError(t, forest.Fit(dataset.FeatureMatrix(rows)))
	return forest
}

func TestMonitor_Run(t *testing.T) {
	source := &fakeSource{rows: []*core.MetricRow{
		{CPUUsage: 35, MemoryUsage: 35, DiskIO: 125, NetworkIO: 125},
		{CPUUsage: 100, MemoryUsage: 100, DiskIO: 1000, NetworkIO: 1000},
	}}
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	m := NewMonitor(Config{Interval: time.Millisecond, Count: 4}, source, trainForest(t), metrics, zap.NewNop())

	builder := &strings.Builder{}
	numAnomaly, err := m.Run(context.Background(), builder)
	assert.NoError(t, err)
	assert.Equal(t, 2, numAnomaly)

	lines := strings.Split(strings.TrimSpace(builder.String()), "\n")
	assert.Equal(t, 4, len(lines))
	assert.True(t, strings.HasSuffix(lines[0], " Normal"))
	assert.True(t, strings.HasSuffix(lines[1], " Anomaly Detected"))
	assert.Contains(t, lines[1], "cpu=100.00 memory=100.00 disk_io=1000.00 network_io=1000.00")

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.samples.WithLabelValues(core.ResultAnomaly)))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.samples.WithLabelValues(core.ResultNormal)))
}

func TestMonitor_RunCancel(t *testing.T) {
	source := &fakeSource{rows: []*core.MetricRow{{CPUUsage: 35, MemoryUsage: 35, DiskIO: 125, NetworkIO: 125}}}
	m := NewMonitor(Config{Interval: time.Hour}, source, trainForest(t), nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	numAnomaly, err := m.Run(ctx, &strings.Builder{})
	assert.NoError(t, err)
	assert.Equal(t, 0, numAnomaly)
}

func TestMonitor_RunErrors(t *testing.T) {
	forest := trainForest(t)
	m := NewMonitor(Config{Interval: time.Millisecond, Count: 1}, &fakeSource{err: fmt.Errorf("boom")}, forest, nil, zap.NewNop())
	_, err := m.Run(context.Background(), &strings.Builder{})
	assert.Error(t, err)

	m = NewMonitor(Config{Interval: 0}, &fakeSource{}, forest, nil, zap.NewNop())
	_, err = m.Run(context.Background(), &strings.Builder{})
	assert.Error(t, err)
}

func TestKilobytesDelta(t *testing.T) {
	assert.Equal(t, 1.5, kilobytesDelta(1000, 2500))
	assert.Equal(t, float64(0), kilobytesDelta(2500, 1000))
}
