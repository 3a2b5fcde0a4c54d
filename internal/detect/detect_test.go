package detect

import (
	"github.com/packagewjx/container-anomaly/internal/classify"
	"github.com/packagewjx/container-anomaly/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestParsePercent(t *testing.T) {
	f, err := ParsePercent("45.25%")
	assert.NoError(t, err)
	assert.Equal(t, 45.25, f)
	f, err = ParsePercent(" 3 ")
	assert.NoError(t, err)
	assert.Equal(t, float64(3), f)
	_, err = ParsePercent("--")
	assert.Error(t, err)
}

func TestParseKilobytes(t *testing.T) {
	cases := map[string]float64{
		"500B":           0.5,
		"12kB":           12,
		"3.5MiB":         3.5 * 1024,
		"2MB / 1GB":      2 * 1024,
		"1GiB":           1024 * 1024,
		"0.5TB":          0.5 * 1024 * 1024 * 1024,
		"  7.25 kB / 0B": 7.25,
	}
	for input, expect := range cases {
		f, err := ParseKilobytes(input)
		assert.NoError(t, err, input)
		assert.InDelta(t, expect, f, 1e-9, input)
	}

	_, err := ParseKilobytes("12")
	assert.Error(t, err)
	_, err = ParseKilobytes("12PB")
	assert.Error(t, err)
	_, err = ParseKilobytes("..MB")
	assert.Error(t, err)
}

func TestDockerStatsMetricRow(t *testing.T) {
	stats, err := ParseDockerStats([]byte(`{"Container":"abc","Name":"web","CPUPerc":"85.50%","MemPerc":"90.00%","BlockIO":"700kB / 0B","NetIO":"1.5MB / 20kB"}`))
	require.NoError(t, err)
	row, err := stats.MetricRow()
	require.NoError(t, err)
	assert.Equal(t, 85.5, row.CPUUsage)
	assert.Equal(t, float64(90), row.MemoryUsage)
	assert.Equal(t, float64(700), row.DiskIO)
	assert.Equal(t, 1.5*1024, row.NetworkIO)

	stats.NetIO = "n/a"
	_, err = stats.MetricRow()
	assert.Error(t, err)

	_, err = ParseDockerStats([]byte("{"))
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	rows, err := dataset.Generate(&dataset.GeneratorConfig{NumSamples: 2000, AnomalyProb: 0.1, Seed: 23})
	require.NoError(t, err)
	forest, err := classify.NewIsolationForest(classify.DefaultForestParams())
	require.NoError(t, err)
	require.NoError(t, forest.Fit(dataset.FeatureMatrix(rows)))

	in := `{"Name":"busy","CPUPerc":"100%","MemPerc":"100%","BlockIO":"1000kB / 0B","NetIO":"1000kB / 0B"}` + "\n" +
		"\n" +
		`{"CPUPerc":"35%","MemPerc":"35%","BlockIO":"125kB / 0B","NetIO":"125kB / 0B"}` + "\n"
	builder := &strings.Builder{}
	numAnomaly, err := Run(forest, strings.NewReader(in), builder)
	assert.NoError(t, err)
	assert.Equal(t, 1, numAnomaly)
	assert.Equal(t, "busy: Anomaly Detected\nNormal\n", builder.String())

	_, err = Run(forest, strings.NewReader(""), builder)
	assert.Error(t, err)
	_, err = Run(forest, strings.NewReader(`{"CPUPerc":"x"}`), builder)
	assert.Error(t, err)
}
