package dataset

import (
	"github.com/packagewjx/container-anomaly/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestSplit(t *testing.T) {
	rows, err := Generate(&GeneratorConfig{NumSamples: 1001, AnomalyProb: 0.1, Seed: 5})
	require.NoError(t, err)

	train, test, err := Split(rows, DefaultTestSize, DefaultSplitSeed)
	assert.NoError(t, err)
	assert.Equal(t, 201, len(test))
	assert.Equal(t, 800, len(train))

	// 不重不漏
	seen := make(map[*core.MetricRow]struct{})
	for _, row := range append(append([]*core.MetricRow{}, train...), test...) {
		_, ok := seen[row]
		assert.False(t, ok)
		seen[row] = struct{}{}
	}
	assert.Equal(t, len(rows), len(seen))

	// 相同种子得到相同划分
	train2, test2, err := Split(rows, DefaultTestSize, DefaultSplitSeed)
	assert.NoError(t, err)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)

	_, test3, err := Split(rows, DefaultTestSize, 43)
	assert.NoError(t, err)
	assert.NotEqual(t, test, test3)
}

func TestSplitInvalid(t *testing.T) {
	rows := []*core.MetricRow{{}, {}}
	_, _, err := Split(rows, 0, 1)
	assert.Error(t, err)
	_, _, err = Split(rows, 1, 1)
	assert.Error(t, err)
	_, _, err = Split(rows[:1], 0.2, 1)
	assert.Error(t, err)
}
