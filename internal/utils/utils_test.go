package utils

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"math"
	"math/rand"
	"sort"
	"testing"
)

func TestPartition(t *testing.T) {
	arr := []float64{3, 6, 1, 76, 2, 16, 549}
	idx := Partition(arr, 0, len(arr)-1)
	assert.Equal(t, idx, 5)
	assert.Equal(t, arr[5], float64(76))
	idx = Partition(arr, 0, idx)
	assert.Condition(t, func() (success bool) {
		return idx < 5
	})

	arr = []float64{1, 2, 3}
	idx = Partition(arr, 0, len(arr)-1)
	assert.Equal(t, idx, 1)
	assert.Equal(t, arr[1], float64(2))

	arr = []float64{}
	idx = Partition(arr, 0, len(arr)-1)
	assert.Equal(t, idx, 0)
}

func TestGetSortedPosition(t *testing.T) {
	arr := []float64{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}
	n := GetSortedPositionValue(arr, 4)
	assert.Equal(t, float64(4), n)

	arr = make([]float64, 10000)
	for i := 0; i < len(arr); i++ {
		arr[i] = rand.Float64() * 10000
	}
	p0 := GetSortedPositionValue(arr, 0)
	p1000 := GetSortedPositionValue(arr, 1000)
	p5000 := GetSortedPositionValue(arr, 5000)
	p9999 := GetSortedPositionValue(arr, 9999)
	sort.Float64s(arr)
	assert.Equal(t, arr[0], p0)
	assert.Equal(t, arr[1000], p1000)
	assert.Equal(t, arr[5000], p5000)
	assert.Equal(t, arr[9999], p9999)

	assert.True(t, math.IsNaN(GetSortedPositionValue(arr, -1)))
	assert.True(t, math.IsNaN(GetSortedPositionValue(arr, len(arr))))
}

func TestPercentile(t *testing.T) {
	arr := []float64{4, 1, 3, 2, 5}
	assert.Equal(t, float64(1), Percentile(arr, 0))
	assert.Equal(t, float64(3), Percentile(arr, 50))
	assert.Equal(t, float64(5), Percentile(arr, 100))
	assert.InDelta(t, 1.4, Percentile(arr, 10), 1e-9)
	assert.InDelta(t, 4.6, Percentile(arr, 90), 1e-9)
	// 输入顺序不变
	assert.Equal(t, []float64{4, 1, 3, 2, 5}, arr)

	arr = []float64{7, 7, 7, 7}
	assert.Equal(t, float64(7), Percentile(arr, 10))

	arr = make([]float64, 1001)
	for i := range arr {
		arr[i] = float64(1000 - i)
	}
	rand.Shuffle(len(arr), func(i, j int) {
		arr[i], arr[j] = arr[j], arr[i]
	})
	assert.InDelta(t, 100, Percentile(arr, 10), 1e-9)
	assert.InDelta(t, 250.5, Percentile(arr, 25.05), 1e-9)

	assert.True(t, math.IsNaN(Percentile(nil, 10)))
	assert.True(t, math.IsNaN(Percentile(arr, 101)))
}

func TestWriterCounter(t *testing.T) {
	out := &bytes.Buffer{}
	writer := &WriterCounter{Writer: out}
	_, _ = writer.Write([]byte("abc"))
	_, _ = writer.Write([]byte("de"))
	assert.Equal(t, uint64(5), writer.Count)
	assert.Equal(t, "abcde", out.String())
}
