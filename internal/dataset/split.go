package dataset

import (
	"fmt"
	"github.com/packagewjx/container-anomaly/pkg/core"
	"math"
	"math/rand"
)

const (
	DefaultTestSize  = 0.2
	DefaultSplitSeed = 42
)

// Split 将数据随机划分为训练集和测试集。测试集数量为ceil(testSize*n)。
// 相同的seed总是得到相同的划分。
func Split(rows []*core.MetricRow, testSize float64, seed int64) (train, test []*core.MetricRow, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("测试集比例应该在0到1之间，现在为%f", testSize)
	}
	n := len(rows)
	numTest := int(math.Ceil(testSize * float64(n)))
	numTrain := n - numTest
	if numTest == 0 || numTrain == 0 {
		return nil, nil, fmt.Errorf("%d条数据无法按%.2f的比例划分", n, testSize)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	test = make([]*core.MetricRow, numTest)
	for i := 0; i < numTest; i++ {
		test[i] = rows[perm[i]]
	}
	train = make([]*core.MetricRow, numTrain)
	for i := 0; i < numTrain; i++ {
		train[i] = rows[perm[numTest+i]]
	}

	return train, test, nil
}
