package classify

import (
	"fmt"
	"github.com/packagewjx/container-anomaly/pkg/core"
	"github.com/pkg/errors"
)

// 异常检测算法接口。Fit只使用特征，不使用标签。
type Detector interface {
	Fit(data [][]float64) error
	// Score 越小越异常
	Score(x []float64) (float64, error)
	Predict(x []float64) (Outlier, error)
}

type AlgorithmType string

const (
	IsolationForestType = AlgorithmType("iforest")
)

func GetDetector(algorithmType AlgorithmType, context interface{}) (Detector, error) {
	switch algorithmType {
	case IsolationForestType:
		params := DefaultForestParams()
		if context != nil {
			p, ok := context.(*ForestParams)
			if !ok {
				return nil, fmt.Errorf("输入的context不是ForestParams类型")
			}
			params = *p
		}
		return NewIsolationForest(params)
	default:
		return nil, fmt.Errorf("不支持的算法%s", algorithmType)
	}
}

// Outlier 检测结果，与常见实现一致：1为正常，-1为异常
type Outlier int

const (
	Inlier  = Outlier(1)
	Anomaly = Outlier(-1)
)

// Label 将检测结果转换为数据集的标签：-1（异常）对应1，1（正常）对应0
func (o Outlier) Label() int {
	if o == Anomaly {
		return core.LabelAnomaly
	}
	return core.LabelNormal
}

func (o Outlier) String() string {
	if o == Anomaly {
		return core.ResultAnomaly
	}
	return core.ResultNormal
}

var ErrNotFitted = errors.New("模型尚未训练")

var ErrFeatureWidth = errors.New("特征数量不一致")

// PredictLabels 对每一行预测并转换为标签
func PredictLabels(d Detector, data [][]float64) ([]int, error) {
	labels := make([]int, len(data))
	for i, x := range data {
		o, err := d.Predict(x)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("预测第%d行出错", i))
		}
		labels[i] = o.Label()
	}
	return labels, nil
}
