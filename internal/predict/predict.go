package predict

import (
	"fmt"
	"github.com/packagewjx/container-anomaly/internal/classify"
	"github.com/packagewjx/container-anomaly/pkg/core"
	"github.com/pkg/errors"
	"io"
	"math"
	"strconv"
)

var ErrArgCount = fmt.Errorf("需要%d个参数：cpu memory disk_io network_io", core.NumFeatures)

// ParseFeatures 将命令行参数解析为特征。参数必须恰好为4个数字
func ParseFeatures(args []string) ([]float64, error) {
	if len(args) != core.NumFeatures {
		return nil, errors.Wrap(ErrArgCount, fmt.Sprintf("实际为%d个", len(args)))
	}

	features := make([]float64, len(args))
	for i, arg := range args {
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%s不是数字", core.FeatureNames[i]))
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%s的值%s无效", core.FeatureNames[i], arg)
		}
		features[i] = f
	}
	return features, nil
}

// Classify 对一行特征做一次预测
func Classify(detector classify.Detector, features []float64) (classify.Outlier, error) {
	o, err := detector.Predict(features)
	if err != nil {
		return 0, errors.Wrap(err, "预测失败")
	}
	return o, nil
}

// Run 读取模型，解析参数并输出预测结果："Anomaly Detected"或"Normal"
func Run(modelFile string, args []string, out io.Writer) error {
	forest, err := classify.LoadModel(modelFile)
	if err != nil {
		return errors.Wrap(err, "读取模型失败")
	}

	features, err := ParseFeatures(args)
	if err != nil {
		return errors.Wrap(err, "参数转换失败")
	}

	o, err := Classify(forest, features)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, o.String())
	return err
}
