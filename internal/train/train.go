package train

import (
	"fmt"
	"github.com/packagewjx/container-anomaly/internal/classify"
	"github.com/packagewjx/container-anomaly/internal/dataset"
	"github.com/packagewjx/container-anomaly/internal/report"
	"github.com/packagewjx/container-anomaly/internal/store"
	"github.com/packagewjx/container-anomaly/pkg/core"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"io"
)

type Config struct {
	DataFile  string
	ModelFile string
	TestSize  float64
	SplitSeed int64
	Forest    classify.ForestParams
}

// Result 一次训练的产出
type Result struct {
	Forest   *classify.IsolationForest
	Report   *report.Report
	NumTrain int
	NumTest  int
}

// TrainingRun 转换为可保存的训练记录
func (r *Result) TrainingRun(config *Config) *store.TrainingRun {
	run := &store.TrainingRun{
		DataFile:      config.DataFile,
		ModelFile:     config.ModelFile,
		NumTrain:      r.NumTrain,
		NumTest:       r.NumTest,
		Accuracy:      r.Report.Accuracy,
		NumTrees:      r.Forest.Params.NumTrees,
		MaxSamples:    r.Forest.SampleSize,
		Contamination: r.Forest.Params.Contamination,
		Offset:        r.Forest.Offset,
	}
	if m := r.Report.Class(core.LabelAnomaly); m != nil {
		run.Precision = m.Precision
		run.Recall = m.Recall
		run.F1 = m.F1
	}
	return run
}

type Trainer struct {
	config *Config
	logger *zap.Logger
}

func NewTrainer(config *Config, logger *zap.Logger) *Trainer {
	return &Trainer{
		config: config,
		logger: logger.Named("train"),
	}
}

// Fit 划分数据，只用训练集的特征训练模型，再用测试集的标签评估
func (t *Trainer) Fit(rows []*core.MetricRow) (*Result, error) {
	trainRows, testRows, err := dataset.Split(rows, t.config.TestSize, t.config.SplitSeed)
	if err != nil {
		return nil, errors.Wrap(err, "划分数据出错")
	}
	t.logger.Info("数据划分完成", zap.Int("train", len(trainRows)), zap.Int("test", len(testRows)))

	forest, err := classify.NewIsolationForest(t.config.Forest)
	if err != nil {
		return nil, err
	}
	if err = forest.Fit(dataset.FeatureMatrix(trainRows)); err != nil {
		return nil, errors.Wrap(err, "训练模型出错")
	}
	t.logger.Info("模型训练完成",
		zap.Int("trees", len(forest.Trees)),
		zap.Int("sampleSize", forest.SampleSize),
		zap.Float64("offset", forest.Offset))

	predicted, err := classify.PredictLabels(forest, dataset.FeatureMatrix(testRows))
	if err != nil {
		return nil, err
	}
	r, err := report.ClassificationReport(dataset.Labels(testRows), predicted)
	if err != nil {
		return nil, errors.Wrap(err, "评估模型出错")
	}

	return &Result{
		Forest:   forest,
		Report:   r,
		NumTrain: len(trainRows),
		NumTest:  len(testRows),
	}, nil
}

// Run 读取数据文件，训练，输出评估报告并保存模型
func (t *Trainer) Run(out io.Writer) (*Result, error) {
	t.logger.Info("读取数据中", zap.String("file", t.config.DataFile))
	rows, err := dataset.LoadFile(t.config.DataFile)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("读取数据文件%s出错", t.config.DataFile))
	}
	t.logger.Info("读取数据完成", zap.Int("rows", len(rows)))

	result, err := t.Fit(rows)
	if err != nil {
		return nil, err
	}

	if _, err = fmt.Fprintf(out, "Classification Report:\n%s\n", result.Report); err != nil {
		return nil, errors.Wrap(err, "输出报告出错")
	}

	if err = classify.SaveModel(t.config.ModelFile, result.Forest); err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("保存模型到%s出错", t.config.ModelFile))
	}
	if _, err = fmt.Fprintf(out, "Model trained and saved as %s\n", t.config.ModelFile); err != nil {
		return nil, errors.Wrap(err, "输出结果出错")
	}

	return result, nil
}
