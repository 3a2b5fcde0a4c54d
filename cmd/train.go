/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"github.com/packagewjx/container-anomaly/internal/classify"
	"github.com/packagewjx/container-anomaly/internal/config"
	"github.com/packagewjx/container-anomaly/internal/dataset"
	"github.com/packagewjx/container-anomaly/internal/store"
	"github.com/packagewjx/container-anomaly/internal/train"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	TestSizeFlag      = "test-size"
	SplitSeedFlag     = "split-seed"
	TreesFlag         = "trees"
	MaxSamplesFlag    = "max-samples"
	ContaminationFlag = "contamination"
	ForestSeedFlag    = "forest-seed"
	RecordFlag        = "record"
)

// trainCmd represents the train command
var trainCmd = &cobra.Command{
	Use:   "train [dataFile]",
	Short: "训练孤立森林模型，输出评估报告并保存模型",
	Long: "读取数据集，按test-size划分训练集与测试集，只使用训练集的特征训练孤立森林，\n" +
		"在测试集上输出分类报告，并将模型保存到model指定的文件（默认为anomaly_model.pkl）。\n" +
		"训练记录默认保存在模型文件所在目录的runs.db中，使用--record=false关闭。",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			viper.Set(config.KeyDataFile, args[0])
		}
		conf, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		trainConfig := &train.Config{
			DataFile:  conf.Data.File,
			ModelFile: conf.Model.File,
			TestSize:  conf.Train.TestSize,
			SplitSeed: conf.Train.Seed,
			Forest:    *conf.ForestParams(),
		}
		result, err := train.NewTrainer(trainConfig, logger).Run(cmd.OutOrStdout())
		if err != nil {
			return err
		}

		if conf.Store.Enabled {
			recordRun(conf, logger, result.TrainingRun(trainConfig))
		}
		return nil
	},
}

// 训练记录保存失败不影响训练结果
func recordRun(conf *config.Config, logger *zap.Logger, run *store.TrainingRun) {
	dao, err := store.NewDao(conf.Store.Driver, conf.Store.DSN, logger)
	if err != nil {
		logger.Warn("连接训练记录数据库失败", zap.Error(err))
		return
	}
	defer func() { _ = dao.Close() }()

	if err = dao.SaveTrainingRun(run); err != nil {
		logger.Warn("保存训练记录失败", zap.Error(err))
		return
	}
	logger.Info("已保存训练记录", zap.String("runId", run.RunId))
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().Float64(TestSizeFlag, dataset.DefaultTestSize,
		"测试集比例，应在0到1之间")
	trainCmd.Flags().Int64(SplitSeedFlag, dataset.DefaultSplitSeed,
		"划分数据集的随机数种子")
	trainCmd.Flags().Int(TreesFlag, classify.DefaultNumTrees,
		"孤立森林中树的数量")
	trainCmd.Flags().Int(MaxSamplesFlag, classify.DefaultMaxSamples,
		"每棵树的采样数量，超过训练集大小时使用训练集大小")
	trainCmd.Flags().Float64P(ContaminationFlag, "c", classify.DefaultContamination,
		"训练集中异常数据的比例，决定判断异常的阈值。为0时使用固定阈值")
	trainCmd.Flags().Int64(ForestSeedFlag, classify.DefaultSeed,
		"孤立森林的随机数种子")
	trainCmd.Flags().Bool(RecordFlag, true,
		"是否将本次训练记录到数据库")

	bindFlag(trainCmd.Flags().Lookup(TestSizeFlag), config.KeyTrainTestSize)
	bindFlag(trainCmd.Flags().Lookup(SplitSeedFlag), config.KeyTrainSeed)
	bindFlag(trainCmd.Flags().Lookup(TreesFlag), config.KeyForestTrees)
	bindFlag(trainCmd.Flags().Lookup(MaxSamplesFlag), config.KeyForestMaxSamples)
	bindFlag(trainCmd.Flags().Lookup(ContaminationFlag), config.KeyForestContam)
	bindFlag(trainCmd.Flags().Lookup(ForestSeedFlag), config.KeyForestSeed)
	bindFlag(trainCmd.Flags().Lookup(RecordFlag), config.KeyStoreEnabled)
}
