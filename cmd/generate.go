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
	"fmt"
	"github.com/packagewjx/container-anomaly/internal/config"
	"github.com/packagewjx/container-anomaly/internal/dataset"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	SamplesFlag     = "samples"
	AnomalyProbFlag = "anomaly-prob"
	SeedFlag        = "seed"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [outputFile]",
	Short: "生成带标签的合成资源使用数据，保存为CSV文件",
	Long: "每一行以anomaly-prob的概率从异常区间取值（CPU与内存80-100，磁盘与网络IO 500-1000），\n" +
		"否则从正常区间取值（CPU与内存0-70，磁盘与网络IO 50-200）。输出文件默认为container_metrics.csv",
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

		logger.Info("生成数据中",
			zap.Int("samples", conf.Generate.Samples),
			zap.Float64("anomalyProb", conf.Generate.AnomalyProb))
		rows, err := dataset.Generate(conf.GeneratorConfig())
		if err != nil {
			return errors.Wrap(err, "生成数据出错")
		}

		n, err := dataset.WriteFile(conf.Data.File, rows)
		if err != nil {
			return errors.Wrap(err, fmt.Sprintf("写入文件%s出错", conf.Data.File))
		}
		logger.Info("写入数据完成", zap.Int("rows", len(rows)), zap.Uint64("bytes", n))

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Dataset generated and saved as %s\n", conf.Data.File)
		return err
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntP(SamplesFlag, "n", dataset.DefaultNumSamples,
		"生成的行数")
	generateCmd.Flags().Float64P(AnomalyProbFlag, "p", dataset.DefaultAnomalyProb,
		"每一行为异常数据的概率")
	generateCmd.Flags().Int64(SeedFlag, 0,
		"随机数种子。为0时使用当前时间")

	bindFlag(generateCmd.Flags().Lookup(SamplesFlag), config.KeyGenerateSamples)
	bindFlag(generateCmd.Flags().Lookup(AnomalyProbFlag), config.KeyGenerateAnomalyProb)
	bindFlag(generateCmd.Flags().Lookup(SeedFlag), config.KeyGenerateSeed)
}
