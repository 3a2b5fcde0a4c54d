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
	"github.com/packagewjx/container-anomaly/internal/detect"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"strings"
)

const StatsFlag = "stats"

var statsLine string

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "检测docker stats输出的容器是否异常",
	Long: "读取docker stats --no-stream --format '{{json .}}'的输出，每行一个容器，\n" +
		"将CPUPerc、MemPerc、BlockIO与NetIO转换为模型的输入，输出每个容器的检测结果。\n" +
		"未指定stats时从标准输入读取。",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		forest, err := classify.LoadModel(conf.Model.File)
		if err != nil {
			return errors.Wrap(err, "读取模型失败")
		}

		in := cmd.InOrStdin()
		if statsLine != "" {
			in = strings.NewReader(statsLine)
		}
		numAnomaly, err := detect.Run(forest, in, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		logger.Debug("检测完成", zap.Int("anomaly", numAnomaly))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().StringVarP(&statsLine, StatsFlag, "s", "",
		"docker stats的JSON输出")
}
