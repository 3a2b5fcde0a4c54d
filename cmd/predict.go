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
	"github.com/packagewjx/container-anomaly/internal/predict"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"strconv"
	"strings"
)

// predictCmd represents the predict command
var predictCmd = &cobra.Command{
	Use:   "predict cpu memory disk_io network_io",
	Short: "使用训练好的模型判断一组资源使用数据是否异常",
	Long: "读取model指定的模型文件，对输入的四个数值给出检测结果，输出Anomaly Detected或Normal。\n" +
		"出错时输出以ERROR:开头的信息，并以状态码1退出。",
	// 负数参数会被当作短参数解析，因此自行解析
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		positional, err := parsePredictArgs(cmd, args)
		if err != nil {
			return err
		}
		if help, _ := cmd.Flags().GetBool("help"); help {
			return cmd.Help()
		}

		conf, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		return predict.Run(conf.Model.File, positional, cmd.OutOrStdout())
	},
}

// parsePredictArgs 将数值与不以-开头的参数按原顺序作为位置参数，其余交给flag解析
func parsePredictArgs(cmd *cobra.Command, args []string) ([]string, error) {
	positional := make([]string, 0, len(args))
	flagArgs := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" || isNumber(arg) {
			positional = append(positional, arg)
			continue
		}

		flagArgs = append(flagArgs, arg)
		if strings.Contains(arg, "=") {
			continue
		}
		// 需要值的参数连同下一个参数一起交给flag解析
		if flag := lookupFlag(cmd.Flags(), arg); flag != nil && flag.NoOptDefVal == "" && i+1 < len(args) {
			i++
			flagArgs = append(flagArgs, args[i])
		}
	}

	if err := cmd.Flags().Parse(flagArgs); err != nil {
		return nil, err
	}
	return append(positional, cmd.Flags().Args()...), nil
}

func isNumber(arg string) bool {
	_, err := strconv.ParseFloat(arg, 64)
	return err == nil
}

// lookupFlag 查找"--name"或"-n"形式的参数，值紧跟在短参数后时返回nil
func lookupFlag(flags *pflag.FlagSet, arg string) *pflag.Flag {
	if strings.HasPrefix(arg, "--") {
		return flags.Lookup(arg[2:])
	}
	if name := arg[1:]; len(name) == 1 {
		return flags.ShorthandLookup(name)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(predictCmd)
}
