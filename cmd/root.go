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
	"github.com/mitchellh/go-homedir"
	"github.com/packagewjx/container-anomaly/internal/config"
	"github.com/packagewjx/container-anomaly/internal/logging"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"io"
	"os"
	"strings"
)

const (
	ConfigFlag   = "config"
	DataFlag     = "data"
	ModelFlag    = "model"
	LogLevelFlag = "log-level"
	LogFileFlag  = "log-file"
)

const defaultConfigName = ".container-anomaly"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "container-anomaly",
	Short: "容器资源使用异常检测",
	Long: "根据CPU、内存、磁盘IO与网络IO四项资源使用数据检测容器是否异常。\n" +
		"generate生成带标签的合成数据，train训练孤立森林模型并输出评估报告，predict对一组数据给出检测结果。",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	os.Exit(execute(os.Args[1:], os.Stdout))
}

// execute 运行命令，结果与错误信息都输出到out，返回退出码
func execute(args []string, out io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(out, "ERROR: %v\n", err)
		return 1
	}
	return 0
}

func init() {
	config.SetDefaults(viper.GetViper())

	rootCmd.PersistentFlags().StringVar(&cfgFile, ConfigFlag, "",
		fmt.Sprintf("配置文件路径，默认为$HOME/%s.yaml", defaultConfigName))
	rootCmd.PersistentFlags().StringP(DataFlag, "d", viper.GetString(config.KeyDataFile),
		"数据集CSV文件")
	rootCmd.PersistentFlags().StringP(ModelFlag, "m", viper.GetString(config.KeyModelFile),
		"模型文件")
	rootCmd.PersistentFlags().String(LogLevelFlag, viper.GetString(config.KeyLogLevel),
		"日志级别，可选值：debug, info, warn, error")
	rootCmd.PersistentFlags().String(LogFileFlag, "",
		"日志文件。为空时日志只输出到标准错误")

	bindFlag(rootCmd.PersistentFlags().Lookup(DataFlag), config.KeyDataFile)
	bindFlag(rootCmd.PersistentFlags().Lookup(ModelFlag), config.KeyModelFile)
	bindFlag(rootCmd.PersistentFlags().Lookup(LogLevelFlag), config.KeyLogLevel)
	bindFlag(rootCmd.PersistentFlags().Lookup(LogFileFlag), config.KeyLogFile)
}

func bindFlag(flag *pflag.Flag, key string) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return errors.Wrap(err, "获取用户目录失败")
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(defaultConfigName)
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errors.Wrap(err, "读取配置文件出错")
		}
	}
	return nil
}

// setup 读取配置并创建日志，每个子命令开始时调用
func setup() (*config.Config, *zap.Logger, error) {
	if err := initConfig(); err != nil {
		return nil, nil, err
	}
	conf, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(conf.Log)
	if err != nil {
		return nil, nil, err
	}
	if f := viper.ConfigFileUsed(); f != "" {
		logger.Debug("使用配置文件", zap.String("file", f))
	}
	return conf, logger, nil
}
