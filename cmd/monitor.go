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
	"context"
	"github.com/packagewjx/container-anomaly/internal/classify"
	"github.com/packagewjx/container-anomaly/internal/config"
	"github.com/packagewjx/container-anomaly/internal/monitor"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"os/signal"
	"syscall"
	"time"
)

const (
	IntervalFlag    = "interval"
	CountFlag       = "count"
	MetricsAddrFlag = "metrics-addr"
)

const shutdownTimeout = 5 * time.Second

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "定时采集本机资源使用数据并检测是否异常",
	Long: "每隔interval采集一次本机的CPU使用率、内存使用率、磁盘读取量与网络接收量（kB），\n" +
		"使用模型检测并输出结果。count为0时一直运行直到收到SIGINT或SIGTERM。\n" +
		"设置metrics-addr时在该地址提供Prometheus指标。",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		if err = conf.Monitor.Complete(); err != nil {
			return err
		}

		forest, err := classify.LoadModel(conf.Model.File)
		if err != nil {
			return errors.Wrap(err, "读取模型失败")
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sampler, err := monitor.NewHostSampler(ctx)
		if err != nil {
			return err
		}

		registry := prometheus.NewRegistry()
		metrics := monitor.NewMetrics(registry)
		var errCh <-chan error
		if conf.Monitor.MetricsAddr != "" {
			server := monitor.NewMetricsServer(conf.Monitor.MetricsAddr, registry, logger)
			errCh = server.Start()
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					logger.Warn("关闭指标服务器失败", zap.Error(err))
				}
			}()
		}

		m := monitor.NewMonitor(monitor.Config{
			Interval: conf.Monitor.Interval,
			Count:    conf.Monitor.Count,
		}, sampler, forest, metrics, logger)

		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			// 指标服务器启动失败时结束采样
			if errCh == nil {
				return
			}
			select {
			case err := <-errCh:
				if err != nil {
					logger.Error("指标服务器异常退出", zap.Error(err))
					cancel()
				}
			case <-runCtx.Done():
			}
		}()

		numAnomaly, err := m.Run(runCtx, cmd.OutOrStdout())
		logger.Info("采样结束", zap.Int("anomaly", numAnomaly))
		return err
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().DurationP(IntervalFlag, "i", 5*time.Second,
		"采样间隔，至少为1s")
	monitorCmd.Flags().IntP(CountFlag, "n", 0,
		"采样次数，为0时一直运行")
	monitorCmd.Flags().String(MetricsAddrFlag, "",
		"Prometheus指标地址，如:9100。为空时不提供")

	bindFlag(monitorCmd.Flags().Lookup(IntervalFlag), config.KeyMonitorInterval)
	bindFlag(monitorCmd.Flags().Lookup(CountFlag), config.KeyMonitorCount)
	bindFlag(monitorCmd.Flags().Lookup(MetricsAddrFlag), config.KeyMonitorMetricsAddr)
}
