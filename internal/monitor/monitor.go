package monitor

import (
	"context"
	"fmt"
	"github.com/packagewjx/container-anomaly/internal/classify"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"io"
	"time"
)

type Config struct {
	Interval time.Duration
	Count    int // 采样次数，为0时直到ctx结束
}

type Metrics struct {
	samples *prometheus.CounterVec
	score   prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "container_anomaly_samples_total",
			Help: "Number of sampled rows by verdict.",
		}, []string{"verdict"}),
		score: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "container_anomaly_last_score",
			Help: "Anomaly score of the latest sample. Lower is more anomalous.",
		}),
	}
	reg.MustRegister(m.samples, m.score)
	return m
}

type Monitor struct {
	config   Config
	source   Source
	detector classify.Detector
	metrics  *Metrics
	logger   *zap.Logger
}

func NewMonitor(config Config, source Source, detector classify.Detector, metrics *Metrics, logger *zap.Logger) *Monitor {
	return &Monitor{
		config:   config,
		source:   source,
		detector: detector,
		metrics:  metrics,
		logger:   logger.Named("monitor"),
	}
}

// Run 每隔Interval采样一次并输出检测结果。返回检测到的异常数量
func (m *Monitor) Run(ctx context.Context, out io.Writer) (numAnomaly int, err error) {
	if m.config.Interval <= 0 {
		return 0, fmt.Errorf("采样间隔必须为正数，现在为%s", m.config.Interval)
	}

	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	m.logger.Info("开始采样", zap.Duration("interval", m.config.Interval), zap.Int("count", m.config.Count))
	for n := 0; m.config.Count == 0 || n < m.config.Count; n++ {
		select {
		case <-ctx.Done():
			m.logger.Info("采样结束", zap.Int("samples", n))
			return numAnomaly, nil
		case now := <-ticker.C:
			o, err := m.sampleOnce(ctx, now, out)
			if err != nil {
				return numAnomaly, err
			}
			if o == classify.Anomaly {
				numAnomaly++
			}
		}
	}
	return numAnomaly, nil
}

func (m *Monitor) sampleOnce(ctx context.Context, now time.Time, out io.Writer) (classify.Outlier, error) {
	row, err := m.source.Sample(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "采样失败")
	}
	features := row.Features()
	score, err := m.detector.Score(features)
	if err != nil {
		return 0, errors.Wrap(err, "计算异常分数失败")
	}
	o, err := m.detector.Predict(features)
	if err != nil {
		return 0, errors.Wrap(err, "预测失败")
	}

	if m.metrics != nil {
		m.metrics.samples.WithLabelValues(o.String()).Inc()
		m.metrics.score.Set(score)
	}
	if o == classify.Anomaly {
		m.logger.Warn("检测到异常",
			zap.Float64("cpu", row.CPUUsage),
			zap.Float64("memory", row.MemoryUsage),
			zap.Float64("diskIO", row.DiskIO),
			zap.Float64("networkIO", row.NetworkIO),
			zap.Float64("score", score))
	}

	_, err = fmt.Fprintf(out, "%s cpu=%.2f memory=%.2f disk_io=%.2f network_io=%.2f %s\n",
		now.Format(time.RFC3339), row.CPUUsage, row.MemoryUsage, row.DiskIO, row.NetworkIO, o)
	return o, errors.Wrap(err, "输出结果出错")
}
