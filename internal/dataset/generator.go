package dataset

import (
	"fmt"
	"github.com/packagewjx/container-anomaly/pkg/core"
	"math/rand"
	"time"
)

// Range 均匀分布的取值区间[Low, High)
type Range struct {
	Low  float64
	High float64
}

func (r Range) sample(rnd *rand.Rand) float64 {
	return r.Low + rnd.Float64()*(r.High-r.Low)
}

func (r Range) Contains(f float64) bool {
	return f >= r.Low && f <= r.High
}

// Regime 一种数据生成模式。每一列独立地从对应区间中均匀采样
type Regime struct {
	CPU       Range
	Memory    Range
	DiskIO    Range
	NetworkIO Range
	Label     int
}

var NormalRegime = Regime{
	CPU:       Range{0, 70},
	Memory:    Range{0, 70},
	DiskIO:    Range{50, 200},
	NetworkIO: Range{50, 200},
	Label:     core.LabelNormal,
}

var AnomalousRegime = Regime{
	CPU:       Range{80, 100},
	Memory:    Range{80, 100},
	DiskIO:    Range{500, 1000},
	NetworkIO: Range{500, 1000},
	Label:     core.LabelAnomaly,
}

// Contains 判断一行数据是否完全落在本模式的区间内，且标签一致
func (g Regime) Contains(row *core.MetricRow) bool {
	return g.Label == row.Label &&
		g.CPU.Contains(row.CPUUsage) &&
		g.Memory.Contains(row.MemoryUsage) &&
		g.DiskIO.Contains(row.DiskIO) &&
		g.NetworkIO.Contains(row.NetworkIO)
}

func (g Regime) sample(rnd *rand.Rand) *core.MetricRow {
	return &core.MetricRow{
		CPUUsage:    g.CPU.sample(rnd),
		MemoryUsage: g.Memory.sample(rnd),
		DiskIO:      g.DiskIO.sample(rnd),
		NetworkIO:   g.NetworkIO.sample(rnd),
		Label:       g.Label,
	}
}

const (
	DefaultNumSamples  = 50000
	DefaultAnomalyProb = 0.1
)

type GeneratorConfig struct {
	NumSamples  int     // 生成的行数
	AnomalyProb float64 // 每行选择异常模式的概率
	Seed        int64   // 随机种子。为0时使用当前时间
}

func (c *GeneratorConfig) Complete() error {
	if c.NumSamples <= 0 {
		return fmt.Errorf("样本数量必须为正数，现在为%d", c.NumSamples)
	}
	if c.AnomalyProb < 0 || c.AnomalyProb > 1 {
		return fmt.Errorf("异常概率应该在0到1之间，现在为%f", c.AnomalyProb)
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return nil
}

// Generate 生成NumSamples行数据，每一行先做一次伯努利试验决定使用正常还是异常模式
func Generate(config *GeneratorConfig) ([]*core.MetricRow, error) {
	if err := config.Complete(); err != nil {
		return nil, err
	}

	rnd := rand.New(rand.NewSource(config.Seed))
	rows := make([]*core.MetricRow, config.NumSamples)
	for i := 0; i < len(rows); i++ {
		if rnd.Float64() < config.AnomalyProb {
			rows[i] = AnomalousRegime.sample(rnd)
		} else {
			rows[i] = NormalRegime.sample(rnd)
		}
	}

	return rows, nil
}
