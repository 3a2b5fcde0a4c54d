package config

import (
	"encoding/json"
	"fmt"
	"github.com/packagewjx/container-anomaly/internal/classify"
	"github.com/packagewjx/container-anomaly/internal/dataset"
	"github.com/packagewjx/container-anomaly/internal/logging"
	"github.com/packagewjx/container-anomaly/internal/store"
	"github.com/packagewjx/container-anomaly/pkg/core"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"path/filepath"
	"time"
)

// 配置项的键。命令行参数通过viper绑定到这些键上
const (
	KeyDataFile            = "data.file"
	KeyModelFile           = "model.file"
	KeyGenerateSamples     = "generate.samples"
	KeyGenerateAnomalyProb = "generate.anomaly-prob"
	KeyGenerateSeed        = "generate.seed"
	KeyTrainTestSize       = "train.test-size"
	KeyTrainSeed           = "train.seed"
	KeyForestTrees         = "forest.trees"
	KeyForestMaxSamples    = "forest.max-samples"
	KeyForestContam        = "forest.contamination"
	KeyForestSeed          = "forest.seed"
	KeyStoreEnabled        = "store.enabled"
	KeyStoreDriver         = "store.driver"
	KeyStoreDSN            = "store.dsn"
	KeyLogLevel            = "log.level"
	KeyLogFile             = "log.file"
	KeyMonitorInterval     = "monitor.interval"
	KeyMonitorCount        = "monitor.count"
	KeyMonitorMetricsAddr  = "monitor.metrics-addr"
)

const EnvPrefix = "CONTAINER_ANOMALY"

const minMonitorInterval = time.Second

type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Model    ModelConfig    `mapstructure:"model"`
	Generate GenerateConfig `mapstructure:"generate"`
	Train    TrainConfig    `mapstructure:"train"`
	Forest   ForestConfig   `mapstructure:"forest"`
	Store    StoreConfig    `mapstructure:"store"`
	Log      logging.Config `mapstructure:"log"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
}

type DataConfig struct {
	File string `mapstructure:"file"`
}

type ModelConfig struct {
	File string `mapstructure:"file"`
}

type GenerateConfig struct {
	Samples     int     `mapstructure:"samples"`
	AnomalyProb float64 `mapstructure:"anomaly-prob"`
	Seed        int64   `mapstructure:"seed"`
}

type TrainConfig struct {
	TestSize float64 `mapstructure:"test-size"`
	Seed     int64   `mapstructure:"seed"`
}

type ForestConfig struct {
	Trees         int     `mapstructure:"trees"`
	MaxSamples    int     `mapstructure:"max-samples"`
	Contamination float64 `mapstructure:"contamination"`
	Seed          int64   `mapstructure:"seed"`
}

type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Driver  string `mapstructure:"driver"`
	DSN     string `mapstructure:"dsn"`
}

type MonitorConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	Count       int           `mapstructure:"count"` // 为0时一直运行
	MetricsAddr string        `mapstructure:"metrics-addr"`
}

func (c Config) String() string {
	marshal, _ := json.Marshal(c)
	return string(marshal)
}

// SetDefaults 设置所有配置项的默认值
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDataFile, core.DefaultDataFile)
	v.SetDefault(KeyModelFile, core.DefaultModelFile)
	v.SetDefault(KeyGenerateSamples, dataset.DefaultNumSamples)
	v.SetDefault(KeyGenerateAnomalyProb, dataset.DefaultAnomalyProb)
	v.SetDefault(KeyGenerateSeed, 0)
	v.SetDefault(KeyTrainTestSize, dataset.DefaultTestSize)
	v.SetDefault(KeyTrainSeed, dataset.DefaultSplitSeed)
	v.SetDefault(KeyForestTrees, classify.DefaultNumTrees)
	v.SetDefault(KeyForestMaxSamples, classify.DefaultMaxSamples)
	v.SetDefault(KeyForestContam, classify.DefaultContamination)
	v.SetDefault(KeyForestSeed, classify.DefaultSeed)
	v.SetDefault(KeyStoreEnabled, true)
	v.SetDefault(KeyStoreDriver, store.DriverSqlite)
	v.SetDefault(KeyStoreDSN, "")

	logDefaults := logging.DefaultConfig()
	v.SetDefault(KeyLogLevel, logDefaults.Level)
	v.SetDefault(KeyLogFile, logDefaults.File)
	v.SetDefault("log.max-size", logDefaults.MaxSize)
	v.SetDefault("log.max-backups", logDefaults.MaxBackups)
	v.SetDefault("log.max-age", logDefaults.MaxAge)
	v.SetDefault("log.compress", logDefaults.Compress)

	v.SetDefault(KeyMonitorInterval, 5*time.Second)
	v.SetDefault(KeyMonitorCount, 0)
	v.SetDefault(KeyMonitorMetricsAddr, "")
}

// Load 从viper中读取配置并检查
func Load(v *viper.Viper) (*Config, error) {
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "解析配置出错")
	}
	if err := config.Complete(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Complete() error {
	if c.Data.File == "" {
		return fmt.Errorf("数据文件不能为空")
	}
	if c.Model.File == "" {
		return fmt.Errorf("模型文件不能为空")
	}
	if c.Train.TestSize <= 0 || c.Train.TestSize >= 1 {
		return fmt.Errorf("测试集比例应该在0到1之间，现在为%f", c.Train.TestSize)
	}
	if err := c.ForestParams().Complete(); err != nil {
		return err
	}
	// sqlite未指定文件时，训练记录与模型放在同一目录
	if c.Store.Driver == store.DriverSqlite && c.Store.DSN == "" {
		c.Store.DSN = filepath.Join(filepath.Dir(c.Model.File), store.DefaultSqliteFile)
	}
	return nil
}

// Complete 检查采样配置，只有monitor命令需要
func (c *MonitorConfig) Complete() error {
	if c.Interval < minMonitorInterval {
		return fmt.Errorf("采样间隔不能短于%s，现在为%s", minMonitorInterval, c.Interval)
	}
	if c.Count < 0 {
		return fmt.Errorf("采样次数不能为负数")
	}
	return nil
}

func (c *Config) ForestParams() *classify.ForestParams {
	return &classify.ForestParams{
		NumTrees:      c.Forest.Trees,
		MaxSamples:    c.Forest.MaxSamples,
		Contamination: c.Forest.Contamination,
		Seed:          c.Forest.Seed,
	}
}

func (c *Config) GeneratorConfig() *dataset.GeneratorConfig {
	return &dataset.GeneratorConfig{
		NumSamples:  c.Generate.Samples,
		AnomalyProb: c.Generate.AnomalyProb,
		Seed:        c.Generate.Seed,
	}
}
