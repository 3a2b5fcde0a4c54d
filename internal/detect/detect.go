package detect

import (
	"bufio"
	"encoding/json"
	"fmt"
	"github.com/packagewjx/container-anomaly/internal/classify"
	"github.com/packagewjx/container-anomaly/pkg/core"
	"github.com/pkg/errors"
	"io"
	"strings"
)

// DockerStats docker stats --format '{{json .}}'输出中用到的字段
type DockerStats struct {
	Container string `json:"Container"`
	Name      string `json:"Name"`
	CPUPerc   string `json:"CPUPerc"`
	MemPerc   string `json:"MemPerc"`
	BlockIO   string `json:"BlockIO"`
	NetIO     string `json:"NetIO"`
}

func ParseDockerStats(line []byte) (*DockerStats, error) {
	stats := &DockerStats{}
	if err := json.Unmarshal(line, stats); err != nil {
		return nil, errors.Wrap(err, "解析docker stats输出失败")
	}
	return stats, nil
}

// MetricRow 将各字段换算为百分比与kB
func (s *DockerStats) MetricRow() (*core.MetricRow, error) {
	cpu, err := ParsePercent(s.CPUPerc)
	if err != nil {
		return nil, errors.Wrap(err, "CPU数据错误")
	}
	memory, err := ParsePercent(s.MemPerc)
	if err != nil {
		return nil, errors.Wrap(err, "内存数据错误")
	}
	diskIO, err := ParseKilobytes(s.BlockIO)
	if err != nil {
		return nil, errors.Wrap(err, "磁盘IO数据错误")
	}
	networkIO, err := ParseKilobytes(s.NetIO)
	if err != nil {
		return nil, errors.Wrap(err, "网络IO数据错误")
	}

	return &core.MetricRow{
		CPUUsage:    cpu,
		MemoryUsage: memory,
		DiskIO:      diskIO,
		NetworkIO:   networkIO,
	}, nil
}

// Run 逐行读取docker stats的JSON输出并输出检测结果。
// 带有容器名称时输出"名称: 结果"，否则只输出结果。
func Run(detector classify.Detector, in io.Reader, out io.Writer) (numAnomaly int, err error) {
	scanner := bufio.NewScanner(in)
	lineCount := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lineCount++
		if line == "" {
			continue
		}

		stats, err := ParseDockerStats([]byte(line))
		if err != nil {
			return numAnomaly, errors.Wrap(err, fmt.Sprintf("第%d行数据错误", lineCount))
		}
		row, err := stats.MetricRow()
		if err != nil {
			return numAnomaly, errors.Wrap(err, fmt.Sprintf("第%d行数据错误", lineCount))
		}
		o, err := detector.Predict(row.Features())
		if err != nil {
			return numAnomaly, errors.Wrap(err, "预测失败")
		}
		if o == classify.Anomaly {
			numAnomaly++
		}

		name := stats.Name
		if name == "" {
			name = stats.Container
		}
		if name != "" {
			_, err = fmt.Fprintf(out, "%s: %s\n", name, o)
		} else {
			_, err = fmt.Fprintln(out, o)
		}
		if err != nil {
			return numAnomaly, errors.Wrap(err, "输出结果出错")
		}
	}
	if err := scanner.Err(); err != nil {
		return numAnomaly, errors.Wrap(err, "读取输入出错")
	}
	if lineCount == 0 {
		return 0, errors.New("没有输入数据")
	}
	return numAnomaly, nil
}
