package detect

import (
	"fmt"
	"github.com/pkg/errors"
	"regexp"
	"strconv"
	"strings"
)

var sizePattern = regexp.MustCompile(`([0-9.]+)\s*([a-zA-Z]+)`)

// 各单位换算到kB的倍数
var kilobyteMultiplier = map[string]float64{
	"B":   1.0 / 1000.0,
	"kB":  1,
	"KB":  1,
	"KiB": 1,
	"MB":  1024,
	"MiB": 1024,
	"GB":  1024 * 1024,
	"GiB": 1024 * 1024,
	"TB":  1024 * 1024 * 1024,
	"TiB": 1024 * 1024 * 1024,
}

// ParsePercent 解析"45.2%"形式的百分比
func ParsePercent(value string) (float64, error) {
	cleaned := strings.TrimRight(strings.TrimSpace(value), "%")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, errors.Wrap(err, fmt.Sprintf("百分比格式错误：%s", value))
	}
	return f, nil
}

// ParseKilobytes 将"3.215MiB"形式的大小转换为kB。
// 对于"1.2MB / 3kB"形式的IO数据，只取第一个值（读取或接收）。
func ParseKilobytes(value string) (float64, error) {
	matches := sizePattern.FindStringSubmatch(value)
	if len(matches) != 3 {
		return 0, fmt.Errorf("IO数据格式错误：%s", value)
	}

	f, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, errors.Wrap(err, fmt.Sprintf("IO数值错误：%s", value))
	}
	multiplier, ok := kilobyteMultiplier[matches[2]]
	if !ok {
		return 0, fmt.Errorf("不支持的IO单位：%s", matches[2])
	}
	return f * multiplier, nil
}
