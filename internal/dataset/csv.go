package dataset

import (
	"encoding/csv"
	"fmt"
	"github.com/packagewjx/container-anomaly/internal/utils"
	"github.com/packagewjx/container-anomaly/pkg/core"
	"github.com/pkg/errors"
	"io"
	"math"
	"os"
	"strconv"
)

// WriteCSV 写出表头与所有数据行
func WriteCSV(out io.Writer, rows []*core.MetricRow) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(core.Header); err != nil {
		return errors.Wrap(err, "写入表头出错")
	}

	record := make([]string, len(core.Header))
	for i, row := range rows {
		for fi, f := range row.Features() {
			record[fi] = strconv.FormatFloat(f, 'f', -1, 64)
		}
		record[core.NumFeatures] = strconv.Itoa(row.Label)
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, fmt.Sprintf("写入第%d条数据出错", i))
		}
	}

	writer.Flush()
	return errors.Wrap(writer.Error(), "写入数据错误")
}

// WriteFile 将数据写入文件，返回写入的字节数
func WriteFile(fileName string, rows []*core.MetricRow) (uint64, error) {
	fout, err := os.Create(fileName)
	if err != nil {
		return 0, errors.Wrap(err, "创建输出文件错误")
	}
	defer func() {
		_ = fout.Close()
	}()

	counter := &utils.WriterCounter{Writer: fout}
	if err = WriteCSV(counter, rows); err != nil {
		return counter.Count, err
	}
	return counter.Count, nil
}

// ReadCSV 读取WriteCSV格式的数据。第一行必须为表头
func ReadCSV(in io.Reader) ([]*core.MetricRow, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = len(core.Header)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("数据文件为空")
	} else if err != nil {
		return nil, errors.Wrap(err, "读取表头出错")
	}
	for i, name := range core.Header {
		if header[i] != name {
			return nil, fmt.Errorf("表头第%d列应为%s，实际为%s", i, name, header[i])
		}
	}

	rows := make([]*core.MetricRow, 0, 1024)
	line := 1
	var record []string
	for record, err = reader.Read(); err == nil; record, err = reader.Read() {
		line++
		row, err := recordToMetricRow(record)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("第%d行数据有误", line))
		}
		rows = append(rows, row)
	}
	if err != io.EOF {
		return nil, errors.Wrap(err, "读取数据出错")
	}

	return rows, nil
}

// LoadFile 打开并读取数据文件
func LoadFile(fileName string) ([]*core.MetricRow, error) {
	fin, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "打开csv文件出错")
	}
	defer func() {
		_ = fin.Close()
	}()

	return ReadCSV(fin)
}

func recordToMetricRow(record []string) (*core.MetricRow, error) {
	features := make([]float64, core.NumFeatures)
	for i := 0; i < core.NumFeatures; i++ {
		f, err := strconv.ParseFloat(record[i], 64)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("第%d列不是数字，数据为[%s]", i, record[i]))
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("第%d列数据无效，数据为[%s]", i, record[i])
		}
		features[i] = f
	}

	label, err := strconv.Atoi(record[core.NumFeatures])
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("标签不是整数，数据为[%s]", record[core.NumFeatures]))
	}
	if label != core.LabelNormal && label != core.LabelAnomaly {
		return nil, fmt.Errorf("标签只能为0或1，现在为%d", label)
	}

	return &core.MetricRow{
		CPUUsage:    features[0],
		MemoryUsage: features[1],
		DiskIO:      features[2],
		NetworkIO:   features[3],
		Label:       label,
	}, nil
}

// FeatureMatrix 取出所有行的特征列
func FeatureMatrix(rows []*core.MetricRow) [][]float64 {
	result := make([][]float64, len(rows))
	for i, row := range rows {
		result[i] = row.Features()
	}
	return result
}

// Labels 取出所有行的标签
func Labels(rows []*core.MetricRow) []int {
	result := make([]int, len(rows))
	for i, row := range rows {
		result[i] = row.Label
	}
	return result
}
