package core

import "reflect"

// MetricRow 容器资源使用的一条记录。前4列为特征，Label为标注。
type MetricRow struct {
	CPUUsage    float64 `json:"cpuUsage"`
	MemoryUsage float64 `json:"memoryUsage"`
	DiskIO      float64 `json:"diskIO"`
	NetworkIO   float64 `json:"networkIO"`
	Label       int     `json:"label"`
}

// Features 按表头顺序返回特征列
func (r *MetricRow) Features() []float64 {
	return []float64{r.CPUUsage, r.MemoryUsage, r.DiskIO, r.NetworkIO}
}

const (
	LabelNormal  = 0
	LabelAnomaly = 1
)

var Header = []string{"CPUUsage", "MemoryUsage", "DiskIO", "NetworkIO", "Label"}

var FeatureNames = Header[:NumFeatures]

// 除Label外的字段均为特征
var NumFeatures = reflect.TypeOf(MetricRow{}).NumField() - 1

const LineBreak = '\n'

const Splitter = ","

const (
	DefaultDataFile  = "container_metrics.csv"
	DefaultModelFile = "anomaly_model.pkl"
)

const (
	ResultAnomaly = "Anomaly Detected"
	ResultNormal  = "Normal"
)
