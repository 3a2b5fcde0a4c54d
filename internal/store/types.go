package store

import "time"

// TrainingRun 一次训练的记录
type TrainingRun struct {
	RunId         string    `json:"runId"`
	DataFile      string    `json:"dataFile"`
	ModelFile     string    `json:"modelFile"`
	NumTrain      int       `json:"numTrain"`
	NumTest       int       `json:"numTest"`
	Accuracy      float64   `json:"accuracy"`
	Precision     float64   `json:"precision"` // 异常类别的precision
	Recall        float64   `json:"recall"`
	F1            float64   `json:"f1"`
	NumTrees      int       `json:"numTrees"`
	MaxSamples    int       `json:"maxSamples"`
	Contamination float64   `json:"contamination"`
	Offset        float64   `json:"offset"`
	CreatedAt     time.Time `json:"createdAt"`
}

const (
	DriverSqlite = "sqlite"
	DriverMysql  = "mysql"
)

const DefaultSqliteFile = "runs.db"
