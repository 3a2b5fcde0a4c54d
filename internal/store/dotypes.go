package store

import "gorm.io/gorm"

type TrainingRunDO struct {
	gorm.Model
	RunId         string `gorm:"uniqueIndex;type:VARCHAR(36)"`
	DataFile      string `gorm:"type:VARCHAR(1024)"`
	ModelFile     string `gorm:"type:VARCHAR(1024)"`
	NumTrain      int
	NumTest       int
	Accuracy      float64
	Precision     float64
	Recall        float64
	F1            float64
	NumTrees      int
	MaxSamples    int
	Contamination float64
	Offset        float64
}

func fromTrainingRun(run *TrainingRun) *TrainingRunDO {
	return &TrainingRunDO{
		RunId:         run.RunId,
		DataFile:      run.DataFile,
		ModelFile:     run.ModelFile,
		NumTrain:      run.NumTrain,
		NumTest:       run.NumTest,
		Accuracy:      run.Accuracy,
		Precision:     run.Precision,
		Recall:        run.Recall,
		F1:            run.F1,
		NumTrees:      run.NumTrees,
		MaxSamples:    run.MaxSamples,
		Contamination: run.Contamination,
		Offset:        run.Offset,
	}
}

func (do *TrainingRunDO) toTrainingRun() *TrainingRun {
	return &TrainingRun{
		RunId:         do.RunId,
		DataFile:      do.DataFile,
		ModelFile:     do.ModelFile,
		NumTrain:      do.NumTrain,
		NumTest:       do.NumTest,
		Accuracy:      do.Accuracy,
		Precision:     do.Precision,
		Recall:        do.Recall,
		F1:            do.F1,
		NumTrees:      do.NumTrees,
		MaxSamples:    do.MaxSamples,
		Contamination: do.Contamination,
		Offset:        do.Offset,
		CreatedAt:     do.CreatedAt,
	}
}
