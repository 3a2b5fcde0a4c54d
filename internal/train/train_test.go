package train

import (
	"github.com/packagewjx/container-anomaly/internal/classify"
	"github.com/packagewjx/container-anomaly/internal/dataset"
	"github.com/packagewjx/container-anomaly/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"path/filepath"
	"strings"
	"testing"
)

func newConfig(t *testing.T) *Config {
	dir := t.TempDir()
	return &Config{
		DataFile:  filepath.Join(dir, core.DefaultDataFile),
		ModelFile: filepath.Join(dir, core.DefaultModelFile),
		TestSize:  dataset.DefaultTestSize,
		SplitSeed: dataset.DefaultSplitSeed,
		Forest:    classify.DefaultForestParams(),
	}
}

func TestTrainer_Run(t *testing.T) {
	config := newConfig(t)
	rows, err := dataset.Generate(&dataset.GeneratorConfig{NumSamples: 3000, AnomalyProb: 0.1, Seed: 31})
	require.NoError(t, err)
	_, err = dataset.WriteFile(config.DataFile, rows)
	require.NoError(t, err)

	builder := &strings.Builder{}
	result, err := NewTrainer(config, zap.NewNop()).Run(builder)
	require.NoError(t, err)
	assert.Equal(t, 2400, result.NumTrain)
	assert.Equal(t, 600, result.NumTest)
	assert.Greater(t, result.Report.Accuracy, 0.9)

	output := builder.String()
	assert.True(t, strings.HasPrefix(output, "Classification Report:\n"))
	assert.Contains(t, output, "precision")
	assert.Contains(t, output, "weighted avg")
	assert.Contains(t, output, "Model trained and saved as "+config.ModelFile)

	loaded, err := classify.LoadModel(config.ModelFile)
	require.NoError(t, err)
	assert.Equal(t, result.Forest.Offset, loaded.Offset)

	run := result.TrainingRun(config)
	assert.Equal(t, config.DataFile, run.DataFile)
	assert.Equal(t, 600, run.NumTest)
	assert.Equal(t, result.Report.Class(core.LabelAnomaly).F1, run.F1)
}

func TestTrainer_FitDeterministic(t *testing.T) {
	config := newConfig(t)
	rows, err := dataset.Generate(&dataset.GeneratorConfig{NumSamples: 1000, AnomalyProb: 0.1, Seed: 32})
	require.NoError(t, err)

	trainer := NewTrainer(config, zap.NewNop())
	a, err := trainer.Fit(rows)
	require.NoError(t, err)
	b, err := trainer.Fit(rows)
	require.NoError(t, err)
	assert.Equal(t, a.Report, b.Report)
	assert.Equal(t, a.Forest.Offset, b.Forest.Offset)
}

func TestTrainer_RunErrors(t *testing.T) {
	config := newConfig(t)
	_, err := NewTrainer(config, zap.NewNop()).Run(&strings.Builder{})
	assert.Error(t, err)

	config.Forest.NumTrees = 0
	rows, _ := dataset.Generate(&dataset.GeneratorConfig{NumSamples: 100, AnomalyProb: 0.1, Seed: 1})
	_, err = NewTrainer(config, zap.NewNop()).Fit(rows)
	assert.Error(t, err)
}
