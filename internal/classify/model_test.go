package classify

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadModel(t *testing.T) {
	data := generateData(t, 1000, 9)
	forest, err := NewIsolationForest(DefaultForestParams())
	require.NoError(t, err)
	require.NoError(t, forest.Fit(data))

	fileName := filepath.Join(t.TempDir(), "model.pkl")
	require.NoError(t, SaveModel(fileName, forest))

	loaded, err := LoadModel(fileName)
	require.NoError(t, err)
	assert.Equal(t, forest.Params, loaded.Params)
	assert.Equal(t, forest.Offset, loaded.Offset)
	assert.Equal(t, forest.SampleSize, loaded.SampleSize)
	for _, x := range data[:100] {
		expect, _ := forest.Score(x)
		actual, err := loaded.Score(x)
		assert.NoError(t, err)
		assert.Equal(t, expect, actual)
	}
}

func TestLoadModelErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadModel(filepath.Join(dir, "missing.pkl"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.pkl")
	require.NoError(t, os.WriteFile(bad, []byte("not a model"), 0644))
	_, err = LoadModel(bad)
	assert.Error(t, err)

	truncated := filepath.Join(dir, "truncated.pkl")
	require.NoError(t, os.WriteFile(truncated, []byte(modelMagic), 0644))
	_, err = LoadModel(truncated)
	assert.Error(t, err)

	_, err = ReadModel(bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestSaveUnfittedModel(t *testing.T) {
	forest, _ := NewIsolationForest(DefaultForestParams())
	err := SaveModel(filepath.Join(t.TempDir(), "model.pkl"), forest)
	assert.Equal(t, ErrNotFitted, err)
}
