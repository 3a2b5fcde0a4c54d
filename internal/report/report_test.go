package report

import (
	"github.com/stretchr/testify/assert"
	"strings"
	"testing"
)

func TestClassificationReport(t *testing.T) {
	yTrue := []int{0, 0, 0, 1, 1}
	yPred := []int{0, 0, 1, 1, 0}
	report, err := ClassificationReport(yTrue, yPred)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(report.Classes))
	assert.InDelta(t, 0.6, report.Accuracy, 1e-9)

	normal := report.Class(0)
	assert.InDelta(t, 2.0/3, normal.Precision, 1e-9)
	assert.InDelta(t, 2.0/3, normal.Recall, 1e-9)
	assert.InDelta(t, 2.0/3, normal.F1, 1e-9)
	assert.Equal(t, 3, normal.Support)

	anomaly := report.Class(1)
	assert.InDelta(t, 0.5, anomaly.Precision, 1e-9)
	assert.InDelta(t, 0.5, anomaly.Recall, 1e-9)
	assert.Equal(t, 2, anomaly.Support)

	assert.InDelta(t, (2.0/3+0.5)/2, report.MacroAvg.F1, 1e-9)
	assert.InDelta(t, 0.6, report.WeightedAvg.F1, 1e-9)
	assert.Equal(t, 5, report.WeightedAvg.Support)
	assert.Nil(t, report.Class(2))
}

func TestClassificationReportZeroDivision(t *testing.T) {
	// 从未预测为1
	report, err := ClassificationReport([]int{0, 0, 1}, []int{0, 0, 0})
	assert.NoError(t, err)
	anomaly := report.Class(1)
	assert.Equal(t, float64(0), anomaly.Precision)
	assert.Equal(t, float64(0), anomaly.Recall)
	assert.Equal(t, float64(0), anomaly.F1)
}

func TestClassificationReportErrors(t *testing.T) {
	_, err := ClassificationReport([]int{0, 1}, []int{0})
	assert.Error(t, err)
	_, err = ClassificationReport(nil, nil)
	assert.Error(t, err)
}

func TestReportString(t *testing.T) {
	report, err := ClassificationReport([]int{0, 0, 0, 1, 1}, []int{0, 0, 1, 1, 0})
	assert.NoError(t, err)

	sp := func(n int) string {
		return strings.Repeat(" ", n)
	}
	expected := sp(14) + "precision" + sp(4) + "recall" + sp(2) + "f1-score" + sp(3) + "support\n" +
		"\n" +
		sp(11) + "0" + sp(7) + "0.67" + sp(6) + "0.67" + sp(6) + "0.67" + sp(9) + "3\n" +
		sp(11) + "1" + sp(7) + "0.50" + sp(6) + "0.50" + sp(6) + "0.50" + sp(9) + "2\n" +
		"\n" +
		sp(4) + "accuracy" + sp(27) + "0.60" + sp(9) + "5\n" +
		sp(3) + "macro avg" + sp(7) + "0.58" + sp(6) + "0.58" + sp(6) + "0.58" + sp(9) + "5\n" +
		"weighted avg" + sp(7) + "0.60" + sp(6) + "0.60" + sp(6) + "0.60" + sp(9) + "5\n"
	assert.Equal(t, expected, report.String())
}
