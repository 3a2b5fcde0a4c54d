package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ClassMetrics 单个类别（或平均值）的评估指标
type ClassMetrics struct {
	Name      string  `json:"name"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

type Report struct {
	Classes     []*ClassMetrics `json:"classes"`
	Accuracy    float64         `json:"accuracy"`
	MacroAvg    *ClassMetrics   `json:"macroAvg"`
	WeightedAvg *ClassMetrics   `json:"weightedAvg"`
	Digits      int             `json:"-"`
}

const DefaultDigits = 2

// ClassificationReport 计算每个类别的precision、recall、f1与support，以及总体准确率和平均值。
// 分母为0时该指标记为0。
func ClassificationReport(yTrue, yPred []int) (*Report, error) {
	if len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("真实标签数量%d与预测标签数量%d不一致", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return nil, fmt.Errorf("没有可以评估的数据")
	}

	labelSet := make(map[int]struct{})
	for i := range yTrue {
		labelSet[yTrue[i]] = struct{}{}
		labelSet[yPred[i]] = struct{}{}
	}
	labels := make([]int, 0, len(labelSet))
	for label := range labelSet {
		labels = append(labels, label)
	}
	sort.Ints(labels)

	truePositive := make(map[int]int)
	predicted := make(map[int]int)
	actual := make(map[int]int)
	correct := 0
	for i := range yTrue {
		actual[yTrue[i]]++
		predicted[yPred[i]]++
		if yTrue[i] == yPred[i] {
			truePositive[yTrue[i]]++
			correct++
		}
	}

	report := &Report{
		Classes:     make([]*ClassMetrics, len(labels)),
		Accuracy:    float64(correct) / float64(len(yTrue)),
		MacroAvg:    &ClassMetrics{Name: "macro avg", Support: len(yTrue)},
		WeightedAvg: &ClassMetrics{Name: "weighted avg", Support: len(yTrue)},
		Digits:      DefaultDigits,
	}
	for i, label := range labels {
		m := &ClassMetrics{
			Name:      strconv.Itoa(label),
			Precision: safeDivide(truePositive[label], predicted[label]),
			Recall:    safeDivide(truePositive[label], actual[label]),
			Support:   actual[label],
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report.Classes[i] = m

		weight := float64(m.Support) / float64(len(yTrue))
		report.MacroAvg.Precision += m.Precision / float64(len(labels))
		report.MacroAvg.Recall += m.Recall / float64(len(labels))
		report.MacroAvg.F1 += m.F1 / float64(len(labels))
		report.WeightedAvg.Precision += m.Precision * weight
		report.WeightedAvg.Recall += m.Recall * weight
		report.WeightedAvg.F1 += m.F1 * weight
	}

	return report, nil
}

// Class 按名称查找类别的指标
func (r *Report) Class(label int) *ClassMetrics {
	name := strconv.Itoa(label)
	for _, m := range r.Classes {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// String 以与scikit-learn相同的文本布局输出
func (r *Report) String() string {
	width := len(r.WeightedAvg.Name)
	for _, m := range r.Classes {
		if len(m.Name) > width {
			width = len(m.Name)
		}
	}

	builder := &strings.Builder{}
	builder.WriteString(fmt.Sprintf("%*s ", width, ""))
	for _, h := range []string{"precision", "recall", "f1-score", "support"} {
		builder.WriteString(fmt.Sprintf(" %9s", h))
	}
	builder.WriteString("\n\n")
	for _, m := range r.Classes {
		r.writeRow(builder, width, m)
	}
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf("%*s  %9s %9s %9.*f %9d\n", width, "accuracy", "", "",
		r.Digits, r.Accuracy, r.WeightedAvg.Support))
	r.writeRow(builder, width, r.MacroAvg)
	r.writeRow(builder, width, r.WeightedAvg)
	return builder.String()
}

func (r *Report) writeRow(builder *strings.Builder, width int, m *ClassMetrics) {
	builder.WriteString(fmt.Sprintf("%*s  %9.*f %9.*f %9.*f %9d\n", width, m.Name,
		r.Digits, m.Precision, r.Digits, m.Recall, r.Digits, m.F1, m.Support))
}

func safeDivide(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}
