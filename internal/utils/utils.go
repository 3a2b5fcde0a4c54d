package utils

import (
	"math"
)

// GetSortedPositionValue 返回arr排序后位于pos的值。会打乱arr的顺序
func GetSortedPositionValue(arr []float64, pos int) float64 {
	if pos < 0 || pos >= len(arr) {
		return math.NaN()
	}

	l := 0
	r := len(arr) - 1
	for idx := Partition(arr, l, r); idx != pos && l+1 < r; idx = Partition(arr, l, r) {
		if idx < pos {
			l = idx + 1
		} else if idx > pos {
			r = idx - 1
		}
	}

	return arr[pos]
}

func Partition(arr []float64, l, r int) int {
	slice := arr[l : r+1]

	if len(slice) == 0 {
		return 0
	}
	m := len(slice) / 2
	slice[0], slice[m] = slice[m], slice[0]
	pivot := slice[0]

	i := 0
	j := len(slice) - 1

	for i < j {
		for i < j && slice[j] > pivot {
			j--
		}
		slice[i] = slice[j]

		for i < j && slice[i] <= pivot {
			i++
		}
		slice[j] = slice[i]
	}
	slice[i] = pivot

	return l + i
}

// Percentile 计算第q百分位数（0<=q<=100），在相邻两个排序位置之间线性插值。
// 不修改arr。
func Percentile(arr []float64, q float64) float64 {
	if len(arr) == 0 || q < 0 || q > 100 {
		return math.NaN()
	}

	buf := make([]float64, len(arr))
	copy(buf, arr)

	rank := q / 100 * float64(len(buf)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	loVal := GetSortedPositionValue(buf, lo)
	if hi == lo {
		return loVal
	}
	// 第lo个位置确定后，左侧均不大于它，右侧均不小于它
	hiVal := GetSortedPositionValue(buf[lo+1:], hi-lo-1)
	return loVal + (hiVal-loVal)*(rank-float64(lo))
}
