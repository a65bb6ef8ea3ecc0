package mixture

import "math"

// LogSumExp computes log(sum(exp(data))) without overflowing.
func LogSumExp(data []float64) float64 {
	max := math.Inf(-1)
	for _, v := range data {
		max = math.Max(max, v)
	}
	if math.IsInf(max, -1) {
		return max
	}
	res := 0.0
	for i := range data {
		res += math.Exp(data[i] - max)
	}
	return math.Log(res) + max
}
