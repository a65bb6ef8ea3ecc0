package utils

import "math"

// FormatFloat rounds f to the given number of decimal places. NaN and
// infinities pass through unchanged.
func FormatFloat(f float64, decimals int) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	scale := math.Pow10(decimals)
	return math.Round(f*scale) / scale
}

// Linspace returns num evenly spaced points over [start, stop],
// endpoints included.
func Linspace(start, stop float64, num int) []float64 {
	if num < 2 {
		return []float64{start}
	}
	step := (stop - start) / float64(num-1)
	grid := make([]float64, num)
	for i := 0; i < num; i++ {
		grid[i] = start + float64(i)*step
	}
	return grid
}
