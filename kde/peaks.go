package kde

import (
	"math"
	"sort"

	"github.com/zhaokai2014/wgd/model"
)

// FindPeaks locates local maxima of a density curve. A grid index i is
// a candidate when density[i] rises above both neighbors and clears the
// relative height threshold thres, normalized over the curve's range.
// Candidates closer than minDist indices are thinned, higher peak wins.
func FindPeaks(grid, density []float64, thres float64, minDist int) []model.Peak {
	if len(density) < 3 {
		return nil
	}

	min, max := density[0], density[0]
	for _, v := range density[1:] {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	thresAbs := thres*(max-min) + min

	candidates := []int{}
	for i := 1; i < len(density)-1; i++ {
		if density[i] > density[i-1] && density[i] > density[i+1] && density[i] > thresAbs {
			candidates = append(candidates, i)
		}
	}

	if minDist > 1 && len(candidates) > 1 {
		candidates = thinPeaks(density, candidates, minDist)
	}

	peaks := make([]model.Peak, 0, len(candidates))
	for _, i := range candidates {
		peaks = append(peaks, model.Peak{X: grid[i], Density: density[i]})
	}
	return peaks
}

// thinPeaks keeps the highest candidate of every cluster closer than
// minDist, scanning candidates in decreasing height order.
func thinPeaks(density []float64, candidates []int, minDist int) []int {
	byHeight := append([]int(nil), candidates...)
	sort.Slice(byHeight, func(a, b int) bool {
		return density[byHeight[a]] > density[byHeight[b]]
	})

	suppressed := map[int]bool{}
	kept := []int{}
	for _, i := range byHeight {
		if suppressed[i] {
			continue
		}
		kept = append(kept, i)
		for _, j := range candidates {
			if j != i && abs(j-i) < minDist {
				suppressed[j] = true
			}
		}
	}

	sort.Ints(kept)
	return kept
}

// peakThreshold derives the relative height threshold from the curve's
// maximum log density.
func peakThreshold(density []float64) float64 {
	maxLog := math.Inf(-1)
	for _, v := range density {
		maxLog = math.Max(maxLog, math.Log(v))
	}
	return PeakThresholdScale / maxLog
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
