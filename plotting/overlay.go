// Package plotting is the diagnostics collaborator: it turns fitted
// models and density estimates into curve data and renders figures to
// caller-supplied paths. The numerical packages never import it.
package plotting

import (
	"math"
	"sort"

	"github.com/zhaokai2014/wgd/common"
	"github.com/zhaokai2014/wgd/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// BuildOverlay turns one fitted mixture model into displayable curve
// data over an evaluation grid: each component's weighted density, the
// summed mixture, and the component locations in linear units. For a
// log-space model the component curves are log-normal densities
// parameterized by the log-space mean and variance, so the grid is
// always in linear Ks units. Pure function, shared by every fitting
// entry point.
func BuildOverlay(m *model.MixtureModel, grid []float64) model.OverlayData {
	components := make([][]float64, len(m.Components))
	mixture := make([]float64, len(grid))

	for j, c := range m.Components {
		curve := make([]float64, len(grid))
		for i, x := range grid {
			curve[i] = c.Weight * componentDensity(c, m.LogSpace, x)
		}
		components[j] = curve
		floats.Add(mixture, curve)
	}

	return model.OverlayData{
		Grid:         grid,
		Mixture:      mixture,
		Components:   components,
		Weights:      m.Weights(),
		DisplayMeans: m.DisplayMeans(),
		LogSpace:     m.LogSpace,
	}
}

func componentDensity(c model.Component, logSpace bool, x float64) float64 {
	sigma := math.Sqrt(c.Variance)
	if logSpace {
		if x <= 0 {
			return 0
		}
		return distuv.LogNormal{Mu: c.Mean, Sigma: sigma}.Prob(x)
	}
	return distuv.Normal{Mu: c.Mean, Sigma: sigma}.Prob(x)
}

// HistogramData bins a sample into a density-normalized histogram for
// the plot data contract.
func HistogramData(xs []float64, bins int) (model.Histogram, error) {
	if len(xs) == 0 {
		return model.Histogram{}, common.ErrorEmptyInput
	}
	if bins < 1 {
		return model.Histogram{}, common.ErrorInvalidConfig
	}

	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	// the top edge is nudged past the maximum so the largest sample
	// still lands in the final bucket
	edges := make([]float64, bins+1)
	floats.Span(edges, sorted[0], math.Nextafter(sorted[len(sorted)-1], math.Inf(1)))
	counts := stat.Histogram(nil, edges, sorted, nil)

	n := float64(len(sorted))
	heights := make([]float64, bins)
	for i, c := range counts {
		width := edges[i+1] - edges[i]
		if width > 0 {
			heights[i] = c / (n * width)
		}
	}

	return model.Histogram{
		Edges:   edges,
		Heights: heights,
	}, nil
}
