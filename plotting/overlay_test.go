package plotting

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zhaokai2014/wgd/common"
	"github.com/zhaokai2014/wgd/model"
	"github.com/zhaokai2014/wgd/utils"
	"gonum.org/v1/gonum/stat/distuv"
)

func twoComponentModel(logSpace bool) *model.MixtureModel {
	return &model.MixtureModel{
		NComponents: 2,
		Components: []model.Component{
			{Weight: 0.6, Mean: -0.7, Variance: 0.04},
			{Weight: 0.4, Mean: 0.4, Variance: 0.09},
		},
		Family:   model.BayesianDirichlet,
		LogSpace: logSpace,
	}
}

func TestBuildOverlayMixtureIsComponentSum(t *testing.T) {
	m := twoComponentModel(false)
	grid := utils.Linspace(-2, 2, 200)

	overlay := BuildOverlay(m, grid)
	require.Len(t, overlay.Components, 2)
	require.Len(t, overlay.Mixture, len(grid))

	for i := range grid {
		sum := overlay.Components[0][i] + overlay.Components[1][i]
		assert.InDelta(t, sum, overlay.Mixture[i], 1e-12)
	}
}

func TestBuildOverlayLinearUsesNormalDensity(t *testing.T) {
	m := twoComponentModel(false)
	grid := []float64{0.0}

	overlay := BuildOverlay(m, grid)
	want := 0.6*distuv.Normal{Mu: -0.7, Sigma: 0.2}.Prob(0) +
		0.4*distuv.Normal{Mu: 0.4, Sigma: 0.3}.Prob(0)
	assert.InDelta(t, want, overlay.Mixture[0], 1e-12)
	assert.Equal(t, []float64{-0.7, 0.4}, overlay.DisplayMeans)
}

func TestBuildOverlayLogSpaceUsesLogNormalDensity(t *testing.T) {
	m := twoComponentModel(true)
	grid := []float64{0.5, 1.0}

	overlay := BuildOverlay(m, grid)
	for i, x := range grid {
		want := 0.6*distuv.LogNormal{Mu: -0.7, Sigma: 0.2}.Prob(x) +
			0.4*distuv.LogNormal{Mu: 0.4, Sigma: 0.3}.Prob(x)
		assert.InDelta(t, want, overlay.Mixture[i], 1e-12)
	}

	means := overlay.DisplayMeans
	assert.InDelta(t, math.Exp(-0.7), means[0], 1e-12)
	assert.InDelta(t, math.Exp(0.4), means[1], 1e-12)
	assert.True(t, overlay.LogSpace)
}

func TestHistogramData(t *testing.T) {
	xs := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}

	hist, err := HistogramData(xs, 5)
	require.NoError(t, err)
	require.Len(t, hist.Edges, 6)
	require.Len(t, hist.Heights, 5)

	// density normalization: heights integrate to one
	total := 0.0
	for i, h := range hist.Heights {
		total += h * (hist.Edges[i+1] - hist.Edges[i])
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestHistogramDataErrors(t *testing.T) {
	_, err := HistogramData(nil, 10)
	assert.ErrorIs(t, err, common.ErrorEmptyInput)

	_, err = HistogramData([]float64{1}, 0)
	assert.ErrorIs(t, err, common.ErrorInvalidConfig)
}
