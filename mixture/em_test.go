package mixture

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zhaokai2014/wgd/common"
	"github.com/zhaokai2014/wgd/model"
)

// bimodalSample draws a deterministic two-bump sample in the Ks range.
func bimodalSample(n int) []float64 {
	rng := rand.New(rand.NewSource(42))
	xs := make([]float64, 0, n)
	for i := 0; i < n/2; i++ {
		xs = append(xs, 0.5+0.05*rng.NormFloat64())
		xs = append(xs, 1.5+0.05*rng.NormFloat64())
	}
	return xs
}

func TestFitGMMRecoversBimodal(t *testing.T) {
	ctx := context.Background()
	xs := bimodalSample(600)

	cfg := DefaultGMMConfig()
	cfg.NMax = 2
	cfg.Log = false

	family, err := FitGMM(ctx, xs, cfg)
	require.NoError(t, err)
	require.Len(t, family, 2)

	for _, entry := range family {
		require.NoError(t, entry.Err)
		sum := 0.0
		for _, c := range entry.Model.Components {
			sum += c.Weight
			assert.Greater(t, c.Variance, 0.0)
		}
		assert.InDelta(t, 1.0, sum, 1e-6)
	}

	m := family[1].Model
	require.Equal(t, 2, m.NComponents)
	means := m.Means()
	sort.Float64s(means)
	assert.InDelta(t, 0.5, means[0], 0.05)
	assert.InDelta(t, 1.5, means[1], 0.05)

	weights := m.Weights()
	assert.InDelta(t, 0.5, weights[0], 0.1)

	// two components explain a bimodal sample far better than one
	assert.Greater(t, family[1].Model.LogLikelihood, family[0].Model.LogLikelihood)
}

func TestFitBGMMWeightsStayNormalized(t *testing.T) {
	ctx := context.Background()
	xs := bimodalSample(400)

	cfg := DefaultBGMMConfig()
	cfg.NMin, cfg.NMax = 1, 4
	cfg.Log = false

	family, err := FitBGMM(ctx, xs, cfg)
	require.NoError(t, err)
	require.Len(t, family, 4)

	for i, entry := range family {
		require.NoError(t, entry.Err, "K=%d", i+1)
		m := entry.Model
		assert.Equal(t, model.BayesianDirichlet, m.Family)
		sum := 0.0
		for _, c := range m.Components {
			sum += c.Weight
			assert.Greater(t, c.Variance, 0.0)
		}
		assert.InDelta(t, 1.0, sum, 1e-6)
	}
}

func TestFitLogSpace(t *testing.T) {
	ctx := context.Background()

	// log-transformed sample around ln(0.5)
	rng := rand.New(rand.NewSource(7))
	xs := make([]float64, 300)
	for i := range xs {
		xs[i] = math.Log(0.5) + 0.1*rng.NormFloat64()
	}

	cfg := DefaultGMMConfig()
	cfg.NMax = 1
	cfg.Log = true

	family, err := FitGMM(ctx, xs, cfg)
	require.NoError(t, err)
	require.NoError(t, family[0].Err)

	m := family[0].Model
	assert.True(t, m.LogSpace)
	assert.InDelta(t, math.Log(0.5), m.Components[0].Mean, 0.05)
	assert.InDelta(t, 0.5, m.DisplayMeans()[0], 0.05)
}

func TestFitConfigValidation(t *testing.T) {
	ctx := context.Background()
	xs := []float64{0.5, 0.6, 0.7}

	cfg := DefaultBGMMConfig()
	cfg.NMin, cfg.NMax = 3, 1
	_, err := FitBGMM(ctx, xs, cfg)
	assert.ErrorIs(t, err, common.ErrorInvalidConfig)

	cfg = DefaultBGMMConfig()
	cfg.Gamma = 0
	_, err = FitBGMM(ctx, xs, cfg)
	assert.ErrorIs(t, err, common.ErrorInvalidConfig)

	gcfg := DefaultGMMConfig()
	gcfg.NMax = 0
	_, err = FitGMM(ctx, xs, gcfg)
	assert.ErrorIs(t, err, common.ErrorInvalidConfig)

	_, err = FitGMM(ctx, nil, DefaultGMMConfig())
	assert.ErrorIs(t, err, common.ErrorEmptyInput)
}

func TestValidateModelFlagsDegeneracy(t *testing.T) {
	bad := &model.MixtureModel{
		NComponents: 2,
		Components: []model.Component{
			{Weight: 0.7, Mean: 0, Variance: 1},
			{Weight: 0.7, Mean: 1, Variance: 1},
		},
		LogLikelihood: -10,
	}
	assert.ErrorIs(t, validateModel(bad), common.ErrorNumericDegeneracy)

	collapsed := &model.MixtureModel{
		NComponents: 1,
		Components: []model.Component{
			{Weight: 1, Mean: 0, Variance: 0},
		},
		LogLikelihood: -10,
	}
	assert.ErrorIs(t, validateModel(collapsed), common.ErrorNumericDegeneracy)

	ok := &model.MixtureModel{
		NComponents: 1,
		Components: []model.Component{
			{Weight: 1, Mean: 0, Variance: 0.5},
		},
		LogLikelihood: -10,
	}
	assert.NoError(t, validateModel(ok))
}

func TestLogSumExp(t *testing.T) {
	assert.InDelta(t, math.Log(2), LogSumExp([]float64{0, 0}), 1e-12)
	assert.InDelta(t, 1000+math.Log(2), LogSumExp([]float64{1000, 1000}), 1e-9)
	assert.Equal(t, math.Inf(-1), LogSumExp([]float64{math.Inf(-1), math.Inf(-1)}))
}
