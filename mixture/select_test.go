package mixture

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zhaokai2014/wgd/common"
	"github.com/zhaokai2014/wgd/model"
)

// modelWithAIC fabricates a K-component model whose AIC score equals
// the given value: logL = (2p - AIC) / 2 with p = 3K - 1.
func modelWithAIC(k int, aic float64) *model.MixtureModel {
	p := float64(numFreeParams(k))
	return &model.MixtureModel{
		NComponents:   k,
		SampleSize:    100,
		LogLikelihood: (2*p - aic) / 2,
	}
}

func TestScoreFormulas(t *testing.T) {
	// p = 5 for a two-component model
	m := &model.MixtureModel{
		NComponents:   2,
		SampleSize:    100,
		LogLikelihood: -50,
	}

	aic, err := Score(m, AIC)
	require.NoError(t, err)
	assert.InDelta(t, 110.0, aic, 1e-9)

	bic, err := Score(m, BIC)
	require.NoError(t, err)
	assert.InDelta(t, 5*math.Log(100)+100, bic, 1e-9)
	assert.InDelta(t, 123.03, bic, 0.01)

	_, err = Score(m, Criterion("DIC"))
	assert.ErrorIs(t, err, common.ErrorInvalidConfig)
}

func TestSelectModelPicksMinimum(t *testing.T) {
	ctx := context.Background()
	family := model.ModelFamily{
		{Model: modelWithAIC(1, 120.5)},
		{Model: modelWithAIC(2, 98.2)},
		{Model: modelWithAIC(3, 110.0)},
	}

	scores, best, err := SelectModel(ctx, family, AIC)
	require.NoError(t, err)
	require.Len(t, scores, 3)

	assert.InDelta(t, 120.5, scores[0].Score, 1e-9)
	assert.InDelta(t, 98.2, scores[1].Score, 1e-9)
	assert.InDelta(t, 110.0, scores[2].Score, 1e-9)
	assert.Same(t, family[1].Model, best)
}

func TestSelectModelTieBreaksLowK(t *testing.T) {
	ctx := context.Background()
	family := model.ModelFamily{
		{Model: modelWithAIC(1, 100)},
		{Model: modelWithAIC(2, 100)},
	}

	_, best, err := SelectModel(ctx, family, AIC)
	require.NoError(t, err)
	assert.Same(t, family[0].Model, best)
}

func TestSelectModelSkipsDegenerateEntries(t *testing.T) {
	ctx := context.Background()
	family := model.ModelFamily{
		{Model: modelWithAIC(1, 200)},
		{Model: modelWithAIC(2, 90), Err: common.ErrorNumericDegeneracy},
		{Model: modelWithAIC(3, 150)},
	}

	scores, best, err := SelectModel(ctx, family, AIC)
	require.NoError(t, err)
	require.Len(t, scores, 3)

	assert.True(t, math.IsNaN(scores[1].Score))
	assert.ErrorIs(t, scores[1].Err, common.ErrorNumericDegeneracy)
	assert.Same(t, family[0].Model, best)
}

func TestSelectModelErrors(t *testing.T) {
	ctx := context.Background()

	_, _, err := SelectModel(ctx, nil, BIC)
	assert.ErrorIs(t, err, common.ErrorEmptyInput)

	_, _, err = SelectModel(ctx, model.ModelFamily{{Model: modelWithAIC(1, 1)}}, Criterion("bogus"))
	assert.ErrorIs(t, err, common.ErrorInvalidConfig)

	allBad := model.ModelFamily{
		{Model: modelWithAIC(1, 1), Err: common.ErrorNumericDegeneracy},
	}
	scores, _, err := SelectModel(ctx, allBad, AIC)
	assert.ErrorIs(t, err, common.ErrorNumericDegeneracy)
	assert.Len(t, scores, 1)
}
