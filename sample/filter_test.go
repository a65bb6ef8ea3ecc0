package sample

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zhaokai2014/wgd/common"
	"github.com/zhaokai2014/wgd/model"
)

func TestFilterRange(t *testing.T) {
	iv := model.Interval{Lo: 0.1, Hi: 2}

	t.Run("boundary values excluded", func(t *testing.T) {
		res, err := FilterRange([]float64{0.1, 0.5, 1.0, 2.0}, iv)
		require.NoError(t, err)
		assert.Equal(t, []float64{0.5, 1.0}, res)
	})

	t.Run("empty result", func(t *testing.T) {
		_, err := FilterRange([]float64{0.05, 3.0}, iv)
		assert.ErrorIs(t, err, common.ErrorEmptyInput)
	})

	t.Run("invalid interval", func(t *testing.T) {
		_, err := FilterRange([]float64{1.0}, model.Interval{Lo: 2, Hi: 0.1})
		assert.ErrorIs(t, err, common.ErrorInvalidConfig)
	})
}

func TestLogTransformRoundTrip(t *testing.T) {
	xs := []float64{0.2, 0.5, 1.0, 1.9}
	logged := LogTransform(xs)
	for i, v := range logged {
		assert.InDelta(t, xs[i], math.Exp(v), 1e-12)
	}
}

func TestPrepare(t *testing.T) {
	ctx := context.Background()
	iv := model.Interval{Lo: 0.1, Hi: 2}

	t.Run("transform happens after filtering", func(t *testing.T) {
		// ln(0.5) is negative; if the transform ran first, the
		// positive interval would drop the value.
		res, err := Prepare(ctx, []float64{0.5}, iv, true)
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.InDelta(t, math.Log(0.5), res[0], 1e-12)
	})

	t.Run("no transform", func(t *testing.T) {
		res, err := Prepare(ctx, []float64{0.5, 5.0}, iv, false)
		require.NoError(t, err)
		assert.Equal(t, []float64{0.5}, res)
	})
}
