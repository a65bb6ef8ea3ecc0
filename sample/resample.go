// Package sample converts a weighted Ks distribution into the flat
// numeric vector the fitting packages work on: resampling by weight,
// range filtering and the optional log transform.
package sample

import (
	"context"
	"math"

	"github.com/zhaokai2014/wgd/common"
	"github.com/zhaokai2014/wgd/model"
	"github.com/zhaokai2014/wgd/utils"
	"go.uber.org/zap"
)

// WeightedToUnweighted expands a weighted Ks distribution into a flat
// unweighted sample. Each row's value is replicated floor(weight/m)
// times, where m is the minimum weight over the retained rows, and the
// replicated runs are concatenated in input order. Rows with a
// non-finite value or weight are dropped first; the drop count is
// logged as a warning.
func WeightedToUnweighted(ctx context.Context, rows []model.WeightedValue) ([]float64, error) {
	logger := utils.GetLogger(ctx)

	kept := make([]model.WeightedValue, 0, len(rows))
	for _, row := range rows {
		if !isFinite(row.Ks) || !isFinite(row.Weight) {
			continue
		}
		kept = append(kept, row)
	}
	if dropped := len(rows) - len(kept); dropped != 0 {
		logger.Warn("dropped rows with non-finite values", zap.Int("cnt", dropped))
	}

	if len(kept) == 0 {
		return nil, common.ErrorEmptyInput
	}

	m := kept[0].Weight
	for _, row := range kept[1:] {
		if row.Weight < m {
			m = row.Weight
		}
	}
	if m <= 0 {
		logger.Error("degenerate minimum weight", zap.Float64("min", m))
		return nil, common.ErrorDegenerateWeight
	}

	res := make([]float64, 0, len(kept))
	for _, row := range kept {
		times := int(row.Weight / m)
		for i := 0; i < times; i++ {
			res = append(res, row.Ks)
		}
	}
	return res, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
