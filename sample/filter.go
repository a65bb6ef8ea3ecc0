package sample

import (
	"context"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/zhaokai2014/wgd/common"
	"github.com/zhaokai2014/wgd/model"
	"github.com/zhaokai2014/wgd/utils"
	"go.uber.org/zap"
)

// FilterRange keeps values strictly inside the interval: lo < v < hi.
// Values equal to either bound are dropped. The interval is in linear
// Ks units; apply LogTransform only on the filtered result.
func FilterRange(xs []float64, iv model.Interval) ([]float64, error) {
	if !iv.Valid() {
		return nil, common.ErrorInvalidConfig
	}
	res := make([]float64, 0, len(xs))
	for _, v := range xs {
		if iv.Contains(v) {
			res = append(res, v)
		}
	}
	if len(res) == 0 {
		return nil, common.ErrorEmptyInput
	}
	return res, nil
}

// LogTransform returns ln(v) for each value. Callers must filter to a
// positive interval first.
func LogTransform(xs []float64) []float64 {
	res := make([]float64, len(xs))
	for i, v := range xs {
		res[i] = math.Log(v)
	}
	return res
}

// Prepare runs the filter-then-transform step of the modeling pipeline
// and logs a summary of the resulting fit vector.
func Prepare(ctx context.Context, xs []float64, iv model.Interval, log bool) ([]float64, error) {
	logger := utils.GetLogger(ctx)

	res, err := FilterRange(xs, iv)
	if err != nil {
		return nil, err
	}
	if log {
		res = LogTransform(res)
	}

	mean, _ := stats.Mean(res)
	median, _ := stats.Median(res)
	stddev, _ := stats.StandardDeviation(res)
	logger.Debug("prepared fit vector",
		zap.Int("cnt", len(res)),
		zap.Bool("log", log),
		zap.Float64("mean", utils.FormatFloat(mean, 4)),
		zap.Float64("median", utils.FormatFloat(median, 4)),
		zap.Float64("stddev", utils.FormatFloat(stddev, 4)))

	return res, nil
}
