package mixture

import (
	"context"
	"fmt"
	"math"

	"github.com/zhaokai2014/wgd/common"
	"github.com/zhaokai2014/wgd/model"
	"github.com/zhaokai2014/wgd/utils"
	"go.uber.org/zap"
)

// numFreeParams is the free-parameter count of a 1-D K-component
// mixture: K-1 independent weights plus K means plus K variances.
func numFreeParams(k int) int {
	return 3*k - 1
}

// Score computes the information-criterion score for one fitted model.
// Lower is better for both criteria.
func Score(m *model.MixtureModel, criterion Criterion) (float64, error) {
	p := float64(numFreeParams(m.NComponents))
	n := float64(m.SampleSize)
	switch criterion {
	case AIC:
		return 2*p - 2*m.LogLikelihood, nil
	case BIC:
		return p*math.Log(n) - 2*m.LogLikelihood, nil
	}
	return 0, fmt.Errorf("%w: criterion %q", common.ErrorInvalidConfig, criterion)
}

// SelectModel scores every entry of a fitted family and picks the model
// with the minimum score, resolving ties in favor of the lowest
// component count. Entries whose fit degenerated keep their failure
// marker in the score list and are skipped for selection. The full
// score list is returned so callers can plot the criterion curve.
func SelectModel(ctx context.Context, family model.ModelFamily, criterion Criterion) ([]model.ScoredModel, *model.MixtureModel, error) {
	if !criterion.valid() {
		return nil, nil, fmt.Errorf("%w: criterion %q", common.ErrorInvalidConfig, criterion)
	}
	if len(family) == 0 {
		return nil, nil, common.ErrorEmptyInput
	}
	logger := utils.GetLogger(ctx)

	scores := make([]model.ScoredModel, 0, len(family))
	var best *model.MixtureModel
	bestScore := math.Inf(1)

	for _, entry := range family {
		if entry.Err != nil {
			scores = append(scores, model.ScoredModel{
				Model: entry.Model,
				Score: math.NaN(),
				Err:   entry.Err,
			})
			continue
		}
		score, err := Score(entry.Model, criterion)
		if err != nil {
			return nil, nil, err
		}
		scores = append(scores, model.ScoredModel{Model: entry.Model, Score: score})
		if score < bestScore {
			bestScore = score
			best = entry.Model
		}
	}

	if best == nil {
		return scores, nil, fmt.Errorf("%w: no model in the family fit cleanly", common.ErrorNumericDegeneracy)
	}

	logger.Info("selected mixture model",
		zap.String("criterion", string(criterion)),
		zap.Int("components", best.NComponents),
		zap.Float64("score", utils.FormatFloat(bestScore, 3)))

	return scores, best, nil
}
