package mixture

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"github.com/zhaokai2014/wgd/common"
	"github.com/zhaokai2014/wgd/model"
	"github.com/zhaokai2014/wgd/sample"
	"github.com/zhaokai2014/wgd/utils"
	"go.uber.org/zap"
)

const evalGridSize = 1000

// Plotter renders diagnostics for fitted models. Implementations own
// all figure rendering and file I/O; the numerical pipeline only hands
// over computed artifacts and a caller-supplied path.
type Plotter interface {
	SaveMixturePlot(family model.ModelFamily, grid []float64, xs []float64, path string) error
	SaveCriterionPlot(scores []model.ScoredModel, criterion string, path string) error
}

// PlotRequest names where a diagnostic figure should be written. A nil
// request (or nil Plotter) disables plotting.
type PlotRequest struct {
	OutputDir  string
	OutputFile string
}

func (r *PlotRequest) path() string {
	return filepath.Join(r.OutputDir, r.OutputFile)
}

// ModelBGMM runs the full Bayesian mixture pipeline on a weighted Ks
// distribution: resample to an unweighted vector, filter to the
// configured range (log-transforming afterwards when requested), and
// fit one model per component count.
func ModelBGMM(ctx context.Context, rows []model.WeightedValue, cfg BGMMConfig,
	plotter Plotter, plot *PlotRequest) (model.ModelFamily, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	xs, err := sample.WeightedToUnweighted(ctx, rows)
	if err != nil {
		return nil, err
	}
	fit, err := sample.Prepare(ctx, xs, cfg.KsRange, cfg.Log)
	if err != nil {
		return nil, err
	}

	family, err := FitBGMM(ctx, fit, cfg)
	if err != nil {
		return nil, err
	}

	if plotter != nil && plot != nil {
		savePlots(ctx, plotter, plot, family, nil, "", cfg.KsRange, fit, cfg.Log)
	}
	return family, nil
}

// ModelGMM runs the plain-Gaussian pipeline and selects the best model
// by the given criterion. The per-model score list is returned for the
// criterion curve alongside the selected model.
func ModelGMM(ctx context.Context, rows []model.WeightedValue, cfg GMMConfig, criterion Criterion,
	plotter Plotter, plot *PlotRequest) (model.ModelFamily, []model.ScoredModel, *model.MixtureModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	if !criterion.valid() {
		return nil, nil, nil, fmt.Errorf("%w: criterion %q", common.ErrorInvalidConfig, criterion)
	}

	xs, err := sample.WeightedToUnweighted(ctx, rows)
	if err != nil {
		return nil, nil, nil, err
	}
	fit, err := sample.Prepare(ctx, xs, cfg.KsRange, cfg.Log)
	if err != nil {
		return nil, nil, nil, err
	}

	family, err := FitGMM(ctx, fit, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	scores, best, err := SelectModel(ctx, family, criterion)
	if err != nil {
		return family, scores, nil, err
	}

	if plotter != nil && plot != nil {
		savePlots(ctx, plotter, plot, family, scores, string(criterion), cfg.KsRange, fit, cfg.Log)
	}
	return family, scores, best, nil
}

// savePlots hands the fitted artifacts to the plot collaborator.
// Rendering failures are logged, never propagated: the numerical result
// stands on its own.
func savePlots(ctx context.Context, plotter Plotter, plot *PlotRequest,
	family model.ModelFamily, scores []model.ScoredModel, criterion string,
	ksRange model.Interval, fit []float64, logSpace bool) {
	logger := utils.GetLogger(ctx)

	grid := utils.Linspace(ksRange.Lo, ksRange.Hi, evalGridSize)
	display := displaySample(fit, logSpace)

	if err := plotter.SaveMixturePlot(family, grid, display, plot.path()); err != nil {
		logger.Error("mixture plot failed", zap.Error(err), zap.String("path", plot.path()))
	}
	if len(scores) > 0 {
		path := criterionPlotPath(plot)
		if err := plotter.SaveCriterionPlot(scores, criterion, path); err != nil {
			logger.Error("criterion plot failed", zap.Error(err), zap.String("path", path))
		}
	}
}

func criterionPlotPath(plot *PlotRequest) string {
	ext := filepath.Ext(plot.OutputFile)
	base := plot.OutputFile[:len(plot.OutputFile)-len(ext)]
	return filepath.Join(plot.OutputDir, base+"_criterion"+ext)
}

// displaySample maps the fit vector back to linear Ks units for the
// histogram handed to the plot adapter.
func displaySample(fit []float64, logSpace bool) []float64 {
	if !logSpace {
		return fit
	}
	res := make([]float64, len(fit))
	for i, v := range fit {
		res[i] = math.Exp(v)
	}
	return res
}
