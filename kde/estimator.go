package kde

import (
	"context"
	"fmt"

	"github.com/zhaokai2014/wgd/common"
	"github.com/zhaokai2014/wgd/model"
	"github.com/zhaokai2014/wgd/sample"
	"github.com/zhaokai2014/wgd/utils"
	"go.uber.org/zap"
)

// Config is the full configuration surface of the density estimation
// pipeline. Zero values fall back to the package defaults.
type Config struct {
	Bandwidths    []float64
	Kernel        KernelName
	Folds         int
	SubsampleSize int
	// Seed makes the cross-validation subsample reproducible when set.
	Seed *int64
}

func (c Config) withDefaults() Config {
	if len(c.Bandwidths) == 0 {
		c.Bandwidths = DefaultBandwidths
	}
	if c.Kernel == "" {
		c.Kernel = Gaussian
	}
	if c.Folds == 0 {
		c.Folds = DefaultFolds
	}
	if c.SubsampleSize == 0 {
		c.SubsampleSize = DefaultSubsampleSize
	}
	return c
}

func (c Config) Validate() error {
	for _, bw := range c.Bandwidths {
		if bw <= 0 {
			return fmt.Errorf("%w: bandwidth %v", common.ErrorInvalidConfig, bw)
		}
	}
	if c.Folds < 2 {
		return fmt.Errorf("%w: folds %d", common.ErrorInvalidConfig, c.Folds)
	}
	if c.SubsampleSize < c.Folds {
		return fmt.Errorf("%w: subsample size %d below fold count %d",
			common.ErrorInvalidConfig, c.SubsampleSize, c.Folds)
	}
	if _, err := NewKernel(c.Kernel); err != nil {
		return err
	}
	return nil
}

// Plotter renders KDE diagnostics. The estimator only hands over the
// computed estimates and a caller-supplied path.
type Plotter interface {
	SaveKDEPlot(full, reduced []model.DensityEstimate, selection *model.BandwidthSelection,
		xs []float64, path string) error
}

// Result holds one density estimate per bandwidth for each evaluation
// domain, plus the cross-validated bandwidth ranking.
type Result struct {
	Full      []model.DensityEstimate
	Reduced   []model.DensityEstimate
	Selection *model.BandwidthSelection
}

// EstimateKsDensity runs the density branch of the Ks pipeline on a
// weighted distribution: resample, cut to the usable Ks domains, fit
// one estimate per bandwidth on the full [0.1, 5] and reduced (<= 2)
// domains with peak detection, and cross-validate the bandwidth grid.
func EstimateKsDensity(ctx context.Context, rows []model.WeightedValue, cfg Config,
	plotter Plotter, outputPath string) (*Result, error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if err := recover(); err != nil {
			logger.Error("EstimateKsDensity recover panic error!", zap.Any("err", err),
				zap.String("panic info", utils.GetPanicInfo()))
		}
	}()

	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	xs, err := sample.WeightedToUnweighted(ctx, rows)
	if err != nil {
		return nil, err
	}
	return EstimateDensity(ctx, xs, cfg, plotter, outputPath)
}

// EstimateDensity is EstimateKsDensity on an already unweighted sample.
func EstimateDensity(ctx context.Context, xs []float64, cfg Config,
	plotter Plotter, outputPath string) (*Result, error) {
	logger := utils.GetLogger(ctx)

	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	kernel, err := NewKernel(cfg.Kernel)
	if err != nil {
		return nil, err
	}

	full := cutDomain(xs, DataLowerCut, FullDomainHi)
	if len(full) == 0 {
		return nil, common.ErrorEmptyInput
	}
	reduced := cutDomain(full, DataLowerCut, ReducedDomainHi)
	if len(reduced) == 0 {
		return nil, common.ErrorEmptyInput
	}

	fullGrid := utils.Linspace(0, FullDomainHi, FullDomainGridSize)
	reducedGrid := utils.Linspace(0, ReducedDomainHi, ReducedDomainGridSize)

	res := &Result{}
	for _, bw := range cfg.Bandwidths {
		fullEst, err := estimateOne(full, fullGrid, kernel, bw, "full")
		if err != nil {
			return nil, err
		}
		reducedEst, err := estimateOne(reduced, reducedGrid, kernel, bw, "reduced")
		if err != nil {
			return nil, err
		}
		logger.Debug("fitted density estimates",
			zap.Float64("bandwidth", bw),
			zap.Int("fullPeaks", len(fullEst.Peaks)),
			zap.Int("reducedPeaks", len(reducedEst.Peaks)))

		res.Full = append(res.Full, *fullEst)
		res.Reduced = append(res.Reduced, *reducedEst)
	}

	selection, err := CrossValidateBandwidth(ctx, full, cfg)
	if err != nil {
		return nil, err
	}
	res.Selection = selection

	if plotter != nil && outputPath != "" {
		if err := plotter.SaveKDEPlot(res.Full, res.Reduced, selection, full, outputPath); err != nil {
			logger.Error("kde plot failed", zap.Error(err), zap.String("path", outputPath))
		}
	}
	return res, nil
}

// estimateOne fits a single estimate and runs peak detection on its
// curve.
func estimateOne(xs, grid []float64, kernel Kernel, bandwidth float64, domain string) (*model.DensityEstimate, error) {
	fit, err := Fit(xs, kernel, bandwidth)
	if err != nil {
		return nil, err
	}
	density := fit.Evaluate(grid)
	peaks := FindPeaks(grid, density, peakThreshold(density), PeakMinSeparation)

	return &model.DensityEstimate{
		Grid:      grid,
		Density:   density,
		Bandwidth: bandwidth,
		Kernel:    string(kernel.Name()),
		Domain:    domain,
		Peaks:     peaks,
	}, nil
}

// cutDomain keeps lo < v <= hi, the domain convention of the density
// branch (unlike the strict mixture-range filter, the upper bound is
// inclusive).
func cutDomain(xs []float64, lo, hi float64) []float64 {
	res := make([]float64, 0, len(xs))
	for _, v := range xs {
		if v > lo && v <= hi {
			res = append(res, v)
		}
	}
	return res
}
