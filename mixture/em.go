// Package mixture fits Gaussian mixture models to a Ks sample, either
// with a Dirichlet prior on the component weights or as plain
// maximum-likelihood EM, and selects among fits by AIC or BIC.
package mixture

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/zhaokai2014/wgd/common"
	"github.com/zhaokai2014/wgd/model"
	"github.com/zhaokai2014/wgd/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	varianceFloor = 1e-10
	weightSumTol  = 1e-6
)

// FitBGMM fits one Bayesian-weighted Gaussian mixture per component
// count in the inclusive range [NMin, NMax]. The weights carry a
// symmetric Dirichlet(gamma) prior applied as a MAP estimate in the
// M-step, so a small gamma prunes superfluous components. All fits are
// returned; selection is left to the caller.
//
// xs must already be range-filtered and, when cfg.Log is set,
// log-transformed.
func FitBGMM(ctx context.Context, xs []float64, cfg BGMMConfig) (model.ModelFamily, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(xs) == 0 {
		return nil, common.ErrorEmptyInput
	}
	logger := utils.GetLogger(ctx)

	family := make(model.ModelFamily, 0, cfg.NMax-cfg.NMin+1)
	for k := cfg.NMin; k <= cfg.NMax; k++ {
		logger.Debug("fitting bayesian mixture", zap.Int("components", k))
		m := fitEM(xs, emOptions{
			k:        k,
			maxIter:  cfg.MaxIter,
			tol:      cfg.Tol,
			gamma:    cfg.Gamma,
			logSpace: cfg.Log,
			family:   model.BayesianDirichlet,
		})
		family = append(family, model.FamilyEntry{Model: m, Err: validateModel(m)})
	}
	return family, nil
}

// FitGMM fits one plain Gaussian mixture per component count in
// [1, NMax] with maximum-likelihood EM, no weight prior. Used together
// with SelectModel.
func FitGMM(ctx context.Context, xs []float64, cfg GMMConfig) (model.ModelFamily, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(xs) == 0 {
		return nil, common.ErrorEmptyInput
	}
	logger := utils.GetLogger(ctx)

	family := make(model.ModelFamily, 0, cfg.NMax)
	for k := 1; k <= cfg.NMax; k++ {
		logger.Debug("fitting gaussian mixture", zap.Int("components", k))
		m := fitEM(xs, emOptions{
			k:        k,
			maxIter:  cfg.MaxIter,
			tol:      cfg.Tol,
			logSpace: cfg.Log,
			family:   model.PlainGaussian,
		})
		family = append(family, model.FamilyEntry{Model: m, Err: validateModel(m)})
	}
	return family, nil
}

type emOptions struct {
	k        int
	maxIter  int
	tol      float64
	gamma    float64 // 0 disables the Dirichlet weight prior
	logSpace bool
	family   model.FitFamily
}

// fitEM runs expectation-maximization for a 1-D Gaussian mixture.
// Responsibilities are computed in the log domain so near-empty
// components stay numerically stable.
func fitEM(xs []float64, opt emOptions) *model.MixtureModel {
	n := len(xs)
	k := opt.k

	weights := make([]float64, k)
	means := initMeans(xs, k)
	variances := make([]float64, k)
	v := math.Max(stat.Variance(xs, nil), varianceFloor)
	for j := 0; j < k; j++ {
		weights[j] = 1.0 / float64(k)
		variances[j] = v
	}

	logProbs := make([]float64, k)
	nk := make([]float64, k)
	sumX := make([]float64, k)
	sumSq := make([]float64, k)

	prevLL := math.Inf(-1)
	converged := false
	iter := 0

	for iter = 1; iter <= opt.maxIter; iter++ {
		// E-step
		ll := 0.0
		for j := 0; j < k; j++ {
			nk[j], sumX[j], sumSq[j] = 0, 0, 0
		}
		for _, x := range xs {
			for j := 0; j < k; j++ {
				if weights[j] <= 0 {
					logProbs[j] = math.Inf(-1)
					continue
				}
				dist := distuv.Normal{Mu: means[j], Sigma: math.Sqrt(variances[j])}
				logProbs[j] = math.Log(weights[j]) + dist.LogProb(x)
			}
			lse := LogSumExp(logProbs)
			ll += lse
			for j := 0; j < k; j++ {
				r := math.Exp(logProbs[j] - lse)
				nk[j] += r
				sumX[j] += r * x
				sumSq[j] += r * x * x
			}
		}

		// M-step
		for j := 0; j < k; j++ {
			if nk[j] < 1e-12 {
				// dead component: keep its parameters out of the mixture
				weights[j] = 0
				continue
			}
			mu := sumX[j] / nk[j]
			means[j] = mu
			variances[j] = math.Max(sumSq[j]/nk[j]-mu*mu, varianceFloor)
			weights[j] = nk[j] / float64(n)
		}
		if opt.gamma > 0 {
			applyDirichletPrior(weights, nk, float64(n), opt.gamma)
		}
		normalizeWeights(weights)

		if math.Abs(ll-prevLL) < opt.tol {
			converged = true
			break
		}
		prevLL = ll
	}
	if iter > opt.maxIter {
		iter = opt.maxIter
	}

	components := make([]model.Component, k)
	for j := 0; j < k; j++ {
		components[j] = model.Component{
			Weight:   weights[j],
			Mean:     means[j],
			Variance: variances[j],
		}
	}

	return &model.MixtureModel{
		NComponents:   k,
		Components:    components,
		Family:        opt.family,
		LogSpace:      opt.logSpace,
		LogLikelihood: logLikelihood(xs, components),
		SampleSize:    n,
		Iterations:    iter,
		Converged:     converged,
	}
}

// initMeans spreads the initial component means over the sample
// quantiles, which makes the fit deterministic for a given input.
func initMeans(xs []float64, k int) []float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	means := make([]float64, k)
	for j := 0; j < k; j++ {
		p := (float64(j) + 0.5) / float64(k)
		means[j] = stat.Quantile(p, stat.Empirical, sorted, nil)
	}
	return means
}

// applyDirichletPrior replaces the maximum-likelihood weights with the
// MAP estimate under a symmetric Dirichlet(gamma) prior:
// (N_k + gamma - 1) / (N + K*(gamma - 1)), clamped at zero so a
// gamma below one can empty out a component entirely.
func applyDirichletPrior(weights, nk []float64, n, gamma float64) {
	k := float64(len(weights))
	denom := n + k*(gamma-1)
	if denom <= 0 {
		return
	}
	for j := range weights {
		weights[j] = math.Max(nk[j]+gamma-1, 0) / denom
	}
}

func normalizeWeights(weights []float64) {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		return
	}
	for j := range weights {
		weights[j] /= sum
	}
}

// logLikelihood evaluates the mixture log-likelihood of xs under the
// given components, in the space the components were fit in.
func logLikelihood(xs []float64, components []model.Component) float64 {
	logProbs := make([]float64, len(components))
	ll := 0.0
	for _, x := range xs {
		for j, c := range components {
			if c.Weight <= 0 {
				logProbs[j] = math.Inf(-1)
				continue
			}
			dist := distuv.Normal{Mu: c.Mean, Sigma: math.Sqrt(c.Variance)}
			logProbs[j] = math.Log(c.Weight) + dist.LogProb(x)
		}
		ll += LogSumExp(logProbs)
	}
	return ll
}

// validateModel enforces the numeric contract on a fitted model:
// weights summing to one and strictly positive variances. A violation
// marks the model as degenerate rather than discarding the family.
func validateModel(m *model.MixtureModel) error {
	sum := 0.0
	for _, c := range m.Components {
		if c.Variance <= 0 {
			return fmt.Errorf("%w: component variance %v", common.ErrorNumericDegeneracy, c.Variance)
		}
		sum += c.Weight
	}
	if math.Abs(sum-1) > weightSumTol {
		return fmt.Errorf("%w: component weights sum to %v", common.ErrorNumericDegeneracy, sum)
	}
	if math.IsNaN(m.LogLikelihood) || math.IsInf(m.LogLikelihood, 0) {
		return fmt.Errorf("%w: log-likelihood %v", common.ErrorNumericDegeneracy, m.LogLikelihood)
	}
	return nil
}
