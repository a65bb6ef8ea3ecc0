package mixture

import (
	"fmt"

	"github.com/zhaokai2014/wgd/common"
	"github.com/zhaokai2014/wgd/model"
)

// Criterion is an information-criterion tag for model selection.
type Criterion string

const (
	AIC Criterion = "AIC"
	BIC Criterion = "BIC"
)

func (c Criterion) valid() bool {
	return c == AIC || c == BIC
}

const (
	defaultGamma       = 0.01
	defaultBGMMMaxIter = 1000
	defaultGMMMaxIter  = 100
	defaultTol         = 1e-6
)

// BGMMConfig configures the Bayesian-Dirichlet fitting strategy. Every
// supported hyperparameter is an explicit field; there is no untyped
// option pass-through.
type BGMMConfig struct {
	// NMin, NMax is the inclusive component-count range to fit.
	NMin int
	NMax int
	// KsRange is the linear-unit value interval to model.
	KsRange model.Interval
	// Gamma is the symmetric Dirichlet concentration on the component
	// weights. Small values prune superfluous components.
	Gamma float64
	// MaxIter bounds the EM iterations per fit.
	MaxIter int
	// Tol is the absolute log-likelihood convergence tolerance.
	Tol float64
	// Log fits log-normal components: the vector is log-transformed
	// after range filtering and the fit runs in log space.
	Log bool
}

func DefaultBGMMConfig() BGMMConfig {
	return BGMMConfig{
		NMin:    1,
		NMax:    5,
		KsRange: model.Interval{Lo: 0.1, Hi: 2},
		Gamma:   defaultGamma,
		MaxIter: defaultBGMMMaxIter,
		Tol:     defaultTol,
		Log:     true,
	}
}

func (c BGMMConfig) Validate() error {
	if c.NMin < 1 || c.NMax < c.NMin {
		return fmt.Errorf("%w: component range [%d, %d]", common.ErrorInvalidConfig, c.NMin, c.NMax)
	}
	if !c.KsRange.Valid() {
		return fmt.Errorf("%w: Ks range [%v, %v]", common.ErrorInvalidConfig, c.KsRange.Lo, c.KsRange.Hi)
	}
	if c.Gamma <= 0 {
		return fmt.Errorf("%w: gamma %v", common.ErrorInvalidConfig, c.Gamma)
	}
	if c.MaxIter <= 0 || c.Tol <= 0 {
		return fmt.Errorf("%w: maxIter %v, tol %v", common.ErrorInvalidConfig, c.MaxIter, c.Tol)
	}
	if c.Log && c.KsRange.Lo < 0 {
		return fmt.Errorf("%w: log fit needs a non-negative lower bound", common.ErrorInvalidConfig)
	}
	return nil
}

// GMMConfig configures the plain-Gaussian strategy, used together with
// AIC/BIC model selection.
type GMMConfig struct {
	// NMax fits component counts 1 through NMax inclusive.
	NMax    int
	KsRange model.Interval
	MaxIter int
	Tol     float64
	Log     bool
}

func DefaultGMMConfig() GMMConfig {
	return GMMConfig{
		NMax:    4,
		KsRange: model.Interval{Lo: 0.1, Hi: 2},
		MaxIter: defaultGMMMaxIter,
		Tol:     defaultTol,
		Log:     true,
	}
}

func (c GMMConfig) Validate() error {
	if c.NMax < 1 {
		return fmt.Errorf("%w: max components %d", common.ErrorInvalidConfig, c.NMax)
	}
	if !c.KsRange.Valid() {
		return fmt.Errorf("%w: Ks range [%v, %v]", common.ErrorInvalidConfig, c.KsRange.Lo, c.KsRange.Hi)
	}
	if c.MaxIter <= 0 || c.Tol <= 0 {
		return fmt.Errorf("%w: maxIter %v, tol %v", common.ErrorInvalidConfig, c.MaxIter, c.Tol)
	}
	if c.Log && c.KsRange.Lo < 0 {
		return fmt.Errorf("%w: log fit needs a non-negative lower bound", common.ErrorInvalidConfig)
	}
	return nil
}
