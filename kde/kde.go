// Package kde estimates the Ks distribution non-parametrically with
// kernel density estimates over a grid of candidate bandwidths, detects
// density peaks and ranks the bandwidths by cross-validated likelihood.
package kde

import (
	"fmt"
	"math"

	"github.com/zhaokai2014/wgd/common"
)

// KDE is a fitted kernel density estimate over a fixed sample.
type KDE struct {
	kernel    Kernel
	bandwidth float64
	xs        []float64
}

// Fit binds a sample to a kernel and bandwidth. The sample is not
// copied; callers must not mutate it afterwards.
func Fit(xs []float64, kernel Kernel, bandwidth float64) (*KDE, error) {
	if len(xs) == 0 {
		return nil, common.ErrorEmptyInput
	}
	if bandwidth <= 0 {
		return nil, fmt.Errorf("%w: bandwidth %v", common.ErrorInvalidConfig, bandwidth)
	}
	if kernel == nil {
		kernel = NewGaussianKernel()
	}
	return &KDE{
		kernel:    kernel,
		bandwidth: bandwidth,
		xs:        xs,
	}, nil
}

func (k *KDE) Bandwidth() float64 {
	return k.bandwidth
}

func (k *KDE) Kernel() Kernel {
	return k.kernel
}

// Density evaluates the estimate at a single point:
// (1 / (n*h)) * sum_i K((x_i - x) / h).
func (k *KDE) Density(x float64) float64 {
	h := k.bandwidth
	sum := 0.0
	for _, xi := range k.xs {
		sum += k.kernel.Shape((xi - x) / h)
	}
	return sum / (h * float64(len(k.xs)))
}

// Evaluate computes the density over an evaluation grid.
func (k *KDE) Evaluate(grid []float64) []float64 {
	res := make([]float64, len(grid))
	for i, g := range grid {
		res[i] = k.Density(g)
	}
	return res
}

// LogDensity is ln of the density at x; -Inf where the estimate has no
// support (possible with bounded kernels).
func (k *KDE) LogDensity(x float64) float64 {
	return math.Log(k.Density(x))
}
