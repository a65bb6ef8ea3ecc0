package kde

import (
	"fmt"
	"math"

	"github.com/zhaokai2014/wgd/common"
)

// KernelName tags a supported smoothing kernel.
type KernelName string

const (
	Gaussian     KernelName = "gaussian"
	Epanechnikov KernelName = "epanechnikov"
	TopHat       KernelName = "tophat"
)

type Kernel interface {
	Name() KernelName
	// Shape is the kernel function K(u), integrating to one.
	Shape(u float64) float64
	NormalReferenceConstant() float64
}

// kernel carries the constants needed by the normal-reference
// bandwidth rule: the L2 norm R(K) and the kernel variance kappa2.
type kernel struct {
	name                    KernelName
	l2Norm                  float64
	kernelVar               float64
	order                   int
	normalReferenceConstant float64
	shape                   func(u float64) float64
}

func NewGaussianKernel() Kernel {
	return &kernel{
		name:      Gaussian,
		l2Norm:    1.0 / (2.0 * math.Sqrt(math.Pi)),
		kernelVar: 1.0,
		order:     2,
		shape: func(u float64) float64 {
			return 0.3989422804014327 * math.Exp(-u*u/2.0)
		},
	}
}

func NewEpanechnikovKernel() Kernel {
	return &kernel{
		name:      Epanechnikov,
		l2Norm:    3.0 / 5.0,
		kernelVar: 1.0 / 5.0,
		order:     2,
		shape: func(u float64) float64 {
			if u < -1 || u > 1 {
				return 0
			}
			return 0.75 * (1 - u*u)
		},
	}
}

func NewTopHatKernel() Kernel {
	return &kernel{
		name:      TopHat,
		l2Norm:    0.5,
		kernelVar: 1.0 / 3.0,
		order:     2,
		shape: func(u float64) float64 {
			if u < -1 || u > 1 {
				return 0
			}
			return 0.5
		},
	}
}

// NewKernel resolves a kernel tag, rejecting unsupported names.
func NewKernel(name KernelName) (Kernel, error) {
	switch name {
	case Gaussian, "":
		return NewGaussianKernel(), nil
	case Epanechnikov:
		return NewEpanechnikovKernel(), nil
	case TopHat:
		return NewTopHatKernel(), nil
	}
	return nil, fmt.Errorf("%w: kernel %q", common.ErrorInvalidConfig, name)
}

func (k *kernel) Name() KernelName {
	return k.name
}

func (k *kernel) Shape(u float64) float64 {
	return k.shape(u)
}

func (k *kernel) NormalReferenceConstant() float64 {
	nu := k.order
	if k.normalReferenceConstant == 0 {
		numerator := math.Pow(math.Pi, 0.5) * math.Pow(factorial(nu), 3) * k.l2Norm
		denom := 2.0 * float64(nu) * factorial(2*nu) * math.Pow(k.moments(nu), 2)
		C := 2 * math.Pow(numerator/denom, 1.0/float64(2*nu+1))
		k.normalReferenceConstant = C
	}
	return k.normalReferenceConstant
}

func (k *kernel) moments(n int) float64 {
	if n == 1 {
		return 0
	}
	if n == 2 {
		return k.kernelVar
	}
	return 1.0
}

func factorial(n int) float64 {
	result := 1.0
	for i := 2; i <= n; i++ {
		result *= float64(i)
	}
	return result
}
