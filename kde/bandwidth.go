package kde

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// NormalReferenceBandwidth estimates a bandwidth by the normal
// reference rule C * A * n^(-1/5), where C depends on the kernel and A
// is the smaller of the standard deviation and the normalized
// interquartile range. It gives a sane default smoothing level to
// compare the cross-validated choice against.
type NormalReferenceBandwidth struct {
	kernel Kernel
}

func NewNormalReferenceBandwidth(kernel Kernel) *NormalReferenceBandwidth {
	if kernel == nil {
		kernel = NewGaussianKernel()
	}
	return &NormalReferenceBandwidth{
		kernel: kernel,
	}
}

func (bw *NormalReferenceBandwidth) Bandwidth(x []float64) float64 {
	C := bw.kernel.NormalReferenceConstant()
	A := selectSigma(x)
	n := len(x)
	return C * A * math.Pow(float64(n), -0.2)
}

// selectSigma expects nothing of the input order; it sorts a copy for
// the quantile lookup.
func selectSigma(x []float64) float64 {
	normalize := 1.349

	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)

	q75 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
	q25 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	iqr := (q75 - q25) / normalize

	stdDev := stat.StdDev(x, nil)

	if iqr > 0 {
		if stdDev < iqr {
			return stdDev
		}
		return iqr
	}
	return stdDev
}
