package kde

// Evaluation domains and peak-detection constants for the Ks density
// pipeline. The full domain covers the whole usable Ks range; the
// reduced domain zooms in on the recent-duplication region.
const (
	DataLowerCut = 0.1

	FullDomainHi       = 5.0
	FullDomainGridSize = 1000

	ReducedDomainHi       = 2.0
	ReducedDomainGridSize = 400

	// PeakThresholdScale over the maximum log-density gives the
	// relative height below which a local maximum is ignored.
	PeakThresholdScale = 0.02
	// PeakMinSeparation is the minimum index distance between peaks.
	PeakMinSeparation = 100

	DefaultFolds         = 4
	DefaultSubsampleSize = 2000
)

var DefaultBandwidths = []float64{0.01, 0.05, 0.1, 0.15, 0.2}
