package model

// Peak is a local maximum of an estimated density curve.
type Peak struct {
	X       float64 `json:"x"`
	Density float64 `json:"density"`
}

// DensityEstimate is one fitted kernel density: its evaluation grid,
// the density at each grid point, and the peaks detected on the curve.
type DensityEstimate struct {
	Grid      []float64
	Density   []float64
	Bandwidth float64
	Kernel    string
	Domain    string
	Peaks     []Peak
}

// BandwidthScore is the cross-validated mean held-out log-likelihood
// for one candidate bandwidth.
type BandwidthScore struct {
	Bandwidth         float64 `json:"bw"`
	MeanLogLikelihood float64 `json:"mean_loglik"`
}

// BandwidthSelection ranks candidate bandwidths by cross-validated
// likelihood. It is independent of any particular DensityEstimate.
type BandwidthSelection struct {
	Scores []BandwidthScore
	Best   float64
}

// Histogram is density-normalized histogram data handed to the plot
// adapter. Edges has one more entry than Heights.
type Histogram struct {
	Edges   []float64
	Heights []float64
}

// OverlayData is the displayable rendition of one mixture model over an
// evaluation grid: per-component weighted densities, their sum, and the
// component locations in linear units. Curves are in display space, so
// a log-space model contributes log-normal curves.
type OverlayData struct {
	Grid         []float64
	Mixture      []float64
	Components   [][]float64
	Weights      []float64
	DisplayMeans []float64
	LogSpace     bool
}
