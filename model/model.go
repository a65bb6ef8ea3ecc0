package model

import "math"

// WeightedValue is one row of a weighted Ks distribution: a synonymous
// substitution rate and the weight assigned to it by the upstream
// duplication analysis (outliers included).
type WeightedValue struct {
	Ks     float64 `json:"ks"`
	Weight float64 `json:"weight"`
}

// Interval is a Ks value range with strict-exclusive bounds, always
// expressed in linear (untransformed) units.
type Interval struct {
	Lo float64
	Hi float64
}

func (iv Interval) Contains(v float64) bool {
	return v > iv.Lo && v < iv.Hi
}

func (iv Interval) Valid() bool {
	return iv.Hi > iv.Lo
}

type FitFamily int

const (
	PlainGaussian     FitFamily = 1
	BayesianDirichlet FitFamily = 2
)

func (f FitFamily) String() string {
	switch f {
	case PlainGaussian:
		return "gmm"
	case BayesianDirichlet:
		return "bgmm"
	}
	return "unknown"
}

// Component is one mixture component. When the model was fit in log
// space, Mean and Variance are the parameters of the underlying normal
// in log units.
type Component struct {
	Weight   float64 `json:"weight"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"var"`
}

// MixtureModel is a fitted mixture of K normal (or, in log space,
// log-normal) components. It is never mutated after fitting.
type MixtureModel struct {
	NComponents   int
	Components    []Component
	Family        FitFamily
	LogSpace      bool
	LogLikelihood float64
	SampleSize    int
	Iterations    int
	Converged     bool
}

func (m *MixtureModel) Weights() []float64 {
	res := make([]float64, len(m.Components))
	for i, c := range m.Components {
		res[i] = c.Weight
	}
	return res
}

func (m *MixtureModel) Means() []float64 {
	res := make([]float64, len(m.Components))
	for i, c := range m.Components {
		res[i] = c.Mean
	}
	return res
}

func (m *MixtureModel) Variances() []float64 {
	res := make([]float64, len(m.Components))
	for i, c := range m.Components {
		res[i] = c.Variance
	}
	return res
}

// DisplayMeans reports component locations in linear Ks units: the
// fitted means, exponentiated when the fit was performed in log space.
func (m *MixtureModel) DisplayMeans() []float64 {
	res := m.Means()
	if !m.LogSpace {
		return res
	}
	for i := range res {
		res[i] = math.Exp(res[i])
	}
	return res
}

// FamilyEntry is the per-component-count fit result. Err marks a fit
// that degenerated; lower-K successes in the same family are kept.
type FamilyEntry struct {
	Model *MixtureModel
	Err   error
}

// ModelFamily holds one entry per requested component count, in
// increasing-K order.
type ModelFamily []FamilyEntry

// ScoredModel pairs a fitted model with its information-criterion
// score. Lower is better. Err is carried over from the family entry
// when the fit failed; the score is NaN in that case.
type ScoredModel struct {
	Model *MixtureModel
	Score float64
	Err   error
}
