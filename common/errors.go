package common

import "errors"

var (
	// ErrorEmptyInput signals that the working vector is empty after
	// NaN-dropping, range filtering or subsampling.
	ErrorEmptyInput = errors.New("empty input vector")

	// ErrorDegenerateWeight signals a minimum weight of zero or below
	// during resampling, which would break the replication counts.
	ErrorDegenerateWeight = errors.New("minimum weight is not positive")

	// ErrorNumericDegeneracy signals an ill-posed fit: component weights
	// that do not sum to one, or a collapsed variance.
	ErrorNumericDegeneracy = errors.New("numeric degeneracy in fitted model")

	// ErrorInvalidConfig signals an invalid parameter combination or an
	// unsupported kernel/criterion tag.
	ErrorInvalidConfig = errors.New("invalid configuration")
)
