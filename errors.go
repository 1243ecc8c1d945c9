package dpgmm

import "errors"

var (
	// ErrInvalidDimension is returned when the data matrix is empty or its
	// column count does not match the dimension fixed at construction.
	ErrInvalidDimension = errors.New("data dimension does not match model")

	// ErrDegeneratePrior is returned by SetPriors when the centered data
	// covariance has a zero diagonal entry, so the prior scale matrix
	// cannot be formed.
	ErrDegeneratePrior = errors.New("degenerate prior covariance")

	// ErrNumerical is returned when sampling reaches a numerically singular
	// state: a posterior scale that is not positive definite, or a
	// likelihood row with no finite positive mass. The current call is
	// aborted; no retries are attempted.
	ErrNumerical = errors.New("numerically singular state")

	// ErrBadFolds is returned when the cross-validation fold count would
	// produce an empty fold or an empty training set.
	ErrBadFolds = errors.New("fold count out of range")
)
