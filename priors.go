package dpgmm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// priorParams is the canonical weakly-informative prior, computed once by
// SetPriors and never mutated. Lifecycle updates broadcast it to per-component
// rows; see (*IMM).update.
type priorParams struct {
	mean      []float64
	scale     *mat.SymDense // axis-aligned precision proxy of the data
	invScale  *mat.SymDense
	logDet    float64 // log-determinant of scale
	dof       float64
	shrinkage float64
	weight    float64 // Dirichlet concentration
}

// SetPriors computes weakly-informative prior hyperparameters from a data
// sample, following Fraley & Raftery (J. Classification 24:155-181, 2007):
// prior mean = sample mean, prior scale = the diagonal precision proxy
// diag(1/var_c), prior dof = dim+2. The inverse and log-determinant of the
// scale are cached here and reused by every likelihood computation.
//
// Returns ErrDegeneratePrior if any dimension of x has zero variance.
func (m *IMM) SetPriors(x *mat.Dense) error {
	if err := m.checkX(x); err != nil {
		return fmt.Errorf("dpgmm: set priors: %w", err)
	}
	n, d := x.Dims()

	mean := make([]float64, d)
	for i := 0; i < n; i++ {
		row := x.RawRowView(i)
		for c := range mean {
			mean[c] += row[c]
		}
	}
	for c := range mean {
		mean[c] /= float64(n)
	}

	// Diagonal of the centered covariance, divisor n.
	variance := make([]float64, d)
	for i := 0; i < n; i++ {
		row := x.RawRowView(i)
		for c := range variance {
			dx := row[c] - mean[c]
			variance[c] += dx * dx
		}
	}

	scale := mat.NewSymDense(d, nil)
	invScale := mat.NewSymDense(d, nil)
	logDet := 0.0
	for c, v := range variance {
		v /= float64(n)
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("dpgmm: set priors: dimension %d has variance %g: %w", c, v, ErrDegeneratePrior)
		}
		scale.SetSym(c, c, 1/v)
		invScale.SetSym(c, c, v)
		logDet -= math.Log(v)
	}

	m.prior = &priorParams{
		mean:      mean,
		scale:     scale,
		invScale:  invScale,
		logDet:    logDet,
		dof:       float64(d) + 2,
		shrinkage: m.shrinkage,
		weight:    m.alpha,
	}
	return nil
}
