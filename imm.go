package dpgmm

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// IMM is an infinite Gaussian mixture model sampler: a Dirichlet Process
// mixture over multivariate Gaussian components, layered on a finite
// Bayesian mixture base. The number of components is inferred, not fixed;
// every sweep may spawn new components and discard empty ones.
//
// An IMM is a long-lived handle: call [IMM.SetPriors] once per dataset, then
// [IMM.Sample] as many times as needed. It is not safe for concurrent use.
type IMM struct {
	base BGMM

	alpha     float64
	dim       int
	shrinkage float64
	workers   int

	// k is the current component count. 0 is a valid state meaning all
	// probability mass sits under the prior.
	k int

	prior *priorParams

	rnd *rand.Rand
}

// New creates an IMM sampler with Dirichlet concentration alpha over data of
// the given dimension. alpha must be > 0 and dim >= 1; both are fixed for
// the model's lifetime.
func New(alpha float64, dim int, cfg Config) (*IMM, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	if alpha <= 0 {
		return nil, fmt.Errorf("dpgmm: alpha must be > 0, got %g", alpha)
	}
	if dim < 1 {
		return nil, fmt.Errorf("dpgmm: dim must be >= 1, got %d", dim)
	}
	return &IMM{
		base: BGMM{
			dim:     dim,
			src:     cfg.Src,
			weights: []float64{1},
		},
		alpha:     alpha,
		dim:       dim,
		shrinkage: cfg.Shrinkage,
		workers:   cfg.Workers,
		rnd:       rand.New(cfg.Src),
	}, nil
}

// SampleOptions controls a single call to [IMM.Sample].
type SampleOptions struct {
	// Iterations is the number of full sampling sweeps. Must be >= 1.
	Iterations int

	// SamplingPoints, when non-nil, is a fixed set of evaluation points; the
	// returned vector is their likelihood under the model averaged over
	// iterations. When nil, the in-sample likelihood of the data is
	// averaged instead.
	SamplingPoints *mat.Dense

	// Init starts the chain from a single component covering every point.
	// Without it the chain starts from the current model state (k=0 for a
	// fresh sampler, which makes the first sweep spawn components freely).
	Init bool

	// Folds, when > 0, selects the cross-validated update: each sweep scores
	// and reseats every point using a model fit without that point. 0 uses
	// the plain Gibbs sweep. Valid fold counts are 2..n.
	Folds int
}

// Sample runs the Markov chain for the configured number of sweeps and
// returns the averaged likelihood vector: per data point when
// SamplingPoints is nil, per evaluation point otherwise. The component count
// after the call is whatever the final sweep produced; unbounded growth is a
// property of the Dirichlet Process prior, not an error.
//
// SetPriors must have been called first.
func (m *IMM) Sample(x *mat.Dense, opts SampleOptions) ([]float64, error) {
	if err := m.checkX(x); err != nil {
		return nil, fmt.Errorf("dpgmm: sample: %w", err)
	}
	if m.prior == nil {
		return nil, fmt.Errorf("dpgmm: sample: priors not set, call SetPriors first")
	}
	if opts.Iterations < 1 {
		return nil, fmt.Errorf("dpgmm: sample: Iterations must be >= 1, got %d", opts.Iterations)
	}
	n, _ := x.Dims()

	plike, err := m.likelihoodUnderPrior(x)
	if err != nil {
		return nil, err
	}

	var splike, avg []float64
	if opts.SamplingPoints != nil {
		if err := m.checkX(opts.SamplingPoints); err != nil {
			return nil, fmt.Errorf("dpgmm: sample: evaluation points: %w", err)
		}
		if splike, err = m.likelihoodUnderPrior(opts.SamplingPoints); err != nil {
			return nil, err
		}
		avg = make([]float64, len(splike))
	} else {
		avg = make([]float64, n)
	}

	if opts.Init {
		m.k = 1
		if err := m.update(x, make([]int, n)); err != nil {
			return nil, err
		}
	}

	like, err := m.likelihood(x, plike)
	if err != nil {
		return nil, err
	}
	z, err := m.sampleIndicator(like)
	if err != nil {
		return nil, err
	}

	for it := 0; it < opts.Iterations; it++ {
		var stepLike []float64
		if opts.Folds > 0 {
			stepLike, err = m.crossValidatedUpdate(x, z, plike, opts.Folds)
		} else {
			stepLike, z, err = m.simpleUpdate(x, z, plike)
		}
		if err != nil {
			return nil, err
		}

		if opts.SamplingPoints == nil {
			floats.Add(avg, stepLike)
		} else {
			slike, err := m.likelihood(opts.SamplingPoints, splike)
			if err != nil {
				return nil, err
			}
			floats.Add(avg, rowSums(slike))
		}
	}

	floats.Scale(1/float64(opts.Iterations), avg)
	return avg, nil
}

// simpleUpdate is one plain Gibbs sweep: score every point under the current
// model, redraw all indicators, compact the labels and redraw the component
// parameters. Returns the pre-sweep per-point likelihood and the new
// assignments.
func (m *IMM) simpleUpdate(x *mat.Dense, z []int, plike []float64) ([]float64, []int, error) {
	like, err := m.likelihood(x, plike)
	if err != nil {
		return nil, nil, err
	}
	z, err = m.sampleIndicator(like)
	if err != nil {
		return nil, nil, err
	}
	z = m.reduce(z)
	if err := m.update(x, z); err != nil {
		return nil, nil, err
	}
	return rowSums(like), z, nil
}

// checkX validates the data matrix against the model dimension.
func (m *IMM) checkX(x *mat.Dense) error {
	if x == nil {
		return fmt.Errorf("nil data matrix: %w", ErrInvalidDimension)
	}
	n, d := x.Dims()
	if n == 0 {
		return fmt.Errorf("empty data matrix: %w", ErrInvalidDimension)
	}
	if d != m.dim {
		return fmt.Errorf("data has %d columns, model dimension is %d: %w", d, m.dim, ErrInvalidDimension)
	}
	return nil
}

// K returns the current component count.
func (m *IMM) K() int { return m.k }

// Weights returns a copy of the current mixture weights. The final entry is
// the mass reserved for a not yet instantiated component.
func (m *IMM) Weights() []float64 { return slices.Clone(m.base.weights) }

// Means returns a copy of the current component means, one row per
// component, or nil when no components exist.
func (m *IMM) Means() *mat.Dense {
	if m.base.means == nil {
		return nil
	}
	return mat.DenseCopyOf(m.base.means)
}

// Precisions returns copies of the current component precision matrices.
func (m *IMM) Precisions() []*mat.SymDense {
	out := make([]*mat.SymDense, len(m.base.precisions))
	for j, p := range m.base.precisions {
		cp := mat.NewSymDense(m.dim, nil)
		cp.CopySym(p)
		out[j] = cp
	}
	return out
}
