package dpgmm

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// likelihoodUnderPrior computes the prior-predictive density of each row of
// x: the closed-form multivariate Student-t marginal of the
// Normal-inverse-Wishart prior. Output is strictly positive, one value per
// point, and each point is computed independently of the others.
//
// The per-point loop is split across Workers goroutines over disjoint row
// ranges; the shared prior is read-only.
func (m *IMM) likelihoodUnderPrior(x *mat.Dense) ([]float64, error) {
	n, d := x.Dims()

	a := m.prior.dof
	tau := m.prior.shrinkage / (1 + m.prior.shrinkage)

	lgTop, _ := math.Lgamma((a + 1) / 2)
	lgBot, _ := math.Lgamma((a - float64(d)) / 2)
	scalar := float64(d)*math.Log(tau/math.Pi) + 2*lgTop - 2*lgBot - a*m.prior.logDet

	out := make([]float64, n)

	workers := m.workers
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		if err := m.priorLikeRange(x, out, 0, n, scalar, tau); err != nil {
			return nil, err
		}
		return out, nil
	}

	// Contiguous row chunks; no two workers touch the same output index.
	var g errgroup.Group
	rowsPerWorker := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, n)
		if start >= n {
			break
		}
		g.Go(func() error {
			return m.priorLikeRange(x, out, start, end, scalar, tau)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// priorLikeRange fills out[start:end] with the prior-predictive density of
// the corresponding rows of x. For point i with u = prior mean − x_i:
//
//	out_i = exp((scalar − (a+1)·logdet(inv(B0) + τ·u·uᵀ)) / 2)
func (m *IMM) priorLikeRange(x *mat.Dense, out []float64, start, end int, scalar, tau float64) error {
	d := m.dim
	a := m.prior.dof
	u := make([]float64, d)
	s := mat.NewSymDense(d, nil)
	var chol mat.Cholesky

	for i := start; i < end; i++ {
		row := x.RawRowView(i)
		for c := range u {
			u[c] = m.prior.mean[c] - row[c]
		}
		s.CopySym(m.prior.invScale)
		s.SymRankOne(s, tau, mat.NewVecDense(d, u))
		if !chol.Factorize(s) {
			return fmt.Errorf("dpgmm: prior likelihood: shrinkage-adjusted scale for point %d is not positive definite: %w", i, ErrNumerical)
		}
		out[i] = math.Exp((scalar - (a+1)*chol.LogDet()) / 2)
	}
	return nil
}

// likelihood returns the weighted likelihood matrix of x under the current
// model: one column per component plus a final column for the mass of a new
// component, each scaled by the matching mixture weight. plike is the
// prior-predictive density of x; pass nil to have it computed here.
//
// Shape is n×(k+1), or n×1 when no components exist yet.
func (m *IMM) likelihood(x *mat.Dense, plike []float64) (*mat.Dense, error) {
	var err error
	if plike == nil {
		plike, err = m.likelihoodUnderPrior(x)
		if err != nil {
			return nil, err
		}
	}
	n, _ := x.Dims()

	if m.k == 0 {
		like := mat.NewDense(n, 1, nil)
		for i, p := range plike {
			like.Set(i, 0, p*m.base.weights[0])
		}
		return like, nil
	}

	unw, err := m.base.unweightedLikelihood(x)
	if err != nil {
		return nil, err
	}
	like := mat.NewDense(n, m.k+1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < m.k; j++ {
			like.Set(i, j, unw.At(i, j)*m.base.weights[j])
		}
		like.Set(i, m.k, plike[i]*m.base.weights[m.k])
	}
	return like, nil
}

// rowSums collapses an n×c matrix to its per-row sums.
func rowSums(a *mat.Dense) []float64 {
	n, c := a.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		row := a.RawRowView(i)
		for j := 0; j < c; j++ {
			out[i] += row[j]
		}
	}
	return out
}
