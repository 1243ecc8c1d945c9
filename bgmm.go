package dpgmm

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// BGMM is a finite Bayesian Gaussian mixture with conjugate
// Normal-inverse-Wishart priors on the component parameters. It owns the
// per-component means and precision matrices and redraws them from their
// conditional posterior given data and hard assignments. [IMM] layers the
// Dirichlet Process machinery on top of it.
//
// Prior hyperparameters are stored one row per component. The IMM keeps all
// rows identical (broadcast copies of a single canonical prior); a finite
// mixture may set them per component.
type BGMM struct {
	dim int
	k   int

	priorMeans     [][]float64
	priorDof       []float64
	priorShrinkage []float64
	priorInvScale  []*mat.SymDense // inverse of the Wishart scale matrix
	priorLogDet    []float64       // log-determinant of the Wishart scale matrix

	// Component parameters. Reallocated wholesale whenever k changes,
	// never patched in place.
	means      *mat.Dense      // k×dim
	precisions []*mat.SymDense // k matrices of dim×dim

	weights []float64

	src rand.Source
}

// updateParams draws new component means and precisions from their
// conditional posterior given the data x and assignments z. For component j
// with n_j member points, mean x̄ and scatter S about x̄:
//
//	Λ_j ~ Wishart(a0 + n_j, inv(inv(B0) + S + κ0·n_j/(κ0+n_j)·(x̄−m0)(x̄−m0)ᵀ))
//	μ_j | Λ_j ~ N((κ0·m0 + n_j·x̄)/(κ0+n_j), ((κ0+n_j)·Λ_j)⁻¹)
//
// Components with no members are drawn from the prior.
func (b *BGMM) updateParams(x *mat.Dense, z []int) error {
	d := b.dim
	xbar := make([]float64, d)
	dx := make([]float64, d)
	mn := make([]float64, d)

	for j := 0; j < b.k; j++ {
		var members []int
		for i, zi := range z {
			if zi == j {
				members = append(members, i)
			}
		}
		nj := float64(len(members))
		k0 := b.priorShrinkage[j]
		a0 := b.priorDof[j]
		m0 := b.priorMeans[j]
		kn := k0 + nj

		for c := range xbar {
			xbar[c] = 0
		}
		for _, i := range members {
			floats.Add(xbar, x.RawRowView(i))
		}
		if nj > 0 {
			floats.Scale(1/nj, xbar)
		}

		// Posterior scale precursor: inv(B0) + scatter + shrinkage term.
		sn := mat.NewSymDense(d, nil)
		sn.CopySym(b.priorInvScale[j])
		for _, i := range members {
			floats.SubTo(dx, x.RawRowView(i), xbar)
			sn.SymRankOne(sn, 1, mat.NewVecDense(d, dx))
		}
		if nj > 0 {
			floats.SubTo(dx, xbar, m0)
			sn.SymRankOne(sn, k0*nj/kn, mat.NewVecDense(d, dx))
		}

		var chol mat.Cholesky
		if !chol.Factorize(sn) {
			return fmt.Errorf("dpgmm: parameter update: posterior scale for component %d is not positive definite: %w", j, ErrNumerical)
		}
		scale := mat.NewSymDense(d, nil)
		if err := chol.InverseTo(scale); err != nil {
			return fmt.Errorf("dpgmm: parameter update: inverting posterior scale for component %d: %w", j, ErrNumerical)
		}

		wish, ok := distmat.NewWishart(scale, a0+nj, b.src)
		if !ok {
			return fmt.Errorf("dpgmm: parameter update: invalid Wishart posterior for component %d (dof %g): %w", j, a0+nj, ErrNumerical)
		}
		prec := mat.NewSymDense(d, nil)
		wish.RandSymTo(prec)

		for c := range mn {
			mn[c] = (k0*m0[c] + nj*xbar[c]) / kn
		}
		// Mean precision is κn·Λ.
		meanPrec := mat.NewSymDense(d, nil)
		for r := 0; r < d; r++ {
			for c := r; c < d; c++ {
				meanPrec.SetSym(r, c, kn*prec.At(r, c))
			}
		}
		norm, ok := distmv.NewNormalPrecision(mn, meanPrec, b.src)
		if !ok {
			return fmt.Errorf("dpgmm: parameter update: sampled precision for component %d is not positive definite: %w", j, ErrNumerical)
		}

		b.means.SetRow(j, norm.Rand(nil))
		b.precisions[j] = prec
	}
	return nil
}

// unweightedLikelihood returns the n×k matrix of per-component Gaussian
// densities of each row of x under the current component parameters.
func (b *BGMM) unweightedLikelihood(x *mat.Dense) (*mat.Dense, error) {
	n, _ := x.Dims()
	like := mat.NewDense(n, b.k, nil)
	for j := 0; j < b.k; j++ {
		norm, ok := distmv.NewNormalPrecision(b.means.RawRowView(j), b.precisions[j], nil)
		if !ok {
			return nil, fmt.Errorf("dpgmm: likelihood: precision for component %d is not positive definite: %w", j, ErrNumerical)
		}
		for i := 0; i < n; i++ {
			like.Set(i, j, math.Exp(norm.LogProb(x.RawRowView(i))))
		}
	}
	return like, nil
}

// pop counts the points assigned to each of the k components.
func (b *BGMM) pop(z []int) []float64 {
	counts := make([]float64, b.k)
	for _, zi := range z {
		if zi >= 0 && zi < b.k {
			counts[zi]++
		}
	}
	return counts
}

// sampleIndicator draws one component index per row of like, proportional to
// the row's entries. Rows must contain only finite nonnegative values with
// positive total mass.
func (b *BGMM) sampleIndicator(like *mat.Dense) ([]int, error) {
	n, cols := like.Dims()
	z := make([]int, n)
	for i := 0; i < n; i++ {
		row := like.RawRowView(i)
		sum := 0.0
		for _, v := range row {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("dpgmm: indicator draw: invalid likelihood %g for point %d: %w", v, i, ErrNumerical)
			}
			sum += v
		}
		if sum <= 0 {
			return nil, fmt.Errorf("dpgmm: indicator draw: point %d has zero likelihood under all %d components: %w", i, cols, ErrNumerical)
		}
		cat := distuv.NewCategorical(row, b.src)
		z[i] = int(cat.Rand())
	}
	return z, nil
}
