package dpgmm

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// reduceLabels remaps each label in z to its rank in the sorted set of
// distinct labels, so the result is a contiguous range [0, k). Labels absent
// from z (empty components) simply disappear from the numbering. Returns a
// fresh slice; z is left untouched.
func reduceLabels(z []int) ([]int, int) {
	out := make([]int, len(z))
	if len(z) == 0 {
		return out, 0
	}
	seen := make(map[int]struct{}, len(z))
	for _, zi := range z {
		seen[zi] = struct{}{}
	}
	distinct := make([]int, 0, len(seen))
	for zi := range seen {
		distinct = append(distinct, zi)
	}
	sort.Ints(distinct)
	rank := make(map[int]int, len(distinct))
	for r, zi := range distinct {
		rank[zi] = r
	}
	for i, zi := range z {
		out[i] = rank[zi]
	}
	return out, len(distinct)
}

// reduce compacts the labels in z and records the resulting component count.
// Must run before every parameter update that follows an indicator draw, so
// freshly spawned labels become ordinary contiguous components.
func (m *IMM) reduce(z []int) []int {
	out, k := reduceLabels(z)
	m.k = k
	return out
}

// update re-broadcasts the canonical prior hyperparameters to the current
// component count, resets the component parameter storage, and delegates to
// the finite-base conjugate draw. The broadcast is replication only: every
// row is identical to the canonical prior cached by SetPriors.
func (m *IMM) update(x *mat.Dense, z []int) error {
	b := &m.base
	b.k = m.k
	b.priorMeans = make([][]float64, m.k)
	b.priorDof = make([]float64, m.k)
	b.priorShrinkage = make([]float64, m.k)
	b.priorInvScale = make([]*mat.SymDense, m.k)
	b.priorLogDet = make([]float64, m.k)
	for j := 0; j < m.k; j++ {
		b.priorMeans[j] = m.prior.mean
		b.priorDof[j] = m.prior.dof
		b.priorShrinkage[j] = m.prior.shrinkage
		b.priorInvScale[j] = m.prior.invScale
		b.priorLogDet[j] = m.prior.logDet
	}

	if m.k > 0 {
		b.means = mat.NewDense(m.k, m.dim, nil)
		b.precisions = make([]*mat.SymDense, m.k)
		if err := b.updateParams(x, z); err != nil {
			return err
		}
	} else {
		b.means = nil
		b.precisions = nil
	}

	m.updateWeights(z)
	return nil
}

// updateWeights sets the mixture weights to the Dirichlet posterior mean of
// the component occupancies, with the final slot carrying the mass of a not
// yet instantiated component (count 0 plus the concentration).
//
// This is deliberately a deterministic plug-in update, not a stochastic draw
// from the Dirichlet posterior: the indicator resampling already supplies the
// chain's randomness, and the posterior mean keeps the weight step cheap and
// reproducible.
func (m *IMM) updateWeights(z []int) {
	w := make([]float64, m.k+1)
	copy(w, m.base.pop(z))
	for j := range w {
		w[j] += m.alpha
	}
	floats.Scale(1/floats.Sum(w), w)
	m.base.weights = w
}
