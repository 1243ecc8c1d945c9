package dpgmm

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// foldIndices partitions perm into folds contiguous blocks. The remainder
// r = len(perm) % folds is spread over the first r blocks, so fold sizes
// differ by at most one and no fold is empty.
func foldIndices(perm []int, folds int) [][]int {
	n := len(perm)
	base := n / folds
	rem := n % folds
	out := make([][]int, folds)
	at := 0
	for f := 0; f < folds; f++ {
		size := base
		if f < rem {
			size++
		}
		out[f] = perm[at : at+size]
		at += size
	}
	return out
}

// crossValidatedUpdate performs one assignment sweep in which no point is
// ever scored by a model fit on itself. Points are randomly partitioned into
// folds; for each fold the model is refit from the other folds' current
// assignments, the held-out points are scored under that refit model, and
// their indicators are redrawn from those scores.
//
// z is updated in place with the redrawn indicators; the returned vector
// holds each point's held-out likelihood (summed over the k+1 columns).
func (m *IMM) crossValidatedUpdate(x *mat.Dense, z []int, plike []float64, folds int) ([]float64, error) {
	n, _ := x.Dims()
	if folds < 2 || folds > n {
		return nil, fmt.Errorf("dpgmm: cross-validated update: %d folds for %d points: %w", folds, n, ErrBadFolds)
	}

	perm := m.rnd.Perm(n)
	slike := make([]float64, n)

	for _, test := range foldIndices(perm, folds) {
		held := make(map[int]bool, len(test))
		for _, i := range test {
			held[i] = true
		}
		train := make([]int, 0, n-len(test))
		for i := 0; i < n; i++ {
			if !held[i] {
				train = append(train, i)
			}
		}

		// Refit on the complement of the fold.
		ztrain := make([]int, len(train))
		for ti, i := range train {
			ztrain[ti] = z[i]
		}
		ztrain = m.reduce(ztrain)
		if err := m.update(gatherRows(x, train, m.dim), ztrain); err != nil {
			return nil, err
		}

		// Score and reseat the held-out points.
		ptest := make([]float64, len(test))
		for ti, i := range test {
			ptest[ti] = plike[i]
		}
		alike, err := m.likelihood(gatherRows(x, test, m.dim), ptest)
		if err != nil {
			return nil, err
		}
		ztest, err := m.sampleIndicator(alike)
		if err != nil {
			return nil, err
		}
		sums := rowSums(alike)
		for ti, i := range test {
			slike[i] = sums[ti]
			z[i] = ztest[ti]
		}
	}
	return slike, nil
}

// gatherRows copies the given rows of x into a new matrix.
func gatherRows(x *mat.Dense, idx []int, dim int) *mat.Dense {
	out := mat.NewDense(len(idx), dim, nil)
	for ti, i := range idx {
		out.SetRow(ti, x.RawRowView(i))
	}
	return out
}
