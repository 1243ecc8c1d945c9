package dpgmm

import "gonum.org/v1/gonum/mat"

// sampleIndicator draws one label per row of like, proportional to the row's
// entries. Rows that draw the final "new component" column are not merged
// into a single label: each such point receives a distinct fresh label k,
// k+1, ... in point order, so components spawned in the same sweep stay
// separate until the next reduce pass relabels them.
func (m *IMM) sampleIndicator(like *mat.Dense) ([]int, error) {
	z, err := m.base.sampleIndicator(like)
	if err != nil {
		return nil, err
	}
	fresh := 0
	for i, zi := range z {
		if zi == m.k {
			z[i] = m.k + fresh
			fresh++
		}
	}
	return z, nil
}
