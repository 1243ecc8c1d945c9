package dpgmm

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSetPriors(t *testing.T) {
	// Four 2-d points with mean (1, 2) and variances (2.5, 10) about it.
	x := mat.NewDense(4, 2, []float64{
		0, 0,
		2, 4,
		-1, -2,
		3, 6,
	})

	m, err := New(0.5, 2, DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, m.SetPriors(x))

	p := m.prior
	require.InDelta(t, 1, p.mean[0], 1e-12)
	require.InDelta(t, 2, p.mean[1], 1e-12)

	// Scale is the axis-aligned precision proxy diag(1/var).
	require.InDelta(t, 1.0/2.5, p.scale.At(0, 0), 1e-12)
	require.InDelta(t, 1.0/10.0, p.scale.At(1, 1), 1e-12)
	require.Zero(t, p.scale.At(0, 1))
	require.InDelta(t, 2.5, p.invScale.At(0, 0), 1e-12)
	require.InDelta(t, 10.0, p.invScale.At(1, 1), 1e-12)

	require.Equal(t, 4.0, p.dof, "prior dof must be dim+2")
	require.Equal(t, 0.01, p.shrinkage)
	require.Equal(t, 0.5, p.weight)
}

func TestSetPriorsErrors(t *testing.T) {
	tests := []struct {
		name string
		dim  int
		x    *mat.Dense
		want error
	}{
		{
			name: "constant dimension",
			dim:  2,
			x: mat.NewDense(3, 2, []float64{
				1, 7,
				2, 7,
				3, 7,
			}),
			want: ErrDegeneratePrior,
		},
		{
			name: "dimension mismatch",
			dim:  3,
			x:    mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
			want: ErrInvalidDimension,
		},
		{
			name: "nil data",
			dim:  2,
			x:    nil,
			want: ErrInvalidDimension,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(0.5, tt.dim, DefaultConfig())
			require.NoError(t, err)
			require.ErrorIs(t, m.SetPriors(tt.x), tt.want)
		})
	}
}
