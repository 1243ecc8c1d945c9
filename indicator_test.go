package dpgmm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSampleIndicatorDeterministicRows(t *testing.T) {
	// One-hot rows make the categorical draw deterministic regardless of the
	// random source.
	m, err := New(0.5, 1, DefaultConfig())
	require.NoError(t, err)
	m.k = 2

	like := mat.NewDense(4, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 1, 0,
		1, 0, 0,
	})
	z, err := m.sampleIndicator(like)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 1, 0}, z)
}

// Points drawing the final "new component" column must receive distinct
// fresh labels k, k+1, ... in point order, not a single shared label.
func TestSampleIndicatorFreshLabels(t *testing.T) {
	m, err := New(0.5, 1, DefaultConfig())
	require.NoError(t, err)
	m.k = 2

	like := mat.NewDense(5, 3, []float64{
		0, 0, 1,
		1, 0, 0,
		0, 0, 1,
		0, 0, 1,
		0, 1, 0,
	})
	z, err := m.sampleIndicator(like)
	require.NoError(t, err)
	require.Equal(t, []int{2, 0, 3, 4, 1}, z)
}

// With no components the single column is the prior: every point spawns its
// own fresh component.
func TestSampleIndicatorAllSpawn(t *testing.T) {
	m, err := New(0.5, 1, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 0, m.k)

	like := mat.NewDense(3, 1, []float64{0.2, 0.4, 0.1})
	z, err := m.sampleIndicator(like)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, z)
}

func TestSampleIndicatorBadRows(t *testing.T) {
	tests := []struct {
		name string
		row  []float64
	}{
		{name: "all zero", row: []float64{0, 0, 0}},
		{name: "negative", row: []float64{0.5, -0.1, 0.2}},
		{name: "nan", row: []float64{0.5, math.NaN(), 0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(0.5, 1, DefaultConfig())
			require.NoError(t, err)
			m.k = 2
			like := mat.NewDense(1, 3, tt.row)
			_, err = m.sampleIndicator(like)
			require.ErrorIs(t, err, ErrNumerical)
		})
	}
}
