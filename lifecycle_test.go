package dpgmm

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestReduceLabels(t *testing.T) {
	tests := []struct {
		name string
		z    []int
		want []int
		k    int
	}{
		{
			name: "already contiguous",
			z:    []int{0, 1, 2, 1, 0},
			want: []int{0, 1, 2, 1, 0},
			k:    3,
		},
		{
			name: "gap from an emptied component",
			z:    []int{0, 2, 2, 0},
			want: []int{0, 1, 1, 0},
			k:    2,
		},
		{
			name: "fresh labels from a spawn sweep",
			z:    []int{5, 0, 7, 0, 5},
			want: []int{1, 0, 2, 0, 1},
			k:    3,
		},
		{
			name: "single component",
			z:    []int{3, 3, 3},
			want: []int{0, 0, 0},
			k:    1,
		},
		{
			name: "empty",
			z:    []int{},
			want: []int{},
			k:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, k := reduceLabels(tt.z)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.k, k)
		})
	}
}

// Labels with the same original value must map to the same new value, the
// result must be exactly [0, k), and the input must not be mutated.
func TestReduceLabelsProperties(t *testing.T) {
	rnd := rand.New(rand.NewPCG(7, 0))
	z := make([]int, 500)
	for i := range z {
		z[i] = rnd.IntN(40)
	}
	orig := append([]int(nil), z...)

	out, k := reduceLabels(z)
	require.Equal(t, orig, z, "input mutated")

	mapping := map[int]int{}
	seen := map[int]bool{}
	for i := range z {
		if prev, ok := mapping[z[i]]; ok {
			require.Equal(t, prev, out[i], "original label %d mapped inconsistently", z[i])
		}
		mapping[z[i]] = out[i]
		seen[out[i]] = true
		require.GreaterOrEqual(t, out[i], 0)
		require.Less(t, out[i], k)
	}
	require.Len(t, seen, k, "output labels must cover [0, k)")
}

func TestUpdateWeights(t *testing.T) {
	tests := []struct {
		name  string
		k     int
		z     []int
		alpha float64
		want  []float64
	}{
		{
			name:  "two components plus spawn slot",
			k:     2,
			z:     []int{0, 0, 1},
			alpha: 0.5,
			want:  []float64{2.5 / 4.5, 1.5 / 4.5, 0.5 / 4.5},
		},
		{
			name:  "no components, all mass under the prior",
			k:     0,
			z:     []int{},
			alpha: 0.5,
			want:  []float64{1},
		},
		{
			name:  "single occupied component",
			k:     1,
			z:     []int{0, 0, 0, 0},
			alpha: 1,
			want:  []float64{5.0 / 6.0, 1.0 / 6.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.alpha, 1, DefaultConfig())
			require.NoError(t, err)
			m.k = tt.k
			m.base.k = tt.k

			m.updateWeights(tt.z)

			w := m.Weights()
			require.Len(t, w, tt.k+1)
			require.InDelta(t, 1, floats.Sum(w), 1e-12)
			for j := range w {
				require.InDelta(t, tt.want[j], w[j], 1e-12)
			}
		})
	}
}
