package element

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allTypes = []ElementType{Line2, Line3, Tri3, Tri6, Quad4, Tet4, Hex8,
	LineP0, TriP0, QuadP0, TetP0, HexP0}

func TestShape_KroneckerAndPartitionOfUnity(t *testing.T) {
	for _, et := range allTypes {
		s := Lookup(et)
		assert.Equal(t, et, s.Type())
		N := make([]float64, s.NodeCount())
		for i, node := range s.ReferenceNodes() {
			s.Values(node, N)
			for j := range N {
				want := 0.
				if i == j {
					want = 1
				}
				assert.InDeltaf(t, want, N[j], 1.e-14, "%s node %d value %d", et, i, j)
			}
		}
		s.Values(s.ReferenceCentroid(), N)
		var sum float64
		for _, v := range N {
			sum += v
		}
		assert.InDelta(t, 1., sum, 1.e-14, et.String())
	}
}

func TestShape_GradientsMatchFiniteDifference(t *testing.T) {
	const h = 1.e-6
	for _, et := range allTypes {
		var (
			s      = Lookup(et)
			d, n   = s.Dimensionality(), s.NodeCount()
			local  = s.ReferenceCentroid()
			dN     = make([][]float64, n)
			Np, Nm = make([]float64, n), make([]float64, n)
		)
		for i := range dN {
			dN[i] = make([]float64, d)
		}
		// off-centre point so quadratic terms matter
		for k := range local {
			local[k] += 0.07 * float64(k+1)
		}
		s.Gradients(local, dN)
		for k := 0; k < d; k++ {
			lp := append([]float64(nil), local...)
			lm := append([]float64(nil), local...)
			lp[k] += h
			lm[k] -= h
			s.Values(lp, Np)
			s.Values(lm, Nm)
			for i := 0; i < n; i++ {
				assert.InDeltaf(t, (Np[i]-Nm[i])/(2*h), dN[i][k], 1.e-7, "%s dN[%d][%d]", et, i, k)
			}
		}
	}
}

func TestForOrder(t *testing.T) {
	s, err := ForOrder(TriFamily, 2)
	require.NoError(t, err)
	assert.Equal(t, Tri6, s.Type())
	s, err = ForOrder(HexFamily, 0)
	require.NoError(t, err)
	assert.Equal(t, HexP0, s.Type())
	_, err = ForOrder(QuadFamily, 2)
	assert.Error(t, err)
}

func TestMappedCoordinates_RoundTrip(t *testing.T) {
	tests := []struct {
		et     ElementType
		coords [][]float64
		local  []float64
	}{
		{Line2, [][]float64{{2}, {6}}, []float64{0.3}},
		{Tri3, [][]float64{{1, 1}, {4, 1.5}, {2, 5}}, []float64{0.2, 0.3}},
		{Quad4, [][]float64{{0, 0}, {2, 0.2}, {2.5, 2}, {-0.3, 1.7}}, []float64{0.4, -0.6}},
		{Tet4, [][]float64{{0, 0, 0}, {2, 0, 0}, {0, 3, 0}, {0.5, 0.5, 1}}, []float64{0.1, 0.2, 0.3}},
		{Hex8, [][]float64{{0, 0, 0}, {1, 0, 0}, {1.1, 1, 0}, {0, 1, 0},
			{0, 0, 1}, {1, 0, 1.2}, {1, 1, 1}, {0, 1.1, 1}}, []float64{-0.2, 0.5, 0.1}},
	}
	for _, tt := range tests {
		s := Lookup(tt.et)
		x := MapToPhysical(s, tt.local, tt.coords)
		local, err := MappedCoordinates(s, x, tt.coords)
		require.NoError(t, err, tt.et.String())
		for k := range local {
			assert.InDelta(t, tt.local[k], local[k], 1.e-10, tt.et.String())
		}
		assert.True(t, IsPointInElement(s, x, tt.coords), tt.et.String())
	}
}

func TestIsPointInElement(t *testing.T) {
	var (
		quad   = Lookup(Quad4)
		coords = [][]float64{{0, 0}, {2, 0}, {2, 2}, {0, 2}}
	)
	assert.True(t, IsPointInElement(quad, []float64{1, 1}, coords))
	assert.True(t, IsPointInElement(quad, []float64{2, 1}, coords)) // on the boundary
	assert.False(t, IsPointInElement(quad, []float64{2.1, 1}, coords))
	assert.False(t, IsPointInElement(quad, []float64{1, -0.01}, coords))

	tri := Lookup(Tri3)
	tc := [][]float64{{0, 0}, {1, 0}, {0, 1}}
	assert.True(t, IsPointInElement(tri, []float64{0.25, 0.25}, tc))
	// inside the bounding box, outside the hypotenuse
	assert.False(t, IsPointInElement(tri, []float64{0.8, 0.8}, tc))
}

func TestMappedCoordinates_Degenerate(t *testing.T) {
	var (
		quad   = Lookup(Quad4)
		coords = [][]float64{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	)
	_, err := MappedCoordinates(quad, []float64{0.5, 0.5}, coords)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSingularJacobian))
	assert.False(t, IsPointInElement(quad, []float64{0.5, 0}, coords))
}

func TestCentroid(t *testing.T) {
	c := Centroid([][]float64{{0, 0}, {2, 0}, {2, 2}, {0, 2}})
	assert.Equal(t, []float64{1, 1}, c)
	assert.Nil(t, Centroid(nil))
	assert.False(t, math.IsNaN(extent([][]float64{{1, 1}})))
}
