package element

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/meshinterp/utils"
)

const (
	// ContainmentTol is the reference-domain slack used by IsPointInElement
	ContainmentTol      = 1.e-10
	maxNewtonIterations = 25
)

// Centroid returns the mean of the element node coordinates
func Centroid(coords [][]float64) (c []float64) {
	if len(coords) == 0 {
		return nil
	}
	c = make([]float64, len(coords[0]))
	for _, x := range coords {
		floats.Add(c, x)
	}
	floats.Scale(1/float64(len(coords)), c)
	return
}

// MapToPhysical evaluates the geometric map of shape s at local
func MapToPhysical(s Shape, local []float64, coords [][]float64) (x []float64) {
	var (
		N = make([]float64, s.NodeCount())
	)
	s.Values(local, N)
	x = make([]float64, len(coords[0]))
	for i, w := range N {
		floats.AddScaled(x, w, coords[i])
	}
	return
}

// MappedCoordinates inverts the geometric map of shape s for point using
// Newton iteration. The result may lie outside the reference domain when
// point is outside the element.
func MappedCoordinates(s Shape, point []float64, coords [][]float64) (local []float64, err error) {
	var (
		d     = s.Dimensionality()
		n     = s.NodeCount()
		N     = make([]float64, n)
		dN    = make([][]float64, n)
		J     = mat.NewDense(d, d, nil)
		res   = mat.NewVecDense(d, nil)
		delta = mat.NewVecDense(d, nil)
		scale = extent(coords)
	)
	if len(coords) != n {
		return nil, fmt.Errorf("%s expects %d node coordinates, have %d", s.Type(), n, len(coords))
	}
	if len(point) < d || len(coords[0]) < d {
		return nil, fmt.Errorf("%s is %d dimensional, point has %d components", s.Type(), d, len(point))
	}
	for i := range dN {
		dN[i] = make([]float64, d)
	}
	local = s.ReferenceCentroid()
	for iter := 0; iter < maxNewtonIterations; iter++ {
		s.Values(local, N)
		s.Gradients(local, dN)
		J.Zero()
		for k := 0; k < d; k++ {
			r := point[k]
			for i := 0; i < n; i++ {
				r -= N[i] * coords[i][k]
				for l := 0; l < d; l++ {
					J.Set(k, l, J.At(k, l)+dN[i][l]*coords[i][k])
				}
			}
			res.SetVec(k, r)
		}
		if mat.Norm(res, 2) <= utils.NODETOL*scale {
			return local, nil
		}
		if math.Abs(mat.Det(J)) < utils.NODETOL*math.Pow(scale, float64(d)) {
			return nil, fmt.Errorf("%s element: %w", s.Type(), ErrSingularJacobian)
		}
		if err = delta.SolveVec(J, res); err != nil {
			return nil, fmt.Errorf("%s element: %w: %v", s.Type(), ErrSingularJacobian, err)
		}
		for k := 0; k < d; k++ {
			local[k] += delta.AtVec(k)
		}
		if mat.Norm(delta, 2) < 1.e-15 {
			return local, nil
		}
	}
	return local, fmt.Errorf("%s element at %v: %w", s.Type(), point, ErrNotConverged)
}

// IsPointInElement reports whether point lies in the element described by
// shape s and its node coordinates, boundary included.
func IsPointInElement(s Shape, point []float64, coords [][]float64) bool {
	var (
		d   = s.Dimensionality()
		tol = ContainmentTol * extent(coords)
	)
	// Reject on the node bounding box first, valid for the linear shapes
	// used as geometry.
	for k := 0; k < d; k++ {
		lo, hi := coords[0][k], coords[0][k]
		for _, x := range coords[1:] {
			lo, hi = math.Min(lo, x[k]), math.Max(hi, x[k])
		}
		if point[k] < lo-tol || point[k] > hi+tol {
			return false
		}
	}
	local, err := MappedCoordinates(s, point, coords)
	if err != nil {
		return false
	}
	return s.InReference(local, ContainmentTol)
}

func extent(coords [][]float64) (scale float64) {
	if len(coords) == 0 {
		return 1
	}
	for k := range coords[0] {
		lo, hi := coords[0][k], coords[0][k]
		for _, x := range coords[1:] {
			lo, hi = math.Min(lo, x[k]), math.Max(hi, x[k])
		}
		scale = math.Max(scale, hi-lo)
	}
	if scale == 0 {
		scale = 1
	}
	return
}
