package element

import (
	"errors"
	"fmt"
)

// ElementType enumerates the concrete shapes known to the library
type ElementType uint8

const (
	Line2 ElementType = iota
	Line3
	Tri3
	Tri6
	Quad4
	Tet4
	Hex8
	LineP0
	TriP0
	QuadP0
	TetP0
	HexP0
)

func (e ElementType) String() string {
	return [...]string{"Line2", "Line3", "Tri3", "Tri6", "Quad4", "Tet4", "Hex8",
		"LineP0", "TriP0", "QuadP0", "TetP0", "HexP0"}[e]
}

// Family groups shapes sharing a reference domain
type Family uint8

const (
	LineFamily Family = iota
	TriFamily
	QuadFamily
	TetFamily
	HexFamily
)

func (f Family) String() string {
	return [...]string{"Line", "Tri", "Quad", "Tet", "Hex"}[f]
}

var (
	ErrSingularJacobian = errors.New("singular jacobian in geometric mapping")
	ErrNotConverged     = errors.New("mapped coordinate iteration did not converge")
)

// Shape is the capability interface every concrete element type implements.
// Local coordinates live on the family's reference domain:
// [-1,1]^d for lines, quads and hexes, the unit simplex for tris and tets.
type Shape interface {
	Type() ElementType
	Family() Family
	NodeCount() int
	Dimensionality() int
	Order() int
	// ReferenceNodes returns the local coordinates of each node, in node order
	ReferenceNodes() [][]float64
	ReferenceCentroid() []float64
	// Values writes the NodeCount shape function values at local into out
	Values(local []float64, out []float64)
	// Gradients writes dN_i/dxi_k into out[i][k]
	Gradients(local []float64, out [][]float64)
	InReference(local []float64, tol float64) bool
}

var shapes = [...]Shape{
	Line2:  line2{},
	Line3:  line3{},
	Tri3:   tri3{},
	Tri6:   tri6{},
	Quad4:  quad4{},
	Tet4:   tet4{},
	Hex8:   hex8{},
	LineP0: constant{base: line2{}, t: LineP0},
	TriP0:  constant{base: tri3{}, t: TriP0},
	QuadP0: constant{base: quad4{}, t: QuadP0},
	TetP0:  constant{base: tet4{}, t: TetP0},
	HexP0:  constant{base: hex8{}, t: HexP0},
}

// Lookup returns the shape implementation for t
func Lookup(t ElementType) Shape {
	if int(t) >= len(shapes) {
		panic(fmt.Sprintf("unknown element type %d", t))
	}
	return shapes[t]
}

// ForOrder returns the shape of the given polynomial order within a family.
func ForOrder(f Family, order int) (Shape, error) {
	var t ElementType
	switch {
	case order == 0:
		t = [...]ElementType{LineP0, TriP0, QuadP0, TetP0, HexP0}[f]
	case order == 1:
		t = [...]ElementType{Line2, Tri3, Quad4, Tet4, Hex8}[f]
	case order == 2 && f == LineFamily:
		t = Line3
	case order == 2 && f == TriFamily:
		t = Tri6
	default:
		return nil, fmt.Errorf("no order %d shape for the %s family", order, f)
	}
	return Lookup(t), nil
}

func inCube(local []float64, tol float64) bool {
	for _, x := range local {
		if x < -1-tol || x > 1+tol {
			return false
		}
	}
	return true
}

func inSimplex(local []float64, tol float64) bool {
	var sum float64
	for _, x := range local {
		if x < -tol {
			return false
		}
		sum += x
	}
	return sum <= 1+tol
}
