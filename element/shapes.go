package element

type line2 struct{}

func (line2) Type() ElementType            { return Line2 }
func (line2) Family() Family               { return LineFamily }
func (line2) NodeCount() int               { return 2 }
func (line2) Dimensionality() int          { return 1 }
func (line2) Order() int                   { return 1 }
func (line2) ReferenceNodes() [][]float64  { return [][]float64{{-1}, {1}} }
func (line2) ReferenceCentroid() []float64 { return []float64{0} }
func (line2) Values(r []float64, out []float64) {
	out[0] = 0.5 * (1 - r[0])
	out[1] = 0.5 * (1 + r[0])
}
func (line2) Gradients(_ []float64, out [][]float64) {
	out[0][0] = -0.5
	out[1][0] = 0.5
}
func (line2) InReference(r []float64, tol float64) bool { return inCube(r, tol) }

// Quadratic line, nodes ordered ends first then the midpoint
type line3 struct{}

func (line3) Type() ElementType            { return Line3 }
func (line3) Family() Family               { return LineFamily }
func (line3) NodeCount() int               { return 3 }
func (line3) Dimensionality() int          { return 1 }
func (line3) Order() int                   { return 2 }
func (line3) ReferenceNodes() [][]float64  { return [][]float64{{-1}, {1}, {0}} }
func (line3) ReferenceCentroid() []float64 { return []float64{0} }
func (line3) Values(r []float64, out []float64) {
	x := r[0]
	out[0] = 0.5 * x * (x - 1)
	out[1] = 0.5 * x * (x + 1)
	out[2] = 1 - x*x
}
func (line3) Gradients(r []float64, out [][]float64) {
	x := r[0]
	out[0][0] = x - 0.5
	out[1][0] = x + 0.5
	out[2][0] = -2 * x
}
func (line3) InReference(r []float64, tol float64) bool { return inCube(r, tol) }

type tri3 struct{}

func (tri3) Type() ElementType   { return Tri3 }
func (tri3) Family() Family      { return TriFamily }
func (tri3) NodeCount() int      { return 3 }
func (tri3) Dimensionality() int { return 2 }
func (tri3) Order() int          { return 1 }
func (tri3) ReferenceNodes() [][]float64 {
	return [][]float64{{0, 0}, {1, 0}, {0, 1}}
}
func (tri3) ReferenceCentroid() []float64 { return []float64{1. / 3., 1. / 3.} }
func (tri3) Values(r []float64, out []float64) {
	out[0] = 1 - r[0] - r[1]
	out[1] = r[0]
	out[2] = r[1]
}
func (tri3) Gradients(_ []float64, out [][]float64) {
	out[0][0], out[0][1] = -1, -1
	out[1][0], out[1][1] = 1, 0
	out[2][0], out[2][1] = 0, 1
}
func (tri3) InReference(r []float64, tol float64) bool { return inSimplex(r, tol) }

// Quadratic triangle: corners, then edge midpoints 0-1, 1-2, 2-0
type tri6 struct{}

func (tri6) Type() ElementType   { return Tri6 }
func (tri6) Family() Family      { return TriFamily }
func (tri6) NodeCount() int      { return 6 }
func (tri6) Dimensionality() int { return 2 }
func (tri6) Order() int          { return 2 }
func (tri6) ReferenceNodes() [][]float64 {
	return [][]float64{{0, 0}, {1, 0}, {0, 1}, {0.5, 0}, {0.5, 0.5}, {0, 0.5}}
}
func (tri6) ReferenceCentroid() []float64 { return []float64{1. / 3., 1. / 3.} }
func (tri6) Values(r []float64, out []float64) {
	l0, l1, l2 := 1-r[0]-r[1], r[0], r[1]
	out[0] = l0 * (2*l0 - 1)
	out[1] = l1 * (2*l1 - 1)
	out[2] = l2 * (2*l2 - 1)
	out[3] = 4 * l0 * l1
	out[4] = 4 * l1 * l2
	out[5] = 4 * l2 * l0
}
func (tri6) Gradients(r []float64, out [][]float64) {
	var (
		l0, l1, l2    = 1 - r[0] - r[1], r[0], r[1]
		dl0, dl1, dl2 = [2]float64{-1, -1}, [2]float64{1, 0}, [2]float64{0, 1}
	)
	for k := 0; k < 2; k++ {
		out[0][k] = (4*l0 - 1) * dl0[k]
		out[1][k] = (4*l1 - 1) * dl1[k]
		out[2][k] = (4*l2 - 1) * dl2[k]
		out[3][k] = 4 * (l1*dl0[k] + l0*dl1[k])
		out[4][k] = 4 * (l2*dl1[k] + l1*dl2[k])
		out[5][k] = 4 * (l0*dl2[k] + l2*dl0[k])
	}
}
func (tri6) InReference(r []float64, tol float64) bool { return inSimplex(r, tol) }

var quadSigns = [][]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

type quad4 struct{}

func (quad4) Type() ElementType            { return Quad4 }
func (quad4) Family() Family               { return QuadFamily }
func (quad4) NodeCount() int               { return 4 }
func (quad4) Dimensionality() int          { return 2 }
func (quad4) Order() int                   { return 1 }
func (quad4) ReferenceNodes() [][]float64  { return copyNodes(quadSigns) }
func (quad4) ReferenceCentroid() []float64 { return []float64{0, 0} }
func (quad4) Values(r []float64, out []float64) {
	for i, s := range quadSigns {
		out[i] = 0.25 * (1 + s[0]*r[0]) * (1 + s[1]*r[1])
	}
}
func (quad4) Gradients(r []float64, out [][]float64) {
	for i, s := range quadSigns {
		out[i][0] = 0.25 * s[0] * (1 + s[1]*r[1])
		out[i][1] = 0.25 * s[1] * (1 + s[0]*r[0])
	}
}
func (quad4) InReference(r []float64, tol float64) bool { return inCube(r, tol) }

type tet4 struct{}

func (tet4) Type() ElementType   { return Tet4 }
func (tet4) Family() Family      { return TetFamily }
func (tet4) NodeCount() int      { return 4 }
func (tet4) Dimensionality() int { return 3 }
func (tet4) Order() int          { return 1 }
func (tet4) ReferenceNodes() [][]float64 {
	return [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}
func (tet4) ReferenceCentroid() []float64 { return []float64{0.25, 0.25, 0.25} }
func (tet4) Values(r []float64, out []float64) {
	out[0] = 1 - r[0] - r[1] - r[2]
	out[1] = r[0]
	out[2] = r[1]
	out[3] = r[2]
}
func (tet4) Gradients(_ []float64, out [][]float64) {
	for i := range out {
		for k := 0; k < 3; k++ {
			out[i][k] = 0
		}
	}
	out[0][0], out[0][1], out[0][2] = -1, -1, -1
	out[1][0] = 1
	out[2][1] = 1
	out[3][2] = 1
}
func (tet4) InReference(r []float64, tol float64) bool { return inSimplex(r, tol) }

var hexSigns = [][]float64{
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
}

type hex8 struct{}

func (hex8) Type() ElementType            { return Hex8 }
func (hex8) Family() Family               { return HexFamily }
func (hex8) NodeCount() int               { return 8 }
func (hex8) Dimensionality() int          { return 3 }
func (hex8) Order() int                   { return 1 }
func (hex8) ReferenceNodes() [][]float64  { return copyNodes(hexSigns) }
func (hex8) ReferenceCentroid() []float64 { return []float64{0, 0, 0} }
func (hex8) Values(r []float64, out []float64) {
	for i, s := range hexSigns {
		out[i] = 0.125 * (1 + s[0]*r[0]) * (1 + s[1]*r[1]) * (1 + s[2]*r[2])
	}
}
func (hex8) Gradients(r []float64, out [][]float64) {
	for i, s := range hexSigns {
		a, b, c := 1+s[0]*r[0], 1+s[1]*r[1], 1+s[2]*r[2]
		out[i][0] = 0.125 * s[0] * b * c
		out[i][1] = 0.125 * s[1] * a * c
		out[i][2] = 0.125 * s[2] * a * b
	}
}
func (hex8) InReference(r []float64, tol float64) bool { return inCube(r, tol) }

// constant is the single-DOF space of a family, its node sits at the
// reference centroid.
type constant struct {
	base Shape
	t    ElementType
}

func (c constant) Type() ElementType   { return c.t }
func (c constant) Family() Family      { return c.base.Family() }
func (c constant) NodeCount() int      { return 1 }
func (c constant) Dimensionality() int { return c.base.Dimensionality() }
func (c constant) Order() int          { return 0 }
func (c constant) ReferenceNodes() [][]float64 {
	return [][]float64{c.base.ReferenceCentroid()}
}
func (c constant) ReferenceCentroid() []float64 { return c.base.ReferenceCentroid() }
func (c constant) Values(_ []float64, out []float64) {
	out[0] = 1
}
func (c constant) Gradients(_ []float64, out [][]float64) {
	for k := range out[0] {
		out[0][k] = 0
	}
}
func (c constant) InReference(r []float64, tol float64) bool {
	return c.base.InReference(r, tol)
}

func copyNodes(src [][]float64) (dst [][]float64) {
	dst = make([][]float64, len(src))
	for i, n := range src {
		dst[i] = append([]float64(nil), n...)
	}
	return
}
