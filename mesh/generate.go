package mesh

import (
	"fmt"

	"github.com/notargets/meshinterp/element"
)

// NewLine builds a uniform 1D mesh of n Line2 elements over [x0, x1]
func NewLine(n int, x0, x1 float64) *Mesh {
	m := NewMesh(fmt.Sprintf("line_%d", n), 1)
	dx := (x1 - x0) / float64(n)
	m.Vertices = make([][]float64, n+1)
	for i := range m.Vertices {
		m.Vertices[i] = []float64{x0 + float64(i)*dx}
	}
	m.Vertices[n][0] = x1
	EToV := make([][]int, n)
	for k := range EToV {
		EToV[k] = []int{k, k + 1}
	}
	m.AddGroup("interior", element.Line2, EToV)
	return m
}

// NewRectangle builds a structured nx by ny mesh over [0,lx]x[0,ly].
// Quads are numbered row-major, i + nx*j. With simplex set each cell is cut
// into two triangles numbered 2*(i+nx*j) and 2*(i+nx*j)+1. The boundary is
// added as a separate Line2 group.
func NewRectangle(nx, ny int, lx, ly float64, simplex bool) *Mesh {
	var (
		m      = NewMesh(fmt.Sprintf("rect_%dx%d", nx, ny), 2)
		dx, dy = lx / float64(nx), ly / float64(ny)
		vid    = func(i, j int) int { return i + (nx+1)*j }
	)
	m.Vertices = make([][]float64, (nx+1)*(ny+1))
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			m.Vertices[vid(i, j)] = []float64{float64(i) * dx, float64(j) * dy}
		}
	}
	var EToV [][]int
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			v00, v10, v11, v01 := vid(i, j), vid(i+1, j), vid(i+1, j+1), vid(i, j+1)
			if simplex {
				EToV = append(EToV, []int{v00, v10, v11}, []int{v00, v11, v01})
			} else {
				EToV = append(EToV, []int{v00, v10, v11, v01})
			}
		}
	}
	if simplex {
		m.AddGroup("interior", element.Tri3, EToV)
	} else {
		m.AddGroup("interior", element.Quad4, EToV)
	}
	var bnd [][]int
	for i := 0; i < nx; i++ {
		bnd = append(bnd, []int{vid(i, 0), vid(i+1, 0)}, []int{vid(i+1, ny), vid(i, ny)})
	}
	for j := 0; j < ny; j++ {
		bnd = append(bnd, []int{vid(nx, j), vid(nx, j+1)}, []int{vid(0, j+1), vid(0, j)})
	}
	m.AddGroup("boundary", element.Line2, bnd)
	return m
}

// Hex corner offsets in the element.Hex8 node order
var hexCorners = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// Six tets sharing the 0-6 diagonal of a hex
var hexToTets = [6][4]int{
	{0, 1, 2, 6}, {0, 2, 3, 6}, {0, 3, 7, 6},
	{0, 7, 4, 6}, {0, 4, 5, 6}, {0, 5, 1, 6},
}

// NewBox builds a structured nx by ny by nz mesh over [0,lx]x[0,ly]x[0,lz].
// Hexes are numbered i + nx*(j + ny*k); with simplex set each hex becomes six
// tets numbered 6*(i + nx*(j + ny*k)) + t.
func NewBox(nx, ny, nz int, lx, ly, lz float64, simplex bool) *Mesh {
	var (
		m          = NewMesh(fmt.Sprintf("box_%dx%dx%d", nx, ny, nz), 3)
		dx, dy, dz = lx / float64(nx), ly / float64(ny), lz / float64(nz)
		vid        = func(i, j, k int) int { return i + (nx+1)*(j+(ny+1)*k) }
	)
	m.Vertices = make([][]float64, (nx+1)*(ny+1)*(nz+1))
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				m.Vertices[vid(i, j, k)] = []float64{float64(i) * dx, float64(j) * dy, float64(k) * dz}
			}
		}
	}
	var EToV [][]int
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				var hex [8]int
				for c, off := range hexCorners {
					hex[c] = vid(i+off[0], j+off[1], k+off[2])
				}
				if simplex {
					for _, tet := range hexToTets {
						EToV = append(EToV, []int{hex[tet[0]], hex[tet[1]], hex[tet[2]], hex[tet[3]]})
					}
				} else {
					EToV = append(EToV, hex[:])
				}
			}
		}
	}
	if simplex {
		m.AddGroup("interior", element.Tet4, EToV)
	} else {
		m.AddGroup("interior", element.Hex8, EToV)
	}
	return m
}
