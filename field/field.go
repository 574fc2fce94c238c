// Package field holds nodal fields defined over the element groups of a mesh.
// A field has its own shape functions (its Space), which may differ from the
// geometric shape of the elements it lives on.
package field

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/meshinterp/element"
	"github.com/notargets/meshinterp/mesh"
)

// Entry is the space assignment of one element group
type Entry struct {
	Shape element.Shape // the field's own shape functions on this group
	DOF   [][]int       // element -> local node -> field row
}

// Space assigns shape functions and degrees of freedom to element groups
type Space struct {
	Mesh       *mesh.Mesh
	Order      int
	Continuous bool
	Entries    []*Entry // indexed by mesh group, nil where not covered
	NumDOF     int
	Vertices   []int // continuous spaces: DOF row -> mesh vertex
}

// NewSpace builds a Lagrange space of the given order on the listed groups,
// all volume groups when none are given. Continuous spaces share vertex
// DOFs and are only available at order 1. Their rows are the vertices used
// by the covered groups, in ascending vertex order.
func NewSpace(m *mesh.Mesh, order int, continuous bool, groups ...int) (sp *Space, err error) {
	if m == nil {
		return nil, fmt.Errorf("space needs a mesh")
	}
	if continuous && order != 1 {
		return nil, fmt.Errorf("continuous spaces are only available at order 1, have %d", order)
	}
	if len(groups) == 0 {
		groups = m.VolumeGroups()
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("mesh %q has no volume elements", m.Name)
	}
	sp = &Space{
		Mesh:       m,
		Order:      order,
		Continuous: continuous,
		Entries:    make([]*Entry, len(m.Groups)),
	}
	var vertexDOF []int
	if continuous {
		if vertexDOF, err = sp.numberVertices(groups); err != nil {
			return nil, err
		}
	}
	for _, g := range groups {
		if g < 0 || g >= len(m.Groups) {
			return nil, fmt.Errorf("group %d out of range for mesh %q", g, m.Name)
		}
		var (
			grp   = m.Groups[g]
			shape element.Shape
		)
		if shape, err = element.ForOrder(grp.Shape().Family(), order); err != nil {
			return nil, err
		}
		ent := &Entry{Shape: shape, DOF: make([][]int, grp.Len())}
		for k := range ent.DOF {
			if continuous {
				ent.DOF[k] = make([]int, len(grp.EToV[k]))
				for i, v := range grp.EToV[k] {
					ent.DOF[k][i] = vertexDOF[v]
				}
				continue
			}
			ent.DOF[k] = make([]int, shape.NodeCount())
			for i := range ent.DOF[k] {
				ent.DOF[k][i] = sp.NumDOF
				sp.NumDOF++
			}
		}
		sp.Entries[g] = ent
	}
	return
}

// numberVertices assigns consecutive rows to the vertices used by groups
func (sp *Space) numberVertices(groups []int) (vertexDOF []int, err error) {
	m := sp.Mesh
	vertexDOF = make([]int, m.NumVertices())
	for i := range vertexDOF {
		vertexDOF[i] = -1
	}
	for _, g := range groups {
		if g < 0 || g >= len(m.Groups) {
			return nil, fmt.Errorf("group %d out of range for mesh %q", g, m.Name)
		}
		for _, verts := range m.Groups[g].EToV {
			for _, v := range verts {
				vertexDOF[v] = 0
			}
		}
	}
	for v, used := range vertexDOF {
		if used < 0 {
			continue
		}
		vertexDOF[v] = sp.NumDOF
		sp.Vertices = append(sp.Vertices, v)
		sp.NumDOF++
	}
	return
}

// Covers reports whether group g carries DOFs of this space
func (sp *Space) Covers(g int) bool {
	return g >= 0 && g < len(sp.Entries) && sp.Entries[g] != nil
}

// Field stores RowSize components per DOF row
type Field struct {
	Name    string
	Space   *Space
	RowSize int
	Data    *mat.Dense // [NumDOF][RowSize]
}

func New(name string, sp *Space, rowSize int) (f *Field, err error) {
	if sp == nil || sp.NumDOF == 0 {
		return nil, fmt.Errorf("field %q: empty space", name)
	}
	if rowSize < 1 {
		return nil, fmt.Errorf("field %q: row size %d", name, rowSize)
	}
	f = &Field{
		Name:    name,
		Space:   sp,
		RowSize: rowSize,
		Data:    mat.NewDense(sp.NumDOF, rowSize, nil),
	}
	return
}

func (f *Field) Mesh() *mesh.Mesh { return f.Space.Mesh }
func (f *Field) NumRows() int     { return f.Space.NumDOF }

// Row returns the storage of DOF row i
func (f *Field) Row(i int) []float64 { return f.Data.RawRowView(i) }

// DOFCoordinates returns the physical location of every DOF row
func (f *Field) DOFCoordinates() (coords [][]float64) {
	var (
		m = f.Mesh()
	)
	coords = make([][]float64, f.NumRows())
	for g, ent := range f.Space.Entries {
		if ent == nil {
			continue
		}
		var (
			geo = m.Groups[g].Shape()
			ref = ent.Shape.ReferenceNodes()
		)
		for k, dofs := range ent.DOF {
			x := m.ElementCoordinates(g, k)
			for i, row := range dofs {
				if coords[row] == nil {
					coords[row] = element.MapToPhysical(geo, ref[i], x)
				}
			}
		}
	}
	return
}

// SetFromFunction fills every row with fn evaluated at the DOF location
func (f *Field) SetFromFunction(fn func(x []float64, row []float64)) {
	for i, x := range f.DOFCoordinates() {
		if x != nil {
			fn(x, f.Row(i))
		}
	}
}
