package mesh

import (
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/notargets/meshinterp/element"
)

var meshCounter atomic.Uint64

// Elements is a group of elements sharing one element type
type Elements struct {
	Name string
	Type element.ElementType
	EToV [][]int // Element to vertex connectivity [nelems][nverts_per_elem]
}

func (e *Elements) Shape() element.Shape { return element.Lookup(e.Type) }
func (e *Elements) Len() int             { return len(e.EToV) }

// Generation identifies one state of one mesh. Two generations compare
// equal only for the same mesh object with no Touch in between.
type Generation struct {
	ID, Version uint64
}

// Mesh is an unstructured mesh made of element groups
type Mesh struct {
	Name      string
	Dimension int
	Vertices  [][]float64 // Vertex coordinates [nvertices][Dimension]
	Groups    []*Elements

	id      uint64
	version uint64
}

func NewMesh(name string, dimension int) *Mesh {
	return &Mesh{
		Name:      name,
		Dimension: dimension,
		id:        meshCounter.Add(1),
	}
}

// AddGroup appends an element group and returns its index
func (m *Mesh) AddGroup(name string, t element.ElementType, EToV [][]int) int {
	m.Groups = append(m.Groups, &Elements{Name: name, Type: t, EToV: EToV})
	m.Touch()
	return len(m.Groups) - 1
}

// Touch marks the mesh as modified, invalidating indexes built on it
func (m *Mesh) Touch() {
	if m.id == 0 {
		m.id = meshCounter.Add(1)
	}
	m.version++
}

func (m *Mesh) Generation() Generation {
	if m.id == 0 {
		m.id = meshCounter.Add(1)
	}
	return Generation{ID: m.id, Version: m.version}
}

// IsVolume reports whether group g spans the full mesh dimension
func (m *Mesh) IsVolume(g int) bool {
	return m.Groups[g].Shape().Dimensionality() == m.Dimension
}

// VolumeGroups returns the indices of the volume element groups
func (m *Mesh) VolumeGroups() (groups []int) {
	for g := range m.Groups {
		if m.IsVolume(g) {
			groups = append(groups, g)
		}
	}
	return
}

// NumElements counts volume elements
func (m *Mesh) NumElements() (n int) {
	for _, g := range m.VolumeGroups() {
		n += m.Groups[g].Len()
	}
	return
}

func (m *Mesh) NumVertices() int { return len(m.Vertices) }

// ElementCoordinates returns the node coordinates of one element. The rows
// alias the mesh vertex storage.
func (m *Mesh) ElementCoordinates(group, local int) (coords [][]float64) {
	verts := m.Groups[group].EToV[local]
	coords = make([][]float64, len(verts))
	for i, v := range verts {
		coords[i] = m.Vertices[v]
	}
	return
}

// Validate checks vertex dimensions and connectivity bounds
func (m *Mesh) Validate() error {
	if m.Dimension < 1 || m.Dimension > 3 {
		return fmt.Errorf("mesh %q: dimension %d not in [1,3]", m.Name, m.Dimension)
	}
	for i, v := range m.Vertices {
		if len(v) != m.Dimension {
			return fmt.Errorf("mesh %q: vertex %d has %d coordinates, want %d",
				m.Name, i, len(v), m.Dimension)
		}
	}
	for g, grp := range m.Groups {
		np := grp.Shape().NodeCount()
		for k, verts := range grp.EToV {
			if len(verts) != np {
				return fmt.Errorf("mesh %q group %d element %d: %d vertices, %s needs %d",
					m.Name, g, k, len(verts), grp.Type, np)
			}
			for _, v := range verts {
				if v < 0 || v >= len(m.Vertices) {
					return fmt.Errorf("mesh %q group %d element %d: vertex %d out of range",
						m.Name, g, k, v)
				}
			}
		}
	}
	return nil
}

// PrintStatistics logs mesh statistics at debug level
func (m *Mesh) PrintStatistics(log logrus.FieldLogger) {
	log = log.WithField("mesh", m.Name)
	log.Debugf("Vertices: %d", m.NumVertices())
	log.Debugf("Volume elements: %d", m.NumElements())
	for _, grp := range m.Groups {
		log.Debugf("  group %q: %d x %s", grp.Name, grp.Len(), grp.Type)
	}
	if a, err := NewNodeToElement(NewEnumeration(m)); err == nil {
		var maxValence int
		for v := 0; v < a.NumNodes; v++ {
			maxValence = max(maxValence, a.Valence(v))
		}
		log.Debugf("Max elements per vertex: %d", maxValence)
	}
}
