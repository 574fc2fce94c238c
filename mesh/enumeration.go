package mesh

import (
	"fmt"
	"sort"

	"github.com/notargets/meshinterp/element"
)

type span struct {
	mesh, group int
	offset      int
}

// Enumeration assigns one flat "unified" index to every volume element of
// one or more meshes, group by group in mesh order.
type Enumeration struct {
	Meshes []*Mesh
	spans  []span
	total  int
}

func NewEnumeration(meshes ...*Mesh) (e *Enumeration) {
	e = &Enumeration{Meshes: meshes}
	for mi, m := range meshes {
		for _, g := range m.VolumeGroups() {
			e.spans = append(e.spans, span{mesh: mi, group: g, offset: e.total})
			e.total += m.Groups[g].Len()
		}
	}
	return
}

func (e *Enumeration) Len() int { return e.total }

// Resolve maps a unified index to (mesh, group, local element)
func (e *Enumeration) Resolve(u int) (mi, group, local int) {
	if u < 0 || u >= e.total {
		panic(fmt.Sprintf("unified element index %d out of range [0,%d)", u, e.total))
	}
	s := sort.Search(len(e.spans), func(i int) bool { return e.spans[i].offset > u }) - 1
	sp := e.spans[s]
	return sp.mesh, sp.group, u - sp.offset
}

// Unified is the inverse of Resolve, false if the element is not enumerated
func (e *Enumeration) Unified(mi, group, local int) (u int, ok bool) {
	for _, sp := range e.spans {
		if sp.mesh == mi && sp.group == group {
			if local < 0 || local >= e.Meshes[mi].Groups[group].Len() {
				return 0, false
			}
			return sp.offset + local, true
		}
	}
	return 0, false
}

func (e *Enumeration) Shape(u int) element.Shape {
	mi, g, _ := e.Resolve(u)
	return e.Meshes[mi].Groups[g].Shape()
}

// Nodes returns the vertex indices of element u within its own mesh
func (e *Enumeration) Nodes(u int) []int {
	mi, g, k := e.Resolve(u)
	return e.Meshes[mi].Groups[g].EToV[k]
}

func (e *Enumeration) Coordinates(u int) [][]float64 {
	mi, g, k := e.Resolve(u)
	return e.Meshes[mi].ElementCoordinates(g, k)
}

func (e *Enumeration) Centroid(u int) []float64 {
	return element.Centroid(e.Coordinates(u))
}
