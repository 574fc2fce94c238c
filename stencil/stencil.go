// Package stencil computes the neighbourhoods of elements used by
// reconstruction schemes. Stencils are expressed in unified element indices.
package stencil

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/notargets/meshinterp/mesh"
	"github.com/notargets/meshinterp/octree"
)

type Computer interface {
	ComputeStencil(u int) ([]int, error)
}

// Rings grows a stencil through shared vertices, one layer of elements per
// ring.
type Rings struct {
	NbRings int
	MinSize int // Stencils smaller than this are reported

	enum *mesh.Enumeration
	adj  *mesh.NodeToElement
	log  logrus.FieldLogger
}

func NewRings(m *mesh.Mesh, nbRings, minSize int, log logrus.FieldLogger) (r *Rings, err error) {
	if nbRings < 0 {
		return nil, fmt.Errorf("negative ring count %d", nbRings)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	r = &Rings{
		NbRings: nbRings,
		MinSize: minSize,
		enum:    mesh.NewEnumeration(m),
		log:     log,
	}
	if r.adj, err = mesh.NewNodeToElement(r.enum); err != nil {
		return nil, err
	}
	return
}

// ComputeStencil returns u and every element within NbRings vertex-sharing
// steps of it, in ascending order.
func (r *Rings) ComputeStencil(u int) (stencil []int, err error) {
	if u < 0 || u >= r.enum.Len() {
		return nil, fmt.Errorf("element %d out of range [0,%d)", u, r.enum.Len())
	}
	var (
		visited  = map[int]bool{u: true}
		frontier = []int{u}
	)
	stencil = []int{u}
	for level := 0; level < r.NbRings && len(frontier) > 0; level++ {
		var next []int
		for _, e := range frontier {
			for _, node := range r.enum.Nodes(e) {
				for _, nb := range r.adj.Elements(node) {
					if visited[nb] {
						continue
					}
					visited[nb] = true
					next = append(next, nb)
				}
			}
		}
		stencil = append(stencil, next...)
		frontier = next
	}
	sort.Ints(stencil)
	if len(stencil) < r.MinSize {
		r.log.WithFields(logrus.Fields{
			"element": u,
			"size":    len(stencil),
			"wanted":  r.MinSize,
		}).Warn("stencil smaller than requested")
	}
	return
}

// OctreeStencil collects whole rings of octree buckets around the bucket of
// the element centroid until StencilSize elements are gathered. Elements are
// returned nearest ring first.
type OctreeStencil struct {
	StencilSize int

	tree *octree.Octree
	log  logrus.FieldLogger
}

func NewOctreeStencil(tree *octree.Octree, size int, log logrus.FieldLogger) *OctreeStencil {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &OctreeStencil{StencilSize: size, tree: tree, log: log}
}

func (s *OctreeStencil) ComputeStencil(u int) (stencil []int, err error) {
	if err = s.tree.Ready(); err != nil {
		return nil, err
	}
	enum := s.tree.Enumeration()
	if u < 0 || u >= enum.Len() {
		return nil, fmt.Errorf("element %d out of range [0,%d)", u, enum.Len())
	}
	b, ok := s.tree.FindBucket(enum.Centroid(u))
	if !ok {
		return nil, fmt.Errorf("centroid of element %d outside the octree", u)
	}
	last := s.tree.RingCount(b)
	for ring := 0; ring <= last && len(stencil) < s.StencilSize; ring++ {
		stencil = s.tree.GatherRing(b, ring, stencil)
	}
	if len(stencil) < s.StencilSize {
		s.log.WithFields(logrus.Fields{
			"element": u,
			"size":    len(stencil),
			"wanted":  s.StencilSize,
		}).Warn("octree exhausted before the stencil was filled")
	}
	return
}
