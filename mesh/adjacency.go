package mesh

import (
	"fmt"
	"sort"

	"github.com/james-bowman/sparse"
)

// NodeToElement maps each vertex of a mesh to the unified indices of the
// volume elements sharing it. It is stored as a CSR matrix with one row per
// vertex and one column per unified element.
type NodeToElement struct {
	NumNodes int
	csr      *sparse.CSR
}

// NewNodeToElement builds the adjacency of a single-mesh enumeration
func NewNodeToElement(e *Enumeration) (*NodeToElement, error) {
	if len(e.Meshes) != 1 {
		return nil, fmt.Errorf("node to element adjacency needs exactly one mesh, have %d", len(e.Meshes))
	}
	var (
		m   = e.Meshes[0]
		nv  = m.NumVertices()
		dok = sparse.NewDOK(max(nv, 1), max(e.Len(), 1))
	)
	for u := 0; u < e.Len(); u++ {
		for _, v := range e.Nodes(u) {
			dok.Set(v, u, 1)
		}
	}
	return &NodeToElement{
		NumNodes: nv,
		csr:      dok.ToCSR(),
	}, nil
}

// Elements returns the elements touching node, in ascending order
func (a *NodeToElement) Elements(node int) (elems []int) {
	elems = make([]int, 0, a.csr.RowNNZ(node))
	a.csr.DoRowNonZero(node, func(_, j int, _ float64) {
		elems = append(elems, j)
	})
	sort.Ints(elems)
	return
}

// Valence is the number of elements sharing node
func (a *NodeToElement) Valence(node int) int {
	return a.csr.RowNNZ(node)
}
