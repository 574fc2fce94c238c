package mesh

import (
	"fmt"

	"github.com/notargets/meshinterp/utils"
)

// Shard is the part of a mesh owned by one rank
type Shard struct {
	Rank          int
	Mesh          *Mesh
	GlobalElement []int // shard unified element -> parent unified element
	GlobalNode    []int // shard vertex -> parent vertex
}

// Split distributes the volume elements of m over nRanks contiguous shards
// in unified element order. Vertices are renumbered per shard; non volume
// groups are not carried over.
func Split(m *Mesh, nRanks int) (shards []*Shard, err error) {
	if nRanks < 1 {
		return nil, fmt.Errorf("cannot split mesh %q into %d ranks", m.Name, nRanks)
	}
	var (
		enum = NewEnumeration(m)
		pm   = utils.NewPartitionMap(nRanks, enum.Len())
	)
	shards = make([]*Shard, nRanks)
	for rank := 0; rank < nRanks; rank++ {
		var (
			kMin, kMax = pm.Range(rank)
			sm         = NewMesh(fmt.Sprintf("%s.%d", m.Name, rank), m.Dimension)
			sh         = &Shard{Rank: rank, Mesh: sm, GlobalElement: make([]int, 0, pm.Size(rank))}
			nodeMap    = make(map[int]int)
			groupMap   = make(map[int]int)
		)
		for u := kMin; u < kMax; u++ {
			_, g, k := enum.Resolve(u)
			sg, ok := groupMap[g]
			if !ok {
				sg = sm.AddGroup(m.Groups[g].Name, m.Groups[g].Type, nil)
				groupMap[g] = sg
			}
			verts := make([]int, len(m.Groups[g].EToV[k]))
			for i, v := range m.Groups[g].EToV[k] {
				lv, seen := nodeMap[v]
				if !seen {
					lv = len(sm.Vertices)
					nodeMap[v] = lv
					sm.Vertices = append(sm.Vertices, append([]float64(nil), m.Vertices[v]...))
					sh.GlobalNode = append(sh.GlobalNode, v)
				}
				verts[i] = lv
			}
			sm.Groups[sg].EToV = append(sm.Groups[sg].EToV, verts)
			sh.GlobalElement = append(sh.GlobalElement, u)
		}
		sm.Touch()
		shards[rank] = sh
	}
	return
}
