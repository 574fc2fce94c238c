package octree

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/meshinterp/element"
	"github.com/notargets/meshinterp/mesh"
)

func TestOctree_UniformGrid(t *testing.T) {
	m := mesh.NewRectangle(5, 5, 10, 10, false)
	o := New(DefaultConfig(), nil)
	require.NoError(t, o.Build(m))
	assert.Equal(t, [3]int{5, 5, 1}, o.NbCells)
	assert.InDelta(t, 2., o.CellSize[0], 1.e-14)
	assert.InDelta(t, 2., o.CellSize[1], 1.e-14)

	for _, tc := range []struct {
		p    []float64
		elem int
	}{
		{[]float64{1, 1}, 0},
		{[]float64{3, 1}, 1},
		{[]float64{1, 3}, 5},
		{[]float64{9, 9}, 24},
	} {
		loc, ok := o.FindElement(tc.p)
		require.True(t, ok, "point %v", tc.p)
		assert.Equal(t, tc.elem, loc.Local, "point %v", tc.p)
		assert.Equal(t, tc.elem, loc.Unified)
		assert.Equal(t, 0, loc.Group)
	}
	_, ok := o.FindElement([]float64{-0.5, 1})
	assert.False(t, ok)
	_, ok = o.FindElement([]float64{1, 10.5})
	assert.False(t, ok)
	// upper boundary belongs to the last bucket
	b, ok := o.FindBucket([]float64{10, 10})
	require.True(t, ok)
	assert.Equal(t, [3]int{4, 4, 0}, b)
}

func TestOctree_BucketCoverage(t *testing.T) {
	for _, tc := range []struct {
		name string
		m    *mesh.Mesh
		cfg  Config
	}{
		{"line", mesh.NewLine(17, -1, 2), DefaultConfig()},
		{"tri", mesh.NewRectangle(7, 3, 2, 1, true), DefaultConfig()},
		{"quad dense", mesh.NewRectangle(6, 6, 1, 1, false), Config{NbElemsPerCell: 4}},
		{"tet", mesh.NewBox(3, 2, 2, 1, 1, 1, true), DefaultConfig()},
		{"hex explicit", mesh.NewBox(4, 4, 4, 1, 1, 1, false), Config{NbCells: []int{2, 3, 1}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			o := New(tc.cfg, nil)
			require.NoError(t, o.Build(tc.m))
			var all []int
			for i := 0; i < o.NbCells[0]; i++ {
				for j := 0; j < o.NbCells[1]; j++ {
					for k := 0; k < o.NbCells[2]; k++ {
						all = append(all, o.Bucket([3]int{i, j, k})...)
					}
				}
			}
			sort.Ints(all)
			require.Len(t, all, tc.m.NumElements())
			for u, e := range all {
				assert.Equal(t, u, e)
			}
			// every centroid is located in its own element
			e := o.Enumeration()
			for u := 0; u < e.Len(); u++ {
				loc, ok := o.FindElement(e.Centroid(u))
				require.True(t, ok, "element %d", u)
				assert.Equal(t, u, loc.Unified)
			}
		})
	}
	o := New(Config{NbCells: []int{2, 3, 1}}, nil)
	require.NoError(t, o.Build(mesh.NewBox(4, 4, 4, 1, 1, 1, false)))
	assert.Equal(t, [3]int{2, 3, 1}, o.NbCells)
}

func TestOctree_InteriorPoints(t *testing.T) {
	m := mesh.NewBox(3, 3, 3, 3, 3, 3, true)
	o := New(DefaultConfig(), nil)
	require.NoError(t, o.Build(m))
	shape := element.Lookup(element.Tet4)
	// points just inside a vertex of each tet
	local := []float64{0.7, 0.1, 0.1}
	for k := 0; k < m.Groups[0].Len(); k++ {
		p := element.MapToPhysical(shape, local, m.ElementCoordinates(0, k))
		loc, ok := o.FindElement(p)
		require.True(t, ok, "tet %d", k)
		assert.Equal(t, k, loc.Local)
	}
}

func TestOctree_GatherRing(t *testing.T) {
	m := mesh.NewRectangle(6, 4, 6, 4, false)
	o := New(Config{NbCells: []int{6, 4}}, nil)
	require.NoError(t, o.Build(m))
	for _, center := range [][3]int{{0, 0, 0}, {2, 1, 0}, {5, 3, 0}} {
		var (
			got  []int
			seen = make(map[int]bool)
		)
		for r := 0; r <= o.RingCount(center); r++ {
			n := len(got)
			got = o.GatherRing(center, r, got)
			for _, u := range got[n:] {
				require.False(t, seen[u], "element %d repeated at ring %d", u, r)
				seen[u] = true
			}
			// cumulative set is the clipped Chebyshev ball
			var want []int
			for j := 0; j < 4; j++ {
				for i := 0; i < 6; i++ {
					if max(abs(i-center[0]), abs(j-center[1])) <= r {
						want = append(want, i+6*j)
					}
				}
			}
			cum := append([]int(nil), got...)
			sort.Ints(cum)
			assert.Equal(t, want, cum, "center %v ring %d", center, r)
		}
		assert.Len(t, got, 24)
	}
	assert.Len(t, o.GatherRing([3]int{0, 0, 0}, 1, nil), 3)
	assert.Empty(t, o.GatherRing([3]int{0, 0, 0}, 9, nil))
}

func TestOctree_Rebuild(t *testing.T) {
	o := New(DefaultConfig(), nil)
	assert.ErrorIs(t, o.Create(), ErrNoMesh)
	assert.ErrorIs(t, o.Ready(), ErrNoMesh)
	_, ok := o.FindElement([]float64{0})
	assert.False(t, ok)

	m := mesh.NewLine(4, 0, 4)
	o.Attach(m)
	loc, ok := o.FindElement([]float64{2.5})
	require.True(t, ok)
	assert.Equal(t, 2, loc.Local)

	// stretch the mesh, the index follows once the mesh is touched
	for _, v := range m.Vertices {
		v[0] *= 2
	}
	m.Touch()
	loc, ok = o.FindElement([]float64{7})
	require.True(t, ok)
	assert.Equal(t, 3, loc.Local)
	assert.InDelta(t, 8., o.Bounds[1][0], 1.e-14)

	st := o.Stats()
	assert.Equal(t, 4, st.Buckets)
	assert.Equal(t, 4, st.Occupied)
	assert.Equal(t, 1, st.MaxPerBucket)
}

func TestOctree_MultipleMeshes(t *testing.T) {
	var (
		a = mesh.NewLine(2, 0, 1)
		b = mesh.NewLine(2, 1, 2)
	)
	o := New(DefaultConfig(), nil)
	require.NoError(t, o.Build(a, b))
	assert.Equal(t, 4, o.Enumeration().Len())
	loc, ok := o.FindElement([]float64{1.8})
	require.True(t, ok)
	assert.Equal(t, Location{Mesh: 1, Group: 0, Local: 1, Unified: 3}, loc)

	require.Error(t, o.Build(a, mesh.NewRectangle(1, 1, 1, 1, false)))
}

func TestOctree_FailedRebuildKeepsGrid(t *testing.T) {
	var (
		o = New(Config{NbCells: []int{3, 3}}, nil)
		m = mesh.NewRectangle(3, 3, 3, 3, false)
	)
	require.NoError(t, o.Build(m))
	b, ok := o.FindBucket([]float64{1.5, 2.5})
	require.True(t, ok)
	assert.Equal(t, []int{7}, o.Bucket(b))

	// two cell counts cannot grid a 3D mesh
	require.Error(t, o.Build(mesh.NewBox(2, 2, 2, 1, 1, 1, false)))
	assert.Equal(t, 2, o.Dimension)
	assert.Equal(t, [3]int{3, 3, 1}, o.NbCells)
	assert.Equal(t, 9, o.Enumeration().Len())
	assert.Same(t, m, o.Enumeration().Meshes[0])
	b, ok = o.FindBucket([]float64{1.5, 2.5})
	require.True(t, ok)
	assert.Equal(t, []int{7}, o.Bucket(b))
}
