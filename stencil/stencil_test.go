package stencil

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/meshinterp/mesh"
	"github.com/notargets/meshinterp/octree"
)

func TestRings(t *testing.T) {
	m := mesh.NewRectangle(5, 5, 10, 10, false)
	for _, tc := range []struct {
		rings, size int
	}{
		{0, 1}, {1, 9}, {2, 20}, {3, 25}, {4, 25},
	} {
		r, err := NewRings(m, tc.rings, 0, nil)
		require.NoError(t, err)
		st, err := r.ComputeStencil(7)
		require.NoError(t, err)
		assert.Len(t, st, tc.size, "rings %d", tc.rings)
		assert.Contains(t, st, 7)
		assert.IsIncreasing(t, st)
	}
	r, _ := NewRings(m, 1, 0, nil)
	st, _ := r.ComputeStencil(7)
	assert.Equal(t, []int{1, 2, 3, 6, 7, 8, 11, 12, 13}, st)

	_, err := r.ComputeStencil(25)
	assert.Error(t, err)
	_, err = NewRings(m, -1, 0, nil)
	assert.Error(t, err)
}

func TestRings_Monotone(t *testing.T) {
	m := mesh.NewBox(3, 3, 2, 1, 1, 1, true)
	for _, u := range []int{0, 17, 53, 107} {
		prev := 0
		for rings := 0; rings < 4; rings++ {
			r, err := NewRings(m, rings, 0, nil)
			require.NoError(t, err)
			st, err := r.ComputeStencil(u)
			require.NoError(t, err)
			if rings == 0 {
				assert.Equal(t, []int{u}, st)
			}
			assert.GreaterOrEqual(t, len(st), prev)
			prev = len(st)
		}
	}
}

func TestRings_SmallStencilWarns(t *testing.T) {
	log, hook := test.NewNullLogger()
	r, err := NewRings(mesh.NewLine(3, 0, 1), 1, 5, log)
	require.NoError(t, err)
	st, err := r.ComputeStencil(0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, st)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, 2, hook.LastEntry().Data["size"])
}

func TestOctreeStencil(t *testing.T) {
	var (
		m       = mesh.NewRectangle(5, 5, 10, 10, false)
		tree    = octree.New(octree.DefaultConfig(), nil)
		log, hk = test.NewNullLogger()
	)
	tree.Attach(m)

	s := NewOctreeStencil(tree, 1, log)
	st, err := s.ComputeStencil(7)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, st)

	s.StencilSize = 9
	st, err = s.ComputeStencil(7)
	require.NoError(t, err)
	assert.Len(t, st, 9)
	assert.Equal(t, 7, st[0])

	s.StencilSize = 21
	st, err = s.ComputeStencil(7)
	require.NoError(t, err)
	assert.Len(t, st, 25)
	assert.Empty(t, hk.Entries)

	s.StencilSize = 30
	st, err = s.ComputeStencil(7)
	require.NoError(t, err)
	assert.Len(t, st, 25)
	assert.Len(t, hk.Entries, 1)

	_, err = s.ComputeStencil(-1)
	assert.Error(t, err)
	_, err = NewOctreeStencil(octree.New(octree.DefaultConfig(), nil), 3, nil).ComputeStencil(0)
	assert.ErrorIs(t, err, octree.ErrNoMesh)
}

func TestComputerInterface(t *testing.T) {
	m := mesh.NewRectangle(3, 3, 3, 3, true)
	tree := octree.New(octree.DefaultConfig(), nil)
	require.NoError(t, tree.Build(m))
	r, err := NewRings(m, 1, 0, nil)
	require.NoError(t, err)
	for _, c := range []Computer{r, NewOctreeStencil(tree, 4, nil)} {
		st, err := c.ComputeStencil(8)
		require.NoError(t, err)
		assert.Contains(t, st, 8)
		assert.GreaterOrEqual(t, len(st), 4)
	}
}
