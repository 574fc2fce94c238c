package mesh

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/meshinterp/element"
)

func TestNewRectangle(t *testing.T) {
	m := NewRectangle(5, 5, 10, 10, false)
	require.NoError(t, m.Validate())
	assert.Equal(t, 36, m.NumVertices())
	assert.Equal(t, 25, m.NumElements())
	assert.Equal(t, []int{0}, m.VolumeGroups())
	assert.Equal(t, 20, m.Groups[1].Len()) // boundary edges
	// Row-major numbering, element 7 is column 2 of row 1
	c := element.Centroid(m.ElementCoordinates(0, 7))
	assert.Equal(t, []float64{5, 3}, c)

	tri := NewRectangle(2, 3, 1, 1, true)
	require.NoError(t, tri.Validate())
	assert.Equal(t, 12, tri.NumElements())
}

func TestNewLineAndBox(t *testing.T) {
	l := NewLine(10, 0, 10)
	require.NoError(t, l.Validate())
	assert.Equal(t, 10, l.NumElements())
	assert.Equal(t, 10., l.Vertices[10][0])

	b := NewBox(2, 2, 2, 1, 1, 1, false)
	require.NoError(t, b.Validate())
	assert.Equal(t, 8, b.NumElements())
	tb := NewBox(2, 1, 1, 2, 1, 1, true)
	require.NoError(t, tb.Validate())
	assert.Equal(t, 12, tb.NumElements())
	// The six tets of a hex tile its volume
	var vol float64
	for k := 0; k < 6; k++ {
		x := tb.ElementCoordinates(0, k)
		a, bb, cc := sub(x[1], x[0]), sub(x[2], x[0]), sub(x[3], x[0])
		det := a[0]*(bb[1]*cc[2]-bb[2]*cc[1]) - a[1]*(bb[0]*cc[2]-bb[2]*cc[0]) + a[2]*(bb[0]*cc[1]-bb[1]*cc[0])
		if det < 0 {
			det = -det
		}
		vol += det / 6
	}
	assert.InDelta(t, 1., vol, 1.e-12)
}

func sub(a, b []float64) []float64 {
	return []float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func TestGeneration(t *testing.T) {
	m1 := NewLine(2, 0, 1)
	m2 := NewLine(2, 0, 1)
	g1 := m1.Generation()
	assert.NotEqual(t, g1, m2.Generation())
	assert.Equal(t, g1, m1.Generation())
	m1.Touch()
	assert.NotEqual(t, g1, m1.Generation())
}

func TestEnumeration(t *testing.T) {
	var (
		a = NewRectangle(2, 2, 1, 1, false) // 4 quads + boundary
		b = NewLine(3, 0, 1)
	)
	e := NewEnumeration(a, b)
	assert.Equal(t, 7, e.Len())
	// quads of a first, then the lines of b; the boundary of a is skipped
	want := [][3]int{{0, 0, 0}, {0, 0, 1}, {0, 0, 2}, {0, 0, 3}, {1, 0, 0}, {1, 0, 1}, {1, 0, 2}}
	for u := 0; u < e.Len(); u++ {
		mi, g, k := e.Resolve(u)
		assert.Equal(t, want[u], [3]int{mi, g, k})
		back, ok := e.Unified(mi, g, k)
		require.True(t, ok)
		assert.Equal(t, u, back)
	}
	_, ok := e.Unified(0, 1, 0) // boundary group is not enumerated
	assert.False(t, ok)
	_, ok = e.Unified(1, 0, 3)
	assert.False(t, ok)
	assert.Panics(t, func() { e.Resolve(7) })
}

func TestNodeToElement(t *testing.T) {
	m := NewRectangle(3, 3, 3, 3, false)
	e := NewEnumeration(m)
	a, err := NewNodeToElement(e)
	require.NoError(t, err)
	assert.Equal(t, 16, a.NumNodes)
	assert.Equal(t, []int{0}, a.Elements(0))
	// interior vertex (1,1) touches the four quads around it
	assert.Equal(t, []int{0, 1, 3, 4}, a.Elements(5))
	assert.Equal(t, 4, a.Valence(5))

	_, err = NewNodeToElement(NewEnumeration(m, m))
	assert.Error(t, err)
}

func TestSplit(t *testing.T) {
	m := NewLine(10, 0, 10)
	shards, err := Split(m, 3)
	require.NoError(t, err)
	require.Len(t, shards, 3)
	var total int
	seen := make(map[int]bool)
	for _, sh := range shards {
		require.NoError(t, sh.Mesh.Validate())
		total += sh.Mesh.NumElements()
		for local, global := range sh.GlobalElement {
			assert.False(t, seen[global])
			seen[global] = true
			// shard coordinates agree with the parent element
			assert.Equal(t, m.ElementCoordinates(0, global), sh.Mesh.ElementCoordinates(0, local))
		}
	}
	assert.Equal(t, 10, total)
	assert.Equal(t, []int{0, 1, 2, 3}, shards[0].GlobalElement)
	assert.Equal(t, 5, shards[0].Mesh.NumVertices())

	_, err = Split(m, 0)
	assert.Error(t, err)
}

func TestPrintStatistics(t *testing.T) {
	log, hook := test.NewNullLogger()
	m := NewRectangle(3, 3, 3, 3, false)

	m.PrintStatistics(log)
	assert.Empty(t, hook.Entries) // info level

	log.SetLevel(logrus.DebugLevel)
	m.PrintStatistics(log)
	require.Len(t, hook.Entries, 5) // vertices, elements, two groups, valence
	assert.Equal(t, "Max elements per vertex: 4", hook.LastEntry().Message)
	assert.Equal(t, m.Name, hook.LastEntry().Data["mesh"])
}
