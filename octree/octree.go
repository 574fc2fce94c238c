// Package octree is a uniform bucket grid over the bounding box of one or
// more meshes. Every volume element is stored in the single bucket holding
// its centroid, and point queries search the home bucket of the point and
// then the rings of buckets around it.
package octree

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/notargets/meshinterp/element"
	"github.com/notargets/meshinterp/mesh"
)

var ErrNoMesh = errors.New("no mesh attached to the octree")

// bucketTol is the slack, in cells, for points on the grid boundary
const bucketTol = 1.e-10

type Config struct {
	NbCells        []int   // Explicit bucket count per axis, overrides NbElemsPerCell
	NbElemsPerCell float64 // Target number of elements per bucket, <= 0 selects 1
	ProbeRings     int     // Rings searched after the home bucket
}

func DefaultConfig() Config {
	return Config{NbElemsPerCell: 1, ProbeRings: 1}
}

// Location names the element containing a point
type Location struct {
	Mesh, Group, Local int
	Unified            int
}

type Octree struct {
	Dimension int
	Bounds    [2][3]float64 // min, max corner
	NbCells   [3]int
	CellSize  [3]float64

	cfg     Config
	meshes  []*mesh.Mesh
	built   []mesh.Generation // generations indexed by the last build
	enum    *mesh.Enumeration
	buckets [][]int
	log     logrus.FieldLogger
}

func New(cfg Config, log logrus.FieldLogger) *Octree {
	if cfg.NbElemsPerCell <= 0 {
		cfg.NbElemsPerCell = 1
	}
	if cfg.ProbeRings < 0 {
		cfg.ProbeRings = 0
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Octree{cfg: cfg, log: log}
}

// Attach selects the meshes to index. The grid is rebuilt on next use.
func (o *Octree) Attach(meshes ...*mesh.Mesh) {
	o.meshes = meshes
	o.built = nil
}

func (o *Octree) Meshes() []*mesh.Mesh { return o.meshes }

// Build attaches meshes and indexes them immediately
func (o *Octree) Build(meshes ...*mesh.Mesh) error {
	o.Attach(meshes...)
	return o.Create()
}

// Ready rebuilds the grid if any attached mesh changed since the last build
func (o *Octree) Ready() error {
	if len(o.meshes) == 0 {
		return ErrNoMesh
	}
	if len(o.built) == len(o.meshes) {
		stale := false
		for i, m := range o.meshes {
			if m.Generation() != o.built[i] {
				stale = true
				break
			}
		}
		if !stale {
			return nil
		}
	}
	return o.Create()
}

// Create forces a rebuild of the grid from the attached meshes. On error
// the previous grid is kept.
func (o *Octree) Create() (err error) {
	if len(o.meshes) == 0 {
		return ErrNoMesh
	}
	var (
		dim = o.meshes[0].Dimension
	)
	for _, m := range o.meshes {
		if m == nil {
			return ErrNoMesh
		}
		if m.Dimension != dim {
			return fmt.Errorf("octree: mixed mesh dimensions %d and %d", dim, m.Dimension)
		}
	}
	if dim < 1 || dim > 3 {
		return fmt.Errorf("octree: dimension %d not in [1,3]", dim)
	}
	next := Octree{
		Dimension: dim,
		cfg:       o.cfg,
		meshes:    o.meshes,
		enum:      mesh.NewEnumeration(o.meshes...),
		log:       o.log,
	}
	if next.enum.Len() == 0 {
		return fmt.Errorf("octree: %w: no volume elements", ErrNoMesh)
	}
	next.computeBounds()
	if err = next.computeGrid(); err != nil {
		return err
	}
	nb := next.NbCells[0] * next.NbCells[1] * next.NbCells[2]
	next.buckets = make([][]int, nb)
	for u := 0; u < next.enum.Len(); u++ {
		var (
			c = next.enum.Centroid(u)
			b [3]int
		)
		for d := 0; d < dim; d++ {
			b[d] = next.clampedIndex(d, c[d])
		}
		ib := next.flat(b)
		next.buckets[ib] = append(next.buckets[ib], u)
	}
	next.built = make([]mesh.Generation, len(o.meshes))
	for i, m := range o.meshes {
		next.built[i] = m.Generation()
	}
	*o = next
	st := o.Stats()
	o.log.WithFields(logrus.Fields{
		"cells":    o.NbCells,
		"elements": o.enum.Len(),
		"occupied": st.Occupied,
		"max":      st.MaxPerBucket,
	}).Debug("octree built")
	return
}

func (o *Octree) computeBounds() {
	for k := 0; k < 3; k++ {
		o.Bounds[0][k], o.Bounds[1][k] = math.Inf(1), math.Inf(-1)
	}
	for _, m := range o.meshes {
		for _, x := range m.Vertices {
			for k := 0; k < o.Dimension; k++ {
				o.Bounds[0][k] = math.Min(o.Bounds[0][k], x[k])
				o.Bounds[1][k] = math.Max(o.Bounds[1][k], x[k])
			}
		}
	}
	for k := o.Dimension; k < 3; k++ {
		o.Bounds[0][k], o.Bounds[1][k] = 0, 0
	}
}

func (o *Octree) computeGrid() error {
	var (
		L      [3]float64
		volume = 1.
	)
	for d := 0; d < o.Dimension; d++ {
		L[d] = o.Bounds[1][d] - o.Bounds[0][d]
		volume *= L[d]
	}
	o.NbCells = [3]int{1, 1, 1}
	switch {
	case len(o.cfg.NbCells) != 0:
		if len(o.cfg.NbCells) < o.Dimension {
			return fmt.Errorf("octree: %d cell counts given for dimension %d",
				len(o.cfg.NbCells), o.Dimension)
		}
		for d := 0; d < o.Dimension; d++ {
			if o.cfg.NbCells[d] < 1 {
				return fmt.Errorf("octree: cell count %d on axis %d", o.cfg.NbCells[d], d)
			}
			o.NbCells[d] = o.cfg.NbCells[d]
		}
	case volume > 0:
		D := math.Pow(volume/float64(o.enum.Len())*o.cfg.NbElemsPerCell, 1/float64(o.Dimension))
		for d := 0; d < o.Dimension; d++ {
			// slack for roundoff in D, exact ratios must not gain a cell
			o.NbCells[d] = max(1, int(math.Ceil(L[d]/D*(1-1.e-12))))
		}
	}
	for d := 0; d < 3; d++ {
		if L[d] > 0 {
			o.CellSize[d] = L[d] / float64(o.NbCells[d])
		} else {
			o.CellSize[d] = 1
		}
	}
	return nil
}

func (o *Octree) clampedIndex(d int, x float64) int {
	i := int(math.Floor((x - o.Bounds[0][d]) / o.CellSize[d]))
	return min(max(i, 0), o.NbCells[d]-1)
}

func (o *Octree) flat(b [3]int) int {
	return b[0] + o.NbCells[0]*(b[1]+o.NbCells[1]*b[2])
}

// Enumeration is the unified element numbering used by the buckets
func (o *Octree) Enumeration() *mesh.Enumeration { return o.enum }

// Bucket returns the unified elements stored in bucket b
func (o *Octree) Bucket(b [3]int) []int { return o.buckets[o.flat(b)] }

// FindBucket returns the bucket holding point p, false when p lies outside
// the grid on any axis.
func (o *Octree) FindBucket(p []float64) (b [3]int, ok bool) {
	if len(p) < o.Dimension || o.buckets == nil {
		return
	}
	for d := 0; d < o.Dimension; d++ {
		r := (p[d] - o.Bounds[0][d]) / o.CellSize[d]
		if r < -bucketTol || r > float64(o.NbCells[d])+bucketTol || math.IsNaN(r) {
			return b, false
		}
		b[d] = min(int(r), o.NbCells[d]-1)
	}
	return b, true
}

// GatherRing appends to out the elements of every bucket at Chebyshev
// distance exactly ring from b, skipping buckets outside the grid.
func (o *Octree) GatherRing(b [3]int, ring int, out []int) []int {
	if ring == 0 {
		return append(out, o.Bucket(b)...)
	}
	var lo, hi [3]int
	for d := 0; d < 3; d++ {
		lo[d], hi[d] = max(b[d]-ring, 0), min(b[d]+ring, o.NbCells[d]-1)
	}
	for k := lo[2]; k <= hi[2]; k++ {
		for j := lo[1]; j <= hi[1]; j++ {
			for i := lo[0]; i <= hi[0]; i++ {
				dist := max(abs(i-b[0]), abs(j-b[1]), abs(k-b[2]))
				if dist != ring {
					continue
				}
				out = append(out, o.buckets[o.flat([3]int{i, j, k})]...)
			}
		}
	}
	return out
}

// RingCount is the number of rings needed from b to cover the whole grid
func (o *Octree) RingCount(b [3]int) (n int) {
	for d := 0; d < 3; d++ {
		n = max(n, b[d], o.NbCells[d]-1-b[d])
	}
	return
}

// FindElement locates the element containing p. The home bucket is tested
// first, then each ring up to ProbeRings, testing only new candidates.
func (o *Octree) FindElement(p []float64) (loc Location, found bool) {
	if err := o.Ready(); err != nil {
		o.log.WithError(err).Warn("point location without an index")
		return
	}
	b, ok := o.FindBucket(p)
	if !ok {
		return
	}
	cand := o.GatherRing(b, 0, nil)
	if loc, found = o.test(p, cand); found {
		return
	}
	for r := 1; r <= o.cfg.ProbeRings; r++ {
		n := len(cand)
		cand = o.GatherRing(b, r, cand)
		if loc, found = o.test(p, cand[n:]); found {
			return
		}
	}
	return
}

func (o *Octree) test(p []float64, cand []int) (loc Location, found bool) {
	for _, u := range cand {
		mi, g, k := o.enum.Resolve(u)
		m := o.enum.Meshes[mi]
		if element.IsPointInElement(m.Groups[g].Shape(), p, m.ElementCoordinates(g, k)) {
			return Location{Mesh: mi, Group: g, Local: k, Unified: u}, true
		}
	}
	return
}

type Stats struct {
	Buckets, Occupied, MaxPerBucket int
	MeanPerOccupied                 float64
}

func (o *Octree) Stats() (st Stats) {
	var total int
	st.Buckets = len(o.buckets)
	for _, b := range o.buckets {
		if len(b) == 0 {
			continue
		}
		st.Occupied++
		total += len(b)
		st.MaxPerBucket = max(st.MaxPerBucket, len(b))
	}
	if st.Occupied > 0 {
		st.MeanPerOccupied = float64(total) / float64(st.Occupied)
	}
	return
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
