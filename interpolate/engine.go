// Package interpolate transfers field values between meshes. Points are
// located with a per rank octree over the local shard of the source mesh;
// points a rank cannot resolve are answered by the other ranks through a
// collective.Channel.
package interpolate

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/meshinterp/arena"
	"github.com/notargets/meshinterp/collective"
	"github.com/notargets/meshinterp/element"
	"github.com/notargets/meshinterp/field"
	"github.com/notargets/meshinterp/mesh"
	"github.com/notargets/meshinterp/octree"
)

var (
	ErrNoSourceField   = errors.New("no source field")
	ErrNoTargetField   = errors.New("no target field")
	ErrNotCovered      = errors.New("element group not covered by the source field")
	ErrMeshMismatch    = errors.New("source and target fields live on different meshes")
	ErrRowSizeMismatch = errors.New("source and target row sizes differ")
	ErrFamilyMismatch  = errors.New("source and target element families differ")
)

// Engine interpolates one rank's share of a transfer. Engines are not safe
// for concurrent use; run one engine per rank.
type Engine struct {
	Comm collective.Channel

	tree *octree.Octree
	log  logrus.FieldLogger
}

func NewEngine(cfg octree.Config, comm collective.Channel, log logrus.FieldLogger) *Engine {
	if comm == nil {
		comm = collective.Serial{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("rank", comm.Rank())
	return &Engine{
		Comm: comm,
		tree: octree.New(cfg, log),
		log:  log,
	}
}

// Octree returns the index over the current source mesh
func (e *Engine) Octree() *octree.Octree { return e.tree }

// attach points the octree at m, rebuilding when m or its generation changed
func (e *Engine) attach(m *mesh.Mesh) error {
	if ms := e.tree.Meshes(); len(ms) != 1 || ms[0] != m {
		e.tree.Attach(m)
	}
	return e.tree.Ready()
}

// EvaluateAt writes into row the value of src at point, which must lie in
// the element loc of the source mesh.
func (e *Engine) EvaluateAt(point []float64, loc octree.Location, src *field.Field, row []float64) (err error) {
	if src == nil {
		return ErrNoSourceField
	}
	if !src.Space.Covers(loc.Group) {
		return fmt.Errorf("group %d of mesh %q: %w", loc.Group, src.Mesh().Name, ErrNotCovered)
	}
	var (
		m      = src.Mesh()
		ent    = src.Space.Entries[loc.Group]
		geo    = m.Groups[loc.Group].Shape()
		w      = make([]float64, ent.Shape.NodeCount())
		coords = m.ElementCoordinates(loc.Group, loc.Local)
		local  []float64
	)
	if local, err = element.MappedCoordinates(geo, point, coords); err != nil {
		return
	}
	ent.Shape.Values(local, w)
	for c := range row {
		row[c] = 0
	}
	for i, dof := range ent.DOF[loc.Local] {
		floats.AddScaled(row, w[i], src.Row(dof))
	}
	return
}

// resolve locates p in the local index and evaluates src there
func (e *Engine) resolve(p []float64, src *field.Field, row []float64) bool {
	loc, ok := e.tree.FindElement(p)
	if !ok {
		return false
	}
	if err := e.EvaluateAt(p, loc, src, row); err != nil {
		e.log.WithFields(logrus.Fields{
			"point":   p,
			"element": loc.Unified,
		}).WithError(err).Debug("located point not evaluated")
		return false
	}
	return true
}

// InterpolateMatching fills tgt from src when both live on the same mesh.
// Each target group covered by src uses one matrix of source shape values
// at the target reference nodes; groups the source does not cover are left
// untouched.
func (e *Engine) InterpolateMatching(src, tgt *field.Field) error {
	if err := checkPair(src, tgt); err != nil {
		return err
	}
	if src.Mesh() != tgt.Mesh() {
		return fmt.Errorf("%q on %q, %q on %q: %w",
			src.Name, src.Mesh().Name, tgt.Name, tgt.Mesh().Name, ErrMeshMismatch)
	}
	var (
		nv    = src.RowSize
		cache = make(map[[2]element.ElementType]*mat.Dense)
	)
	for g, tEnt := range tgt.Space.Entries {
		if tEnt == nil {
			continue
		}
		if !src.Space.Covers(g) {
			e.log.WithField("group", g).Debug("target group not covered by the source")
			continue
		}
		sEnt := src.Space.Entries[g]
		if sEnt.Shape.Family() != tEnt.Shape.Family() {
			return fmt.Errorf("group %d: %s to %s: %w",
				g, sEnt.Shape.Type(), tEnt.Shape.Type(), ErrFamilyMismatch)
		}
		key := [2]element.ElementType{sEnt.Shape.Type(), tEnt.Shape.Type()}
		M, ok := cache[key]
		if !ok {
			M = interpolationMatrix(sEnt.Shape, tEnt.Shape)
			cache[key] = M
		}
		var (
			ns, nt = sEnt.Shape.NodeCount(), tEnt.Shape.NodeCount()
			S      = mat.NewDense(ns, nv, nil)
			T      = mat.NewDense(nt, nv, nil)
		)
		for k, tDOF := range tEnt.DOF {
			for i, dof := range sEnt.DOF[k] {
				S.SetRow(i, src.Row(dof))
			}
			T.Mul(M, S)
			for i, dof := range tDOF {
				copy(tgt.Row(dof), T.RawRowView(i))
			}
		}
	}
	return nil
}

// interpolationMatrix has one row per target node holding the source shape
// values at that node
func interpolationMatrix(src, tgt element.Shape) (M *mat.Dense) {
	var (
		ref = tgt.ReferenceNodes()
		w   = make([]float64, src.NodeCount())
	)
	M = mat.NewDense(len(ref), src.NodeCount(), nil)
	for t, r := range ref {
		src.Values(r, w)
		M.SetRow(t, w)
	}
	return
}

func checkPair(src, tgt *field.Field) error {
	if src == nil {
		return ErrNoSourceField
	}
	if tgt == nil {
		return ErrNoTargetField
	}
	if src.RowSize != tgt.RowSize {
		return fmt.Errorf("%q has %d components, %q has %d: %w",
			src.Name, src.RowSize, tgt.Name, tgt.RowSize, ErrRowSizeMismatch)
	}
	return nil
}

// covers reports whether src has an entry of the same family for every
// group tgt uses
func covers(src, tgt *field.Field) bool {
	for g, tEnt := range tgt.Space.Entries {
		if tEnt == nil {
			continue
		}
		if !src.Space.Covers(g) || src.Space.Entries[g].Shape.Family() != tEnt.Shape.Family() {
			return false
		}
	}
	return true
}

// Interpolate fills tgt from src. When every rank has both fields on the
// same covered mesh the matching path is used, otherwise every target DOF
// location goes through InterpolatePoints. All ranks must call it together.
func (e *Engine) Interpolate(src, tgt *field.Field) (rep *Report, err error) {
	if err = checkPair(src, tgt); err != nil {
		return
	}
	var matching bool
	if matching, err = e.agree(src.Mesh() == tgt.Mesh() && covers(src, tgt)); err != nil {
		return
	}
	if matching {
		if err = e.InterpolateMatching(src, tgt); err != nil {
			return
		}
		return &Report{Points: tgt.NumRows(), LocalHits: tgt.NumRows()}, nil
	}
	var vals *mat.Dense
	if vals, rep, err = e.InterpolatePoints(src, tgt.DOFCoordinates()); err != nil {
		return
	}
	tgt.Data.Copy(vals)
	return
}

// InterpolateHandles resolves both fields in a and interpolates
func (e *Engine) InterpolateHandles(a *arena.Arena, src, tgt arena.Handle) (*Report, error) {
	s, err := a.Field(src)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	t, err := a.Field(tgt)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	return e.Interpolate(s, t)
}

// agree returns true on every rank only if local is true on every rank
func (e *Engine) agree(local bool) (all bool, err error) {
	if e.Comm.Size() == 1 {
		return local, nil
	}
	var gathered [][]float64
	flag := []float64{0}
	if local {
		flag[0] = 1
	}
	if gathered, err = e.Comm.Gather(0, flag); err != nil {
		return
	}
	if e.Comm.Rank() == 0 {
		for _, f := range gathered {
			flag[0] = min(flag[0], f[0])
		}
	}
	if flag, err = e.Comm.Broadcast(0, flag); err != nil {
		return
	}
	return flag[0] == 1, nil
}
