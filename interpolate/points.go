package interpolate

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/meshinterp/collective"
	"github.com/notargets/meshinterp/field"
)

// Report summarizes one rank's part of a point interpolation
type Report struct {
	Points     int   // Target points owned by this rank
	LocalHits  int   // Points resolved against the local shard
	RemoteHits int   // Points resolved by another rank
	Unresolved []int // Points no rank could resolve, set to zero
	Rounds     int   // Broadcast rounds taken part in
}

func (r *Report) String() string {
	return fmt.Sprintf("points %d, local %d, remote %d, unresolved %d, rounds %d",
		r.Points, r.LocalHits, r.RemoteHits, len(r.Unresolved), r.Rounds)
}

// InterpolatePoints evaluates src at every point of coords, one row per
// point. It is collective: every rank passes its own points and the local
// shard of the source field. Points the rank cannot resolve locally are
// broadcast, one root at a time, to the other ranks, which answer with a
// found flag and their value. Points nobody finds are set to zero and
// listed in the report.
func (e *Engine) InterpolatePoints(src *field.Field, coords [][]float64) (vals *mat.Dense, rep *Report, err error) {
	if src == nil {
		return nil, nil, ErrNoSourceField
	}
	if err = e.attach(src.Mesh()); err != nil {
		return
	}
	var (
		nv      = src.RowSize
		dim     = src.Mesh().Dimension
		n       = len(coords)
		found   = make([]bool, n)
		missing []int
	)
	rep = &Report{Points: n}
	if n == 0 {
		vals = &mat.Dense{}
	} else {
		vals = mat.NewDense(n, nv, nil)
	}
	for i, p := range coords {
		if len(p) < dim {
			return nil, nil, fmt.Errorf("point %d has %d coordinates, mesh is %dD", i, len(p), dim)
		}
		if e.resolve(p, src, vals.RawRowView(i)) {
			found[i] = true
			rep.LocalHits++
		} else {
			missing = append(missing, i)
		}
	}
	for root := 0; root < e.Comm.Size(); root++ {
		if err = e.round(root, src, coords, missing, found, vals, rep); err != nil {
			return nil, nil, err
		}
	}
	for _, i := range missing {
		if found[i] {
			continue
		}
		row := vals.RawRowView(i)
		for c := range row {
			row[c] = 0
		}
		rep.Unresolved = append(rep.Unresolved, i)
	}
	if len(rep.Unresolved) != 0 {
		lost := make([][]float64, len(rep.Unresolved))
		for j, i := range rep.Unresolved {
			lost[j] = coords[i][:dim]
		}
		e.log.WithFields(logrus.Fields{
			"count":  len(lost),
			"points": lost,
		}).Warn("points not found on any rank, set to zero")
	}
	return
}

// round runs one broadcast and gather with root asking for its missing
// points. Answers are records of 1+nv values, the first being 1 when found.
func (e *Engine) round(root int, src *field.Field, coords [][]float64,
	missing []int, found []bool, vals *mat.Dense, rep *Report) (err error) {
	var (
		me      = e.Comm.Rank()
		dim     = src.Mesh().Dimension
		stride  = 1 + src.RowSize
		send    []float64
		pts     []float64
		answers []float64
		all     [][]float64
	)
	if me == root {
		send = make([]float64, 0, len(missing)*dim)
		for _, i := range missing {
			send = append(send, coords[i][:dim]...)
		}
	}
	if pts, err = e.Comm.Broadcast(root, send); err != nil {
		return
	}
	rep.Rounds++
	if me != root {
		np := len(pts) / dim
		answers = make([]float64, np*stride)
		for q := 0; q < np; q++ {
			rec := answers[q*stride : (q+1)*stride]
			if e.resolve(pts[q*dim:(q+1)*dim], src, rec[1:]) {
				rec[0] = 1
			}
		}
	}
	if all, err = e.Comm.Gather(root, answers); err != nil {
		return
	}
	if me != root {
		return
	}
	return merge(all, root, missing, found, vals, stride, rep)
}

// merge folds the answers gathered at root in ascending rank order. The
// first rank to find a point sets its row; later finders are merged by
// componentwise minimum.
func merge(all [][]float64, root int, missing []int, found []bool,
	vals *mat.Dense, stride int, rep *Report) error {
	for r, rec := range all {
		if r == root {
			continue
		}
		if len(rec) != len(missing)*stride {
			return fmt.Errorf("rank %d answered %d values for %d points: %w",
				r, len(rec), len(missing), collective.ErrCollectiveMismatch)
		}
		for q, i := range missing {
			a := rec[q*stride : (q+1)*stride]
			if a[0] == 0 {
				continue
			}
			row := vals.RawRowView(i)
			if !found[i] {
				copy(row, a[1:])
				found[i] = true
				rep.RemoteHits++
				continue
			}
			for c := range row {
				row[c] = math.Min(row[c], a[1+c])
			}
		}
	}
	return nil
}
