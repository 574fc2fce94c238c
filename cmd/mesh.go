package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/notargets/meshinterp/InputParameters"
	"github.com/notargets/meshinterp/mesh"
	"github.com/notargets/meshinterp/octree"
)

// BuildMesh creates the structured mesh described by mp
func BuildMesh(mp InputParameters.MeshParameters) (m *mesh.Mesh, err error) {
	if len(mp.Lengths) != len(mp.Cells) {
		return nil, fmt.Errorf("%d lengths for %d axes", len(mp.Lengths), len(mp.Cells))
	}
	c, l := mp.Cells, mp.Lengths
	switch len(c) {
	case 1:
		if mp.Simplex {
			return nil, fmt.Errorf("1D meshes have no simplex variant")
		}
		m = mesh.NewLine(c[0], 0, l[0])
	case 2:
		m = mesh.NewRectangle(c[0], c[1], l[0], l[1], mp.Simplex)
	case 3:
		m = mesh.NewBox(c[0], c[1], c[2], l[0], l[1], l[2], mp.Simplex)
	default:
		return nil, fmt.Errorf("meshes have 1 to 3 axes, have %d", len(c))
	}
	if err = m.Validate(); err != nil {
		return nil, err
	}
	m.PrintStatistics(logrus.StandardLogger())
	return
}

func meshFlags(cmd *cobra.Command) {
	cmd.Flags().IntSliceP("cells", "c", []int{5, 5}, "elements per axis, e.g. 5,5")
	cmd.Flags().Float64SliceP("lengths", "l", []float64{10, 10}, "domain length per axis, e.g. 10,10")
	cmd.Flags().BoolP("simplex", "s", false, "triangles / tets instead of quads / hexes")
	cmd.Flags().Float64("elemsPerCell", 1, "target elements per octree bucket")
	cmd.Flags().IntSlice("octreeCells", nil, "explicit octree buckets per axis, overrides elemsPerCell")
	cmd.Flags().Int("probeRings", 1, "bucket rings searched around the home bucket")
}

func meshFromFlags(cmd *cobra.Command) (m *mesh.Mesh, cfg octree.Config, err error) {
	var mp InputParameters.MeshParameters
	if mp.Cells, err = cmd.Flags().GetIntSlice("cells"); err != nil {
		return
	}
	if mp.Lengths, err = cmd.Flags().GetFloat64Slice("lengths"); err != nil {
		return
	}
	mp.Simplex, _ = cmd.Flags().GetBool("simplex")
	cfg = octree.DefaultConfig()
	cfg.NbElemsPerCell, _ = cmd.Flags().GetFloat64("elemsPerCell")
	cfg.NbCells, _ = cmd.Flags().GetIntSlice("octreeCells")
	cfg.ProbeRings, _ = cmd.Flags().GetInt("probeRings")
	m, err = BuildMesh(mp)
	return
}

// ParseFloats reads a point given as a comma separated list of reals
func ParseFloats(s string) (vals []float64, err error) {
	for _, f := range strings.Split(s, ",") {
		var v float64
		if v, err = strconv.ParseFloat(strings.TrimSpace(f), 64); err != nil {
			return nil, fmt.Errorf("bad number %q in %q", f, s)
		}
		vals = append(vals, v)
	}
	return
}

// AnalyticFunction returns a test function of x for each component
func AnalyticFunction(name string) (fn func(x, row []float64), err error) {
	switch strings.ToLower(name) {
	case "linear":
		fn = func(x, row []float64) {
			for c := range row {
				row[c] = float64(c + 1)
				for d, xd := range x {
					row[c] += float64(d+1) * xd
				}
			}
		}
	case "quadratic":
		fn = func(x, row []float64) {
			for c := range row {
				row[c] = float64(c)
				for _, xd := range x {
					row[c] += xd * xd
				}
			}
		}
	case "sine":
		fn = func(x, row []float64) {
			for c := range row {
				row[c] = 1
				for _, xd := range x {
					row[c] *= math.Sin(xd + float64(c))
				}
			}
		}
	default:
		err = fmt.Errorf("unknown function %q", name)
	}
	return
}
