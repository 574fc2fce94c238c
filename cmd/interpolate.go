/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/meshinterp/InputParameters"
	"github.com/notargets/meshinterp/arena"
	"github.com/notargets/meshinterp/collective"
	"github.com/notargets/meshinterp/field"
	"github.com/notargets/meshinterp/interpolate"
	"github.com/notargets/meshinterp/mesh"
	"github.com/notargets/meshinterp/octree"
	"github.com/notargets/meshinterp/utils"
)

const exampleFile = `
########################################
Title: "Quads to triangles"
Source:
  Cells: [5, 5]
  Lengths: [10, 10]
Target:
  Cells: [4, 3]
  Lengths: [10, 10]
  Simplex: true
SourceOrder: 1
TargetOrder: 2
Continuous: true
Components: 1
Function: linear # Can be quadratic or sine
Ranks: 2
ElementsPerCell: 1
ProbeRings: 1
########################################
`

// InterpolateCmd represents the interpolate command
var InterpolateCmd = &cobra.Command{
	Use:   "interpolate",
	Short: "Interpolate an analytic field from a source mesh onto a target mesh",
	Long: `
Projects an analytic function onto a source mesh, splits source and target
meshes over a number of in-process ranks and interpolates onto the target,
reporting the error against the function at the target nodes.

meshinterp interpolate -I input.yaml`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			ip   = InputParameters.NewInterpolationParameters()
			file string
			data []byte
		)
		if file, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		if len(file) == 0 {
			fmt.Printf("error: must supply an input parameters file (-I, --inputConditionsFile)\n")
			fmt.Printf("Example File:%s\n", exampleFile)
			os.Exit(1)
		}
		if data, err = os.ReadFile(file); err != nil {
			return
		}
		if err = ip.Parse(data); err != nil {
			return
		}
		if r, _ := cmd.Flags().GetInt("ranks"); r > 0 {
			ip.Ranks = r
		}
		ip.Print()
		_, err = RunInterpolate(ip, cmd.OutOrStdout())
		return
	},
}

func init() {
	rootCmd.AddCommand(InterpolateCmd)
	InterpolateCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file describing the source and target meshes and fields")
	InterpolateCmd.Flags().IntP("ranks", "p", 0, "number of ranks, overrides the input file")
}

// RankResult is the outcome of one rank
type RankResult struct {
	Report   *interpolate.Report
	MaxError float64
}

// RunInterpolate executes the transfer described by ip over ip.Ranks ranks
func RunInterpolate(ip *InputParameters.InterpolationParameters, w io.Writer) (results []RankResult, err error) {
	var (
		srcMesh, tgtMesh *mesh.Mesh
		srcShards        []*mesh.Shard
		tgtShards        []*mesh.Shard
		fn               func(x, row []float64)
	)
	if fn, err = AnalyticFunction(ip.Function); err != nil {
		return
	}
	if srcMesh, err = BuildMesh(ip.Source); err != nil {
		return
	}
	if tgtMesh, err = BuildMesh(ip.Target); err != nil {
		return
	}
	if srcShards, err = mesh.Split(srcMesh, ip.Ranks); err != nil {
		return
	}
	if tgtShards, err = mesh.Split(tgtMesh, ip.Ranks); err != nil {
		return
	}
	cfg := octree.Config{
		NbCells:        ip.Cells,
		NbElemsPerCell: ip.ElementsPerCell,
		ProbeRings:     ip.ProbeRings,
	}
	results = make([]RankResult, ip.Ranks)
	err = collective.Run(ip.Ranks, func(ch collective.Channel) (err error) {
		var (
			r      = ch.Rank()
			a      = arena.New()
			log    = logrus.WithField("rank", r)
			hs, ht arena.Handle
			src    *field.Field
			tgt    *field.Field
		)
		if src, err = newField("source", srcShards[r].Mesh, ip.SourceOrder, ip.Continuous, ip.Components); err != nil {
			return
		}
		src.SetFromFunction(fn)
		if tgt, err = newField("target", tgtShards[r].Mesh, ip.TargetOrder, false, ip.Components); err != nil {
			return
		}
		if hs, err = a.AddField(src); err != nil {
			return
		}
		if ht, err = a.AddField(tgt); err != nil {
			return
		}
		eng := interpolate.NewEngine(cfg, ch, log)
		if results[r].Report, err = eng.InterpolateHandles(a, hs, ht); err != nil {
			return
		}
		if utils.HasNaN(tgt.Data) {
			return fmt.Errorf("rank %d: NaN in interpolated field", r)
		}
		exact := make([]float64, ip.Components)
		for i, x := range tgt.DOFCoordinates() {
			fn(x, exact)
			results[r].MaxError = math.Max(results[r].MaxError,
				floats.Distance(exact, tgt.Row(i), math.Inf(1)))
		}
		log.WithFields(utils.MemFields()).Debug("rank done")
		return
	})
	if err != nil {
		return
	}
	for r, res := range results {
		fmt.Fprintf(w, "rank %d: %s, max error %8.5e\n", r, res.Report, res.MaxError)
	}
	return
}

func newField(name string, m *mesh.Mesh, order int, continuous bool, nv int) (f *field.Field, err error) {
	var sp *field.Space
	if sp, err = field.NewSpace(m, order, continuous && order == 1); err != nil {
		return
	}
	return field.New(name, sp, nv)
}
