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

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/notargets/meshinterp/octree"
)

// LocateCmd represents the locate command
var LocateCmd = &cobra.Command{
	Use:   "locate [flags] x,y,z ...",
	Short: "Find the elements containing points",
	Long: `
Builds the octree over a structured mesh and prints, for each point, the
unified index of the element containing it.

meshinterp locate -c 5,5 -l 10,10 1,1 3,1 1,3`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunLocate(cmd, args, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(LocateCmd)
	meshFlags(LocateCmd)
}

func RunLocate(cmd *cobra.Command, args []string, w io.Writer) (err error) {
	m, cfg, err := meshFromFlags(cmd)
	if err != nil {
		return
	}
	tree := octree.New(cfg, logrus.StandardLogger())
	if err = tree.Build(m); err != nil {
		return
	}
	st := tree.Stats()
	fmt.Fprintf(w, "octree %v cells of %v, %d/%d buckets used, max %d per bucket\n",
		tree.NbCells[:tree.Dimension], tree.CellSize[:tree.Dimension],
		st.Occupied, st.Buckets, st.MaxPerBucket)
	for _, arg := range args {
		var p []float64
		if p, err = ParseFloats(arg); err != nil {
			return
		}
		if len(p) != m.Dimension {
			return fmt.Errorf("point %q has %d coordinates, mesh is %dD", arg, len(p), m.Dimension)
		}
		if loc, ok := tree.FindElement(p); ok {
			fmt.Fprintf(w, "%v\t-> element %d\n", p, loc.Unified)
		} else {
			fmt.Fprintf(w, "%v\t-> not found\n", p)
		}
	}
	return
}
