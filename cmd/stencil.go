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

	"github.com/notargets/meshinterp/mesh"
	"github.com/notargets/meshinterp/octree"
	"github.com/notargets/meshinterp/stencil"
)

// StencilCmd represents the stencil command
var StencilCmd = &cobra.Command{
	Use:   "stencil",
	Short: "Compute the stencil of an element",
	Long: `
Computes the neighbourhood of one element either by vertex rings or by
octree bucket rings.

meshinterp stencil -c 5,5 -l 10,10 -e 7 -m rings -r 2
meshinterp stencil -c 5,5 -l 10,10 -e 7 -m octree -n 21`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStencil(cmd, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(StencilCmd)
	meshFlags(StencilCmd)
	StencilCmd.Flags().IntP("element", "e", 0, "unified index of the center element")
	StencilCmd.Flags().IntP("group", "g", 0, "element group of the center element, with --local")
	StencilCmd.Flags().Int("local", -1, "index of the center element within --group, overrides --element")
	StencilCmd.Flags().StringP("method", "m", "rings", "rings or octree")
	StencilCmd.Flags().IntP("rings", "r", 1, "vertex rings for the rings method")
	StencilCmd.Flags().IntP("size", "n", 9, "minimum stencil size")
}

func RunStencil(cmd *cobra.Command, w io.Writer) (err error) {
	m, cfg, err := meshFromFlags(cmd)
	if err != nil {
		return
	}
	var (
		elem, _   = cmd.Flags().GetInt("element")
		method, _ = cmd.Flags().GetString("method")
		rings, _  = cmd.Flags().GetInt("rings")
		size, _   = cmd.Flags().GetInt("size")
		group, _  = cmd.Flags().GetInt("group")
		local, _  = cmd.Flags().GetInt("local")
		sc        stencil.Computer
		log       = logrus.StandardLogger()
	)
	if local >= 0 {
		var ok bool
		if elem, ok = mesh.NewEnumeration(m).Unified(0, group, local); !ok {
			return fmt.Errorf("no volume element %d in group %d", local, group)
		}
	}
	switch method {
	case "rings":
		if sc, err = stencil.NewRings(m, rings, size, log); err != nil {
			return
		}
	case "octree":
		tree := octree.New(cfg, log)
		tree.Attach(m)
		sc = stencil.NewOctreeStencil(tree, size, log)
	default:
		return fmt.Errorf("unknown stencil method %q, use rings or octree", method)
	}
	st, err := sc.ComputeStencil(elem)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "stencil of element %d (%s): %d elements\n%v\n", elem, method, len(st), st)
	return
}
