// Copyright 2026 The Flotilla Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jcodagnone/flotilla/cluster"
	"github.com/jcodagnone/flotilla/roster"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var debugDendrogramCmd = &cobra.Command{
	Use:   "dendrogram <csv>",
	Short: "Print the merge tree for a roster CSV",
	Long: `Builds the agglomerative merge tree over the roster rows (one point per
row, head counts ignored) and prints each merge with its height. Useful to
eyeball why a size band turns out infeasible.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		records, err := roster.ReadFile(args[0])
		if err != nil {
			return err
		}

		points := make([]cluster.Point, len(records))
		for i, rec := range records {
			points[i] = cluster.Point{X: rec.Point.Lng, Y: rec.Point.Lat}
		}

		dend, err := cluster.Build(points)
		if err != nil {
			return err
		}

		name := func(id int) string {
			if id < len(records) {
				return fmt.Sprintf("%d:%s", id, records[id].Locality)
			}

			return fmt.Sprintf("#%d", id)
		}

		for i, m := range dend.Merges() {
			fmt.Printf("%3d  %-28s + %-28s @ %f\n", len(records)+i, name(m.Left), name(m.Right), m.Height)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugDendrogramCmd)
}
