// Copyright 2026 The Flotilla Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jcodagnone/flotilla/cluster"
	"github.com/jcodagnone/flotilla/planner"
	"github.com/jcodagnone/flotilla/roster"
	"github.com/jcodagnone/flotilla/utils/textutils"
)

var planOptions struct {
	maxSize int
	minSize int
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Assign every visitor to a bus load",
	Long: `Groups the imported roster into bus loads of at most --max-size seats,
preferring loads of at least --min-size. The assignment is stored in the
database and summarized on stdout. The last load may fall below the
minimum when the leftover visitors fit a single bus.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := openDB(true)
		if err != nil {
			return err
		}
		defer db.Close()

		repo := roster.NewRepository(db)
		if err := repo.CreateSchema(); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}

		summaries, err := planner.New(repo).Plan(planOptions.maxSize, planOptions.minSize)
		if errors.Is(err, cluster.ErrNoProgress) {
			return fmt.Errorf("no feasible grouping for this roster: %w (try lowering --min-size)", err)
		}

		if err != nil {
			return err
		}

		if len(summaries) == 0 {
			fmt.Println("Roster is empty - nothing to plan")

			return nil
		}

		a, b, c, d := strings.Repeat("─", 4), strings.Repeat("─", 5), strings.Repeat("─", 8), strings.Repeat("─", 24)
		fmt.Printf("╭─%4s─┬─%5s─┬─%8s─┬─%-24s╮\n", a, b, c, d)
		fmt.Printf("│ %4s │ %5s │ %8s │ %-24s│\n", "Loop", "Load", "Visitors", "Centroid")
		fmt.Printf("├─%4s─┼─%5s─┼─%8s─┼─%-24s┤\n", a, b, c, d)

		total := 0
		for _, s := range summaries {
			fmt.Printf("│ %4d │ %5d │ %8s │ %10.5f, %10.5f │\n",
				s.Loop, s.Label, textutils.FormatInt(int64(s.Visitors)), s.Centroid.Lat, s.Centroid.Lng)

			total += s.Visitors
		}

		fmt.Printf("╰─%4s─┴─%5s─┴─%8s─┴─%-24s╯\n", a, b, c, d)
		fmt.Printf("✅ %s visitors on %d buses\n", textutils.FormatInt(int64(total)), len(summaries))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().IntVar(&planOptions.maxSize, "max-size", 0, "bus capacity (required)")
	planCmd.Flags().IntVar(&planOptions.minSize, "min-size", 1, "preferred minimum visitors per bus")

	_ = planCmd.MarkFlagRequired("max-size")
}
