// Copyright 2026 The Flotilla Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jcodagnone/flotilla/planner"
	"github.com/jcodagnone/flotilla/roster"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the planning web server (local only)",
	Args:  cobra.NoArgs,
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

		server := planner.NewServer(repo)

		fmt.Println("🚌 Flotilla planning server starting...")
		fmt.Println("📍 API at http://localhost:8080/api")
		fmt.Println("🔒 Local only - not exposed to internet")

		return server.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
