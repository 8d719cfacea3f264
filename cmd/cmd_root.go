// Copyright 2026 The Flotilla Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "data", "directory holding the flotilla database")
}

var rootCmd = &cobra.Command{
	Use:   "flotilla",
	Short: "arma las cargas de ómnibus para visitantes de eventos",
	Long: `
flotilla agrupa a los visitantes de un evento en cargas de ómnibus por
cercanía geográfica, respetando la capacidad de cada coche y prefiriendo
cargas que la aprovechen.
`,
}

var dataDir string

func dbPath() string {
	return filepath.Join(dataDir, "flotilla.duckdb")
}

func openDB(mustExist bool) (*sql.DB, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	path := dbPath()
	if mustExist {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("database not found at %s - run 'roster import' first", path)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return db, nil
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
