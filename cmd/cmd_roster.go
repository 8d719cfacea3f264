// Copyright 2026 The Flotilla Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jcodagnone/flotilla/planner"
	"github.com/jcodagnone/flotilla/roster"
	"github.com/jcodagnone/flotilla/spatial"
	"github.com/jcodagnone/flotilla/utils/textutils"
)

const insertBatchSize = 500

var rosterOptions struct {
	venueAddress string
	venueLat     float64
	venueLng     float64
	radiusKm     float64
	sample       float64
	seed         int64
}

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Manage the event visitor roster",
}

var rosterImportCmd = &cobra.Command{
	Use:   "import <csv>",
	Short: "Import a visitor roster from a CSV file",
	Long: `Imports a roster CSV (locality,lat,lng,visitors) into the database,
replacing any previously imported roster. Each row expands into one visitor
per head counted. Visitors farther than --radius-km from the venue are
excluded from the import; the venue is given as coordinates or geocoded
from --venue-address.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := roster.ReadFile(args[0])
		if err != nil {
			return err
		}

		visitors := roster.Expand(records)
		log.Printf("Read %s rows, %s visitors", textutils.FormatInt(int64(len(records))), textutils.FormatInt(int64(len(visitors))))

		if rosterOptions.radiusKm > 0 {
			venue, err := resolveVenue(cmd.Context())
			if err != nil {
				return err
			}

			var excluded []*roster.Visitor

			visitors, excluded = roster.FilterByDistance(visitors, venue, rosterOptions.radiusKm*1e3)
			if len(excluded) > 0 {
				log.Printf("⚠️  Excluded %s visitors beyond %.0f km of the venue", textutils.FormatInt(int64(len(excluded))), rosterOptions.radiusKm)
			}
		}

		if rosterOptions.sample < 1 {
			visitors = roster.Sample(visitors, rosterOptions.sample, rosterOptions.seed)
			log.Printf("Sampled down to %s visitors (seed %d)", textutils.FormatInt(int64(len(visitors))), rosterOptions.seed)
		}

		db, err := openDB(false)
		if err != nil {
			return err
		}
		defer db.Close()

		repo := roster.NewRepository(db)
		if err := repo.CreateSchema(); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}

		if err := repo.ClearVisitors(); err != nil {
			return err
		}

		var bar *progressbar.ProgressBar
		if isatty.IsTerminal(os.Stderr.Fd()) {
			bar = progressbar.NewOptions(len(visitors),
				progressbar.OptionSetDescription("Importing roster"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		for start := 0; start < len(visitors); start += insertBatchSize {
			end := start + insertBatchSize
			if end > len(visitors) {
				end = len(visitors)
			}

			if err := repo.BulkInsertVisitors(visitors[start:end]); err != nil {
				return fmt.Errorf("inserting visitors: %w", err)
			}

			if bar != nil {
				if err := bar.Add(end - start); err != nil {
					log.Printf("progress bar: %v", err)
				}
			}
		}

		fmt.Printf("✅ Imported %s visitors into %s\n", textutils.FormatInt(int64(len(visitors))), dbPath())

		return nil
	},
}

func resolveVenue(ctx context.Context) (spatial.Point, error) {
	if rosterOptions.venueAddress == "" {
		if rosterOptions.venueLat == 0 && rosterOptions.venueLng == 0 {
			return spatial.Point{}, errors.New("--radius-km needs a venue: set --venue-address or --venue-lat/--venue-lng")
		}

		return spatial.Point{Lat: rosterOptions.venueLat, Lng: rosterOptions.venueLng}, nil
	}

	apiKey, err := planner.ResolveMapsAPIKey(ctx)
	if err != nil {
		return spatial.Point{}, fmt.Errorf("resolving maps API key: %w", err)
	}

	result, err := planner.NewGoogleMapsGeocoder(apiKey).Geocode(rosterOptions.venueAddress)
	if err != nil {
		if planner.IsRateLimitError(err) {
			return spatial.Point{}, fmt.Errorf("geocoding venue (rate limited, retry in a minute): %w", err)
		}

		return spatial.Point{}, fmt.Errorf("geocoding venue: %w", err)
	}

	log.Printf("📍 Venue: %s (%f, %f) confidence=%s", result.DisplayName, result.Latitude, result.Longitude, result.Confidence)

	return spatial.Point{Lat: result.Latitude, Lng: result.Longitude}, nil
}

var rosterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the imported visitors",
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

		visitors, err := repo.ListVisitors()
		if err != nil {
			return fmt.Errorf("listing visitors: %w", err)
		}

		a, b, c := strings.Repeat("─", 6), strings.Repeat("─", 24), strings.Repeat("─", 24)
		fmt.Printf("╭─%6s─┬─%-24s─┬─%-24s╮\n", a, b, c)
		fmt.Printf("│ %6s │ %-24s │ %-24s│\n", "Id", "Locality", "Position")
		fmt.Printf("├─%6s─┼─%-24s─┼─%-24s┤\n", a, b, c)

		for _, v := range visitors {
			fmt.Printf("│ %6d │ %-24s │ %10.5f, %10.5f │\n", v.ID, v.Locality, v.Point.Lat, v.Point.Lng)
		}

		fmt.Printf("╰─%6s─┴─%-24s─┴─%-24s╯\n", a, b, c)
		fmt.Printf("%s visitors\n", textutils.FormatInt(int64(len(visitors))))

		return nil
	},
}

var rosterStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show roster counts and H3 density",
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

		count, err := repo.CountVisitors()
		if err != nil {
			return fmt.Errorf("counting visitors: %w", err)
		}

		fmt.Printf("Visitors: %s\n", textutils.FormatInt(int64(count)))

		visitors, err := repo.ListVisitors()
		if err != nil {
			return fmt.Errorf("listing visitors: %w", err)
		}

		points := make([]spatial.Point, len(visitors))
		for i, v := range visitors {
			points[i] = v.Point
		}

		center := spatial.Centroid(points)
		fmt.Printf("Centroid: %f, %f\n", center.Lat, center.Lng)

		cells, err := repo.DensityByH3(densityRes)
		if err != nil {
			return fmt.Errorf("computing density: %w", err)
		}

		fmt.Printf("Density (H3 res %d):\n", densityRes)

		for _, c := range cells {
			fmt.Printf("  %015x  %s\n", c.Cell, textutils.FormatInt(int64(c.Visitors)))
		}

		return nil
	},
}

var densityRes int

func init() {
	rootCmd.AddCommand(rosterCmd)
	rosterCmd.AddCommand(rosterImportCmd)
	rosterCmd.AddCommand(rosterListCmd)
	rosterCmd.AddCommand(rosterStatsCmd)

	rosterImportCmd.Flags().StringVar(&rosterOptions.venueAddress, "venue-address", "", "venue address, geocoded via Google Maps")
	rosterImportCmd.Flags().Float64Var(&rosterOptions.venueLat, "venue-lat", 0, "venue latitude")
	rosterImportCmd.Flags().Float64Var(&rosterOptions.venueLng, "venue-lng", 0, "venue longitude")
	rosterImportCmd.Flags().Float64Var(&rosterOptions.radiusKm, "radius-km", 0, "exclude visitors beyond this distance from the venue (0 disables)")
	rosterImportCmd.Flags().Float64Var(&rosterOptions.sample, "sample", 1, "keep this fraction of visitors (deterministic)")
	rosterImportCmd.Flags().Int64Var(&rosterOptions.seed, "seed", 1, "seed for --sample")

	rosterStatsCmd.Flags().IntVar(&densityRes, "res", 5, "H3 resolution for the density table (5-7)")
}
