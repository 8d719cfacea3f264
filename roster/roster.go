// Copyright 2026 The Flotilla Authors
// SPDX-License-Identifier: Apache-2.0

// Package roster loads and stores the visitors attending an event.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"

	"github.com/jcodagnone/flotilla/spatial"
	"github.com/jcodagnone/flotilla/utils/textutils"
)

// Visitor is one person to seat on a bus.
type Visitor struct {
	ID       int           `json:"id"`
	Locality string        `json:"locality"`
	Point    spatial.Point `json:"point"`
	H3Res5   int64         `json:"-"`
	H3Res6   int64         `json:"-"`
	H3Res7   int64         `json:"-"`
}

// Record is one roster CSV row: a locality with a visitor head count.
type Record struct {
	Locality string
	Point    spatial.Point
	Visitors int
}

var errMissingColumns = errors.New("roster: row has fewer than 4 columns")

// ReadFile parses a roster CSV (locality,lat,lng,visitors). The first row
// is treated as a header and skipped. Locality names are accent-folded and
// lowercased so the same town spelled differently lands on one key. Rows
// with a zero head count are dropped.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path) // #nosec G304 - path is provided by the operator
	if err != nil {
		return nil, fmt.Errorf("opening roster file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var records []Record

	for row := 0; ; row++ {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading roster row %d: %w", row, err)
		}

		if row == 0 {
			continue // header
		}

		if len(fields) < 4 {
			return nil, fmt.Errorf("%w: row %d", errMissingColumns, row)
		}

		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing lat at row %d: %w", row, err)
		}

		lng, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing lng at row %d: %w", row, err)
		}

		count, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, fmt.Errorf("parsing visitors at row %d: %w", row, err)
		}

		if count <= 0 {
			continue
		}

		records = append(records, Record{
			Locality: textutils.LowerASCIIFolding(fields[0]),
			Point:    spatial.Point{Lat: lat, Lng: lng},
			Visitors: count,
		})
	}

	return records, nil
}

// Expand turns head-count records into individual visitors, one per seat
// to fill. Record order is preserved; IDs are assigned by the repository
// at insert time and are zero here.
func Expand(records []Record) []*Visitor {
	var visitors []*Visitor

	for _, rec := range records {
		for i := 0; i < rec.Visitors; i++ {
			visitors = append(visitors, &Visitor{
				Locality: rec.Locality,
				Point:    rec.Point,
			})
		}
	}

	return visitors
}

// FilterByDistance keeps the visitors within radiusMeters of the venue.
// Grouping someone who lives across the border onto a local bus helps
// nobody; they are reported as excluded, not silently dropped.
func FilterByDistance(visitors []*Visitor, venue spatial.Point, radiusMeters float64) (kept, excluded []*Visitor) {
	for _, v := range visitors {
		if venue.HaversineDistance(&v.Point) <= radiusMeters {
			kept = append(kept, v)
		} else {
			excluded = append(excluded, v)
		}
	}

	return kept, excluded
}

// Sample keeps roughly the given fraction of visitors, chosen by a seeded
// shuffle so repeated runs agree. Input order is preserved among the kept
// visitors. A fraction at or above 1 returns the input unchanged.
func Sample(visitors []*Visitor, fraction float64, seed int64) []*Visitor {
	if fraction >= 1 {
		return visitors
	}

	if fraction <= 0 {
		return nil
	}

	n := int(math.Ceil(fraction * float64(len(visitors))))
	perm := rand.New(rand.NewSource(seed)).Perm(len(visitors))

	picked := perm[:n]
	sort.Ints(picked)

	kept := make([]*Visitor, 0, n)
	for _, idx := range picked {
		kept = append(kept, visitors[idx])
	}

	return kept
}
