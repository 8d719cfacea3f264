// Copyright 2026 The Flotilla Authors
// SPDX-License-Identifier: Apache-2.0

package planner

import (
	"gonum.org/v1/gonum/stat"

	"github.com/jcodagnone/flotilla/cluster"
	"github.com/jcodagnone/flotilla/roster"
)

// normalizePoints z-scores each axis independently so a degree of
// latitude and a degree of longitude weigh the same when the clusterer
// measures distances. The core is metric-agnostic; this is where the
// metric is decided. A constant axis (all visitors on one parallel)
// stays at zero instead of dividing by a zero deviation.
func normalizePoints(visitors []*roster.Visitor) []cluster.Point {
	lats := make([]float64, len(visitors))
	lngs := make([]float64, len(visitors))

	for i, v := range visitors {
		lats[i] = v.Point.Lat
		lngs[i] = v.Point.Lng
	}

	meanLat, stdLat := stat.MeanStdDev(lats, nil)
	meanLng, stdLng := stat.MeanStdDev(lngs, nil)

	points := make([]cluster.Point, len(visitors))

	for i := range visitors {
		if stdLat > 0 {
			points[i].Y = (lats[i] - meanLat) / stdLat
		}

		if stdLng > 0 {
			points[i].X = (lngs[i] - meanLng) / stdLng
		}
	}

	return points
}
