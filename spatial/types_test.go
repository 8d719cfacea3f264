// Copyright 2026 The Flotilla Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineDistance(t *testing.T) {
	montevideo := Point{Lat: -34.9011, Lng: -56.1645}
	salto := Point{Lat: -31.3833, Lng: -57.9667}

	// About 426 km between the two cities.
	d := montevideo.HaversineDistance(&salto)
	assert.InDelta(t, 426e3, d, 5e3)

	// Distance to self is zero, and the metric is symmetric.
	assert.Zero(t, montevideo.HaversineDistance(&montevideo))
	assert.InDelta(t, d, salto.HaversineDistance(&montevideo), 1e-9)
}

func TestPointScan(t *testing.T) {
	var p Point

	require.NoError(t, p.Scan([]byte("POINT (-56.164500 -34.901100)")))
	assert.InDelta(t, -34.9011, p.Lat, 1e-6)
	assert.InDelta(t, -56.1645, p.Lng, 1e-6)

	require.NoError(t, p.Scan(map[string]interface{}{"x": -57.9667, "y": -31.3833}))
	assert.InDelta(t, -31.3833, p.Lat, 1e-6)

	require.NoError(t, p.Scan(nil))
	assert.Zero(t, p.Lat)
	assert.Zero(t, p.Lng)

	assert.Error(t, p.Scan(42))
}

func TestCentroid(t *testing.T) {
	points := []Point{
		{Lat: -34, Lng: -56},
		{Lat: -32, Lng: -58},
		{Lat: -30, Lng: -54},
	}

	c := Centroid(points)
	assert.InDelta(t, -32, c.Lat, 1e-9)
	assert.InDelta(t, -56, c.Lng, 1e-9)

	assert.Equal(t, Point{}, Centroid(nil))
}
