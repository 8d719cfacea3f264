// Copyright 2026 The Flotilla Authors
// SPDX-License-Identifier: Apache-2.0

package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jcodagnone/flotilla/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRoster(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestReadFile(t *testing.T) {
	path := writeRoster(t, `locality,lat,lng,visitors
Montevideo,-34.9011,-56.1645,3
PAYSANDÚ,-32.3214,-58.0756,2
Salto,-31.3833,-57.9667,0
`)

	records, err := ReadFile(path)
	require.NoError(t, err)

	want := []Record{
		{Locality: "montevideo", Point: spatial.Point{Lat: -34.9011, Lng: -56.1645}, Visitors: 3},
		{Locality: "paysandu", Point: spatial.Point{Lat: -32.3214, Lng: -58.0756}, Visitors: 2},
	}

	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("ReadFile mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "short row", content: "locality,lat,lng,visitors\nMontevideo,-34.9\n"},
		{name: "bad lat", content: "locality,lat,lng,visitors\nMontevideo,south,-56.1,1\n"},
		{name: "bad count", content: "locality,lat,lng,visitors\nMontevideo,-34.9,-56.1,many\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFile(writeRoster(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestExpand(t *testing.T) {
	records := []Record{
		{Locality: "montevideo", Point: spatial.Point{Lat: -34.9, Lng: -56.2}, Visitors: 3},
		{Locality: "salto", Point: spatial.Point{Lat: -31.4, Lng: -57.9}, Visitors: 1},
	}

	visitors := Expand(records)
	require.Len(t, visitors, 4)

	for i := 0; i < 3; i++ {
		assert.Equal(t, "montevideo", visitors[i].Locality)
		assert.Equal(t, records[0].Point, visitors[i].Point)
	}

	assert.Equal(t, "salto", visitors[3].Locality)
}

func TestFilterByDistance(t *testing.T) {
	venue := spatial.Point{Lat: -34.9011, Lng: -56.1645} // Montevideo

	visitors := []*Visitor{
		{Locality: "montevideo", Point: spatial.Point{Lat: -34.9050, Lng: -56.1700}},
		{Locality: "canelones", Point: spatial.Point{Lat: -34.5228, Lng: -56.2778}},
		{Locality: "rivera", Point: spatial.Point{Lat: -30.9053, Lng: -55.5508}},
	}

	kept, excluded := FilterByDistance(visitors, venue, 100e3)

	require.Len(t, kept, 2)
	require.Len(t, excluded, 1)
	assert.Equal(t, "rivera", excluded[0].Locality)
}

func TestSampleDeterministic(t *testing.T) {
	visitors := make([]*Visitor, 100)
	for i := range visitors {
		visitors[i] = &Visitor{ID: i}
	}

	a := Sample(visitors, 0.2, 7)
	b := Sample(visitors, 0.2, 7)

	require.Len(t, a, 20)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("repeated Sample differs (-first +second):\n%s", diff)
	}

	// Kept visitors preserve input order.
	for i := 1; i < len(a); i++ {
		assert.Greater(t, a[i].ID, a[i-1].ID)
	}
}

func TestSampleBounds(t *testing.T) {
	visitors := []*Visitor{{ID: 1}, {ID: 2}}

	assert.Len(t, Sample(visitors, 1.0, 1), 2)
	assert.Len(t, Sample(visitors, 1.5, 1), 2)
	assert.Empty(t, Sample(visitors, 0, 1))
	assert.Len(t, Sample(visitors, 0.5, 1), 1)
}
