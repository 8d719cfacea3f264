// Copyright 2026 The Flotilla Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// grid returns n points packed in a tiny grid around (cx, cy). The grid
// diameter stays under 1, so blobs placed tens of units apart merge
// internally before any cross-blob merge happens.
func grid(cx, cy float64, n int) []Point {
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{
			X: cx + float64(i%8)*0.01,
			Y: cy + float64(i/8)*0.01,
		}
	}

	return pts
}

func TestBuildEmptyInput(t *testing.T) {
	_, err := Build(nil)
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("Build(nil) error = %v, want ErrEmptyInput", err)
	}
}

func TestBuildSinglePoint(t *testing.T) {
	d, err := Build([]Point{{X: 1, Y: 2}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}

	if len(d.Merges()) != 0 {
		t.Errorf("Merges() has %d entries, want 0", len(d.Merges()))
	}

	partition, err := d.Cut(1)
	if err != nil {
		t.Fatalf("Cut(1): %v", err)
	}

	if diff := cmp.Diff([][]int{{0}}, partition); diff != "" {
		t.Errorf("Cut(1) mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildMergeCount(t *testing.T) {
	pts := append(grid(0, 0, 5), grid(30, 0, 4)...)

	d, err := Build(pts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got, want := len(d.Merges()), len(pts)-1; got != want {
		t.Errorf("Merges() has %d entries, want %d", got, want)
	}

	// Complete linkage is monotonic: heights never decrease.
	merges := d.Merges()
	for i := 1; i < len(merges); i++ {
		if merges[i].Height < merges[i-1].Height {
			t.Errorf("merge %d height %f < previous %f", i, merges[i].Height, merges[i-1].Height)
		}
	}
}

func TestCutTwoTriples(t *testing.T) {
	// Two tight triples 10 units apart.
	pts := []Point{
		{0, 0}, {1, 0}, {0, 1},
		{10, 0}, {11, 0}, {10, 1},
	}

	d, err := Build(pts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tests := []struct {
		k    int
		want [][]int
	}{
		{k: 1, want: [][]int{{0, 1, 2, 3, 4, 5}}},
		{k: 2, want: [][]int{{0, 1, 2}, {3, 4, 5}}},
		{k: 6, want: [][]int{{0}, {1}, {2}, {3}, {4}, {5}}},
	}

	for _, tt := range tests {
		partition, err := d.Cut(tt.k)
		if err != nil {
			t.Fatalf("Cut(%d): %v", tt.k, err)
		}

		if diff := cmp.Diff(tt.want, partition); diff != "" {
			t.Errorf("Cut(%d) mismatch (-want +got):\n%s", tt.k, diff)
		}
	}
}

func TestCutOutOfRange(t *testing.T) {
	d, err := Build(grid(0, 0, 4))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, k := range []int{0, -1, 5} {
		if _, err := d.Cut(k); !errors.Is(err, ErrInvalidCut) {
			t.Errorf("Cut(%d) error = %v, want ErrInvalidCut", k, err)
		}
	}
}

func TestCutGroupsOrderedBySmallestMember(t *testing.T) {
	// The far point is listed first, so the group holding index 0 must
	// still come first even though it is the smaller subtree.
	pts := append([]Point{{100, 100}}, grid(0, 0, 4)...)

	d, err := Build(pts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	partition, err := d.Cut(2)
	if err != nil {
		t.Fatalf("Cut(2): %v", err)
	}

	want := [][]int{{0}, {1, 2, 3, 4}}
	if diff := cmp.Diff(want, partition); diff != "" {
		t.Errorf("Cut(2) mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDeterministic(t *testing.T) {
	pts := append(grid(0, 0, 7), grid(25, 5, 6)...)

	a, err := Build(pts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	b, err := Build(pts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if diff := cmp.Diff(a.Merges(), b.Merges()); diff != "" {
		t.Errorf("repeated Build differs (-first +second):\n%s", diff)
	}
}
