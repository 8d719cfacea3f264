// Copyright 2026 The Flotilla Authors
// SPDX-License-Identifier: Apache-2.0

// Package cluster assigns 2-D points to size-bounded groups by iterative
// agglomerative clustering.
package cluster

import (
	"fmt"
	"math"
)

// Point is a 2-D coordinate in whatever space the caller works in. The
// builder applies no normalization; callers that want scale-free grouping
// normalize before building.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Merge records one agglomerative step: the two clusters joined and the
// complete-linkage distance at which they joined. Cluster ids 0..n-1 are
// the input points; id n+i is the cluster produced by the i-th merge.
type Merge struct {
	Left   int
	Right  int
	Height float64
}

// Dendrogram is the full binary merge tree over a point set: n-1 merges
// for n points, in nondecreasing height order. Built once per point set
// and never mutated.
type Dendrogram struct {
	n      int
	merges []Merge
}

// Len returns the number of leaves (input points).
func (d *Dendrogram) Len() int { return d.n }

// Merges returns the recorded merge steps, earliest first.
func (d *Dendrogram) Merges() []Merge { return d.merges }

// Build computes pairwise Euclidean distances and agglomerates under
// complete linkage: the distance between two clusters is the largest
// pairwise distance across them, which keeps clusters compact and their
// diameter bounded. That is what we want for bus loads: nobody in a load
// should live far from everyone else in it.
//
// Ties between equally close pairs go to the pair found first scanning
// clusters in creation order, so repeated runs over the same input yield
// the same tree.
func Build(points []Point) (*Dendrogram, error) {
	n := len(points)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	d := &Dendrogram{n: n, merges: make([]Merge, 0, n-1)}
	if n == 1 {
		return d, nil
	}

	// Active clusters, in creation order. Slot i holds cluster ids[i];
	// dist[i][j] is the complete-linkage distance between slots i and j.
	ids := make([]int, n)
	dist := make([][]float64, n)

	for i := range points {
		ids[i] = i
		dist[i] = make([]float64, n)

		for j := range points {
			dist[i][j] = math.Hypot(points[i].X-points[j].X, points[i].Y-points[j].Y)
		}
	}

	for step := 0; step < n-1; step++ {
		bi, bj := 0, 1
		best := math.Inf(1)

		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				if dist[i][j] < best {
					best = dist[i][j]
					bi, bj = i, j
				}
			}
		}

		left, right := ids[bi], ids[bj]
		if left > right {
			left, right = right, left
		}

		d.merges = append(d.merges, Merge{Left: left, Right: right, Height: best})

		// Lance-Williams update for complete linkage: the merged cluster
		// is as far from any other as its farthest constituent.
		for t := range ids {
			if t == bi || t == bj {
				continue
			}

			nd := math.Max(dist[t][bi], dist[t][bj])
			dist[t][bi], dist[bi][t] = nd, nd
		}

		ids[bi] = n + step

		// Drop slot bj, preserving creation order for the tie-break.
		ids = append(ids[:bj], ids[bj+1:]...)
		dist = append(dist[:bj], dist[bj+1:]...)

		for t := range dist {
			dist[t] = append(dist[t][:bj], dist[t][bj+1:]...)
		}
	}

	return d, nil
}

// Cut partitions the leaves into exactly k groups by applying the first
// n-k merges. Groups are ordered (and labeled by position) by their
// smallest original point index, ascending. Each element of a group is an
// index into the point sequence Build was called with.
func (d *Dendrogram) Cut(k int) ([][]int, error) {
	if k < 1 || k > d.n {
		return nil, fmt.Errorf("%w: k=%d with %d points", ErrInvalidCut, k, d.n)
	}

	// parent maps a cluster id to the merge that absorbed it; roots are
	// the k surviving clusters.
	parent := make([]int, d.n+d.n-k)
	for i := range parent {
		parent[i] = i
	}

	for i, m := range d.merges[:d.n-k] {
		parent[m.Left] = d.n + i
		parent[m.Right] = d.n + i
	}

	root := func(x int) int {
		for parent[x] != x {
			x = parent[x]
		}

		return x
	}

	groups := make([][]int, 0, k)
	groupOf := make(map[int]int, k)

	for leaf := 0; leaf < d.n; leaf++ {
		r := root(leaf)

		g, ok := groupOf[r]
		if !ok {
			g = len(groups)
			groupOf[r] = g

			groups = append(groups, nil)
		}

		groups[g] = append(groups[g], leaf)
	}

	return groups, nil
}
