// Copyright 2026 The Flotilla Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import "fmt"

// Load is a committed group of points bound for one bus. Members are
// indices into the point sequence given to Assign. Loop records which
// outer iteration produced the load; Label is the load's position among
// the groups of that iteration's cut. Once committed a load is final.
type Load struct {
	Members []int `json:"members"`
	Loop    int   `json:"loop"`
	Label   int   `json:"label"`
}

// Assign partitions points into loads of size at most maxSize, preferring
// loads of at least minSize. Every point ends up in exactly one load. The
// last load may fall below minSize: once the leftover fits a single bus
// it ships as-is rather than being discarded.
//
// Each iteration rebuilds a dendrogram over the still-unassigned points,
// finds the smallest cut count k whose largest group fits maxSize, and
// commits the groups inside the size band. Undersized groups stay in the
// working set so they can merge with other leftovers the next time
// around. The k search is linear from 2 upward: group size is not
// monotonic in k under complete linkage, so the first feasible k in
// increasing order is the one taken.
//
// An iteration that commits nothing while more than maxSize points remain
// cannot make progress and fails with ErrNoProgress.
func Assign(points []Point, maxSize, minSize int) ([]Load, error) {
	if minSize < 1 || maxSize < minSize {
		return nil, fmt.Errorf("%w: min_size=%d, max_size=%d", ErrInvalidParameter, minSize, maxSize)
	}

	working := make([]int, len(points))
	for i := range points {
		working[i] = i
	}

	var loads []Load

	for loop := 0; len(working) > 0; loop++ {
		if len(working) <= maxSize {
			// Whatever is left fits one bus. Below minSize it is still
			// committed: an undersized final load beats stranded visitors.
			loads = append(loads, Load{Members: working, Loop: loop, Label: 0})

			break
		}

		sub := make([]Point, len(working))
		for i, idx := range working {
			sub[i] = points[idx]
		}

		dend, err := Build(sub)
		if err != nil {
			return nil, err
		}

		partition, err := feasibleCut(dend, maxSize)
		if err != nil {
			return nil, err
		}

		committed := 0
		assigned := make([]bool, len(working))

		for label, group := range partition {
			if len(group) < minSize || len(group) > maxSize {
				continue
			}

			members := make([]int, len(group))
			for i, sL := range group {
				members[i] = working[sL]
				assigned[sL] = true
			}

			loads = append(loads, Load{Members: members, Loop: loop, Label: label})
			committed++
		}

		if committed == 0 {
			return nil, fmt.Errorf("%w: %d points unassigned after loop %d", ErrNoProgress, len(working), loop)
		}

		remainder := working[:0:0]

		for i, idx := range working {
			if !assigned[i] {
				remainder = append(remainder, idx)
			}
		}

		working = remainder
	}

	return loads, nil
}

// feasibleCut returns the partition for the smallest k >= 2 whose largest
// group does not exceed maxSize. k = n (every point alone) always
// satisfies the bound, so the search terminates.
func feasibleCut(d *Dendrogram, maxSize int) ([][]int, error) {
	for k := 2; k <= d.Len(); k++ {
		partition, err := d.Cut(k)
		if err != nil {
			return nil, err
		}

		largest := 0
		for _, group := range partition {
			if len(group) > largest {
				largest = len(group)
			}
		}

		if largest <= maxSize {
			return partition, nil
		}
	}

	// Unreachable: the k = n cut has groups of size 1.
	return nil, fmt.Errorf("%w: no feasible cut for %d points", ErrNoProgress, d.Len())
}
