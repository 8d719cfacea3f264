// Copyright 2026 The Flotilla Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import "errors"

var (
	// ErrEmptyInput is returned when a dendrogram is requested over no points.
	ErrEmptyInput = errors.New("cluster: empty point set")

	// ErrInvalidCut is returned when a cut count is outside [1, n].
	ErrInvalidCut = errors.New("cluster: cut count out of range")

	// ErrInvalidParameter is returned when the size band is malformed.
	ErrInvalidParameter = errors.New("cluster: invalid size parameters")

	// ErrNoProgress is returned when an iteration commits no load while
	// unassigned points still exceed the maximum load size. It signals the
	// (min, max, data) combination is infeasible; callers retry with
	// adjusted parameters, the selector never relaxes them on its own.
	ErrNoProgress = errors.New("cluster: no load committed while points remain")
)
