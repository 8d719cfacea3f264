// Copyright 2026 The Flotilla Authors
// SPDX-License-Identifier: Apache-2.0

// Package planner turns a stored visitor roster into committed bus loads.
package planner

import (
	"fmt"
	"log"

	"github.com/jcodagnone/flotilla/cluster"
	"github.com/jcodagnone/flotilla/roster"
)

// Planner runs the size-constrained grouping over the stored roster and
// persists the outcome.
type Planner struct {
	repo roster.Repository
}

// New creates a Planner over the given repository.
func New(repo roster.Repository) *Planner {
	return &Planner{repo: repo}
}

// Plan assigns every stored visitor to a bus load of at most maxSize
// seats, preferring loads of at least minSize, and replaces the stored
// assignments with the result. It returns the per-load summaries.
//
// Infeasible parameters surface as cluster.ErrNoProgress; the caller
// retries with a lower minimum, the planner never relaxes on its own.
func (p *Planner) Plan(maxSize, minSize int) ([]*roster.LoadSummary, error) {
	visitors, err := p.repo.ListVisitors()
	if err != nil {
		return nil, fmt.Errorf("listing visitors: %w", err)
	}

	if len(visitors) == 0 {
		return nil, nil
	}

	log.Printf("Planning loads for %d visitors (max %d, min %d)", len(visitors), maxSize, minSize)

	loads, err := cluster.Assign(normalizePoints(visitors), maxSize, minSize)
	if err != nil {
		return nil, err
	}

	assignments := make([]roster.Assignment, 0, len(visitors))

	for _, l := range loads {
		for _, m := range l.Members {
			assignments = append(assignments, roster.Assignment{
				VisitorID: visitors[m].ID,
				Loop:      l.Loop,
				Label:     l.Label,
			})
		}
	}

	if err := p.repo.SaveAssignments(assignments); err != nil {
		return nil, fmt.Errorf("saving assignments: %w", err)
	}

	log.Printf("Committed %d loads", len(loads))

	return p.repo.LoadSummaries()
}
