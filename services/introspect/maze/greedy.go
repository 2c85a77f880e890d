// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package maze

import (
	"context"
	"fmt"
)

// =============================================================================
// Greedy Model-Scored Policies
// =============================================================================

// Greedy solving constants.
const (
	// DefaultMaxSteps bounds a greedy walk.
	DefaultMaxSteps = 100

	// DefaultScoreWeight scales the model score against the Manhattan
	// distance term. Kept small so geometry dominates and the model score
	// acts as a refinement.
	DefaultScoreWeight = 0.1
)

// CellScorer yields one scalar per grid cell for a flattened board state.
// The score vector is indexed row-major and must cover every cell.
type CellScorer interface {
	ScoreCells(ctx context.Context, boardTokens []int) ([]float64, error)
}

// DirectionScorer yields one scalar per fixed direction (up, down, left,
// right, in that order) for a flattened board state.
type DirectionScorer interface {
	ScoreDirections(ctx context.Context, boardTokens []int) ([]float64, error)
}

// GreedyOptions configures the scored walk.
type GreedyOptions struct {
	// MaxSteps is the step budget. Default: 100
	MaxSteps int

	// ScoreWeight scales the model score term. Default: 0.1
	ScoreWeight float64
}

// Validate checks options and applies defaults for invalid values.
func (o *GreedyOptions) Validate() {
	if o.MaxSteps <= 0 {
		o.MaxSteps = DefaultMaxSteps
	}
	if o.ScoreWeight <= 0 {
		o.ScoreWeight = DefaultScoreWeight
	}
}

// DefaultGreedyOptions returns sensible defaults.
func DefaultGreedyOptions() *GreedyOptions {
	return &GreedyOptions{
		MaxSteps:    DefaultMaxSteps,
		ScoreWeight: DefaultScoreWeight,
	}
}

// solverState tracks one greedy attempt. Created at solve start, mutated
// by the stepping loop, discarded at solve end.
type solverState struct {
	current Position
	visited map[Position]bool
	path    []Position
	steps   int
}

func newSolverState(start Position) *solverState {
	return &solverState{
		current: start,
		visited: map[Position]bool{start: true},
		path:    []Position{start},
	}
}

func (s *solverState) step(to Position) {
	s.current = to
	s.visited[to] = true
	s.path = append(s.path, to)
	s.steps++
}

// SolveGreedy walks the board under the cell-scored policy.
//
// Description:
//
//	At each step the unvisited, in-bounds, non-wall neighbors of the
//	current cell are enumerated. For each candidate a model-input board is
//	built with the candidate marked as the current position, the scorer is
//	invoked once per candidate, and candidates are ranked by
//
//	    -manhattan(candidate, end) + ScoreWeight * score(candidate)
//
//	descending. The walk steps to the best candidate (ties keep the fixed
//	up/down/left/right enumeration order), succeeds when the current cell
//	equals the end, and fails on a dead end with no legal neighbor or when
//	MaxSteps runs out. Failure is a normal outcome, not an error. Visited cells
//	are never revisited within an attempt, so the walk cannot backtrack
//	out of a dead end.
//
// Inputs:
//
//	ctx - Context passed through to the scorer.
//	b - The board to solve.
//	scorer - Model collaborator scoring call. Must not be nil.
//	opts - Walk options. Nil uses defaults.
//
// Outputs:
//
//	*Result - Found/Path/Steps. Steps equals MaxSteps on budget exhaustion.
//	error - ErrNilScorer, ErrScoreLength, or a scorer failure.
//
// Complexity: O(MaxSteps) scoring calls, at most four per step.
func SolveGreedy(ctx context.Context, b *Board, scorer CellScorer, opts *GreedyOptions) (*Result, error) {
	if scorer == nil {
		return nil, ErrNilScorer
	}
	if opts == nil {
		opts = DefaultGreedyOptions()
	} else {
		opts.Validate()
	}

	cells := b.rows * b.cols
	state := newSolverState(b.start)

	for state.steps < opts.MaxSteps {
		if state.current == b.end {
			return &Result{Found: true, Path: state.path, Steps: state.steps}, nil
		}

		best := Position{Row: -1, Col: -1}
		bestRank := 0.0
		found := false
		for _, d := range directions {
			candidate := Position{Row: state.current.Row + d.Row, Col: state.current.Col + d.Col}
			if !b.isLegal(candidate, state.visited) {
				continue
			}

			scores, err := scorer.ScoreCells(ctx, b.ModelInput(candidate))
			if err != nil {
				return nil, fmt.Errorf("score cells: %w", err)
			}
			if len(scores) != cells {
				return nil, fmt.Errorf("got %d cell scores, want %d: %w", len(scores), cells, ErrScoreLength)
			}

			rank := -float64(manhattan(candidate, b.end)) + opts.ScoreWeight*scores[b.cellIndex(candidate)]
			if !found || rank > bestRank {
				best = candidate
				bestRank = rank
				found = true
			}
		}

		if !found {
			// Dead end: no legal unvisited neighbor, no backtracking.
			return &Result{Found: false, Steps: state.steps}, nil
		}
		state.step(best)
	}

	if state.current == b.end {
		return &Result{Found: true, Path: state.path, Steps: state.steps}, nil
	}
	return &Result{Found: false, Steps: state.steps}, nil
}

// SolveGreedyDirections walks the board under the direction-scored policy.
//
// Description:
//
//	Identical stepping loop to SolveGreedy, but the scorer is invoked once
//	per step, with the actual current position marked, and yields one
//	scalar per fixed direction. Directions are tried in descending score
//	order (ties keep up/down/left/right order) and the first one landing
//	on a legal unvisited cell is taken. Termination and failure semantics
//	match the cell-scored policy exactly.
//
// Outputs:
//
//	*Result - Found/Path/Steps.
//	error - ErrNilScorer, ErrScoreLength, or a scorer failure.
func SolveGreedyDirections(ctx context.Context, b *Board, scorer DirectionScorer, opts *GreedyOptions) (*Result, error) {
	if scorer == nil {
		return nil, ErrNilScorer
	}
	if opts == nil {
		opts = DefaultGreedyOptions()
	} else {
		opts.Validate()
	}

	state := newSolverState(b.start)

	for state.steps < opts.MaxSteps {
		if state.current == b.end {
			return &Result{Found: true, Path: state.path, Steps: state.steps}, nil
		}

		scores, err := scorer.ScoreDirections(ctx, b.ModelInput(state.current))
		if err != nil {
			return nil, fmt.Errorf("score directions: %w", err)
		}
		if len(scores) != len(directions) {
			return nil, fmt.Errorf("got %d direction scores, want %d: %w", len(scores), len(directions), ErrScoreLength)
		}

		// Direction indices in descending score order; equal scores keep
		// the fixed direction order.
		order := []int{0, 1, 2, 3}
		for i := 1; i < len(order); i++ {
			for j := i; j > 0 && scores[order[j]] > scores[order[j-1]]; j-- {
				order[j], order[j-1] = order[j-1], order[j]
			}
		}

		next := Position{Row: -1, Col: -1}
		found := false
		for _, idx := range order {
			candidate := Position{
				Row: state.current.Row + directions[idx].Row,
				Col: state.current.Col + directions[idx].Col,
			}
			if b.isLegal(candidate, state.visited) {
				next = candidate
				found = true
				break
			}
		}

		if !found {
			return &Result{Found: false, Steps: state.steps}, nil
		}
		state.step(next)
	}

	if state.current == b.end {
		return &Result{Found: true, Path: state.path, Steps: state.steps}, nil
	}
	return &Result{Found: false, Steps: state.steps}, nil
}
