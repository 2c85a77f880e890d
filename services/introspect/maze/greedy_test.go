// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package maze

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cellScorerFunc adapts a closure to the CellScorer interface.
type cellScorerFunc func(ctx context.Context, tokens []int) ([]float64, error)

func (f cellScorerFunc) ScoreCells(ctx context.Context, tokens []int) ([]float64, error) {
	return f(ctx, tokens)
}

// directionScorerFunc adapts a closure to the DirectionScorer interface.
type directionScorerFunc func(ctx context.Context, tokens []int) ([]float64, error)

func (f directionScorerFunc) ScoreDirections(ctx context.Context, tokens []int) ([]float64, error) {
	return f(ctx, tokens)
}

// zeroCellScorer returns all-zero scores sized for the board.
func zeroCellScorer(b *Board) cellScorerFunc {
	return func(ctx context.Context, tokens []int) ([]float64, error) {
		return make([]float64, b.Rows()*b.Cols()), nil
	}
}

// TestSolveGreedy_Corridor verifies the geometric term alone walks a
// corridor, with exactly one scoring call per candidate.
func TestSolveGreedy_Corridor(t *testing.T) {
	b := mustParse(t, [][]int{{2, 0, 0, 3}})

	calls := 0
	scorer := cellScorerFunc(func(ctx context.Context, tokens []int) ([]float64, error) {
		calls++
		return make([]float64, 4), nil
	})

	res, err := SolveGreedy(context.Background(), b, scorer, nil)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, 3, res.Steps)
	assert.Equal(t, []Position{{0, 0}, {0, 1}, {0, 2}, {0, 3}}, res.Path)
	assert.Equal(t, 3, calls, "one candidate per step in a corridor")
}

// TestSolveGreedy_CandidateMarkedCurrent verifies the scorer sees the
// candidate cell carrying the current marker.
func TestSolveGreedy_CandidateMarkedCurrent(t *testing.T) {
	b := mustParse(t, [][]int{{2, 0, 3}})

	var captured []int
	scorer := cellScorerFunc(func(ctx context.Context, tokens []int) ([]float64, error) {
		if captured == nil {
			captured = append([]int{}, tokens...)
		}
		return make([]float64, 3), nil
	})

	_, err := SolveGreedy(context.Background(), b, scorer, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{CellStart, CellCurrent, CellEnd}, captured)
}

// TestSolveGreedy_ScoreSteersTies verifies the model score breaks a
// Manhattan tie.
func TestSolveGreedy_ScoreSteersTies(t *testing.T) {
	// Up (0,0) and down (2,0) are equidistant from the end; the wall at
	// (1,1) blocks the direct move.
	b := mustParse(t, [][]int{
		{0, 0, 0},
		{2, 1, 3},
		{0, 0, 0},
	})

	scores := make([]float64, 9)
	scores[6] = 10 // cell (2,0)
	scorer := cellScorerFunc(func(ctx context.Context, tokens []int) ([]float64, error) {
		return scores, nil
	})

	res, err := SolveGreedy(context.Background(), b, scorer, &GreedyOptions{ScoreWeight: 1.0})
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, Position{Row: 2, Col: 0}, res.Path[1], "score should pull the walk down")
}

// TestSolveGreedy_TieKeepsDirectionOrder verifies equal ranks keep the
// fixed up/down/left/right order.
func TestSolveGreedy_TieKeepsDirectionOrder(t *testing.T) {
	b := mustParse(t, [][]int{
		{0, 0, 0},
		{2, 1, 3},
		{0, 0, 0},
	})

	res, err := SolveGreedy(context.Background(), b, zeroCellScorer(b), nil)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, Position{Row: 0, Col: 0}, res.Path[1], "up is enumerated before down")
}

// TestSolveGreedy_DeadEndImmediate verifies a walled-in start fails without
// any scoring call.
func TestSolveGreedy_DeadEndImmediate(t *testing.T) {
	b := mustParse(t, [][]int{
		{1, 3},
		{2, 1},
	})

	calls := 0
	scorer := cellScorerFunc(func(ctx context.Context, tokens []int) ([]float64, error) {
		calls++
		return make([]float64, 4), nil
	})

	res, err := SolveGreedy(context.Background(), b, scorer, nil)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, 0, res.Steps)
	assert.Equal(t, 0, calls)
}

// TestSolveGreedy_BudgetExhaustion verifies Steps reports the consumed
// budget on failure.
func TestSolveGreedy_BudgetExhaustion(t *testing.T) {
	b := mustParse(t, [][]int{{2, 0, 0, 3}})

	res, err := SolveGreedy(context.Background(), b, zeroCellScorer(b), &GreedyOptions{MaxSteps: 2})
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, 2, res.Steps)
}

// TestSolveGreedy_ScoreLength verifies a short score vector is an error.
func TestSolveGreedy_ScoreLength(t *testing.T) {
	b := mustParse(t, [][]int{{2, 0, 3}})

	scorer := cellScorerFunc(func(ctx context.Context, tokens []int) ([]float64, error) {
		return []float64{1}, nil
	})

	_, err := SolveGreedy(context.Background(), b, scorer, nil)
	require.ErrorIs(t, err, ErrScoreLength)
}

// TestSolveGreedy_ScorerErrorPropagates verifies scorer failures surface.
func TestSolveGreedy_ScorerErrorPropagates(t *testing.T) {
	b := mustParse(t, [][]int{{2, 0, 3}})
	boom := errors.New("model offline")

	scorer := cellScorerFunc(func(ctx context.Context, tokens []int) ([]float64, error) {
		return nil, boom
	})

	_, err := SolveGreedy(context.Background(), b, scorer, nil)
	require.ErrorIs(t, err, boom)
}

// TestSolveGreedy_NilScorer verifies the nil guard.
func TestSolveGreedy_NilScorer(t *testing.T) {
	b := mustParse(t, [][]int{{2, 3}})

	_, err := SolveGreedy(context.Background(), b, nil, nil)
	require.ErrorIs(t, err, ErrNilScorer)
}

// TestSolveGreedy_NeverLongerThanBFS sanity-checks the heuristic against
// the exact baseline on a solvable board.
func TestSolveGreedy_NeverShorterThanBFS(t *testing.T) {
	b := mustParse(t, [][]int{
		{2, 0, 0},
		{0, 1, 0},
		{0, 0, 3},
	})

	bfs := SolveBFS(b)
	require.True(t, bfs.Found)

	greedy, err := SolveGreedy(context.Background(), b, zeroCellScorer(b), nil)
	require.NoError(t, err)
	if greedy.Found {
		assert.GreaterOrEqual(t, greedy.Steps, bfs.Steps)
	}
}

// TestSolveGreedyDirections_OneCallPerStep verifies the per-step scoring
// contract with the current cell marked.
func TestSolveGreedyDirections_OneCallPerStep(t *testing.T) {
	b := mustParse(t, [][]int{{2, 0, 0, 3}})

	calls := 0
	var first []int
	scorer := directionScorerFunc(func(ctx context.Context, tokens []int) ([]float64, error) {
		calls++
		if first == nil {
			first = append([]int{}, tokens...)
		}
		return []float64{0, 0, 0, 1}, nil // right
	})

	res, err := SolveGreedyDirections(context.Background(), b, scorer, nil)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, 3, res.Steps)
	assert.Equal(t, 3, calls, "one scoring call per step")
	assert.Equal(t, []int{CellCurrent, CellOpen, CellOpen, CellEnd}, first)
}

// TestSolveGreedyDirections_TieKeepsOrder verifies equal scores fall back
// to the fixed direction order.
func TestSolveGreedyDirections_TieKeepsOrder(t *testing.T) {
	b := mustParse(t, [][]int{
		{0, 0},
		{2, 3},
	})

	scorer := directionScorerFunc(func(ctx context.Context, tokens []int) ([]float64, error) {
		return []float64{0, 0, 0, 0}, nil
	})

	res, err := SolveGreedyDirections(context.Background(), b, scorer, nil)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, []Position{{1, 0}, {0, 0}, {0, 1}, {1, 1}}, res.Path,
		"zero scores walk up first, then around")
}

// TestSolveGreedyDirections_HighScoreWins verifies the best-scored legal
// direction is taken.
func TestSolveGreedyDirections_HighScoreWins(t *testing.T) {
	b := mustParse(t, [][]int{
		{0, 0},
		{2, 3},
	})

	scorer := directionScorerFunc(func(ctx context.Context, tokens []int) ([]float64, error) {
		return []float64{0, 0, 0, 5}, nil
	})

	res, err := SolveGreedyDirections(context.Background(), b, scorer, nil)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, 1, res.Steps)
}

// TestSolveGreedyDirections_ScoreLength verifies the four-score contract.
func TestSolveGreedyDirections_ScoreLength(t *testing.T) {
	b := mustParse(t, [][]int{{2, 3}})

	scorer := directionScorerFunc(func(ctx context.Context, tokens []int) ([]float64, error) {
		return []float64{1, 2, 3}, nil
	})

	_, err := SolveGreedyDirections(context.Background(), b, scorer, nil)
	require.ErrorIs(t, err, ErrScoreLength)
}

// TestGreedyOptions_Defaults verifies option normalization.
func TestGreedyOptions_Defaults(t *testing.T) {
	opts := &GreedyOptions{MaxSteps: -5, ScoreWeight: 0}
	opts.Validate()
	assert.Equal(t, DefaultMaxSteps, opts.MaxSteps)
	assert.Equal(t, DefaultScoreWeight, opts.ScoreWeight)
}
