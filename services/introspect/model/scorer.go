// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package model

import (
	"context"
	"fmt"
)

// =============================================================================
// Scoring Adapters
// =============================================================================

// CellScorer adapts a collaborator whose vocabulary is the flattened cell
// space of a board: the last position's logits yield one scalar per cell.
//
// The board alphabet (open/wall/start/end/current codes) fits inside any
// cell-space vocabulary of at least five symbols, so the flattened board
// is fed to the model unchanged.
type CellScorer struct {
	c     Collaborator
	cells int
}

// NewCellScorer wraps a collaborator for per-cell scoring over a board
// with the given cell count. The collaborator's vocabulary must be at
// least that large (tiny boards pad the vocabulary to the cell alphabet).
func NewCellScorer(c Collaborator, cells int) *CellScorer {
	return &CellScorer{c: c, cells: cells}
}

// ScoreCells runs one forward pass and returns the last position's logits,
// one score per grid cell.
func (s *CellScorer) ScoreCells(ctx context.Context, boardTokens []int) ([]float64, error) {
	result, err := s.c.Forward(ctx, boardTokens)
	if err != nil {
		return nil, fmt.Errorf("forward: %w", err)
	}
	if len(result.Logits) == 0 {
		return nil, fmt.Errorf("forward returned no logits: %w", ErrEmptyInput)
	}
	last := result.Logits[len(result.Logits)-1]
	if len(last) < s.cells {
		return nil, fmt.Errorf("vocabulary %d too small for %d cells: %w",
			len(last), s.cells, ErrTokenRange)
	}
	out := make([]float64, s.cells)
	copy(out, last[:s.cells])
	return out, nil
}

// DirectionScorer adapts a collaborator for direction-indexed scoring: the
// first four logits of the last position score the four fixed moves (up,
// down, left, right). The collaborator's vocabulary must cover the board
// alphabet, so it always has at least four logits to read.
type DirectionScorer struct {
	c Collaborator
}

// NewDirectionScorer wraps a collaborator for per-direction scoring.
func NewDirectionScorer(c Collaborator) *DirectionScorer {
	return &DirectionScorer{c: c}
}

// ScoreDirections runs one forward pass and returns one score per
// direction (up, down, left, right).
func (s *DirectionScorer) ScoreDirections(ctx context.Context, boardTokens []int) ([]float64, error) {
	result, err := s.c.Forward(ctx, boardTokens)
	if err != nil {
		return nil, fmt.Errorf("forward: %w", err)
	}
	if len(result.Logits) == 0 {
		return nil, fmt.Errorf("forward returned no logits: %w", ErrEmptyInput)
	}
	last := result.Logits[len(result.Logits)-1]
	if len(last) < 4 {
		return nil, fmt.Errorf("vocabulary %d too small for direction scoring: %w",
			len(last), ErrTokenRange)
	}
	out := make([]float64, 4)
	copy(out, last[:4])
	return out, nil
}
