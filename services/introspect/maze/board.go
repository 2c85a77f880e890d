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

import "fmt"

// =============================================================================
// Board
// =============================================================================

// Cell codes. These double as the token alphabet the model collaborator
// consumes: a board is flattened row-major into a token sequence.
const (
	CellOpen    = 0
	CellWall    = 1
	CellStart   = 2
	CellEnd     = 3
	CellCurrent = 4 // model-input marker only, never a board cell
)

// Position is a grid coordinate.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// manhattan returns the L1 distance between two positions.
func manhattan(a, b Position) int {
	dr := a.Row - b.Row
	if dr < 0 {
		dr = -dr
	}
	dc := a.Col - b.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// directions is the fixed move order: up, down, left, right. The
// direction-scored policy indexes its score vector with this order.
var directions = [4]Position{
	{Row: -1, Col: 0},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
}

// Board is a validated grid. Immutable after ParseBoard.
type Board struct {
	cells [][]int
	rows  int
	cols  int
	start Position
	end   Position
}

// ParseBoard validates a raw grid and locates its start and end cells.
//
// Description:
//
//	The grid must be non-empty, rectangular, and contain only open, wall,
//	start, and end codes. When the start or end code occurs more than
//	once, the last occurrence in row-major order wins. A board lacking a
//	start or end is invalid input: the error is reported immediately and
//	no search is attempted.
//
// Outputs:
//
//	*Board - The validated board.
//	error - ErrEmptyBoard, ErrNotRectangular, ErrInvalidCell, ErrNoStart,
//	or ErrNoEnd (wrapped with location details).
func ParseBoard(cells [][]int) (*Board, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, ErrEmptyBoard
	}
	rows, cols := len(cells), len(cells[0])

	b := &Board{
		cells: make([][]int, rows),
		rows:  rows,
		cols:  cols,
		start: Position{Row: -1, Col: -1},
		end:   Position{Row: -1, Col: -1},
	}
	for r, row := range cells {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", r, len(row), cols, ErrNotRectangular)
		}
		b.cells[r] = make([]int, cols)
		copy(b.cells[r], row)
		for c, code := range row {
			switch code {
			case CellOpen, CellWall:
			case CellStart:
				b.start = Position{Row: r, Col: c}
			case CellEnd:
				b.end = Position{Row: r, Col: c}
			default:
				return nil, fmt.Errorf("cell (%d,%d) has code %d: %w", r, c, code, ErrInvalidCell)
			}
		}
	}
	if b.start.Row < 0 {
		return nil, ErrNoStart
	}
	if b.end.Row < 0 {
		return nil, ErrNoEnd
	}
	return b, nil
}

// Rows returns the row count.
func (b *Board) Rows() int { return b.rows }

// Cols returns the column count.
func (b *Board) Cols() int { return b.cols }

// Start returns the start position.
func (b *Board) Start() Position { return b.start }

// End returns the end position.
func (b *Board) End() Position { return b.end }

// Cells returns a copy of the grid.
func (b *Board) Cells() [][]int {
	out := make([][]int, b.rows)
	for r := range b.cells {
		out[r] = make([]int, b.cols)
		copy(out[r], b.cells[r])
	}
	return out
}

// InBounds reports whether p lies on the board.
func (b *Board) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < b.rows && p.Col >= 0 && p.Col < b.cols
}

// isLegal reports whether p is a legal move target: in bounds, not a wall,
// and not yet visited in the current attempt.
func (b *Board) isLegal(p Position, visited map[Position]bool) bool {
	return b.InBounds(p) && b.cells[p.Row][p.Col] != CellWall && !visited[p]
}

// ModelInput flattens the board row-major into a token sequence with the
// start, end, and current positions marked with their respective codes.
// The current marker overwrites whatever cell it lands on.
func (b *Board) ModelInput(current Position) []int {
	tokens := make([]int, b.rows*b.cols)
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			tokens[r*b.cols+c] = b.cells[r][c]
		}
	}
	tokens[b.start.Row*b.cols+b.start.Col] = CellStart
	tokens[b.end.Row*b.cols+b.end.Col] = CellEnd
	tokens[current.Row*b.cols+current.Col] = CellCurrent
	return tokens
}

// cellIndex is the flat row-major index of p.
func (b *Board) cellIndex(p Position) int {
	return p.Row*b.cols + p.Col
}
