// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package maze

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustParse is a test helper for boards known to be valid.
func mustParse(t *testing.T, cells [][]int) *Board {
	t.Helper()
	b, err := ParseBoard(cells)
	require.NoError(t, err)
	return b
}

// TestParseBoard_Valid verifies start/end location and dimensions.
func TestParseBoard_Valid(t *testing.T) {
	b := mustParse(t, [][]int{
		{0, 0, 1, 0},
		{2, 0, 1, 0},
		{0, 0, 0, 3},
		{0, 1, 0, 0},
	})

	assert.Equal(t, 4, b.Rows())
	assert.Equal(t, 4, b.Cols())
	assert.Equal(t, Position{Row: 1, Col: 0}, b.Start())
	assert.Equal(t, Position{Row: 2, Col: 3}, b.End())
}

// TestParseBoard_Errors is the invalid-input table.
func TestParseBoard_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cells   [][]int
		wantErr error
	}{
		{
			name:    "nil board",
			cells:   nil,
			wantErr: ErrEmptyBoard,
		},
		{
			name:    "empty board",
			cells:   [][]int{},
			wantErr: ErrEmptyBoard,
		},
		{
			name:    "empty first row",
			cells:   [][]int{{}},
			wantErr: ErrEmptyBoard,
		},
		{
			name:    "ragged rows",
			cells:   [][]int{{2, 3}, {0}},
			wantErr: ErrNotRectangular,
		},
		{
			name:    "unknown code",
			cells:   [][]int{{2, 9}, {0, 3}},
			wantErr: ErrInvalidCell,
		},
		{
			name:    "current marker is not a board cell",
			cells:   [][]int{{2, 4}, {0, 3}},
			wantErr: ErrInvalidCell,
		},
		{
			name:    "missing start",
			cells:   [][]int{{0, 0}, {0, 3}},
			wantErr: ErrNoStart,
		},
		{
			name:    "missing end",
			cells:   [][]int{{2, 0}, {0, 0}},
			wantErr: ErrNoEnd,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseBoard(tc.cells)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v, want %v", err, tc.wantErr)
		})
	}
}

// TestParseBoard_DuplicateMarkers verifies the last occurrence wins.
func TestParseBoard_DuplicateMarkers(t *testing.T) {
	b := mustParse(t, [][]int{
		{2, 3},
		{2, 3},
	})

	assert.Equal(t, Position{Row: 1, Col: 0}, b.Start())
	assert.Equal(t, Position{Row: 1, Col: 1}, b.End())
}

// TestBoard_CellsIsCopy verifies the accessor cannot mutate the board.
func TestBoard_CellsIsCopy(t *testing.T) {
	b := mustParse(t, [][]int{{2, 3}})

	cells := b.Cells()
	cells[0][0] = CellWall
	assert.Equal(t, CellStart, b.Cells()[0][0])
}

// TestBoard_ModelInput verifies row-major flattening with the current
// marker overwriting its cell.
func TestBoard_ModelInput(t *testing.T) {
	b := mustParse(t, [][]int{
		{2, 0},
		{1, 3},
	})

	tokens := b.ModelInput(Position{Row: 0, Col: 1})
	assert.Equal(t, []int{CellStart, CellCurrent, CellWall, CellEnd}, tokens)

	// The current marker overwrites even the start cell.
	tokens = b.ModelInput(b.Start())
	assert.Equal(t, []int{CellCurrent, CellOpen, CellWall, CellEnd}, tokens)
}

// TestManhattan verifies the L1 metric.
func TestManhattan(t *testing.T) {
	assert.Equal(t, 0, manhattan(Position{1, 1}, Position{1, 1}))
	assert.Equal(t, 5, manhattan(Position{0, 0}, Position{2, 3}))
	assert.Equal(t, 5, manhattan(Position{2, 3}, Position{0, 0}))
}
