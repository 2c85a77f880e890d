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

import "errors"

// Sentinel errors for board validation and scored solving.
var (
	// ErrEmptyBoard is returned for a board with no rows or no columns.
	ErrEmptyBoard = errors.New("board is empty")

	// ErrNotRectangular is returned when board rows differ in length.
	ErrNotRectangular = errors.New("board is not rectangular")

	// ErrInvalidCell is returned for a cell code outside the board alphabet.
	// The current-position marker is reserved for model input and is not a
	// valid board cell.
	ErrInvalidCell = errors.New("invalid cell code")

	// ErrNoStart is returned when the board has no start cell.
	ErrNoStart = errors.New("board has no start cell")

	// ErrNoEnd is returned when the board has no end cell.
	ErrNoEnd = errors.New("board has no end cell")

	// ErrNilScorer is returned when a greedy solve is attempted without a
	// scoring function.
	ErrNilScorer = errors.New("scorer is nil")

	// ErrScoreLength is returned when the scorer yields a score vector of
	// unexpected length.
	ErrScoreLength = errors.New("unexpected score vector length")
)
