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

// =============================================================================
// Exact Policy (Breadth-First Search)
// =============================================================================

// Result is the outcome of one solve attempt under any policy.
type Result struct {
	// Found is true when a start-to-end path was established.
	Found bool `json:"found"`

	// Path is the ordered start-to-end coordinate sequence. Nil when not
	// found.
	Path []Position `json:"path,omitempty"`

	// Steps counts moves taken. For BFS this is the path edge count; for
	// greedy policies it counts steps walked before termination, so a
	// caller can distinguish budget exhaustion from an early dead end.
	Steps int `json:"steps"`
}

// frontierEntry pairs a cell with the path that first reached it.
type frontierEntry struct {
	pos  Position
	path []Position
}

// SolveBFS finds a shortest path from start to end by edge count.
//
// Description:
//
//	FIFO frontier seeded with the start cell. Cells are marked visited at
//	enqueue time, so each cell enters the frontier at most once, via a
//	shortest path to it. BFS explores in non-decreasing path length, so
//	the first time the end cell is dequeued its accumulated path is
//	shortest. An exhausted frontier is a normal "no path" outcome.
//
// Thread Safety: Safe for concurrent use (read-only on the board).
//
// Complexity: O(rows * cols).
func SolveBFS(b *Board) *Result {
	visited := map[Position]bool{b.start: true}
	queue := []frontierEntry{{pos: b.start, path: []Position{b.start}}}

	for len(queue) > 0 {
		entry := queue[0]
		queue = queue[1:]

		if entry.pos == b.end {
			return &Result{Found: true, Path: entry.path, Steps: len(entry.path) - 1}
		}

		for _, d := range directions {
			next := Position{Row: entry.pos.Row + d.Row, Col: entry.pos.Col + d.Col}
			if !b.isLegal(next, visited) {
				continue
			}
			visited[next] = true
			path := make([]Position, len(entry.path), len(entry.path)+1)
			copy(path, entry.path)
			queue = append(queue, frontierEntry{pos: next, path: append(path, next)})
		}
	}

	return &Result{Found: false}
}
