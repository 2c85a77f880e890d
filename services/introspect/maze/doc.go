// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package maze solves coded grid boards with three interchangeable policies.
//
// Boards use small integer cell codes (open, wall, start, end, plus a
// current-position marker used only when building model input). All
// policies share the same move legality: a candidate cell must be in
// bounds, not a wall, and not previously visited within the attempt.
//
// The exact policy is breadth-first search and guarantees a shortest path
// by edge count. The two greedy policies walk step by step under a model
// score and are explicitly allowed to fail: they never backtrack, so a
// visited cell stays excluded for the whole attempt even when revisiting
// it would unlock a solution. That is a known heuristic limitation of the
// scored walk, not a defect.
//
// An unreachable end, a dead end, and an exhausted step budget are all
// normal "no path" outcomes; only a malformed board is an error.
package maze
