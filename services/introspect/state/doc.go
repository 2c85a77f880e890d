// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package state extracts graph structures and summary statistics from the
// internal state of a sequence model.
//
// The package operates on snapshots handed over by the model collaborator:
// a learned NxN connectivity matrix, per-layer activation matrices, and
// per-layer attention tensors. Every function here is a pure read of its
// inputs; nothing is cached and nothing is mutated.
//
// # Ownership Model
//
// Inputs are borrowed for the duration of a single call. Outputs that echo
// input data (the sparsity heatmap, averaged attention matrices) are deep
// copies, so callers may mutate results freely.
//
// # Error Contract
//
// Degenerate-but-well-typed inputs (zero nodes, zero layers, zero edges)
// yield zero-valued results and a nil error. Only malformed inputs (ragged
// or mismatched shapes) surface as errors.
//
// # Thread Safety
//
// All functions are safe for concurrent use; they share no state.
package state
