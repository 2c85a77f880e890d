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

import "context"

// CellAlphabet is the size of the board token alphabet (open, wall, start,
// end, current-position marker). Any collaborator fed flattened boards
// needs a vocabulary at least this large.
const CellAlphabet = 5

// ForwardResult carries everything one forward pass exposes to analytics.
type ForwardResult struct {
	// Logits has one score vector per sequence position over the
	// vocabulary: [seq][vocab].
	Logits [][]float64

	// Activations is the primary per-layer activation stream:
	// [layer][seq][neuron].
	Activations [][][]float64

	// Secondary is the secondary per-layer activation stream, same shape
	// as Activations.
	Secondary [][][]float64

	// Attention is the per-layer attention stream: [layer][batch][seq][seq].
	Attention [][][][]float64
}

// Collaborator is the capability interface the analytics and solver code
// consumes. Implementations must be safe for concurrent use; every call
// returns snapshot data owned by the caller.
type Collaborator interface {
	// ConnectivityMatrix returns a snapshot of the learned NxN causal
	// weight matrix.
	ConnectivityMatrix() [][]float64

	// Forward runs one pass over the token sequence. The call may block
	// on a hardware accelerator; it honors ctx only between layers.
	Forward(ctx context.Context, tokens []int) (*ForwardResult, error)
}
