// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package state

import "errors"

// Sentinel errors for extraction operations.
var (
	// ErrNotSquare is returned when a connectivity matrix has rows whose
	// length differs from the row count.
	ErrNotSquare = errors.New("connectivity matrix is not square")

	// ErrShapeMismatch is returned when tensor layers are ragged or do not
	// agree on sequence length / neuron count.
	ErrShapeMismatch = errors.New("tensor shape mismatch")

	// ErrTokenLength is returned when the token sequence length does not
	// match the sequence dimension of the activation tensors.
	ErrTokenLength = errors.New("token sequence length does not match activations")
)
