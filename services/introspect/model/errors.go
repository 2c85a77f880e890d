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

import "errors"

// Sentinel errors for model operations.
var (
	// ErrEmptyInput is returned when Forward is called with no tokens.
	ErrEmptyInput = errors.New("empty token sequence")

	// ErrTokenRange is returned when a token id falls outside the
	// configured vocabulary.
	ErrTokenRange = errors.New("token id outside vocabulary")

	// ErrInvalidConfig is returned when a model configuration fails
	// validation.
	ErrInvalidConfig = errors.New("invalid model configuration")
)
