// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPercentile_LinearInterpolation verifies the fractional-rank formula.
func TestPercentile_LinearInterpolation(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	// Rank 0.9 * 9 = 8.1 interpolates between the 9th and 10th values.
	assert.InDelta(t, 9.1, percentile(values, 90), 1e-12)
	assert.InDelta(t, 5.5, percentile(values, 50), 1e-12)
	assert.Equal(t, 1.0, percentile(values, 0))
	assert.Equal(t, 10.0, percentile(values, 100))
}

// TestPercentile_DoesNotMutateInput verifies the input survives sorting.
func TestPercentile_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	percentile(values, 50)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

// TestStddev_Population verifies the population (not sample) convention.
func TestStddev_Population(t *testing.T) {
	assert.InDelta(t, 2.0, stddev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	assert.Equal(t, 0.0, stddev([]float64{5}))
	assert.Equal(t, 0.0, stddev(nil))
}

// TestMeanMinMax covers the degenerate empty-input behavior.
func TestMeanMinMax(t *testing.T) {
	assert.Equal(t, 0.0, mean(nil))

	lo, hi := minMax([]float64{-2, 7, 0})
	assert.Equal(t, -2.0, lo)
	assert.Equal(t, 7.0, hi)
}
