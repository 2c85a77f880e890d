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
	"github.com/stretchr/testify/require"
)

// uniformStream builds layers x seq x neurons activations filled with value.
func uniformStream(layers, seq, neurons int, value float64) [][][]float64 {
	stream := make([][][]float64, layers)
	for l := range stream {
		stream[l] = make([][]float64, seq)
		for t := range stream[l] {
			stream[l][t] = make([]float64, neurons)
			for n := range stream[l][t] {
				stream[l][t][n] = value
			}
		}
	}
	return stream
}

// TestExtractSparsity_AllZero verifies a fully silent stream scores zero.
func TestExtractSparsity_AllZero(t *testing.T) {
	profile, err := ExtractSparsity(uniformStream(2, 3, 4, 0), nil)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0}, profile.Primary.PerLayer)
	assert.Equal(t, 0.0, profile.Primary.Mean)
	assert.Equal(t, 0.0, profile.Primary.Std)
	assert.Equal(t, []float64{0, 0, 0}, profile.PerPosition)
	assert.Nil(t, profile.Secondary)
}

// TestExtractSparsity_AllNonzero verifies a dense stream scores one.
func TestExtractSparsity_AllNonzero(t *testing.T) {
	profile, err := ExtractSparsity(uniformStream(2, 3, 4, 0.7), nil)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 1}, profile.Primary.PerLayer)
	assert.Equal(t, 1.0, profile.Primary.Mean)
	assert.Equal(t, 1.0, profile.Primary.Min)
	assert.Equal(t, 1.0, profile.Primary.Max)
	assert.Equal(t, []float64{1, 1, 1}, profile.PerPosition)
}

// TestExtractSparsity_KnownFractions verifies exact nonzero counting, not a
// magnitude threshold.
func TestExtractSparsity_KnownFractions(t *testing.T) {
	primary := [][][]float64{
		{ // layer 0: 2 of 4 nonzero
			{0.001, 0},
			{0, -0.5},
		},
		{ // layer 1: 1 of 4 nonzero
			{0, 0},
			{3, 0},
		},
	}

	profile, err := ExtractSparsity(primary, nil)
	require.NoError(t, err)

	assert.Equal(t, []float64{0.5, 0.25}, profile.Primary.PerLayer,
		"tiny magnitudes still count as nonzero")
	assert.InDelta(t, 0.375, profile.Primary.Mean, 1e-12)
	assert.InDelta(t, 0.125, profile.Primary.Std, 1e-12, "population std")
	assert.Equal(t, 0.25, profile.Primary.Min)
	assert.Equal(t, 0.5, profile.Primary.Max)

	// Position 0 has 1 nonzero of 4 (layers x neurons); position 1 has 2.
	assert.Equal(t, []float64{0.25, 0.5}, profile.PerPosition)

	// Neuron 0 fires twice in four samples, neuron 1 once.
	assert.Equal(t, []float64{0.5, 0.25}, profile.Neurons.ActivationFrequency)
	assert.InDelta(t, (0.001+3)/4, profile.Neurons.AvgActivation[0], 1e-12)
	assert.InDelta(t, -0.5/4, profile.Neurons.AvgActivation[1], 1e-12)
}

// TestExtractSparsity_Heatmap verifies the heatmap is an independent copy.
func TestExtractSparsity_Heatmap(t *testing.T) {
	primary := uniformStream(1, 2, 2, 0.3)
	profile, err := ExtractSparsity(primary, nil)
	require.NoError(t, err)

	require.Equal(t, primary, profile.Heatmap)
	profile.Heatmap[0][0][0] = 99
	assert.Equal(t, 0.3, primary[0][0][0], "mutating the heatmap must not touch the input")
}

// TestExtractSparsity_Secondary verifies the optional secondary stream gets
// its own aggregates.
func TestExtractSparsity_Secondary(t *testing.T) {
	primary := uniformStream(2, 2, 2, 1)
	secondary := uniformStream(2, 2, 2, 0)

	profile, err := ExtractSparsity(primary, secondary)
	require.NoError(t, err)

	require.NotNil(t, profile.Secondary)
	assert.Equal(t, []float64{0, 0}, profile.Secondary.PerLayer)
	assert.Equal(t, 1.0, profile.Primary.Mean, "secondary must not affect primary stats")
}

// TestExtractSparsity_Empty verifies the degenerate contract.
func TestExtractSparsity_Empty(t *testing.T) {
	profile, err := ExtractSparsity(nil, nil)
	require.NoError(t, err)

	assert.Empty(t, profile.Primary.PerLayer)
	assert.Empty(t, profile.PerPosition)
	assert.Empty(t, profile.Heatmap)
}

// TestExtractSparsity_ShapeMismatch verifies ragged streams are rejected.
func TestExtractSparsity_ShapeMismatch(t *testing.T) {
	ragged := [][][]float64{
		{{1, 2}, {3, 4}},
		{{1, 2}},
	}
	_, err := ExtractSparsity(ragged, nil)
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = ExtractSparsity(uniformStream(2, 2, 2, 1), uniformStream(1, 2, 2, 1))
	require.ErrorIs(t, err, ErrShapeMismatch, "secondary layer count must match")
}
