// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig returns a small config that keeps forward passes cheap.
func testConfig() Config {
	return Config{
		Vocab:   5,
		SeqLen:  16,
		Heads:   2,
		Neurons: 32,
		Latent:  8,
		Layers:  3,
		Seed:    42,
	}
}

// TestSynthetic_ForwardShapes verifies every tensor the contract promises.
func TestSynthetic_ForwardShapes(t *testing.T) {
	m, err := NewSynthetic(testConfig())
	require.NoError(t, err)

	tokens := []int{0, 1, 2, 3, 4}
	result, err := m.Forward(context.Background(), tokens)
	require.NoError(t, err)

	require.Len(t, result.Logits, len(tokens))
	assert.Len(t, result.Logits[0], 5)

	require.Len(t, result.Activations, 3)
	require.Len(t, result.Activations[0], len(tokens))
	assert.Len(t, result.Activations[0][0], 32)

	require.Len(t, result.Secondary, 3)
	require.Len(t, result.Attention, 3)
	require.Len(t, result.Attention[0], 1, "single batch element")
	require.Len(t, result.Attention[0][0], len(tokens))
	assert.Len(t, result.Attention[0][0][0], len(tokens))
}

// TestSynthetic_Deterministic verifies same seed and input give identical
// outputs across instances.
func TestSynthetic_Deterministic(t *testing.T) {
	a, err := NewSynthetic(testConfig())
	require.NoError(t, err)
	b, err := NewSynthetic(testConfig())
	require.NoError(t, err)

	tokens := []int{1, 2, 3}
	ra, err := a.Forward(context.Background(), tokens)
	require.NoError(t, err)
	rb, err := b.Forward(context.Background(), tokens)
	require.NoError(t, err)

	assert.Equal(t, ra, rb)
	assert.Equal(t, a.ConnectivityMatrix(), b.ConnectivityMatrix())
}

// TestSynthetic_InputSensitive verifies different inputs change the outputs.
func TestSynthetic_InputSensitive(t *testing.T) {
	m, err := NewSynthetic(testConfig())
	require.NoError(t, err)

	ra, err := m.Forward(context.Background(), []int{1, 2, 3})
	require.NoError(t, err)
	rb, err := m.Forward(context.Background(), []int{3, 2, 1})
	require.NoError(t, err)

	assert.NotEqual(t, ra.Logits, rb.Logits)
}

// TestSynthetic_AttentionNormalized verifies attention rows sum to one.
func TestSynthetic_AttentionNormalized(t *testing.T) {
	m, err := NewSynthetic(testConfig())
	require.NoError(t, err)

	result, err := m.Forward(context.Background(), []int{0, 1, 2, 3})
	require.NoError(t, err)

	for l, layer := range result.Attention {
		for _, row := range layer[0] {
			sum := 0.0
			for _, v := range row {
				sum += v
			}
			assert.InDelta(t, 1.0, sum, 1e-9, "layer %d", l)
		}
	}
}

// TestSynthetic_SparseActivations verifies the activation density lands
// near the configured target.
func TestSynthetic_SparseActivations(t *testing.T) {
	cfg := testConfig()
	cfg.Neurons = 512
	m, err := NewSynthetic(cfg)
	require.NoError(t, err)

	result, err := m.Forward(context.Background(), []int{0, 1, 2, 3, 4, 0, 1, 2})
	require.NoError(t, err)

	nonzero, total := 0, 0
	for _, layer := range result.Activations {
		for _, row := range layer {
			for _, v := range row {
				total++
				if v != 0 {
					nonzero++
				}
			}
		}
	}
	density := float64(nonzero) / float64(total)
	assert.InDelta(t, 0.05, density, 0.02)
}

// TestSynthetic_InputValidation covers the error contract.
func TestSynthetic_InputValidation(t *testing.T) {
	m, err := NewSynthetic(testConfig())
	require.NoError(t, err)

	_, err = m.Forward(context.Background(), nil)
	require.ErrorIs(t, err, ErrEmptyInput)

	_, err = m.Forward(context.Background(), []int{0, 5})
	require.ErrorIs(t, err, ErrTokenRange)

	_, err = m.Forward(context.Background(), []int{-1})
	require.ErrorIs(t, err, ErrTokenRange)
}

// TestSynthetic_ConnectivitySnapshot verifies callers own their copy.
func TestSynthetic_ConnectivitySnapshot(t *testing.T) {
	m, err := NewSynthetic(testConfig())
	require.NoError(t, err)

	first := m.ConnectivityMatrix()
	first[0][0] = 999
	second := m.ConnectivityMatrix()
	assert.NotEqual(t, 999.0, second[0][0])
}

// TestSynthetic_Cancelled verifies context cancellation between layers.
func TestSynthetic_Cancelled(t *testing.T) {
	m, err := NewSynthetic(testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Forward(ctx, []int{0, 1})
	require.ErrorIs(t, err, context.Canceled)
}
