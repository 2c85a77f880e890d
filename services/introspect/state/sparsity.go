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

import "fmt"

// =============================================================================
// Activation Sparsity
// =============================================================================

// StreamSparsity summarizes the nonzero fractions of one activation stream.
//
// "Sparsity" here follows the model's own convention: the fraction of
// entries that are exactly nonzero, not a magnitude threshold.
type StreamSparsity struct {
	// PerLayer is the nonzero fraction of each layer's full matrix.
	PerLayer []float64 `json:"per_layer"`

	// Mean and Std are population statistics over PerLayer.
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`

	// Min and Max bound PerLayer.
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NeuronMetrics carries per-neuron aggregates across all layers and positions.
type NeuronMetrics struct {
	// AvgActivation is the mean activation value per neuron.
	AvgActivation []float64 `json:"avg_activation"`

	// ActivationFrequency is the nonzero fraction per neuron.
	ActivationFrequency []float64 `json:"activation_frequency"`
}

// SparsityProfile is the full sparsity-analysis result for one forward pass.
type SparsityProfile struct {
	// Primary describes the main activation stream.
	Primary StreamSparsity `json:"primary"`

	// PerPosition is the nonzero fraction at each sequence position,
	// averaged across layers and neurons.
	PerPosition []float64 `json:"per_position"`

	// Heatmap is a deep copy of the primary activations, layer-major
	// (layer x position x neuron), for rendering.
	Heatmap [][][]float64 `json:"heatmap"`

	// Neurons carries per-neuron aggregates for the primary stream.
	Neurons NeuronMetrics `json:"neuron_metrics"`

	// Secondary is present only when a secondary stream was supplied.
	// It does not affect the primary statistics.
	Secondary *StreamSparsity `json:"secondary,omitempty"`
}

// ExtractSparsity computes fractional-nonzero statistics over per-layer
// activation matrices.
//
// Description:
//
//	primary is an ordered-by-layer list of (sequence x neuron) matrices.
//	Per layer, sparsity is the fraction of entries that are exactly
//	nonzero. Per position, it is the nonzero fraction across all layers at
//	that position. Aggregates use population statistics over the per-layer
//	values. A secondary stream, when supplied, gets its own per-layer and
//	aggregate numbers and must match the primary stream's layer count and
//	shape.
//
// Outputs:
//
//	*SparsityProfile - Zero-valued (empty slices) when primary is empty.
//	error - ErrShapeMismatch for ragged or disagreeing layer shapes.
//
// Thread Safety: Safe for concurrent use.
func ExtractSparsity(primary, secondary [][][]float64) (*SparsityProfile, error) {
	profile := &SparsityProfile{
		Primary:     StreamSparsity{PerLayer: []float64{}},
		PerPosition: []float64{},
		Heatmap:     [][][]float64{},
		Neurons: NeuronMetrics{
			AvgActivation:       []float64{},
			ActivationFrequency: []float64{},
		},
	}
	if len(primary) == 0 {
		return profile, nil
	}

	seqLen, neurons, err := streamShape(primary)
	if err != nil {
		return nil, err
	}

	profile.Primary = streamSparsity(primary)
	profile.Heatmap = deepCopyStream(primary)

	// Per-position nonzero fraction across layers and neurons.
	layers := len(primary)
	perPosition := make([]float64, seqLen)
	for t := 0; t < seqLen; t++ {
		nonzero := 0
		for l := 0; l < layers; l++ {
			for _, v := range primary[l][t] {
				if v != 0 {
					nonzero++
				}
			}
		}
		perPosition[t] = float64(nonzero) / float64(layers*neurons)
	}
	profile.PerPosition = perPosition

	// Per-neuron aggregates across layers and positions.
	avg := make([]float64, neurons)
	freq := make([]float64, neurons)
	for l := 0; l < layers; l++ {
		for t := 0; t < seqLen; t++ {
			for nIdx, v := range primary[l][t] {
				avg[nIdx] += v
				if v != 0 {
					freq[nIdx]++
				}
			}
		}
	}
	samples := float64(layers * seqLen)
	for i := 0; i < neurons; i++ {
		avg[i] /= samples
		freq[i] /= samples
	}
	profile.Neurons = NeuronMetrics{AvgActivation: avg, ActivationFrequency: freq}

	if secondary != nil {
		if len(secondary) != layers {
			return nil, fmt.Errorf("secondary stream has %d layers, want %d: %w",
				len(secondary), layers, ErrShapeMismatch)
		}
		if _, _, err := streamShape(secondary); err != nil {
			return nil, err
		}
		s := streamSparsity(secondary)
		profile.Secondary = &s
	}

	return profile, nil
}

// streamSparsity computes per-layer nonzero fractions and their aggregates.
// Assumes the stream shape was already validated.
func streamSparsity(stream [][][]float64) StreamSparsity {
	perLayer := make([]float64, len(stream))
	for l, layer := range stream {
		nonzero, total := 0, 0
		for _, row := range layer {
			total += len(row)
			for _, v := range row {
				if v != 0 {
					nonzero++
				}
			}
		}
		if total > 0 {
			perLayer[l] = float64(nonzero) / float64(total)
		}
	}
	lo, hi := minMax(perLayer)
	return StreamSparsity{
		PerLayer: perLayer,
		Mean:     mean(perLayer),
		Std:      stddev(perLayer),
		Min:      lo,
		Max:      hi,
	}
}

// streamShape validates that every layer in the stream is (seqLen x neurons)
// with uniform rows, returning the common shape.
func streamShape(stream [][][]float64) (seqLen, neurons int, err error) {
	if len(stream) == 0 {
		return 0, 0, nil
	}
	seqLen = len(stream[0])
	if seqLen > 0 {
		neurons = len(stream[0][0])
	}
	for l, layer := range stream {
		if len(layer) != seqLen {
			return 0, 0, fmt.Errorf("layer %d has %d positions, want %d: %w",
				l, len(layer), seqLen, ErrShapeMismatch)
		}
		for t, row := range layer {
			if len(row) != neurons {
				return 0, 0, fmt.Errorf("layer %d position %d has %d neurons, want %d: %w",
					l, t, len(row), neurons, ErrShapeMismatch)
			}
		}
	}
	return seqLen, neurons, nil
}

// deepCopyStream copies a layer-major activation stream.
func deepCopyStream(stream [][][]float64) [][][]float64 {
	out := make([][][]float64, len(stream))
	for l, layer := range stream {
		out[l] = make([][]float64, len(layer))
		for t, row := range layer {
			out[l][t] = make([]float64, len(row))
			copy(out[l][t], row)
		}
	}
	return out
}
