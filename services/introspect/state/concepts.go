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
// Concept Neuron Identification
// =============================================================================

// ConceptNeuron is a neuron that consistently activates for one symbol.
type ConceptNeuron struct {
	// NeuronID is the neuron index.
	NeuronID int `json:"neuron_id"`

	// AvgActivation is the activation averaged over all layers and all
	// positions where the symbol occurs.
	AvgActivation float64 `json:"avg_activation"`
}

// IdentifyConceptNeurons maps vocabulary symbols to the neurons that
// activate strongly at their occurrence positions.
//
// Description:
//
//	For each symbol in [0, vocabSize), the positions where it occurs in
//	tokens are collected. Activations at those positions are averaged
//	across every layer and occurrence, and neurons whose average exceeds
//	threshold (strictly) are reported, ordered by neuron id. Symbols with
//	zero occurrences are omitted from the result entirely.
//
// Inputs:
//
//	activations - Ordered per-layer (sequence x neuron) matrices.
//	tokens - The token sequence that produced the activations.
//	vocabSize - Number of vocabulary symbols to scan.
//	threshold - Activation cutoff (exclusive).
//
// Outputs:
//
//	map[int][]ConceptNeuron - Symbol -> flagged neurons. Empty map for
//	empty activations.
//	error - ErrShapeMismatch / ErrTokenLength on malformed input.
//
// Thread Safety: Safe for concurrent use.
//
// Complexity: O(V*T + L*T*N) over vocabulary, layers, sequence, neurons.
func IdentifyConceptNeurons(activations [][][]float64, tokens []int, vocabSize int, threshold float64) (map[int][]ConceptNeuron, error) {
	result := make(map[int][]ConceptNeuron)
	if len(activations) == 0 {
		return result, nil
	}

	seqLen, neurons, err := streamShape(activations)
	if err != nil {
		return nil, err
	}
	if len(tokens) != seqLen {
		return nil, fmt.Errorf("got %d tokens for sequence length %d: %w",
			len(tokens), seqLen, ErrTokenLength)
	}

	layers := len(activations)
	for symbol := 0; symbol < vocabSize; symbol++ {
		positions := make([]int, 0)
		for t, tok := range tokens {
			if tok == symbol {
				positions = append(positions, t)
			}
		}
		if len(positions) == 0 {
			continue
		}

		avg := make([]float64, neurons)
		for l := 0; l < layers; l++ {
			for _, t := range positions {
				for nIdx, v := range activations[l][t] {
					avg[nIdx] += v
				}
			}
		}
		samples := float64(layers * len(positions))

		flagged := make([]ConceptNeuron, 0)
		for nIdx := 0; nIdx < neurons; nIdx++ {
			avg[nIdx] /= samples
			if avg[nIdx] > threshold {
				flagged = append(flagged, ConceptNeuron{
					NeuronID:      nIdx,
					AvgActivation: avg[nIdx],
				})
			}
		}
		result[symbol] = flagged
	}

	return result, nil
}
