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

import (
	"fmt"
	"sort"
)

// =============================================================================
// Attention Flow
// =============================================================================

// DefaultAttentionTopK is the default number of top edges kept per layer.
const DefaultAttentionTopK = 30

// AttentionEdge is one high-weight (query, key) pair.
type AttentionEdge struct {
	// Source is the query position.
	Source int `json:"source"`

	// Target is the key position.
	Target int `json:"target"`

	// Weight is the batch-averaged attention weight.
	Weight float64 `json:"weight"`
}

// AttentionFlow is the per-layer attention summary.
type AttentionFlow struct {
	// PerLayer holds each layer's batch-averaged (query x key) matrix.
	PerLayer [][][]float64 `json:"attention_per_layer"`

	// EdgesPerLayer holds the top-k edges per layer, in ascending weight
	// order (the tail of an ascending sort).
	EdgesPerLayer [][]AttentionEdge `json:"edges_per_layer"`

	// AvgPerLayer is the scalar mean over each averaged matrix.
	AvgPerLayer []float64 `json:"avg_per_layer"`
}

// ExtractAttentionFlow batch-averages attention tensors and extracts the
// top-weighted edges per layer.
//
// Description:
//
//	Each layer tensor is (batch x query x key). The batch axis is averaged
//	away, then the flattened matrix is sorted ascending by raw weight (not
//	absolute value) and the last topK entries become edges. Equal weights
//	keep ascending flat-index order. topK larger than the matrix simply
//	returns every entry.
//
// Inputs:
//
//	layers - Ordered per-layer attention tensors. May be empty.
//	topK - Edges to keep per layer. Values <= 0 use DefaultAttentionTopK.
//
// Outputs:
//
//	*AttentionFlow - Zero-valued (empty slices) for empty input.
//	error - ErrShapeMismatch for ragged tensors.
//
// Thread Safety: Safe for concurrent use.
//
// Complexity: O(L * B * T^2) for averaging plus O(L * T^2 log T) for sorting.
func ExtractAttentionFlow(layers [][][][]float64, topK int) (*AttentionFlow, error) {
	if topK <= 0 {
		topK = DefaultAttentionTopK
	}

	flow := &AttentionFlow{
		PerLayer:      [][][]float64{},
		EdgesPerLayer: [][]AttentionEdge{},
		AvgPerLayer:   []float64{},
	}

	for l, tensor := range layers {
		averaged, err := batchAverage(l, tensor)
		if err != nil {
			return nil, err
		}
		seqLen := len(averaged)

		// Flat indices sorted ascending by weight, ties by index.
		flat := make([]int, seqLen*seqLen)
		for i := range flat {
			flat[i] = i
		}
		sort.SliceStable(flat, func(a, b int) bool {
			wa := averaged[flat[a]/seqLen][flat[a]%seqLen]
			wb := averaged[flat[b]/seqLen][flat[b]%seqLen]
			return wa < wb
		})

		k := topK
		if k > len(flat) {
			k = len(flat)
		}
		edges := make([]AttentionEdge, 0, k)
		for _, idx := range flat[len(flat)-k:] {
			q, key := idx/seqLen, idx%seqLen
			edges = append(edges, AttentionEdge{
				Source: q,
				Target: key,
				Weight: averaged[q][key],
			})
		}

		total := 0.0
		for _, row := range averaged {
			for _, v := range row {
				total += v
			}
		}
		avg := 0.0
		if seqLen > 0 {
			avg = total / float64(seqLen*seqLen)
		}

		flow.PerLayer = append(flow.PerLayer, averaged)
		flow.EdgesPerLayer = append(flow.EdgesPerLayer, edges)
		flow.AvgPerLayer = append(flow.AvgPerLayer, avg)
	}

	return flow, nil
}

// batchAverage reduces one (batch x query x key) tensor to (query x key).
func batchAverage(layer int, tensor [][][]float64) ([][]float64, error) {
	if len(tensor) == 0 {
		return [][]float64{}, nil
	}
	seqLen := len(tensor[0])
	for b, matrix := range tensor {
		if len(matrix) != seqLen {
			return nil, fmt.Errorf("layer %d batch %d has %d query rows, want %d: %w",
				layer, b, len(matrix), seqLen, ErrShapeMismatch)
		}
		for q, row := range matrix {
			if len(row) != seqLen {
				return nil, fmt.Errorf("layer %d batch %d query %d has %d keys, want %d: %w",
					layer, b, q, len(row), seqLen, ErrShapeMismatch)
			}
		}
	}

	batch := float64(len(tensor))
	averaged := make([][]float64, seqLen)
	for q := 0; q < seqLen; q++ {
		averaged[q] = make([]float64, seqLen)
		for k := 0; k < seqLen; k++ {
			sum := 0.0
			for b := range tensor {
				sum += tensor[b][q][k]
			}
			averaged[q][k] = sum / batch
		}
	}
	return averaged, nil
}
