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

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sync"
)

// =============================================================================
// Synthetic Collaborator
// =============================================================================

// syntheticDensity is the expected fraction of nonzero activations, in the
// ballpark an untrained sparse network produces.
const syntheticDensity = 0.05

// Synthetic is a deterministic, randomly initialized collaborator.
//
// Description:
//
//	All outputs derive from the configured seed: the connectivity matrix
//	from the seed alone, forward outputs from the seed combined with a
//	digest of the input tokens. Two Synthetics with the same config are
//	indistinguishable, and repeated calls with the same input return
//	identical values, which keeps every downstream analysis reproducible
//	in tests and demos.
//
// Thread Safety: Safe for concurrent use.
type Synthetic struct {
	cfg Config

	connOnce sync.Once
	conn     [][]float64
}

// NewSynthetic builds a synthetic collaborator for the given config.
func NewSynthetic(cfg Config) (*Synthetic, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Synthetic{cfg: cfg}, nil
}

// Config returns the model configuration.
func (s *Synthetic) Config() Config { return s.cfg }

// ConnectivityMatrix returns the learned NxN weight snapshot. Computed
// once, then copied per call so callers own their snapshot.
func (s *Synthetic) ConnectivityMatrix() [][]float64 {
	s.connOnce.Do(func() {
		rng := rand.New(rand.NewSource(s.cfg.Seed))
		n := s.cfg.Neurons
		s.conn = make([][]float64, n)
		for i := 0; i < n; i++ {
			row := make([]float64, n)
			for j := 0; j < n; j++ {
				row[j] = rng.NormFloat64() * 0.1
			}
			s.conn[i] = row
		}
	})

	out := make([][]float64, len(s.conn))
	for i, row := range s.conn {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}

// Forward runs one deterministic pseudo-forward pass.
//
// Outputs:
//
//	*ForwardResult - Logits [T][V], both activation streams [L][T][N] with
//	sparse ReLU-like values, attention [L][1][T][T] row-normalized.
//	error - ErrEmptyInput or ErrTokenRange for malformed input.
func (s *Synthetic) Forward(ctx context.Context, tokens []int) (*ForwardResult, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptyInput
	}
	for i, tok := range tokens {
		if tok < 0 || tok >= s.cfg.Vocab {
			return nil, fmt.Errorf("token %d at position %d (vocab %d): %w",
				tok, i, s.cfg.Vocab, ErrTokenRange)
		}
	}

	rng := rand.New(rand.NewSource(s.cfg.Seed ^ int64(tokenDigest(tokens))))
	seqLen := len(tokens)

	logits := make([][]float64, seqLen)
	for t := 0; t < seqLen; t++ {
		row := make([]float64, s.cfg.Vocab)
		for v := range row {
			row[v] = rng.NormFloat64()
		}
		logits[t] = row
	}

	result := &ForwardResult{
		Logits:      logits,
		Activations: make([][][]float64, s.cfg.Layers),
		Secondary:   make([][][]float64, s.cfg.Layers),
		Attention:   make([][][][]float64, s.cfg.Layers),
	}

	for l := 0; l < s.cfg.Layers; l++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Activations[l] = sparseMatrix(rng, seqLen, s.cfg.Neurons)
		result.Secondary[l] = sparseMatrix(rng, seqLen, s.cfg.Neurons)
		result.Attention[l] = [][][]float64{attentionMatrix(rng, seqLen)}
	}

	return result, nil
}

// sparseMatrix draws a (rows x cols) matrix with ~syntheticDensity nonzero
// positive entries.
func sparseMatrix(rng *rand.Rand, rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		row := make([]float64, cols)
		for c := 0; c < cols; c++ {
			if rng.Float64() < syntheticDensity {
				row[c] = rng.Float64()
			}
		}
		m[r] = row
	}
	return m
}

// attentionMatrix draws a row-normalized (seq x seq) attention matrix.
func attentionMatrix(rng *rand.Rand, seqLen int) [][]float64 {
	m := make([][]float64, seqLen)
	for q := 0; q < seqLen; q++ {
		row := make([]float64, seqLen)
		sum := 0.0
		for k := 0; k < seqLen; k++ {
			row[k] = rng.Float64()
			sum += row[k]
		}
		for k := range row {
			row[k] /= sum
		}
		m[q] = row
	}
	return m
}

// tokenDigest hashes a token sequence for forward determinism.
func tokenDigest(tokens []int) uint64 {
	h := fnv.New64a()
	buf := make([]byte, 8)
	for _, tok := range tokens {
		v := uint64(tok)
		for i := 0; i < 8; i++ {
			buf[i] = byte(v >> (8 * i))
		}
		h.Write(buf)
	}
	return h.Sum64()
}
