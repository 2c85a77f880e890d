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
	"log/slog"
	"sync"
)

// =============================================================================
// Handle (model lifecycle)
// =============================================================================

// Status reports what the handle currently serves.
type Status struct {
	// Loaded is true once the base collaborator has been built.
	Loaded bool `json:"loaded"`

	// Trained is false for the synthetic stand-in; there is no trained
	// checkpoint behind it.
	Trained bool `json:"is_trained"`

	// Device names where the model runs.
	Device string `json:"device"`

	// ExpectedSparsity describes the activation density callers should
	// expect from the current weights.
	ExpectedSparsity string `json:"expected_sparsity"`

	// Note carries a human-readable caveat.
	Note string `json:"note"`
}

// Handle owns the model collaborators with an explicit load-once lifecycle.
//
// Description:
//
//	Three collaborators back the service: the base model (board-alphabet
//	vocabulary) for inference and state capture, a cell-space model per
//	board size for cell-indexed path scoring, and the base model doubling
//	as the direction scorer. Each is built lazily on first use under the
//	handle's lock and reused for every later call. The handle is the only
//	owner; nothing else caches models.
//
// Thread Safety: Safe for concurrent use.
type Handle struct {
	cfg Config

	mu   sync.Mutex
	base *Synthetic
	// cell holds one cell-space collaborator per board cell count.
	cell map[int]*Synthetic
}

// NewHandle creates an unloaded handle for the given configuration.
func NewHandle(cfg Config) (*Handle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Handle{cfg: cfg, cell: make(map[int]*Synthetic)}, nil
}

// Config returns the handle's model configuration.
func (h *Handle) Config() Config { return h.cfg }

// Base returns the base collaborator, loading it on first use.
func (h *Handle) Base(ctx context.Context) (Collaborator, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.baseLocked()
}

func (h *Handle) baseLocked() (*Synthetic, error) {
	if h.base == nil {
		m, err := NewSynthetic(h.cfg)
		if err != nil {
			return nil, err
		}
		h.base = m
		slog.Info("model loaded",
			slog.Int("vocab", h.cfg.Vocab),
			slog.Int("layers", h.cfg.Layers),
			slog.Int("neurons", h.cfg.Neurons),
		)
	}
	return h.base, nil
}

// CellScorer returns a per-cell scorer for a board with the given cell
// count, loading the backing cell-space collaborator on first use.
func (h *Handle) CellScorer(ctx context.Context, cells int) (*CellScorer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.cell[cells]
	if !ok {
		cfg := h.cfg
		cfg.Vocab = cells
		// Tiny boards still feed the five-code alphabet as input.
		if cfg.Vocab <= CellAlphabet {
			cfg.Vocab = CellAlphabet
		}
		var err error
		m, err = NewSynthetic(cfg)
		if err != nil {
			return nil, err
		}
		h.cell[cells] = m
		slog.Info("cell-space model loaded", slog.Int("cells", cells))
	}
	return NewCellScorer(m, cells), nil
}

// DirectionScorer returns a per-direction scorer backed by the base model.
func (h *Handle) DirectionScorer(ctx context.Context) (*DirectionScorer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, err := h.baseLocked()
	if err != nil {
		return nil, err
	}
	return NewDirectionScorer(m), nil
}

// Status reports the handle state for the status endpoint.
func (h *Handle) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Status{
		Loaded:           h.base != nil,
		Trained:          false,
		Device:           "cpu",
		ExpectedSparsity: "~5% nonzero activations (random initialization)",
		Note:             "serving a randomly initialized model; no trained checkpoint loaded",
	}
}
