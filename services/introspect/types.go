// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package introspect

import (
	"github.com/AleutianAI/brain-explorer/services/introspect/maze"
	"github.com/AleutianAI/brain-explorer/services/introspect/model"
	"github.com/AleutianAI/brain-explorer/services/introspect/state"
)

// Pathfind policies.
const (
	// PolicyCells scores every candidate cell with one forward pass each.
	PolicyCells = "cells"

	// PolicyDirections scores the four moves with one forward pass per step.
	PolicyDirections = "directions"
)

// ErrorResponse is the JSON error body returned on failures.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is the error code (optional).
	Code string `json:"code,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	// Status is "ok" when the service is up.
	Status string `json:"status"`

	// Model reports the model handle state.
	Model model.Status `json:"model"`
}

// InferRequest is the request body for POST /api/infer.
type InferRequest struct {
	// Tokens is the input sequence. Must be nonempty and within the
	// model's vocabulary.
	Tokens []int `json:"input_tokens" binding:"required"`

	// TrackStates requests activation capture: sparsity profile, per-layer
	// statistics, and concept neurons alongside the predictions.
	TrackStates bool `json:"track_states"`
}

// InferResponse is the response body for POST /api/infer.
type InferResponse struct {
	// Predictions is the argmax next-symbol prediction at each position.
	Predictions []int `json:"predictions"`

	// Sparsity is present when TrackStates was set.
	Sparsity *state.SparsityProfile `json:"sparsity,omitempty"`

	// Layers is present when TrackStates was set.
	Layers []state.LayerStats `json:"layer_stats,omitempty"`

	// Concepts maps vocabulary symbols to their concept neurons. Present
	// when TrackStates was set.
	Concepts map[int][]state.ConceptNeuron `json:"concept_neurons,omitempty"`
}

// SparsityRequest is the request body for POST /api/sparsity.
type SparsityRequest struct {
	// Tokens is the input sequence to analyze.
	Tokens []int `json:"input_tokens" binding:"required"`
}

// SparsityResponse is the response body for POST /api/sparsity.
type SparsityResponse struct {
	Sparsity *state.SparsityProfile `json:"sparsity"`
	Layers   []state.LayerStats     `json:"layer_stats"`
}

// PathfindRequest is the request body for POST /api/pathfind.
type PathfindRequest struct {
	// Board is the maze grid: 0 open, 1 wall, 2 start, 3 end.
	Board [][]int `json:"board" binding:"required"`
}

// PathfindResponse is the response body for POST /api/pathfind.
//
// The solution comes from breadth-first search; the sparsity profile and
// attention flow describe the forward pass over the flattened board.
type PathfindResponse struct {
	Solution  *maze.Result           `json:"solution"`
	Sparsity  *state.SparsityProfile `json:"sparsity"`
	Attention *state.AttentionFlow   `json:"attention_flow"`
}

// ModelPathfindRequest is the request body for POST /api/pathfind/model.
type ModelPathfindRequest struct {
	// Board is the maze grid: 0 open, 1 wall, 2 start, 3 end.
	Board [][]int `json:"board" binding:"required"`

	// Policy selects the scoring policy: "cells" (default) or "directions".
	Policy string `json:"policy"`

	// MaxSteps bounds the greedy walk. Zero uses the default budget.
	MaxSteps int `json:"max_steps"`

	// ScoreWeight scales the model score term. Zero uses the default.
	ScoreWeight float64 `json:"score_weight"`
}

// ModelPathfindResponse is the response body for POST /api/pathfind/model.
//
// The BFS baseline is always present. Model fields are populated only when
// the model could score the walk; otherwise ModelAvailable is false and
// ModelError explains why.
type ModelPathfindResponse struct {
	ModelAvailable bool   `json:"model_available"`
	ModelError     string `json:"model_error,omitempty"`

	ModelSolution *maze.Result `json:"model_solution,omitempty"`
	BFSSolution   *maze.Result `json:"bfs_solution"`

	// ModelSteps and BFSSteps are the step counts of the two walks.
	ModelSteps int `json:"model_steps"`
	BFSSteps   int `json:"bfs_steps"`

	// SolutionsMatch is true when both walks reached the end in the same
	// number of steps.
	SolutionsMatch bool `json:"solutions_match"`
}
