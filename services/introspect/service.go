// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package introspect provides the HTTP service for sequence-model
// introspection and search analytics.
//
// The service exposes endpoints for:
//   - Connectivity topology extraction with community detection
//   - Inference with activation sparsity and concept-neuron capture
//   - Attention flow analysis
//   - Maze solving with a BFS baseline and model-scored greedy policies
package introspect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/brain-explorer/services/introspect/maze"
	"github.com/AleutianAI/brain-explorer/services/introspect/model"
	"github.com/AleutianAI/brain-explorer/services/introspect/state"
	"github.com/AleutianAI/brain-explorer/services/introspect/telemetry"
)

// ServiceVersion is the introspection service version.
const ServiceVersion = "0.1.0"

// ServiceConfig configures the introspection service.
type ServiceConfig struct {
	// MaxTokens caps the input sequence length per request.
	// Default: 1024
	MaxTokens int

	// AttentionTopK is the per-layer attention edge count.
	// Default: 30
	AttentionTopK int

	// ConceptThreshold is the mean-activation cutoff for concept neurons.
	// Default: 0.5
	ConceptThreshold float64
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxTokens:        1024,
		AttentionTopK:    state.DefaultAttentionTopK,
		ConceptThreshold: 0.5,
	}
}

// Service is the introspection service.
//
// Thread Safety:
//
//	Service is safe for concurrent use. Multiple goroutines can call any
//	combination of methods simultaneously.
type Service struct {
	config  ServiceConfig
	handle  *model.Handle
	metrics *telemetry.Metrics
}

// NewService creates a service over the given model handle.
func NewService(config ServiceConfig, handle *model.Handle) *Service {
	if config.MaxTokens <= 0 {
		config.MaxTokens = DefaultServiceConfig().MaxTokens
	}
	if config.AttentionTopK <= 0 {
		config.AttentionTopK = state.DefaultAttentionTopK
	}
	if config.ConceptThreshold <= 0 {
		config.ConceptThreshold = DefaultServiceConfig().ConceptThreshold
	}
	return &Service{config: config, handle: handle}
}

// WithMetrics sets the telemetry metrics for method chaining.
func (s *Service) WithMetrics(m *telemetry.Metrics) *Service {
	s.metrics = m
	return s
}

// ModelConfig returns the model configuration backing the service.
func (s *Service) ModelConfig() model.Config { return s.handle.Config() }

// ModelStatus reports the model handle state.
func (s *Service) ModelStatus() model.Status { return s.handle.Status() }

// Topology extracts the connectivity topology of the model's learned
// weights, including community detection over the filtered graph.
func (s *Service) Topology(ctx context.Context, opts *state.TopologyOptions) (*state.Topology, error) {
	base, err := s.handle.Base(ctx)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	start := time.Now()
	topo, err := state.ExtractTopology(ctx, base.ConnectivityMatrix(), opts)
	s.recordTopology(ctx, start, err)
	if err != nil {
		return nil, err
	}
	return topo, nil
}

// Infer runs one forward pass and returns argmax predictions, optionally
// with activation capture.
func (s *Service) Infer(ctx context.Context, tokens []int, trackStates bool) (*InferResponse, error) {
	fwd, err := s.forward(ctx, tokens)
	if err != nil {
		return nil, err
	}

	resp := &InferResponse{Predictions: argmaxRows(fwd.Logits)}
	if !trackStates {
		return resp, nil
	}

	sparsity, err := state.ExtractSparsity(fwd.Activations, fwd.Secondary)
	if err != nil {
		return nil, fmt.Errorf("extract sparsity: %w", err)
	}
	layers, err := state.LayerStatistics(fwd.Activations, fwd.Secondary)
	if err != nil {
		return nil, fmt.Errorf("layer statistics: %w", err)
	}
	concepts, err := state.IdentifyConceptNeurons(
		fwd.Activations, tokens, s.handle.Config().Vocab, s.config.ConceptThreshold)
	if err != nil {
		return nil, fmt.Errorf("concept neurons: %w", err)
	}

	resp.Sparsity = sparsity
	resp.Layers = layers
	resp.Concepts = concepts
	return resp, nil
}

// Sparsity runs one forward pass and returns the sparsity profile with
// per-layer statistics.
func (s *Service) Sparsity(ctx context.Context, tokens []int) (*SparsityResponse, error) {
	fwd, err := s.forward(ctx, tokens)
	if err != nil {
		return nil, err
	}

	sparsity, err := state.ExtractSparsity(fwd.Activations, fwd.Secondary)
	if err != nil {
		return nil, fmt.Errorf("extract sparsity: %w", err)
	}
	layers, err := state.LayerStatistics(fwd.Activations, fwd.Secondary)
	if err != nil {
		return nil, fmt.Errorf("layer statistics: %w", err)
	}
	return &SparsityResponse{Sparsity: sparsity, Layers: layers}, nil
}

// Pathfind solves the board with BFS and analyzes the forward pass over the
// flattened board: sparsity profile and attention flow, extracted
// concurrently.
func (s *Service) Pathfind(ctx context.Context, board [][]int) (*PathfindResponse, error) {
	b, err := maze.ParseBoard(board)
	if err != nil {
		return nil, err
	}

	solution := maze.SolveBFS(b)
	s.recordSolve(ctx, "bfs", solution)

	fwd, err := s.forward(ctx, b.ModelInput(b.Start()))
	if err != nil {
		return nil, err
	}

	var (
		sparsity *state.SparsityProfile
		flow     *state.AttentionFlow
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		sparsity, err = state.ExtractSparsity(fwd.Activations, fwd.Secondary)
		if err != nil {
			return fmt.Errorf("extract sparsity: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		flow, err = state.ExtractAttentionFlow(fwd.Attention, s.config.AttentionTopK)
		if err != nil {
			return fmt.Errorf("extract attention flow: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &PathfindResponse{Solution: solution, Sparsity: sparsity, Attention: flow}, nil
}

// PathfindModel solves the board with a model-scored greedy policy and a BFS
// baseline for comparison.
//
// Description:
//
//	Board validation errors are returned to the caller. Model-side scoring
//	failures do not fail the request: the response carries the BFS baseline
//	with ModelAvailable=false and the scoring error message, matching the
//	degraded mode a missing checkpoint produces.
func (s *Service) PathfindModel(ctx context.Context, req *ModelPathfindRequest) (*ModelPathfindResponse, error) {
	b, err := maze.ParseBoard(req.Board)
	if err != nil {
		return nil, err
	}

	policy := req.Policy
	if policy == "" {
		policy = PolicyCells
	}
	if policy != PolicyCells && policy != PolicyDirections {
		return nil, fmt.Errorf("%q: %w", req.Policy, ErrUnknownPolicy)
	}

	bfs := maze.SolveBFS(b)
	s.recordSolve(ctx, "bfs", bfs)

	resp := &ModelPathfindResponse{
		BFSSolution: bfs,
		BFSSteps:    bfs.Steps,
	}

	opts := &maze.GreedyOptions{MaxSteps: req.MaxSteps, ScoreWeight: req.ScoreWeight}

	var solution *maze.Result
	var solveErr error
	switch policy {
	case PolicyCells:
		scorer, err := s.handle.CellScorer(ctx, b.Rows()*b.Cols())
		if err != nil {
			solveErr = err
		} else {
			solution, solveErr = maze.SolveGreedy(ctx, b, scorer, opts)
		}
	case PolicyDirections:
		scorer, err := s.handle.DirectionScorer(ctx)
		if err != nil {
			solveErr = err
		} else {
			solution, solveErr = maze.SolveGreedyDirections(ctx, b, scorer, opts)
		}
	}

	if solveErr != nil {
		if errors.Is(solveErr, context.Canceled) || errors.Is(solveErr, context.DeadlineExceeded) {
			return nil, solveErr
		}
		s.recordError(ctx, "model_scoring", solveErr)
		resp.ModelError = solveErr.Error()
		return resp, nil
	}

	s.recordSolve(ctx, "greedy_"+policy, solution)
	resp.ModelAvailable = true
	resp.ModelSolution = solution
	resp.ModelSteps = solution.Steps
	resp.SolutionsMatch = solution.Found && bfs.Found && solution.Steps == bfs.Steps
	return resp, nil
}

// forward validates the sequence length and runs one instrumented forward
// pass on the base model.
func (s *Service) forward(ctx context.Context, tokens []int) (*model.ForwardResult, error) {
	if len(tokens) > s.config.MaxTokens {
		return nil, fmt.Errorf("%d tokens (limit %d): %w",
			len(tokens), s.config.MaxTokens, ErrTooManyTokens)
	}

	base, err := s.handle.Base(ctx)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	start := time.Now()
	fwd, err := base.Forward(ctx, tokens)
	s.recordForward(ctx, start, err)
	if err != nil {
		return nil, err
	}
	return fwd, nil
}

func (s *Service) recordForward(ctx context.Context, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("status", statusLabel(err)))
	s.metrics.ForwardPassesTotal.Add(ctx, 1, attrs)
	s.metrics.ForwardDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	s.recordError(ctx, "forward", err)
}

func (s *Service) recordTopology(ctx context.Context, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("status", statusLabel(err)))
	s.metrics.TopologyExtractionsTotal.Add(ctx, 1, attrs)
	s.metrics.TopologyDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	s.recordError(ctx, "topology", err)
}

func (s *Service) recordSolve(ctx context.Context, algorithm string, res *maze.Result) {
	if s.metrics == nil || res == nil {
		return
	}
	outcome := "no_path"
	if res.Found {
		outcome = "found"
	}
	s.metrics.SolvesTotal.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("algorithm", algorithm),
		attribute.String("outcome", outcome),
	))
	s.metrics.SolveSteps.Record(ctx, int64(res.Steps), otelmetric.WithAttributes(
		attribute.String("algorithm", algorithm),
	))
}

// recordError counts a failed operation by component.
func (s *Service) recordError(ctx context.Context, component string, err error) {
	if s.metrics == nil || err == nil {
		return
	}
	s.metrics.ErrorsTotal.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("component", component),
	))
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// argmaxRows returns the index of the maximum entry in each row.
func argmaxRows(rows [][]float64) []int {
	out := make([]int, len(rows))
	for i, row := range rows {
		best := 0
		for j := 1; j < len(row); j++ {
			if row[j] > row[best] {
				best = j
			}
		}
		out[i] = best
	}
	return out
}
