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
	"context"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// =============================================================================
// Greedy Modularity Community Detection
// =============================================================================

var communityTracer = otel.Tracer("state.community")

// Community detection constants.
const (
	// DefaultMaxCommunityIterations is the maximum local-move sweeps.
	DefaultMaxCommunityIterations = 100

	// DefaultConvergenceThreshold stops early if modularity gain < this.
	DefaultConvergenceThreshold = 1e-6

	// DefaultResolution affects community granularity.
	// Higher values = smaller communities, lower = larger communities.
	DefaultResolution = 1.0
)

// CommunityOptions configures greedy modularity maximization.
type CommunityOptions struct {
	// MaxIterations limits local-move sweeps. Default: 100
	MaxIterations int

	// ConvergenceThreshold stops early if modularity gain < this. Default: 1e-6
	ConvergenceThreshold float64

	// Resolution affects community granularity. Default: 1.0
	Resolution float64
}

// Validate checks options and applies defaults for invalid values.
func (o *CommunityOptions) Validate() {
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxCommunityIterations
	}
	if o.ConvergenceThreshold <= 0 {
		o.ConvergenceThreshold = DefaultConvergenceThreshold
	}
	if o.Resolution <= 0 {
		o.Resolution = DefaultResolution
	}
}

// DefaultCommunityOptions returns sensible defaults.
func DefaultCommunityOptions() *CommunityOptions {
	return &CommunityOptions{
		MaxIterations:        DefaultMaxCommunityIterations,
		ConvergenceThreshold: DefaultConvergenceThreshold,
		Resolution:           DefaultResolution,
	}
}

// CommunityResult is a partition of graph nodes into disjoint communities.
type CommunityResult struct {
	// Communities lists member node indices per community, members ascending.
	// Communities are numbered by first appearance in ascending node order.
	Communities [][]int `json:"communities"`

	// Assignments maps node index -> community index. Empty when the graph
	// has no edges (detection is skipped entirely).
	Assignments []int `json:"assignments"`

	// Modularity is the final modularity score Q in [-1, 1].
	Modularity float64 `json:"modularity"`

	// Iterations is the number of local-move sweeps completed.
	Iterations int `json:"iterations"`

	// Converged indicates convergence before MaxIterations.
	Converged bool `json:"converged"`
}

// DetectCommunities partitions an undirected graph by greedy modularity
// maximization.
//
// Description:
//
//	Local-move heuristic: every node starts in its own community, then
//	sweeps in ascending node order try moving each node into the
//	neighboring community with the largest positive modularity gain.
//	Sweeps repeat until no move helps, the gain per sweep falls below the
//	convergence threshold, or MaxIterations is reached. The sweep order
//	and tie-breaking (lowest community index wins) are fixed, so results
//	are deterministic for a fixed graph.
//
//	An edge-free graph skips detection and reports zero communities with
//	modularity 0. This never fails on degenerate input.
//
// Inputs:
//
//	ctx - Context; cancellation is checked at sweep boundaries.
//	neighbors - Adjacency lists indexed 0..n-1. Must be symmetric.
//	opts - Options. Nil uses defaults.
//
// Outputs:
//
//	*CommunityResult - The partition with its modularity score.
//	error - Non-nil only if the context is cancelled.
//
// Thread Safety: Safe for concurrent use (read-only on neighbors).
//
// Complexity: O(V + E) per sweep, typically few sweeps.
func DetectCommunities(ctx context.Context, neighbors [][]int, opts *CommunityOptions) (*CommunityResult, error) {
	if opts == nil {
		opts = DefaultCommunityOptions()
	} else {
		opts.Validate()
	}

	n := len(neighbors)
	edgeCount := 0
	for _, list := range neighbors {
		edgeCount += len(list)
	}
	edgeCount /= 2

	ctx, span := communityTracer.Start(ctx, "state.DetectCommunities",
		trace.WithAttributes(
			attribute.Int("node_count", n),
			attribute.Int("edge_count", edgeCount),
		),
	)
	defer span.End()

	if n == 0 || edgeCount == 0 {
		span.AddEvent("no_edges")
		return &CommunityResult{
			Communities: [][]int{},
			Assignments: []int{},
			Modularity:  0,
			Converged:   true,
		}, nil
	}

	m := float64(edgeCount)

	// Initialize: each node in its own community.
	nodeToComm := make([]int, n)
	degrees := make([]float64, n)
	commDegreeSum := make(map[int]float64, n)
	for i := 0; i < n; i++ {
		nodeToComm[i] = i
		degrees[i] = float64(len(neighbors[i]))
		commDegreeSum[i] = degrees[i]
	}

	previousQ := -1.0
	iterations := 0
	converged := false

	for iterations < opts.MaxIterations {
		if ctx.Err() != nil {
			span.AddEvent("cancelled", trace.WithAttributes(
				attribute.Int("iterations_completed", iterations),
			))
			return nil, ctx.Err()
		}

		iterations++
		improved := false

		// Local moves in ascending node order.
		for id := 0; id < n; id++ {
			currentComm := nodeToComm[id]
			ki := degrees[id]

			// Edge counts from this node into each adjacent community.
			edgesTo := make(map[int]float64)
			for _, nb := range neighbors[id] {
				edgesTo[nodeToComm[nb]]++
			}

			// Candidate communities in sorted order for deterministic ties.
			candidates := make([]int, 0, len(edgesTo))
			for comm := range edgesTo {
				if comm != currentComm {
					candidates = append(candidates, comm)
				}
			}
			sort.Ints(candidates)

			bestComm := currentComm
			bestDeltaQ := 0.0
			for _, comm := range candidates {
				// ΔQ for moving id from currentComm to comm, using cached
				// community degree sums (the moving node excluded from its
				// own community's sum).
				sumCurrent := commDegreeSum[currentComm] - ki
				sumTarget := commDegreeSum[comm]

				deltaQ := (edgesTo[comm] - edgesTo[currentComm]) / m
				deltaQ -= opts.Resolution * ki * (sumTarget - sumCurrent) / (2 * m * m)

				if deltaQ > bestDeltaQ {
					bestDeltaQ = deltaQ
					bestComm = comm
				}
			}

			if bestComm != currentComm && bestDeltaQ > 0 {
				commDegreeSum[currentComm] -= ki
				if commDegreeSum[currentComm] <= 0 {
					delete(commDegreeSum, currentComm)
				}
				commDegreeSum[bestComm] += ki
				nodeToComm[id] = bestComm
				improved = true
			}
		}

		currentQ := modularity(neighbors, nodeToComm, degrees, m, opts.Resolution)

		if !improved || (currentQ-previousQ < opts.ConvergenceThreshold && previousQ >= 0) {
			converged = true
			break
		}
		previousQ = currentQ
	}

	result := buildCommunityResult(neighbors, nodeToComm, degrees, m, opts.Resolution)
	result.Iterations = iterations
	result.Converged = converged

	slog.Debug("community detection completed",
		slog.Int("iterations", iterations),
		slog.Int("communities", len(result.Communities)),
		slog.Float64("modularity", result.Modularity),
		slog.Bool("converged", converged),
		slog.Int("node_count", n),
		slog.Int("edge_count", edgeCount),
	)
	span.SetAttributes(
		attribute.Int("iterations", iterations),
		attribute.Int("communities_found", len(result.Communities)),
		attribute.Float64("modularity", result.Modularity),
		attribute.Bool("converged", converged),
	)

	return result, nil
}

// modularity computes Q = Σ_c [ L_c/m - γ*(d_c/2m)² ] over communities,
// where L_c is the intra-community edge count and d_c the degree sum.
func modularity(neighbors [][]int, nodeToComm []int, degrees []float64, m, resolution float64) float64 {
	if m == 0 {
		return 0
	}

	intra := make(map[int]float64)
	degSum := make(map[int]float64)
	for id, comm := range nodeToComm {
		degSum[comm] += degrees[id]
		for _, nb := range neighbors[id] {
			if nb > id && nodeToComm[nb] == comm {
				intra[comm]++
			}
		}
	}

	q := 0.0
	for comm, d := range degSum {
		frac := d / (2 * m)
		q += intra[comm]/m - resolution*frac*frac
	}
	return q
}

// buildCommunityResult compacts community labels by first appearance in
// ascending node order and computes the final modularity.
func buildCommunityResult(neighbors [][]int, nodeToComm []int, degrees []float64, m, resolution float64) *CommunityResult {
	relabel := make(map[int]int)
	assignments := make([]int, len(nodeToComm))
	communities := make([][]int, 0)
	for id, comm := range nodeToComm {
		compact, ok := relabel[comm]
		if !ok {
			compact = len(communities)
			relabel[comm] = compact
			communities = append(communities, []int{})
		}
		assignments[id] = compact
		communities[compact] = append(communities[compact], id)
	}

	return &CommunityResult{
		Communities: communities,
		Assignments: assignments,
		Modularity:  modularity(neighbors, nodeToComm, degrees, m, resolution),
	}
}
