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
	"fmt"
	"math"
	"sort"
)

// =============================================================================
// Connectivity Graph Extraction
// =============================================================================

// Topology extraction constants.
const (
	// DefaultEdgeThreshold is the default edge-inclusion cutoff.
	DefaultEdgeThreshold = 0.1

	// HubPercentile is the degree percentile at or above which a node is
	// classified as a hub.
	HubPercentile = 90.0
)

// TopologyOptions configures graph extraction.
type TopologyOptions struct {
	// Threshold is the edge-inclusion cutoff: a directed edge (i, j) exists
	// iff |matrix[i][j]| > Threshold. Zero is a valid cutoff.
	Threshold float64

	// TopKNodes, when > 0 and < N, restricts the result to the induced
	// subgraph of the top-k nodes by total degree. 0 keeps all nodes.
	TopKNodes int

	// Community configures community detection. Nil uses defaults.
	Community *CommunityOptions
}

// Validate normalizes invalid option values.
func (o *TopologyOptions) Validate() {
	if o.Threshold < 0 {
		o.Threshold = DefaultEdgeThreshold
	}
	if o.TopKNodes < 0 {
		o.TopKNodes = 0
	}
	if o.Community == nil {
		o.Community = DefaultCommunityOptions()
	} else {
		o.Community.Validate()
	}
}

// DefaultTopologyOptions returns sensible defaults.
func DefaultTopologyOptions() *TopologyOptions {
	return &TopologyOptions{
		Threshold: DefaultEdgeThreshold,
		TopKNodes: 0,
		Community: DefaultCommunityOptions(),
	}
}

// GraphNode is one neuron in the extracted connectivity graph.
type GraphNode struct {
	// ID is the neuron index in the connectivity matrix.
	ID int `json:"id"`

	// Degree is in-degree + out-degree, measured on the unfiltered graph.
	Degree int `json:"degree"`

	// InDegree counts incoming edges on the unfiltered graph.
	InDegree int `json:"in_degree"`

	// OutDegree counts outgoing edges on the unfiltered graph.
	OutDegree int `json:"out_degree"`

	// IsHub is true when Degree meets the hub threshold.
	IsHub bool `json:"is_hub"`
}

// GraphEdge is one directed influence edge that passed the threshold.
type GraphEdge struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	Weight float64 `json:"weight"`
}

// TopologyMetrics summarizes the extracted graph.
//
// Degree statistics (AvgDegree, MaxDegree, MinDegree, StdDegree,
// HubThreshold, DegreeDistribution) always describe the full, unfiltered
// degree distribution over all N nodes, even when TopKNodes trims the
// returned node and edge lists. NumNodes and NumEdges describe what was
// actually returned.
type TopologyMetrics struct {
	NumNodes           int     `json:"num_nodes"`
	NumEdges           int     `json:"num_edges"`
	AvgDegree          float64 `json:"avg_degree"`
	MaxDegree          int     `json:"max_degree"`
	MinDegree          int     `json:"min_degree"`
	StdDegree          float64 `json:"std_degree"`
	Modularity         float64 `json:"modularity"`
	NumCommunities     int     `json:"num_communities"`
	HubThreshold       float64 `json:"hub_threshold"`
	NumHubs            int     `json:"num_hubs"`
	Hubs               []int   `json:"hubs"`
	DegreeDistribution []int   `json:"degree_distribution"`
}

// Topology is the full graph-extraction result.
type Topology struct {
	Nodes   []GraphNode     `json:"nodes"`
	Edges   []GraphEdge     `json:"edges"`
	Metrics TopologyMetrics `json:"metrics"`
}

// ExtractTopology thresholds a square connectivity matrix into a directed
// graph with degree, hub, and community statistics.
//
// Description:
//
//	A directed edge (i, j) is included iff |matrix[i][j]| > Threshold.
//	Self-loops are not special-cased. Total degree is in-degree plus
//	out-degree. Hubs are nodes whose total degree is at or above the 90th
//	percentile of the degree distribution (linear interpolation).
//
//	When TopKNodes is set and smaller than N, the result is the induced
//	subgraph of the top-k nodes by total degree (stable descending sort,
//	lower index wins ties): only edges with both endpoints retained
//	survive. Degree statistics still describe the unfiltered graph.
//
//	Community detection runs on the undirected projection of the (possibly
//	filtered) edge set. An edge-free graph reports zero communities and
//	modularity 0 rather than failing.
//
// Inputs:
//
//	ctx - Context, consulted by community detection at iteration boundaries.
//	matrix - Square NxN connectivity matrix. May be empty.
//	opts - Extraction options. Nil uses defaults.
//
// Outputs:
//
//	*Topology - Nodes, edges, and metrics. Zero-valued for empty input.
//	error - ErrNotSquare for ragged input; otherwise nil.
//
// Thread Safety: Safe for concurrent use.
//
// Complexity: O(N^2) over the matrix plus community detection on the
// thresholded edge set.
func ExtractTopology(ctx context.Context, matrix [][]float64, opts *TopologyOptions) (*Topology, error) {
	if opts == nil {
		opts = DefaultTopologyOptions()
	} else {
		opts.Validate()
	}

	n := len(matrix)
	for i, row := range matrix {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(row), n, ErrNotSquare)
		}
	}

	// Threshold into a directed edge list.
	edges := make([]GraphEdge, 0)
	inDegree := make([]int, n)
	outDegree := make([]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			w := matrix[i][j]
			if math.Abs(w) > opts.Threshold {
				edges = append(edges, GraphEdge{Source: i, Target: j, Weight: w})
				outDegree[i]++
				inDegree[j]++
			}
		}
	}

	totalDegree := make([]int, n)
	degreeDist := make([]int, n)
	degreeFloat := make([]float64, n)
	for i := 0; i < n; i++ {
		totalDegree[i] = inDegree[i] + outDegree[i]
		degreeDist[i] = totalDegree[i]
		degreeFloat[i] = float64(totalDegree[i])
	}

	// Hub classification over the full degree distribution.
	hubThreshold := 0.0
	hubs := make([]int, 0)
	isHub := make([]bool, n)
	if n > 0 {
		hubThreshold = percentile(degreeFloat, HubPercentile)
		for i := 0; i < n; i++ {
			if degreeFloat[i] >= hubThreshold {
				hubs = append(hubs, i)
				isHub[i] = true
			}
		}
	}

	// Optional top-k induced subgraph.
	retained := make([]int, n)
	for i := range retained {
		retained[i] = i
	}
	if opts.TopKNodes > 0 && opts.TopKNodes < n {
		byDegree := make([]int, n)
		copy(byDegree, retained)
		sort.SliceStable(byDegree, func(a, b int) bool {
			return totalDegree[byDegree[a]] > totalDegree[byDegree[b]]
		})
		retained = byDegree[:opts.TopKNodes]
		sort.Ints(retained)

		keep := make(map[int]bool, len(retained))
		for _, id := range retained {
			keep[id] = true
		}
		filtered := edges[:0]
		for _, e := range edges {
			if keep[e.Source] && keep[e.Target] {
				filtered = append(filtered, e)
			}
		}
		edges = filtered
	}

	nodes := make([]GraphNode, 0, len(retained))
	for _, id := range retained {
		nodes = append(nodes, GraphNode{
			ID:        id,
			Degree:    totalDegree[id],
			InDegree:  inDegree[id],
			OutDegree: outDegree[id],
			IsHub:     isHub[id],
		})
	}

	// Community detection on the undirected projection of the retained edges.
	neighbors := undirectedProjection(retained, edges)
	communities, err := DetectCommunities(ctx, neighbors, opts.Community)
	if err != nil {
		return nil, err
	}

	maxDeg, minDeg := 0, 0
	if n > 0 {
		fMin, fMax := minMax(degreeFloat)
		minDeg, maxDeg = int(fMin), int(fMax)
	}

	return &Topology{
		Nodes: nodes,
		Edges: edges,
		Metrics: TopologyMetrics{
			NumNodes:           len(nodes),
			NumEdges:           len(edges),
			AvgDegree:          mean(degreeFloat),
			MaxDegree:          maxDeg,
			MinDegree:          minDeg,
			StdDegree:          stddev(degreeFloat),
			Modularity:         communities.Modularity,
			NumCommunities:     len(communities.Communities),
			HubThreshold:       hubThreshold,
			NumHubs:            len(hubs),
			Hubs:               hubs,
			DegreeDistribution: degreeDist,
		},
	}, nil
}

// undirectedProjection builds compact-index neighbor lists over the retained
// nodes. Edge direction and multiplicity collapse; self-loops drop out.
func undirectedProjection(retained []int, edges []GraphEdge) [][]int {
	index := make(map[int]int, len(retained))
	for i, id := range retained {
		index[id] = i
	}

	sets := make([]map[int]bool, len(retained))
	for i := range sets {
		sets[i] = make(map[int]bool)
	}
	for _, e := range edges {
		s, t := index[e.Source], index[e.Target]
		if s == t {
			continue
		}
		sets[s][t] = true
		sets[t][s] = true
	}

	neighbors := make([][]int, len(retained))
	for i, set := range sets {
		list := make([]int, 0, len(set))
		for v := range set {
			list = append(list, v)
		}
		sort.Ints(list)
		neighbors[i] = list
	}
	return neighbors
}
