// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command explorer starts the introspection API server.
//
// The server exposes analytics over a sparse sequence model:
//   - Connectivity topology with community detection
//   - Activation sparsity and concept-neuron analysis
//   - Attention flow extraction
//   - Maze solving with a BFS baseline and model-scored greedy policies
//
// Usage:
//
//	go run ./cmd/explorer serve
//	go run ./cmd/explorer serve --port 9090 --model-config model.yaml
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8080/health
//
//	# Connectivity topology
//	curl "http://localhost:8080/api/topology?threshold=0.1&top_k_nodes=50" | jq
//
//	# Solve a maze with the cell policy
//	curl -X POST http://localhost:8080/api/pathfind/model \
//	  -H "Content-Type: application/json" \
//	  -d '{"board": [[2,0],[1,3]], "policy": "cells"}'
package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
