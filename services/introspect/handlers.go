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
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/brain-explorer/services/introspect/maze"
	"github.com/AleutianAI/brain-explorer/services/introspect/model"
	"github.com/AleutianAI/brain-explorer/services/introspect/state"
)

// Handlers contains the HTTP handlers for the introspection service.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Model:  h.svc.ModelStatus(),
	})
}

// HandleConfig handles GET /api/config. Echoes the model configuration.
func (h *Handlers) HandleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ModelConfig())
}

// HandleModelStatus handles GET /api/model/status.
func (h *Handlers) HandleModelStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ModelStatus())
}

// HandleTopology handles GET /api/topology.
//
// Description:
//
//	Extracts the connectivity topology of the model's learned weights,
//	including hubs, degree metrics, and community detection.
//
// Query Parameters:
//
//	threshold: Edge-inclusion cutoff on |weight| (optional, default 0.1)
//	top_k_nodes: Restrict to the top-k nodes by degree (optional)
//
// Response:
//
//	200 OK: state.Topology
//	400 Bad Request: Malformed query parameter
//	500 Internal Server Error: Extraction error
func (h *Handlers) HandleTopology(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleTopology")

	opts := &state.TopologyOptions{Threshold: -1}
	if raw := c.Query("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			logger.Warn("Invalid threshold", "value", raw)
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "threshold must be a non-negative number",
				Code:  "INVALID_QUERY",
			})
			return
		}
		opts.Threshold = v
	}
	if raw := c.Query("top_k_nodes"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			logger.Warn("Invalid top_k_nodes", "value", raw)
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "top_k_nodes must be a non-negative integer",
				Code:  "INVALID_QUERY",
			})
			return
		}
		opts.TopKNodes = v
	}

	topo, err := h.svc.Topology(c.Request.Context(), opts)
	if err != nil {
		logger.Error("Topology extraction failed", "error", err)
		respondError(c, err, "TOPOLOGY_FAILED")
		return
	}

	logger.Info("Topology extracted",
		"nodes", len(topo.Nodes),
		"edges", len(topo.Edges),
		"communities", topo.Metrics.NumCommunities)
	c.JSON(http.StatusOK, topo)
}

// HandleInfer handles POST /api/infer.
//
// Description:
//
//	Runs one forward pass over the input sequence and returns argmax
//	predictions. With track_states set, also returns the sparsity
//	profile, per-layer statistics, and concept neurons.
//
// Request Body:
//
//	InferRequest
//
// Response:
//
//	200 OK: InferResponse
//	400 Bad Request: Validation error
//	500 Internal Server Error: Processing error
func (h *Handlers) HandleInfer(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleInfer")

	var req InferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.svc.Infer(c.Request.Context(), req.Tokens, req.TrackStates)
	if err != nil {
		logger.Error("Inference failed", "error", err)
		respondError(c, err, "INFER_FAILED")
		return
	}

	logger.Info("Inference complete",
		"tokens", len(req.Tokens),
		"track_states", req.TrackStates)
	c.JSON(http.StatusOK, resp)
}

// HandleSparsity handles POST /api/sparsity.
//
// Request Body:
//
//	SparsityRequest
//
// Response:
//
//	200 OK: SparsityResponse
//	400 Bad Request: Validation error
//	500 Internal Server Error: Processing error
func (h *Handlers) HandleSparsity(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleSparsity")

	var req SparsityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.svc.Sparsity(c.Request.Context(), req.Tokens)
	if err != nil {
		logger.Error("Sparsity analysis failed", "error", err)
		respondError(c, err, "SPARSITY_FAILED")
		return
	}

	logger.Info("Sparsity analysis complete", "tokens", len(req.Tokens))
	c.JSON(http.StatusOK, resp)
}

// HandlePathfind handles POST /api/pathfind.
//
// Description:
//
//	Solves the board with breadth-first search and analyzes the forward
//	pass over the flattened board. An unsolvable board is a normal result
//	with found=false, not an error.
//
// Request Body:
//
//	PathfindRequest
//
// Response:
//
//	200 OK: PathfindResponse
//	400 Bad Request: Malformed board
//	500 Internal Server Error: Processing error
func (h *Handlers) HandlePathfind(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandlePathfind")

	var req PathfindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.svc.Pathfind(c.Request.Context(), req.Board)
	if err != nil {
		logger.Error("Pathfind failed", "error", err)
		respondError(c, err, "PATHFIND_FAILED")
		return
	}

	logger.Info("Pathfind complete",
		"found", resp.Solution.Found,
		"steps", resp.Solution.Steps)
	c.JSON(http.StatusOK, resp)
}

// HandlePathfindModel handles POST /api/pathfind/model.
//
// Description:
//
//	Solves the board with a model-scored greedy policy and compares it
//	against the BFS baseline. Model scoring failures degrade to a
//	BFS-only response with model_available=false rather than an error.
//
// Request Body:
//
//	ModelPathfindRequest
//
// Response:
//
//	200 OK: ModelPathfindResponse
//	400 Bad Request: Malformed board or unknown policy
//	500 Internal Server Error: Processing error
func (h *Handlers) HandlePathfindModel(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandlePathfindModel")

	var req ModelPathfindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.svc.PathfindModel(c.Request.Context(), &req)
	if err != nil {
		logger.Error("Model pathfind failed", "error", err)
		respondError(c, err, "PATHFIND_FAILED")
		return
	}

	logger.Info("Model pathfind complete",
		"model_available", resp.ModelAvailable,
		"model_steps", resp.ModelSteps,
		"bfs_steps", resp.BFSSteps,
		"match", resp.SolutionsMatch)
	c.JSON(http.StatusOK, resp)
}

// respondError maps service errors to HTTP responses. Validation failures
// on caller input map to 400 with a typed code; everything else is a 500
// with the handler's fallback code.
func respondError(c *gin.Context, err error, fallbackCode string) {
	statusCode := http.StatusInternalServerError
	errCode := fallbackCode

	switch {
	case errors.Is(err, maze.ErrEmptyBoard),
		errors.Is(err, maze.ErrNotRectangular),
		errors.Is(err, maze.ErrInvalidCell):
		statusCode = http.StatusBadRequest
		errCode = "INVALID_BOARD"
	case errors.Is(err, maze.ErrNoStart):
		statusCode = http.StatusBadRequest
		errCode = "NO_START"
	case errors.Is(err, maze.ErrNoEnd):
		statusCode = http.StatusBadRequest
		errCode = "NO_END"
	case errors.Is(err, model.ErrEmptyInput):
		statusCode = http.StatusBadRequest
		errCode = "EMPTY_INPUT"
	case errors.Is(err, model.ErrTokenRange):
		statusCode = http.StatusBadRequest
		errCode = "TOKEN_OUT_OF_RANGE"
	case errors.Is(err, ErrTooManyTokens):
		statusCode = http.StatusBadRequest
		errCode = "TOO_MANY_TOKENS"
	case errors.Is(err, ErrUnknownPolicy):
		statusCode = http.StatusBadRequest
		errCode = "UNKNOWN_POLICY"
	}

	c.JSON(statusCode, ErrorResponse{Error: err.Error(), Code: errCode})
}

// getOrCreateRequestID gets or creates a request ID.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
