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
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all introspection routes with the router.
//
// Description:
//
//	Registers the health endpoint at the root and the analytics endpoints
//	under /api. The router should already have any required middleware
//	applied.
//
// Endpoints:
//
//	GET  /health - Service and model status
//	GET  /api/config - Model configuration echo
//	GET  /api/topology - Connectivity topology with communities
//	GET  /api/model/status - Model handle status
//	POST /api/infer - Forward pass with optional state capture
//	POST /api/sparsity - Activation sparsity analysis
//	POST /api/pathfind - BFS solve with forward-pass analytics
//	POST /api/pathfind/model - Model-scored greedy solve vs BFS baseline
//
// Example:
//
//	service := introspect.NewService(introspect.DefaultServiceConfig(), handle)
//	handlers := introspect.NewHandlers(service)
//
//	router := gin.New()
//	introspect.RegisterRoutes(router, handlers)
func RegisterRoutes(router *gin.Engine, handlers *Handlers) {
	router.GET("/health", handlers.HandleHealth)

	api := router.Group("/api")
	{
		api.GET("/config", handlers.HandleConfig)
		api.GET("/topology", handlers.HandleTopology)
		api.GET("/model/status", handlers.HandleModelStatus)

		api.POST("/infer", handlers.HandleInfer)
		api.POST("/sparsity", handlers.HandleSparsity)
		api.POST("/pathfind", handlers.HandlePathfind)
		api.POST("/pathfind/model", handlers.HandlePathfindModel)
	}
}

// CORSMiddleware allows cross-origin requests from the visualization
// frontend, which is served separately during development.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
