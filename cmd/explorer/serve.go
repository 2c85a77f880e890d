// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/AleutianAI/brain-explorer/services/introspect"
	"github.com/AleutianAI/brain-explorer/services/introspect/model"
	"github.com/AleutianAI/brain-explorer/services/introspect/telemetry"
)

var (
	servePort       int
	serveDebug      bool
	serveModelCfg   string
	shutdownTimeout = 10 * time.Second
)

var rootCmd = &cobra.Command{
	Use:   "explorer",
	Short: "Introspection and search analytics for sparse sequence models",
	Long: `Explorer serves analytics over a sparse sequence model: connectivity
topology, activation sparsity, attention flow, and maze solving with
model-scored greedy policies against a BFS baseline.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the introspection API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().StringVar(&serveModelCfg, "model-config", "",
		"Path to a YAML model configuration (defaults apply when empty)")
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	ctx := context.Background()

	if serveDebug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.DefaultConfig())
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			slog.Warn("Telemetry shutdown", slog.String("error", err.Error()))
		}
	}()

	metrics, err := telemetry.NewMetrics(otel.Meter("introspect"))
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	modelCfg := model.DefaultConfig()
	if serveModelCfg != "" {
		modelCfg, err = model.LoadConfig(serveModelCfg)
		if err != nil {
			return fmt.Errorf("load model config: %w", err)
		}
	}

	handle, err := model.NewHandle(modelCfg)
	if err != nil {
		return fmt.Errorf("create model handle: %w", err)
	}

	svc := introspect.NewService(introspect.DefaultServiceConfig(), handle).
		WithMetrics(metrics)
	handlers := introspect.NewHandlers(svc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(introspect.CORSMiddleware())
	router.Use(telemetry.GinMiddleware("introspect.http", metrics))
	if serveDebug {
		router.Use(gin.Logger())
	}

	introspect.RegisterRoutes(router, handlers)
	if mh := telemetry.MetricsHandler(); mh != nil {
		router.GET("/metrics", gin.WrapH(mh))
	}

	printBanner(servePort, modelCfg)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", servePort),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting explorer server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-quit:
		slog.Info("Shutting down explorer server", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func printBanner(port int, cfg model.Config) {
	banner := `
╔═══════════════════════════════════════════════════════════════════╗
║                         BRAIN EXPLORER                            ║
╠═══════════════════════════════════════════════════════════════════╣
║                                                                   ║
║  Introspection and search analytics for sparse sequence models.   ║
║  Model: %2d layers, %4d neurons, vocab %-3d                        ║
║                                                                   ║
║  GET  /health               - Service and model status            ║
║  GET  /api/topology         - Connectivity topology               ║
║  POST /api/infer            - Forward pass with state capture     ║
║  POST /api/sparsity         - Activation sparsity analysis        ║
║  POST /api/pathfind         - BFS solve with analytics            ║
║  POST /api/pathfind/model   - Model-scored greedy vs BFS          ║
║  GET  /metrics              - Prometheus metrics                  ║
║                                                                   ║
╚═══════════════════════════════════════════════════════════════════╝
`
	fmt.Printf(banner, cfg.Layers, cfg.Neurons, cfg.Vocab)
	fmt.Printf("Listening on http://localhost:%d\n\n", port)
}
