// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Metrics contains pre-defined metrics for the introspection service.
//
// Description:
//
//	Provides standard counters and histograms for HTTP requests, model
//	forward passes, topology extraction, and maze solves. All metrics use
//	the "explorer_" prefix for consistent naming.
//
// Thread Safety: Safe for concurrent use after creation.
type Metrics struct {
	// --- HTTP Metrics ---

	// HTTPRequestsTotal counts total HTTP requests by method, path, and status.
	HTTPRequestsTotal metric.Int64Counter

	// HTTPRequestDuration records HTTP request duration in seconds.
	HTTPRequestDuration metric.Float64Histogram

	// HTTPActiveRequests tracks currently active HTTP requests.
	HTTPActiveRequests metric.Int64UpDownCounter

	// --- Model Metrics ---

	// ForwardPassesTotal counts forward passes by status.
	ForwardPassesTotal metric.Int64Counter

	// ForwardDuration records forward pass duration in seconds.
	ForwardDuration metric.Float64Histogram

	// --- Analytics Metrics ---

	// TopologyExtractionsTotal counts topology extractions by status.
	TopologyExtractionsTotal metric.Int64Counter

	// TopologyDuration records topology extraction duration in seconds.
	TopologyDuration metric.Float64Histogram

	// --- Solver Metrics ---

	// SolvesTotal counts maze solves by algorithm and outcome.
	SolvesTotal metric.Int64Counter

	// SolveSteps records path length per completed solve.
	SolveSteps metric.Int64Histogram

	// --- Error Metrics ---

	// ErrorsTotal counts total errors by component.
	ErrorsTotal metric.Int64Counter
}

// NewMetrics creates a Metrics instance with all metrics registered on the
// given meter. Returns an error if any registration fails.
//
// Example:
//
//	meter := otel.Meter("introspect")
//	metrics, err := telemetry.NewMetrics(meter)
//	if err != nil {
//	    return fmt.Errorf("create metrics: %w", err)
//	}
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"explorer_http_requests_total",
		metric.WithDescription("Total HTTP requests"),
	); err != nil {
		return nil, fmt.Errorf("create http_requests_total: %w", err)
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"explorer_http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("create http_request_duration: %w", err)
	}

	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"explorer_http_active_requests",
		metric.WithDescription("Currently active HTTP requests"),
	); err != nil {
		return nil, fmt.Errorf("create http_active_requests: %w", err)
	}

	if m.ForwardPassesTotal, err = meter.Int64Counter(
		"explorer_forward_passes_total",
		metric.WithDescription("Total model forward passes"),
	); err != nil {
		return nil, fmt.Errorf("create forward_passes_total: %w", err)
	}

	if m.ForwardDuration, err = meter.Float64Histogram(
		"explorer_forward_duration_seconds",
		metric.WithDescription("Forward pass duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("create forward_duration: %w", err)
	}

	if m.TopologyExtractionsTotal, err = meter.Int64Counter(
		"explorer_topology_extractions_total",
		metric.WithDescription("Total connectivity topology extractions"),
	); err != nil {
		return nil, fmt.Errorf("create topology_extractions_total: %w", err)
	}

	if m.TopologyDuration, err = meter.Float64Histogram(
		"explorer_topology_duration_seconds",
		metric.WithDescription("Topology extraction duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("create topology_duration: %w", err)
	}

	if m.SolvesTotal, err = meter.Int64Counter(
		"explorer_solves_total",
		metric.WithDescription("Total maze solves by algorithm and outcome"),
	); err != nil {
		return nil, fmt.Errorf("create solves_total: %w", err)
	}

	if m.SolveSteps, err = meter.Int64Histogram(
		"explorer_solve_steps",
		metric.WithDescription("Path length per completed solve"),
	); err != nil {
		return nil, fmt.Errorf("create solve_steps: %w", err)
	}

	if m.ErrorsTotal, err = meter.Int64Counter(
		"explorer_errors_total",
		metric.WithDescription("Total errors by component"),
	); err != nil {
		return nil, fmt.Errorf("create errors_total: %w", err)
	}

	return m, nil
}
