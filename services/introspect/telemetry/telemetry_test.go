// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
)

// TestDefaultConfig verifies the standalone-deployment defaults.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "brain-explorer", cfg.ServiceName)
	assert.Equal(t, "none", cfg.TraceExporter)
	assert.Equal(t, "prometheus", cfg.MetricExporter)
}

// TestInit_NilContext verifies the nil guard.
func TestInit_NilContext(t *testing.T) {
	//nolint:staticcheck // the nil guard is the behavior under test
	_, err := Init(nil, DefaultConfig())
	require.ErrorIs(t, err, ErrNilContext)
}

// TestInit_Disabled verifies both exporters can be turned off.
func TestInit_Disabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TraceExporter = "none"
	cfg.MetricExporter = "none"

	shutdown, err := Init(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

// TestInit_UnknownExporters verifies exporter name validation.
func TestInit_UnknownExporters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TraceExporter = "zipkin"
	cfg.MetricExporter = "none"
	_, err := Init(context.Background(), cfg)
	require.ErrorIs(t, err, ErrUnknownExporter)

	cfg = DefaultConfig()
	cfg.TraceExporter = "none"
	cfg.MetricExporter = "statsd"
	_, err = Init(context.Background(), cfg)
	require.ErrorIs(t, err, ErrUnknownExporter)
}

// TestNewMetrics verifies every instrument registers.
func TestNewMetrics(t *testing.T) {
	meter := metric.NewMeterProvider().Meter("test")

	m, err := NewMetrics(meter)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.ForwardPassesTotal)
	assert.NotNil(t, m.TopologyExtractionsTotal)
	assert.NotNil(t, m.SolvesTotal)
	assert.NotNil(t, m.SolveSteps)
	assert.NotNil(t, m.ErrorsTotal)
}

// TestGinMiddleware verifies requests pass through instrumented, including
// with nil metrics.
func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	meter := metric.NewMeterProvider().Meter("test")
	m, err := NewMetrics(meter)
	require.NoError(t, err)

	for _, metrics := range []*Metrics{m, nil} {
		router := gin.New()
		router.Use(GinMiddleware("test", metrics))
		router.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
		router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	}
}
