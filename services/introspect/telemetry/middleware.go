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
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// GinMiddleware creates gin middleware that records a server span and request
// metrics for every request.
//
// Description:
//
//	Wraps each request in a span named "METHOD route" with standard HTTP
//	attributes, and records request count, duration, and active request
//	count on the given Metrics. Sets span status to Error for 5xx responses.
//
// Inputs:
//
//	tracerName - Name for the tracer (e.g., "introspect.http").
//	metrics - Pre-configured Metrics instance, may be nil to skip metrics.
//
// Example:
//
//	router := gin.New()
//	router.Use(telemetry.GinMiddleware("introspect.http", metrics))
//
// Thread Safety: Safe for concurrent use.
func GinMiddleware(tracerName string, metrics *Metrics) gin.HandlerFunc {
	tracer := otel.Tracer(tracerName)

	return func(c *gin.Context) {
		start := time.Now()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route),
				attribute.String("http.target", c.Request.URL.Path),
				attribute.String("net.peer.ip", c.ClientIP()),
			),
		)
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		if metrics != nil {
			metrics.HTTPActiveRequests.Add(ctx, 1)
			defer metrics.HTTPActiveRequests.Add(ctx, -1)
		}

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		switch {
		case status >= 500:
			span.SetStatus(codes.Error, "server error")
		case status >= 400:
			span.SetStatus(codes.Unset, "")
		default:
			span.SetStatus(codes.Ok, "")
		}

		if metrics != nil {
			attrs := metric.WithAttributes(
				attribute.String("method", c.Request.Method),
				attribute.String("path", route),
				attribute.Int("status", status),
			)
			metrics.HTTPRequestsTotal.Add(ctx, 1, attrs)
			metrics.HTTPRequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		}
	}
}
