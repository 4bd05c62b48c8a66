package dev

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for the dev server.
const defaultTracerName = "flatroutes"

// tracer resolves from the global provider so a host application can
// install its own before starting the server.
func tracer() trace.Tracer {
	return otel.Tracer(defaultTracerName)
}

// startCompileSpan starts a span covering one manifest compile.
func startCompileSpan(ctx context.Context, dir string) (context.Context, trace.Span) {
	return tracer().Start(ctx, "flatroutes.compile",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("flatroutes.routes_dir", dir),
		),
	)
}

// endCompileSpan records the compile outcome on the span.
func endCompileSpan(span trace.Span, routes int, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("flatroutes.route_count", routes))
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
