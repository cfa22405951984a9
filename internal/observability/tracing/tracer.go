package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName names the tracer used by every daybook span.
const instrumentationName = "daybook"

// GetTracer returns the daybook tracer from the current global provider.
//
//	ctx, span := tracing.GetTracer().Start(ctx, "browse.Paginate")
//	defer span.End()
func GetTracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// InitProvider installs an always-sampling SDK tracer provider and the W3C
// trace context propagator as the process globals. Spans are not exported
// anywhere until an exporter is registered on the returned provider; trace
// ids still flow into logs and the X-Trace-Id header.
func InitProvider(opts ...sdktrace.TracerProviderOption) func(context.Context) error {
	opts = append([]sdktrace.TracerProviderOption{sdktrace.WithSampler(sdktrace.AlwaysSample())}, opts...)
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown
}
