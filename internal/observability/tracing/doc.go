// Package tracing provides OpenTelemetry tracing integration.
//
// The api and worker binaries install an SDK tracer provider with
// InitProvider; the HTTP stack wraps handlers with Middleware and use cases
// open child spans through GetTracer.
//
// Example usage:
//
//	import "daybook/internal/observability/tracing"
//
//	func main() {
//	    shutdown := tracing.InitProvider()
//	    defer shutdown(context.Background())
//	}
//
//	func paginate(ctx context.Context) {
//	    ctx, span := tracing.GetTracer().Start(ctx, "browse.Paginate")
//	    defer span.End()
//	    // ...
//	}
package tracing
