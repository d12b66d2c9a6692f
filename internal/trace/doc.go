// Package trace records what a calltraits run is doing: the command, its
// phases, one span per declaration file and one event per classified alias.
//
// Enable tracing via command-line flags:
//
//	calltraits check --trace=- --trace-level=file decls/
//
// A StreamTracer writes each event as it happens; a RingTracer keeps the
// last events and is dumped when the command exits. Tracers travel through
// the driver in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+path)
//	defer span.End("")
package trace
