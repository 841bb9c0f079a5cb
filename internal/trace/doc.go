// Package trace records the progress of a compilation: the driver, every
// module, every function lowered and every pass run over its graph.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	eirc lower --trace=- --trace-level=detail
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is disabled
//   - StreamTracer: writes every event immediately (file or stderr)
//   - RingTracer: keeps the last events in memory and dumps them on demand
//
// # Levels and scopes
//
// LevelPhase emits driver and module spans, LevelDetail adds one span per
// function, LevelDebug adds one span per pass.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "propagate-constants", parentID)
//	defer span.End("")
package trace
