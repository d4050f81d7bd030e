// Package trace records what the tails pipeline is doing.
//
// Passes and the driver open spans around their work; per-module steps emit
// points. A stream tracer prints events as they happen, a ring tracer keeps
// the most recent ones in memory so that an internal fault can dump them.
//
//	tails check --trace=- --trace-level=phase app/
//
// Levels: off, error (ring only, dumped on faults), phase (driver and
// passes), detail (modules too), debug (everything).
//
// Tracers travel through context.Context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	sp := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "resolution", 0)
//	defer sp.End("")
package trace
