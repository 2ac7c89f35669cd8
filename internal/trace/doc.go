// Package trace records what the validator is doing, for finding slow or
// stuck documents.
//
// # Usage
//
//	tagml check --trace=- --trace-level=detail corpus/
//
// # Tracers
//
//   - Nop: does nothing, used when tracing is off
//   - Heartbeat: not a tracer; emits liveness events into one
//   - StreamTracer: writes each event to a file or stderr
//   - RingTracer: keeps the last N events in memory
//   - MultiTracer: fans events out to several tracers
//
// # Levels and scopes
//
// Every event has a scope. The level decides which scopes are emitted:
//
//   - LevelPhase: ScopeDriver and ScopePhase (header, body)
//   - LevelDetail: adds ScopeFile, one span per file in directory mode
//   - LevelDebug: adds ScopeEvent, one point per parse event
//
// # Context
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.StartSpan(ctx, trace.ScopeDriver, "cli:check")
//	defer span.End("")
//
// Code without a context (the parse listener) passes the parent id to Begin
// itself.
package trace
