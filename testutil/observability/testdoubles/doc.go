// Package testdoubles provides spies for the eventstore observability interfaces.
//
//   - LoggerSpy: captures Logger and ContextualLogger calls
//   - MetricsCollectorSpy: captures durations, counters, and values
//   - TracingCollectorSpy: captures started and finished spans
//
// All spies are safe for concurrent use, so they can be shared by handlers running in parallel goroutines.
package testdoubles
