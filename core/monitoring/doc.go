// Package monitoring defines the operational signal sink used by the
// reconciliation engine.
//
// The engine emits breadcrumbs (run started, run finished), metrics (run
// duration, discrepancy counts) and captured errors. It only knows the Sink
// interface; which vendor receives the signals is a wiring decision.
//
// # Implementations
//
//   - NoopSink: discards everything. Used when monitoring is disabled and in
//     tests.
//   - NewRelicSink: custom events for breadcrumbs and messages, custom
//     metrics for measurements, NoticeError inside a short transaction for
//     exceptions.
//
// # Factory
//
// NewSink inspects the configuration and returns the appropriate sink. Agent
// initialization failures degrade to the no-op sink with a warning rather
// than failing startup.
package monitoring
