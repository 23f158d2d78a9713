// Package reconcile compares the local payment ledger against the payment
// processor's records and reports every place the two disagree.
//
// A reconciliation run fetches both sides for a time window, normalizes them
// into a comparable shape, pairs records by correlation key, and then walks
// the pairs and leftovers to produce a report: matched totals, discrepancies
// (amount, status, metadata) and orphans on either side.
//
// # Pipeline
//
// The run is a fixed pipeline over immutable inputs:
//
// 1. Normalize: convert ledger rows and processor records into NormalizedLocal
// and NormalizedRemote values. Amounts become integer minor units so that
// comparisons never touch floating point. Records that cannot be normalized
// abort the run; a silently skipped record would make the report lie.
//
// 2. Match: pair locals and remotes by correlation key (the stored payment
// intent ID). Unpaired records on either side become orphan candidates.
//
// 3. Classify: each matched pair is checked for amount, status and metadata
// divergence. Amount differences within the configured tolerance are ignored.
// Status comparison is outcome-based, so "completed" and "succeeded" agree
// while "completed" and "failed" raise a critical discrepancy.
//
// 4. Detect orphans: unmatched records are reported with an action that
// depends on their age. Young orphans are usually propagation delay and only
// warrant a re-check; old ones need manual review.
//
// 5. Report: everything is assembled into a Report with summary counters,
// the discrepancy and orphan lists, and human-readable recommendations.
//
// # Service
//
// Service ties the pipeline to the ledger store, the processor client and the
// monitoring sink. It guards against overlapping runs, syncs pending ledger
// rows to their settled processor state, answers health checks, and can run
// on a schedule, archiving each report to storage.
//
// # Usage Example
//
//	svc := reconcile.NewService(store, client, monitor, cfg, logger)
//	svc.SetReportSink(sink, reportCfg)
//
//	// One-shot run over the last 24 hours.
//	report, err := svc.ReconcileTransactions(ctx, time.Time{}, time.Time{})
//
//	// Periodic runs.
//	svc.ScheduleReconciliation(6 * time.Hour)
//	defer svc.StopScheduledReconciliation()
package reconcile
