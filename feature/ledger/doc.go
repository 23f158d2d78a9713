// Package ledger provides access to the local payment ledger.
//
// The ledger is the payment service's MySQL table payment_transactions; this
// engine reads it to reconcile against the external processor and writes only
// the status resolution of stuck pending rows.
//
// # Store Interface
//
// The Store interface abstracts the gorm implementation so the engine can be
// tested against fakes:
//
//   - ListTransactions: rows created within a half-open window, ordered by
//     creation time then id.
//   - ListPendingTransactions: every row still in pending.
//   - UpdateTransaction: column updates for one row by id.
//   - CountPendingTransactions: pending backlog size for health checks.
//
// # Schema Verification
//
// The table is owned by another service, so startup verifies it is usable
// rather than migrating it:
//
//	if err := ledger.VerifySchema(db); err != nil {
//	    log.Fatal(err)
//	}
package ledger
