// Package processor provides a read-only HTTP client for the external
// payment processor's API.
//
// The reconciliation engine treats the processor as the authoritative record
// of payment outcomes. This package fetches those records; it never mutates
// anything on the processor side.
//
// # Client Interface
//
// The Client interface abstracts the API for the engine and makes processor
// interactions easy to fake in unit tests.
//
//   - ListTransactions: all transactions created within a window, following
//     cursor pagination (limit / starting_after) until exhausted.
//   - GetTransaction: a single transaction by id; ErrTransactionNotFound
//     when the processor does not know it.
//   - Ping: a single-item list used by health checks.
//
// # Wire Format
//
// Responses carry amounts in minor units, lower-case currency codes and epoch
// second timestamps; the client decodes them into RemoteTransaction with a
// time.Time creation timestamp. Non-2xx responses with a structured error
// body ({"error": {"type", "message"}}) are surfaced with type and message
// preserved.
package processor
