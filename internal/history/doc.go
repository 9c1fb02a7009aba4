// Package history persists an optional ledger of runs and per-item outcomes
// in SQLite.
//
// Each invocation records one run row and one item row per URL outcome
// (fetched, fetch_failed, skipped, written, transcribe_failed). The ledger is
// read by `ytwhisper history` and is never consulted to decide what to
// process: the output directory remains the only source of truth for skips.
package history
