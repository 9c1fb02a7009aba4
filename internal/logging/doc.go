// Package logging assembles structured slog loggers and formatting helpers used
// across ytwhisper.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so workflow code can tag log lines with the
// run correlation ID, the item being processed, and the current stage. A no-op
// logger is provided for tests and wiring code that cannot fail.
package logging
