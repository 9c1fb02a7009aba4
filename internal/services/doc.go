// Package services defines shared utilities consumed by the workflow and the
// external tool integrations (yt-dlp, Whisper, the native YouTube client).
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, item IDs, and stage names for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures (configuration vs external tool) without string matching.
//   - The CommandRunner abstraction that makes external tool execution
//     testable.
package services
