// Package whisper runs the OpenAI Whisper command-line tool against a local
// audio file and returns its timed segments.
//
// The CLI is launched through uvx by default so no Python environment has to
// be managed by hand. Each call runs in its own scratch output directory,
// requests JSON output, and loads the segments from it. Python warning
// suppression is applied to the child environment of that single call only.
package whisper
