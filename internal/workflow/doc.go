// Package workflow runs one ytwhisper invocation end to end.
//
// A Runner resolves playlist input, hands the URLs to the parallel fetcher,
// then walks the fetched items sequentially: it derives the output filename,
// skips items whose subtitle file already exists, transcribes the rest and
// writes SRT or VTT files into the output directory. Fetch failures are
// isolated per URL; a transcription or write failure aborts the run.
//
// The output directory is guarded by an advisory lock for the duration of a
// run so concurrent invocations cannot race on the skip-if-exists check.
package workflow
