// Package subtitles renders transcript segments as SRT or WebVTT text.
//
// Segments arrive from the transcription model as float-second spans with
// text. Writers emit one cue per segment, in order, directly to the caller's
// io.Writer so a partially written file still contains every completed cue.
// Long cue text can optionally be wrapped into a bottom-heavy pyramid of
// lines bounded by a character width.
package subtitles
