// Package audio validates audio files produced by the fetch stage.
//
// Probe confirms the file exists, is non-empty, and that its container
// matches the requested transcoding target, reading embedded tags with
// dhowden/tag when present. Raw MPEG streams without an ID3 header are
// accepted when they start with a frame sync.
package audio
