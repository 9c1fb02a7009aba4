// Package main hosts the ytwhisper CLI entrypoint and command graph.
//
// The root command takes one or more YouTube video or playlist URLs, fetches
// their audio in parallel with yt-dlp, transcribes each item with Whisper and
// writes VTT or SRT subtitles into the output directory. Subcommands cover
// configuration scaffolding, model and language listings, an environment
// doctor and the optional run history.
//
// Keep this package lean: wiring and presentation live here, behavior lives in
// internal/workflow and the service packages it composes.
package main
