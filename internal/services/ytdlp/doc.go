// Package ytdlp wraps the yt-dlp command-line tool.
//
// It expands playlists with flat extraction, downloads best-available audio
// transcoded to MP3 under a file named by the video ID, and reads the video
// ID and title from the info JSON yt-dlp prints. Command execution goes
// through services.CommandRunner so tests can stub the binary.
package ytdlp
