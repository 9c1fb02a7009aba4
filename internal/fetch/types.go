package fetch

import (
	"context"

	"ytwhisper/internal/services/ytdlp"
)

// Resolver expands a playlist URL into its entry URLs.
type Resolver interface {
	Resolve(ctx context.Context, playlistURL string) ([]string, error)
}

// Downloader fetches the audio for one URL into destDir.
type Downloader interface {
	FetchAudio(ctx context.Context, url, destDir string) (ytdlp.Download, error)
}

// Result describes one successfully fetched item.
type Result struct {
	// ID is the platform video ID and the key of the result set.
	ID    string
	URL   string
	Title string
	// DisplayTitle is "<title> [<id>]" with filesystem-reserved characters
	// replaced by full-width equivalents.
	DisplayTitle string
	AudioPath    string
	AudioBytes   int64
}

// Failure records a URL whose fetch did not succeed.
type Failure struct {
	URL string
	Err error
}

func (f Failure) Error() string {
	if f.Err == nil {
		return f.URL + ": unknown error"
	}
	return f.URL + ": " + f.Err.Error()
}

// Unwrap exposes the underlying cause.
func (f Failure) Unwrap() error {
	return f.Err
}
