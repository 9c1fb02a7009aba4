package youtube

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	ytlib "github.com/kkdai/youtube/v2"

	"ytwhisper/internal/services"
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

// WatchURL returns the canonical watch URL for a video ID.
func WatchURL(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	return watchURLPrefix + id
}

// VideoID extracts the video ID from a watch, short, or embed URL. ok is
// false when the input does not look like a single video.
func VideoID(rawURL string) (string, bool) {
	id, err := ytlib.ExtractVideoID(strings.TrimSpace(rawURL))
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

// Resolver expands playlists without the yt-dlp binary.
type Resolver struct {
	client *ytlib.Client
	logger *slog.Logger
}

// NewResolver builds a resolver. A zero timeout leaves the HTTP client unbounded.
func NewResolver(timeout time.Duration, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		client: &ytlib.Client{HTTPClient: &http.Client{Timeout: timeout}},
		logger: logger,
	}
}

// Resolve returns the playlist's entry URLs in playlist order.
func (r *Resolver) Resolve(ctx context.Context, playlistURL string) ([]string, error) {
	playlist, err := r.client.GetPlaylistContext(ctx, strings.TrimSpace(playlistURL))
	if err != nil {
		if errors.Is(err, ytlib.ErrInvalidPlaylist) {
			return nil, services.Wrap(services.ErrValidation, "resolve", "youtube", "invalid playlist url", err)
		}
		return nil, services.Wrap(services.ErrExternalTool, "resolve", "youtube", "playlist lookup failed", err)
	}
	r.logger.Info("playlist resolved",
		slog.String("title", playlist.Title),
		slog.Int("entries", len(playlist.Videos)),
	)
	return entryURLs(playlist.Videos), nil
}

func entryURLs(entries []*ytlib.PlaylistEntry) []string {
	urls := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		if u := WatchURL(entry.ID); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
