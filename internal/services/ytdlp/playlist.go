package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"ytwhisper/internal/services"
	"ytwhisper/internal/services/youtube"
)

// Playlist is the flat-extracted view of a playlist.
type Playlist struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Entries []Entry `json:"entries"`
}

// Entry is one playlist member as reported by flat extraction.
type Entry struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// WatchURL returns the URL to fetch the entry with.
func (e Entry) WatchURL() string {
	if u := strings.TrimSpace(e.URL); u != "" {
		return u
	}
	return youtube.WatchURL(e.ID)
}

// FetchPlaylist runs flat extraction on url without downloading anything.
func (c *Client) FetchPlaylist(ctx context.Context, url string) (Playlist, error) {
	if strings.TrimSpace(url) == "" {
		return Playlist{}, services.Wrap(services.ErrValidation, "resolve", "yt-dlp", "playlist url required", nil)
	}
	var stdout bytes.Buffer
	if err := c.exec(ctx, &stdout, "--flat-playlist", "-J", url); err != nil {
		return Playlist{}, services.Wrap(services.ErrExternalTool, "resolve", "yt-dlp", "flat playlist extraction failed", err)
	}
	var playlist Playlist
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &playlist); err != nil {
		return Playlist{}, services.Wrap(services.ErrExternalTool, "resolve", "yt-dlp", "parse playlist json", err)
	}
	return playlist, nil
}

// Resolve expands a playlist URL into its entry URLs in playlist order. An
// empty playlist yields an empty slice.
func (c *Client) Resolve(ctx context.Context, url string) ([]string, error) {
	playlist, err := c.FetchPlaylist(ctx, url)
	if err != nil {
		return nil, err
	}
	c.logger.Info("playlist resolved",
		slog.String("title", playlist.Title),
		slog.Int("entries", len(playlist.Entries)),
	)
	urls := make([]string, 0, len(playlist.Entries))
	for _, entry := range playlist.Entries {
		if u := entry.WatchURL(); u != "" {
			urls = append(urls, u)
		}
	}
	return urls, nil
}
