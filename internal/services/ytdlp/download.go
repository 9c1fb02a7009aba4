package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"ytwhisper/internal/services"
)

// Info holds the fields of yt-dlp's info JSON this tool relies on.
type Info struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Duration   float64 `json:"duration"`
	Uploader   string  `json:"uploader"`
	WebpageURL string  `json:"webpage_url"`
}

// Download is the outcome of one audio fetch.
type Download struct {
	Info
	AudioPath string
}

// FetchAudio downloads the best audio stream of url into destDir as
// <id>.<format> and returns the reported info.
func (c *Client) FetchAudio(ctx context.Context, url, destDir string) (Download, error) {
	if strings.TrimSpace(url) == "" {
		return Download{}, fmt.Errorf("ytdlp: url is required")
	}
	if strings.TrimSpace(destDir) == "" {
		return Download{}, fmt.Errorf("ytdlp: destDir is required")
	}

	args := []string{
		"-f", "bestaudio",
		"-x",
		"--audio-format", c.audioFormat,
		"--audio-quality", c.audioQuality,
		"--no-playlist",
		"-o", filepath.Join(destDir, "%(id)s.%(ext)s"),
		"-j",
		"--no-simulate",
		url,
	}

	var stdout bytes.Buffer
	if err := c.exec(ctx, &stdout, args...); err != nil {
		return Download{}, services.Wrap(services.ErrExternalTool, "fetch", "yt-dlp", "download failed", err)
	}

	info, err := parseInfo(stdout.Bytes())
	if err != nil {
		return Download{}, services.Wrap(services.ErrExternalTool, "fetch", "yt-dlp", "parse info json", err)
	}
	if strings.TrimSpace(info.ID) == "" {
		return Download{}, services.Wrap(services.ErrExternalTool, "fetch", "yt-dlp", "info json has no id", nil)
	}
	return Download{
		Info:      info,
		AudioPath: filepath.Join(destDir, info.ID+"."+c.audioFormat),
	}, nil
}

// parseInfo decodes the last JSON object line printed by yt-dlp.
func parseInfo(output []byte) (Info, error) {
	var last []byte
	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 32*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) > 0 && line[0] == '{' {
			last = append(last[:0], line...)
		}
	}
	if err := scanner.Err(); err != nil {
		return Info{}, err
	}
	if last == nil {
		return Info{}, fmt.Errorf("no info json in output")
	}
	var info Info
	if err := json.Unmarshal(last, &info); err != nil {
		return Info{}, err
	}
	return info, nil
}
