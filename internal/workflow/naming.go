package workflow

import (
	"path/filepath"
	"strings"

	"ytwhisper/internal/config"
	"ytwhisper/internal/fetch"
	"ytwhisper/internal/subtitles"
	"ytwhisper/internal/textutil"
)

// OutputName derives the subtitle base filename for a fetched item.
//
// The slugify strategy reduces the display title to an ASCII slug and falls
// back to the video ID when nothing survives. The yt_dlp strategy uses the
// display title verbatim; it is already free of filesystem-reserved
// characters.
func OutputName(result fetch.Result, strategy string) string {
	display := result.DisplayTitle
	if strings.TrimSpace(display) == "" {
		display = fetch.DisplayTitle(result.Title, result.ID)
	}
	switch strategy {
	case config.TitleModelYTDLP:
		if strings.TrimSpace(display) != "" {
			return display
		}
	default:
		if slug := textutil.Slugify(display); slug != "" {
			return slug
		}
	}
	if id := textutil.SanitizeTitle(strings.TrimSpace(result.ID)); id != "" {
		return id
	}
	return "untitled"
}

// OutputPath joins the output directory, derived name and format extension.
func OutputPath(dir string, result fetch.Result, strategy string, format subtitles.Format) string {
	return filepath.Join(dir, OutputName(result, strategy)+"."+format.Extension())
}
