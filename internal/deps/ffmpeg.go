package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// CheckFFmpegForDownloader reports the FFmpeg binary yt-dlp will use for
// audio extraction.
//
// Standalone yt-dlp builds are commonly shipped with ffmpeg in the same
// directory, which yt-dlp prefers over PATH. This mirrors that lookup so the
// doctor output matches what a download will actually run.
func CheckFFmpegForDownloader(downloaderCommand, ffmpegName string) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Used by yt-dlp to extract and transcode audio",
	}
	if strings.TrimSpace(ffmpegName) == "" {
		ffmpegName = "ffmpeg"
	}

	downloader := strings.TrimSpace(downloaderCommand)
	if downloader != "" {
		if resolved, err := exec.LookPath(downloader); err == nil {
			if candidate, ok := ffmpegSidecarCandidate(resolved, ffmpegName); ok {
				if info, statErr := os.Stat(candidate); statErr == nil && isExecutable(info) {
					result.Command = candidate
					result.Available = true
					return result
				}
			}
		}
	}

	if ffmpegPath, err := exec.LookPath(ffmpegName); err == nil {
		result.Command = ffmpegPath
		result.Available = true
		return result
	}

	result.Command = ffmpegName
	result.Available = false
	result.Detail = fmt.Sprintf("binary %q not found", ffmpegName)
	return result
}

func ffmpegSidecarCandidate(downloaderPath, ffmpegName string) (string, bool) {
	if downloaderPath == "" || filepath.IsAbs(ffmpegName) {
		return "", false
	}
	name := filepath.Base(ffmpegName)
	if runtime.GOOS == "windows" && !strings.HasSuffix(name, ".exe") {
		name += ".exe"
	}
	return filepath.Join(filepath.Dir(downloaderPath), name), true
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
