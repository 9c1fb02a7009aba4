package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"ytwhisper/internal/config"
	"ytwhisper/internal/deps"
	"ytwhisper/internal/services/whisper"
)

// VersionFunc reports the version string of an external tool.
type VersionFunc func(ctx context.Context) (string, error)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckVersion runs a version probe with a short timeout.
func CheckVersion(ctx context.Context, name string, probe VersionFunc) Result {
	if probe == nil {
		return Result{Name: name, Detail: "not configured"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	version, err := probe(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("version check failed (%v)", err)}
	}
	version = strings.TrimSpace(version)
	if version == "" {
		version = "unknown version"
	}
	return Result{Name: name, Passed: true, Detail: version}
}

// CheckSystemDeps evaluates the external programs a run needs. Both the root
// command and `ytwhisper doctor` use this list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	statuses := deps.CheckBinaries([]deps.Requirement{
		{
			Name:        "yt-dlp",
			Command:     cfg.DownloaderBinary(),
			Description: "Required for playlist resolution and audio download",
		},
	})
	statuses = append(statuses, deps.CheckFFmpegForDownloader(cfg.DownloaderBinary(), cfg.FFmpegBinary()))

	runner := strings.TrimSpace(cfg.Transcription.Runner)
	if runner == "" {
		runner = whisper.UVXCommand
	}
	requirement := deps.Requirement{
		Name:        "Whisper",
		Command:     runner,
		Description: "Runs the Whisper command-line entry point",
	}
	if runner == whisper.UVXCommand {
		requirement.Name = "uvx"
		requirement.Description = "Runs openai-whisper in an isolated environment"
	}
	return append(statuses, deps.CheckBinaries([]deps.Requirement{requirement})...)
}

// CheckHistoryFromConfig reports whether the run history ledger is usable.
func CheckHistoryFromConfig(cfg *config.Config) Result {
	const name = "History"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if !cfg.History.Enabled {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	if strings.TrimSpace(cfg.History.Path) == "" {
		return Result{Name: name, Detail: "Missing path"}
	}
	info, err := os.Stat(cfg.History.Path)
	switch {
	case os.IsNotExist(err):
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (created on first run)", cfg.History.Path)}
	case err != nil:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", cfg.History.Path, err)}
	case info.IsDir():
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", cfg.History.Path)}
	}
	if err := unix.Access(cfg.History.Path, unix.R_OK|unix.W_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", cfg.History.Path, err)}
	}
	return Result{Name: name, Passed: true, Detail: cfg.History.Path}
}
