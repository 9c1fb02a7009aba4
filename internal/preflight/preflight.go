package preflight

import (
	"context"
	"os"
	"path/filepath"

	"ytwhisper/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable directory checks for the given config.
// Directories are created first so a fresh install passes.
func RunAll(_ context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	_ = cfg.EnsureDirectories()
	if cfg.History.Enabled {
		_ = os.MkdirAll(filepath.Dir(cfg.History.Path), 0o755)
	}
	results := []Result{
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("Scratch directory", cfg.Paths.ScratchDir),
	}
	if cfg.History.Enabled {
		results = append(results, CheckDirectoryAccess("History directory", filepath.Dir(cfg.History.Path)))
	}
	if cfg.Logging.File != "" {
		results = append(results, CheckDirectoryAccess("Log directory", filepath.Dir(cfg.Logging.File)))
	}
	return results
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
