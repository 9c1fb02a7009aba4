package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir  string `toml:"output_dir"`
	ScratchDir string `toml:"scratch_dir"`
}

// Download contains configuration for URL resolution and audio fetching.
type Download struct {
	Binary       string `toml:"binary"`
	VideoType    string `toml:"video_type"`
	Resolver     string `toml:"resolver"`
	Workers      int    `toml:"workers"`
	AudioFormat  string `toml:"audio_format"`
	AudioQuality string `toml:"audio_quality"`
	// Retries is the number of additional attempts per URL. Zero disables retry.
	Retries int `toml:"retries"`
}

// Transcription contains the Whisper model options.
type Transcription struct {
	Model    string `toml:"model"`
	Task     string `toml:"task"`
	Language string `toml:"language"`
	Verbose  bool   `toml:"verbose"`
	// Runner launches the Whisper CLI (e.g. "uvx").
	Runner           string `toml:"runner"`
	SuppressWarnings bool   `toml:"suppress_warnings"`
}

// Subtitles contains configuration for subtitle rendering and file naming.
type Subtitles struct {
	Format     string `toml:"format"`
	BreakLines int    `toml:"break_lines"`
	TitleModel string `toml:"title_model"`
}

// History contains configuration for the optional run ledger.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for ytwhisper.
//
// Configuration sections by subsystem:
//   - Paths: subtitle output and audio scratch directories
//   - Download: yt-dlp binary, playlist resolver, worker pool size, retries
//   - Transcription: Whisper model, task, language, verbosity
//   - Subtitles: output format, line wrapping, filename strategy
//   - History: optional SQLite ledger of processed items
//   - Logging: log format, level, and optional file sink
type Config struct {
	Paths         Paths         `toml:"paths"`
	Download      Download      `toml:"download"`
	Transcription Transcription `toml:"transcription"`
	Subtitles     Subtitles     `toml:"subtitles"`
	History       History       `toml:"history"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output and scratch directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.ScratchDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DownloaderBinary returns the yt-dlp executable name.
func (c *Config) DownloaderBinary() string {
	if strings.TrimSpace(c.Download.Binary) == "" {
		return defaultDownloaderBinary
	}
	return c.Download.Binary
}

// FFmpegBinary returns the ffmpeg executable name yt-dlp relies on for transcoding.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
