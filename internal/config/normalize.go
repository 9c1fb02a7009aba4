package config

import (
	"fmt"
	"os"
	"strings"

	"ytwhisper/internal/language"
)

// Normalize expands paths, lowercases enumerations, and resolves language
// display names to codes. It is safe to call more than once, which the CLI
// does after applying flag overrides.
func (c *Config) Normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDownload()
	c.normalizeTranscription()
	c.normalizeSubtitles()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ScratchDir) == "" {
		c.Paths.ScratchDir = defaultScratchDir()
	}
	if c.Paths.ScratchDir, err = expandPath(strings.TrimSpace(c.Paths.ScratchDir)); err != nil {
		return fmt.Errorf("paths.scratch_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDownload() {
	c.Download.Binary = strings.TrimSpace(c.Download.Binary)
	if c.Download.Binary == "" {
		c.Download.Binary = defaultDownloaderBinary
	}
	c.Download.VideoType = strings.ToLower(strings.TrimSpace(c.Download.VideoType))
	if c.Download.VideoType == "" {
		c.Download.VideoType = VideoTypeVideo
	}
	c.Download.Resolver = strings.ToLower(strings.TrimSpace(c.Download.Resolver))
	if c.Download.Resolver == "" {
		c.Download.Resolver = ResolverYTDLP
	}
	if c.Download.Workers == 0 {
		c.Download.Workers = defaultWorkers
	}
	c.Download.AudioFormat = strings.ToLower(strings.TrimSpace(c.Download.AudioFormat))
	if c.Download.AudioFormat == "" {
		c.Download.AudioFormat = defaultAudioFormat
	}
	c.Download.AudioQuality = strings.TrimSpace(c.Download.AudioQuality)
	if c.Download.AudioQuality == "" {
		c.Download.AudioQuality = defaultAudioQuality
	}
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultModel
	}
	c.Transcription.Task = strings.ToLower(strings.TrimSpace(c.Transcription.Task))
	if c.Transcription.Task == "" {
		c.Transcription.Task = TaskTranscribe
	}
	c.Transcription.Language = strings.TrimSpace(c.Transcription.Language)
	if code, ok := language.Resolve(c.Transcription.Language); ok {
		c.Transcription.Language = code
	}
	c.Transcription.Runner = strings.TrimSpace(c.Transcription.Runner)
	if c.Transcription.Runner == "" {
		c.Transcription.Runner = defaultWhisperRunner
	}
}

func (c *Config) normalizeSubtitles() {
	c.Subtitles.Format = strings.ToLower(strings.TrimSpace(c.Subtitles.Format))
	if c.Subtitles.Format == "" {
		c.Subtitles.Format = FormatVTT
	}
	c.Subtitles.TitleModel = strings.ToLower(strings.TrimSpace(c.Subtitles.TitleModel))
	if c.Subtitles.TitleModel == "" {
		c.Subtitles.TitleModel = TitleModelSlugify
	}
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	if value, ok := os.LookupEnv("YTWHISPER_HISTORY_PATH"); ok && strings.TrimSpace(value) != "" {
		c.History.Path = strings.TrimSpace(value)
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		var err error
		if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}
