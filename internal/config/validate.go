package config

import (
	"errors"
	"fmt"
	"strings"

	"ytwhisper/internal/language"
	"ytwhisper/internal/services/whisper"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDownload(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.ScratchDir) == "" {
		return errors.New("paths.scratch_dir must be set")
	}
	return nil
}

func (c *Config) validateDownload() error {
	if err := ensureChoice("download.video_type", c.Download.VideoType, VideoTypeVideo, VideoTypePlaylists); err != nil {
		return err
	}
	if err := ensureChoice("download.resolver", c.Download.Resolver, ResolverYTDLP, ResolverNative); err != nil {
		return err
	}
	if c.Download.Workers <= 0 {
		return errors.New("download.workers must be positive")
	}
	if c.Download.Retries < 0 {
		return errors.New("download.retries must be >= 0")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if !whisper.IsKnownModel(c.Transcription.Model) {
		return fmt.Errorf("transcription.model: unknown model %q (choose from %s)", c.Transcription.Model, strings.Join(whisper.ModelNames(), ", "))
	}
	if err := ensureChoice("transcription.task", c.Transcription.Task, TaskTranscribe, TaskTranslate); err != nil {
		return err
	}
	if c.Transcription.Language != "" {
		if _, ok := language.Resolve(c.Transcription.Language); !ok {
			return fmt.Errorf("transcription.language: unknown language %q (run 'ytwhisper languages' for the list)", c.Transcription.Language)
		}
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	if err := ensureChoice("subtitles.format", c.Subtitles.Format, FormatVTT, FormatSRT); err != nil {
		return err
	}
	if err := ensureChoice("subtitles.title_model", c.Subtitles.TitleModel, TitleModelYTDLP, TitleModelSlugify); err != nil {
		return err
	}
	if c.Subtitles.BreakLines < 0 {
		return errors.New("subtitles.break_lines must be >= 0 (0 disables line breaking)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

func ensureChoice(key, value string, choices ...string) error {
	for _, choice := range choices {
		if value == choice {
			return nil
		}
	}
	return fmt.Errorf("%s: invalid value %q (choose from %s)", key, value, strings.Join(choices, ", "))
}
