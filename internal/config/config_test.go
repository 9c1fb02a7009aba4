package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"ytwhisper/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("YTWHISPER_SCRATCH_DIR", filepath.Join(tempHome, "scratch"))
	t.Chdir(tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Paths.OutputDir != tempHome {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.Paths.OutputDir, tempHome)
	}
	if cfg.Paths.ScratchDir != filepath.Join(tempHome, "scratch") {
		t.Fatalf("expected scratch dir from env, got %q", cfg.Paths.ScratchDir)
	}
	wantHistory := filepath.Join(tempHome, ".local", "share", "ytwhisper", "history.db")
	if cfg.History.Path != wantHistory {
		t.Fatalf("unexpected history path: got %q want %q", cfg.History.Path, wantHistory)
	}
	if cfg.History.Enabled {
		t.Fatal("expected history disabled by default")
	}
	if cfg.Download.Workers != 10 {
		t.Fatalf("expected 10 download workers, got %d", cfg.Download.Workers)
	}
	if cfg.Download.Retries != 0 {
		t.Fatalf("expected retries disabled by default, got %d", cfg.Download.Retries)
	}
	if cfg.Download.AudioFormat != "mp3" || cfg.Download.AudioQuality != "192" {
		t.Fatalf("unexpected audio settings: %s/%s", cfg.Download.AudioFormat, cfg.Download.AudioQuality)
	}
	if cfg.Transcription.Model != "small" {
		t.Fatalf("expected small model default, got %q", cfg.Transcription.Model)
	}
	if cfg.Transcription.Task != config.TaskTranscribe {
		t.Fatalf("expected transcribe task default, got %q", cfg.Transcription.Task)
	}
	if cfg.Transcription.Language != "" {
		t.Fatalf("expected language auto-detect default, got %q", cfg.Transcription.Language)
	}
	if !cfg.Transcription.SuppressWarnings {
		t.Fatal("expected warning suppression enabled by default")
	}
	if cfg.Subtitles.Format != config.FormatVTT {
		t.Fatalf("expected vtt default, got %q", cfg.Subtitles.Format)
	}
	if cfg.Subtitles.TitleModel != config.TitleModelSlugify {
		t.Fatalf("expected slugify default, got %q", cfg.Subtitles.TitleModel)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(tempHome, "config.toml")
	content := `
[paths]
output_dir = "~/subs"
scratch_dir = "~/audio"

[download]
video_type = "PLAYLISTS"
workers = 3
retries = 2
resolver = "native"

[transcription]
model = "medium.en"
task = "translate"
language = "Japanese"

[subtitles]
format = "SRT"
break_lines = 42
title_model = "yt_dlp"

[logging]
format = "json"
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %q to exist, got %q exists=%v", configPath, resolved, exists)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "subs") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Paths.ScratchDir != filepath.Join(tempHome, "audio") {
		t.Fatalf("unexpected scratch dir: %q", cfg.Paths.ScratchDir)
	}
	if cfg.Download.VideoType != config.VideoTypePlaylists {
		t.Fatalf("expected video type normalized to playlists, got %q", cfg.Download.VideoType)
	}
	if cfg.Download.Workers != 3 || cfg.Download.Retries != 2 {
		t.Fatalf("unexpected download settings: %+v", cfg.Download)
	}
	if cfg.Download.Resolver != config.ResolverNative {
		t.Fatalf("unexpected resolver: %q", cfg.Download.Resolver)
	}
	if cfg.Transcription.Language != "ja" {
		t.Fatalf("expected language name resolved to code, got %q", cfg.Transcription.Language)
	}
	if cfg.Transcription.Task != config.TaskTranslate {
		t.Fatalf("unexpected task: %q", cfg.Transcription.Task)
	}
	if cfg.Subtitles.Format != config.FormatSRT || cfg.Subtitles.BreakLines != 42 {
		t.Fatalf("unexpected subtitle settings: %+v", cfg.Subtitles)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging settings: %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(configPath, []byte("[download]\nthreads = 4\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected parse error for unknown field")
	}
}

func TestValidateRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"format", func(c *config.Config) { c.Subtitles.Format = "ass" }, "subtitles.format"},
		{"title model", func(c *config.Config) { c.Subtitles.TitleModel = "raw" }, "subtitles.title_model"},
		{"break lines", func(c *config.Config) { c.Subtitles.BreakLines = -1 }, "subtitles.break_lines"},
		{"model", func(c *config.Config) { c.Transcription.Model = "gigantic" }, "transcription.model"},
		{"task", func(c *config.Config) { c.Transcription.Task = "summarize" }, "transcription.task"},
		{"language", func(c *config.Config) { c.Transcription.Language = "klingon" }, "transcription.language"},
		{"video type", func(c *config.Config) { c.Download.VideoType = "channel" }, "download.video_type"},
		{"workers", func(c *config.Config) { c.Download.Workers = -2 }, "download.workers"},
		{"retries", func(c *config.Config) { c.Download.Retries = -1 }, "download.retries"},
		{"resolver", func(c *config.Config) { c.Download.Resolver = "scrape" }, "download.resolver"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			if err := cfg.Normalize(); err != nil {
				t.Fatalf("Normalize returned error: %v", err)
			}
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEnsureDirectoriesCreatesOutputAndScratch(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "out", "nested")
	cfg.Paths.ScratchDir = filepath.Join(base, "scratch")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.ScratchDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected %s to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %s to be a directory", dir)
		}
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	target := filepath.Join(tempHome, "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if decoded.Download.Workers != 10 {
		t.Fatalf("expected sample workers=10, got %d", decoded.Download.Workers)
	}

	if _, _, exists, err := config.Load(target); err != nil || !exists {
		t.Fatalf("expected sample config to load, exists=%v err=%v", exists, err)
	}
}
