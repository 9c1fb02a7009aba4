package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ytwhisper/internal/services"
)

const (
	DefaultBinary       = "yt-dlp"
	DefaultAudioFormat  = "mp3"
	DefaultAudioQuality = "192"
)

// ErrUnavailable marks videos yt-dlp reports as private, removed, or otherwise
// not downloadable. Retrying them cannot succeed.
var ErrUnavailable = errors.New("video unavailable")

var unavailableMarkers = []string{
	"private video",
	"video unavailable",
	"this video is not available",
	"has been removed",
	"members-only",
	"sign in to confirm your age",
	"unsupported url",
	"is not a valid url",
}

// Option configures the client.
type Option func(*Client)

// WithCommandRunner injects a custom runner (primarily for tests).
func WithCommandRunner(runner services.CommandRunner) Option {
	return func(c *Client) {
		if runner != nil {
			c.run = runner
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithAudio overrides the transcoding target.
func WithAudio(format, quality string) Option {
	return func(c *Client) {
		if format = strings.TrimSpace(format); format != "" {
			c.audioFormat = format
		}
		if quality = strings.TrimSpace(quality); quality != "" {
			c.audioQuality = quality
		}
	}
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary       string
	audioFormat  string
	audioQuality string
	logger       *slog.Logger
	run          services.CommandRunner
}

// New constructs a yt-dlp client.
func New(binary string, opts ...Option) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	c := &Client{
		binary:       binary,
		audioFormat:  DefaultAudioFormat,
		audioQuality: DefaultAudioQuality,
		logger:       slog.New(slog.DiscardHandler),
		run:          services.RunCommand,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Binary returns the configured executable.
func (c *Client) Binary() string {
	return c.binary
}

// AudioFormat returns the extension of produced audio files.
func (c *Client) AudioFormat() string {
	return c.audioFormat
}

// Version reports the installed yt-dlp version.
func (c *Client) Version(ctx context.Context) (string, error) {
	var stdout bytes.Buffer
	if err := c.exec(ctx, &stdout, "--version"); err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (c *Client) exec(ctx context.Context, stdout *bytes.Buffer, args ...string) error {
	cmd := services.Command{Name: c.binary, Args: args, Stdout: stdout}
	c.logger.Debug("yt-dlp command prepared", slog.String("command", cmd.String()))
	if err := c.run(ctx, cmd); err != nil {
		if isUnavailable(err) {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return err
	}
	return nil
}

func isUnavailable(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range unavailableMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
