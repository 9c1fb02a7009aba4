package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"ytwhisper/internal/config"
	"ytwhisper/internal/deps"
	"ytwhisper/internal/logging"
	"ytwhisper/internal/preflight"
	"ytwhisper/internal/services"
)

type commandContext struct {
	configFlag string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	// commandRunner executes yt-dlp and Whisper. Tests swap it for a fake.
	commandRunner services.CommandRunner
	// checkDeps reports missing external programs before a run.
	checkDeps func(*config.Config) []deps.Status
}

func newCommandContext() *commandContext {
	return &commandContext{
		commandRunner: services.RunCommand,
		checkDeps:     preflight.CheckSystemDeps,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	logger, err := logging.NewFromConfig(cfg, w)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "logging", "init", "", err)
	}
	return logger, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
