package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ytwhisper/internal/deps"
	"ytwhisper/internal/preflight"
	"ytwhisper/internal/services/ytdlp"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools and directory permissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var statuses []deps.Status
			if ctx.checkDeps != nil {
				statuses = ctx.checkDeps(cfg)
			}
			lines := renderSectionHeader("Dependencies", colorize)
			lines = append(lines, dependencyLines(statuses, colorize)...)

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Versions", colorize)...)
			client := ytdlp.New(cfg.DownloaderBinary(), ytdlp.WithCommandRunner(ctx.commandRunner))
			lines = append(lines, resultLine(preflight.CheckVersion(cmd.Context(), "yt-dlp", client.Version), statusWarn, colorize))

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Paths", colorize)...)
			checks := preflight.RunAll(cmd.Context(), cfg)
			checks = append(checks, preflight.CheckHistoryFromConfig(cfg))
			for _, check := range checks {
				lines = append(lines, resultLine(check, statusError, colorize))
			}

			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func resultLine(result preflight.Result, failKind statusKind, colorize bool) string {
	if result.Passed {
		return renderStatusLine(result.Name, statusOK, result.Detail, colorize)
	}
	return renderStatusLine(result.Name, failKind, result.Detail, colorize)
}

func dependencyLines(statuses []deps.Status, colorize bool) []string {
	lines := make([]string, 0, len(statuses)+1)
	missing := make([]string, 0)
	for _, dep := range statuses {
		if dep.Available {
			message := "Ready"
			if dep.Command != "" {
				message = fmt.Sprintf("Ready (command: %s)", dep.Command)
			}
			lines = append(lines, renderStatusLine(dep.Name, statusOK, message, colorize))
			continue
		}

		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		kind := statusError
		if dep.Optional {
			kind = statusWarn
		}
		lines = append(lines, renderStatusLine(dep.Name, kind, detail, colorize))
		if !dep.Optional {
			missing = append(missing, dep.Name)
		}
	}
	if len(missing) > 0 {
		lines = append(lines, renderStatusLine("Missing dependencies", statusWarn, strings.Join(missing, ", ")+" (install them and re-run 'ytwhisper doctor')", colorize))
	}
	return lines
}
