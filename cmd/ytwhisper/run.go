package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ytwhisper/internal/config"
	"ytwhisper/internal/deps"
	"ytwhisper/internal/fetch"
	"ytwhisper/internal/history"
	"ytwhisper/internal/logging"
	"ytwhisper/internal/preflight"
	"ytwhisper/internal/services"
	"ytwhisper/internal/services/whisper"
	"ytwhisper/internal/services/youtube"
	"ytwhisper/internal/services/ytdlp"
	"ytwhisper/internal/workflow"
)

const nativeResolverTimeout = 30 * time.Second

func runTranscribe(cmd *cobra.Command, ctx *commandContext, flags *runFlags, urls []string) error {
	loaded, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg := *loaded
	flags.apply(cmd.Flags(), &cfg)
	if err := cfg.Normalize(); err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "normalize", "", err)
	}
	if err := cfg.Validate(); err != nil {
		return services.Wrap(services.ErrValidation, "config", "validate", "", err)
	}

	logger, err := ctx.logger(&cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if err := checkEnvironment(cmd.Context(), ctx, &cfg); err != nil {
		return err
	}

	req, err := workflow.RequestFromConfig(&cfg, urls)
	if err != nil {
		return err
	}

	runner, closeRunner, err := buildRunner(cmd, ctx, &cfg, logger)
	if err != nil {
		return err
	}
	defer closeRunner()

	summary, runErr := runner.Run(cmd.Context(), req)
	out := cmd.OutOrStdout()
	for _, line := range summaryLines(summary, req.Format, shouldColorize(out)) {
		fmt.Fprintln(out, line)
	}
	return runErr
}

func checkEnvironment(ctx context.Context, cc *commandContext, cfg *config.Config) error {
	if failed := preflight.Failed(preflight.RunAll(ctx, cfg)); len(failed) > 0 {
		problems := make([]string, 0, len(failed))
		for _, f := range failed {
			problems = append(problems, fmt.Sprintf("%s: %s", f.Name, f.Detail))
		}
		return services.Wrap(services.ErrConfiguration, "preflight", "directories", strings.Join(problems, "; "), nil)
	}
	if cc.checkDeps == nil {
		return nil
	}
	if missing := deps.Missing(cc.checkDeps(cfg)); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, m := range missing {
			names = append(names, fmt.Sprintf("%s (%s)", m.Name, m.Command))
		}
		return services.Wrap(services.ErrConfiguration, "preflight", "dependencies",
			"missing "+strings.Join(names, ", ")+"; run 'ytwhisper doctor' for details", nil)
	}
	return nil
}

func buildRunner(cmd *cobra.Command, cc *commandContext, cfg *config.Config, logger *slog.Logger) (*workflow.Runner, func(), error) {
	client := ytdlp.New(cfg.DownloaderBinary(),
		ytdlp.WithCommandRunner(cc.commandRunner),
		ytdlp.WithLogger(logging.NewComponentLogger(logger, "ytdlp")),
		ytdlp.WithAudio(cfg.Download.AudioFormat, cfg.Download.AudioQuality),
	)

	var resolver fetch.Resolver = client
	if cfg.Download.Resolver == config.ResolverNative {
		resolver = youtube.NewResolver(nativeResolverTimeout, logging.NewComponentLogger(logger, "youtube"))
	}

	fetcher := fetch.New(client, fetch.Options{
		ScratchDir:  cfg.Paths.ScratchDir,
		AudioFormat: client.AudioFormat(),
		Workers:     cfg.Download.Workers,
		Retries:     cfg.Download.Retries,
	}, logger)

	transcriber := whisper.NewService(cfg.Transcription.Runner, cfg.Paths.ScratchDir, logging.NewComponentLogger(logger, "whisper"))
	transcriber.WithCommandRunner(cc.commandRunner)
	transcriber.WithVerboseOutput(cmd.ErrOrStderr())

	runner := workflow.NewRunner(resolver, fetcher, transcriber, logger)
	closer := func() {}
	if cfg.History.Enabled {
		store, err := history.Open(cmd.Context(), cfg.History.Path)
		if err != nil {
			if errors.Is(err, history.ErrSchemaMismatch) {
				return nil, nil, services.Wrap(services.ErrConfiguration, "history", "open", "", err)
			}
			logging.WarnWithContext(logger, "history unavailable", "history_unavailable",
				logging.Error(err),
				logging.String(logging.FieldImpact, "this run is not recorded"),
				logging.String(logging.FieldErrorHint, "check history.path or disable history"),
			)
		} else {
			runner.WithRecorder(store)
			closer = func() { _ = store.Close() }
		}
	}
	return runner, closer, nil
}
