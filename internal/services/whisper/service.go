package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ytwhisper/internal/services"
	"ytwhisper/internal/subtitles"
)

// Service provides Whisper transcription capabilities.
type Service struct {
	runner        string
	workRoot      string
	verboseOut    io.Writer
	logger        *slog.Logger
	commandRunner services.CommandRunner
}

// NewService creates a Whisper service. runner is the launcher binary ("uvx")
// or a directly installed whisper executable. workRoot holds the per-call
// output directories; empty uses the system temp directory.
func NewService(runner, workRoot string, logger *slog.Logger) *Service {
	runner = strings.TrimSpace(runner)
	if runner == "" {
		runner = UVXCommand
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		runner:        runner,
		workRoot:      workRoot,
		verboseOut:    os.Stderr,
		logger:        logger,
		commandRunner: services.RunCommand,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner services.CommandRunner) {
	if runner != nil {
		s.commandRunner = runner
	}
}

// WithVerboseOutput redirects verbose model output.
func (s *Service) WithVerboseOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	s.verboseOut = w
}

// Transcribe runs Whisper on audioPath and returns its segments in order.
func (s *Service) Transcribe(ctx context.Context, audioPath string, opts Options) ([]subtitles.Segment, error) {
	if strings.TrimSpace(audioPath) == "" {
		return nil, services.Wrap(services.ErrValidation, "transcribe", "whisper", "audio path required", nil)
	}
	opts = s.normalizeOptions(opts)

	workDir, err := os.MkdirTemp(s.workRoot, "whisper-")
	if err != nil {
		return nil, fmt.Errorf("transcribe: create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	cmd := s.buildCommand(audioPath, workDir, opts)
	s.logger.Debug("whisper command prepared", slog.String("command", cmd.String()))
	if err := s.commandRunner(ctx, cmd); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "whisper", "model invocation failed", err)
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	segments, err := LoadSegments(filepath.Join(workDir, base+".json"))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "load output", "", err)
	}
	return segments, nil
}

func (s *Service) normalizeOptions(opts Options) Options {
	opts.Model = strings.TrimSpace(opts.Model)
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	opts.Task = strings.ToLower(strings.TrimSpace(opts.Task))
	if opts.Task == "" {
		opts.Task = TaskTranscribe
	}
	opts.Language = strings.TrimSpace(opts.Language)
	if IsEnglishOnly(opts.Model) && opts.Language != EnglishCode {
		if opts.Language != "" {
			s.logger.Warn("english-only model selected; forcing language",
				slog.String("model", opts.Model),
				slog.String("requested_language", opts.Language),
				slog.String("language", EnglishCode),
			)
		}
		opts.Language = EnglishCode
	}
	return opts
}

// buildCommand constructs the Whisper invocation for one audio file.
func (s *Service) buildCommand(audioPath, outputDir string, opts Options) services.Command {
	args := make([]string, 0, 16)
	if filepath.Base(s.runner) == UVXCommand {
		args = append(args, "--from", PackageName, EntryPoint)
	}
	args = append(args,
		audioPath,
		"--model", opts.Model,
		"--task", opts.Task,
	)
	if opts.Language != "" {
		args = append(args, "--language", opts.Language)
	}
	args = append(args,
		"--verbose", pythonBool(opts.Verbose),
		"--output_format", OutputFormat,
		"--output_dir", outputDir,
	)

	cmd := services.Command{Name: s.runner, Args: args}
	if opts.SuppressWarnings {
		cmd.Env = []string{"PYTHONWARNINGS=ignore"}
	}
	if opts.Verbose {
		cmd.Stdout = s.verboseOut
		cmd.Stderr = s.verboseOut
	}
	return cmd
}

func pythonBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

type whisperPayload struct {
	Language string              `json:"language"`
	Segments []subtitles.Segment `json:"segments"`
}

// LoadSegments loads segments from a Whisper JSON output file.
func LoadSegments(jsonPath string) ([]subtitles.Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisper json: %w", err)
	}
	return payload.Segments, nil
}
