package workflow

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"ytwhisper/internal/config"
	"ytwhisper/internal/fetch"
	"ytwhisper/internal/history"
	"ytwhisper/internal/logging"
	"ytwhisper/internal/services"
	"ytwhisper/internal/services/whisper"
	"ytwhisper/internal/subtitles"
)

// LockFileName is created in the output directory while a run holds it.
const LockFileName = ".ytwhisper.lock"

// Stage names attached to context and log lines.
const (
	StageResolve    = "resolve"
	StageFetch      = "fetch"
	StageTranscribe = "transcribe"
	StageWrite      = "write"
)

// ErrLocked reports that another run holds the output directory.
var ErrLocked = errors.New("output directory is locked by another run")

// Fetcher downloads audio for a batch of URLs.
type Fetcher interface {
	FetchAll(ctx context.Context, urls []string) ([]fetch.Result, []fetch.Failure)
}

// Transcriber turns one audio file into timed segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, opts whisper.Options) ([]subtitles.Segment, error)
}

// Recorder persists run and item outcomes. *history.Store satisfies it.
type Recorder interface {
	StartRun(ctx context.Context, run history.Run) error
	RecordItem(ctx context.Context, item history.Item) error
	FinishRun(ctx context.Context, runID string, runErr error) error
}

// Runner executes requests.
type Runner struct {
	resolver    fetch.Resolver
	fetcher     Fetcher
	transcriber Transcriber
	recorder    Recorder
	logger      *slog.Logger
	newRunID    func() string
	now         func() time.Time
}

// NewRunner wires the collaborators of a run. The resolver is only consulted
// for playlist requests and may be nil otherwise.
func NewRunner(resolver fetch.Resolver, fetcher Fetcher, transcriber Transcriber, logger *slog.Logger) *Runner {
	return &Runner{
		resolver:    resolver,
		fetcher:     fetcher,
		transcriber: transcriber,
		logger:      logging.NewComponentLogger(logger, "workflow"),
		newRunID:    uuid.NewString,
		now:         time.Now,
	}
}

// WithRecorder enables the history ledger.
func (r *Runner) WithRecorder(recorder Recorder) {
	r.recorder = recorder
}

// Run processes the request. Per-item fetch failures and skips are reported
// in the summary; a resolver, transcription or write failure is returned.
func (r *Runner) Run(ctx context.Context, req Request) (summary Summary, err error) {
	started := r.now()
	summary = Summary{RunID: r.newRunID()}
	if err := req.Validate(); err != nil {
		return summary, err
	}
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)

	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return summary, services.Wrap(services.ErrConfiguration, "workflow", "create output dir", req.OutputDir, err)
	}
	unlock, err := lockOutputDir(req.OutputDir)
	if err != nil {
		return summary, err
	}
	defer unlock()

	urls, err := r.resolve(ctx, req)
	summary.URLs = len(urls)
	r.startRun(ctx, summary, req)
	defer func() {
		summary.Duration = r.now().Sub(started)
	}()
	if err != nil {
		r.finishRun(ctx, summary.RunID, err)
		return summary, err
	}
	if len(urls) == 0 {
		logger.Info("nothing to process", logging.String("output_dir", req.OutputDir))
		r.finishRun(ctx, summary.RunID, nil)
		return summary, nil
	}

	logger.Info("fetching audio", logging.Int("entries", len(urls)))
	fetchCtx := services.WithStage(ctx, StageFetch)
	results, failures := r.fetcher.FetchAll(fetchCtx, urls)
	summary.Fetched = len(results)
	summary.Failures = failures
	for _, failure := range failures {
		r.record(ctx, history.Item{
			RunID:  summary.RunID,
			URL:    failure.URL,
			Status: history.StatusFetchFailed,
			Error:  errorText(failure.Err),
		})
	}
	for _, result := range results {
		r.record(ctx, history.Item{
			RunID:   summary.RunID,
			URL:     result.URL,
			VideoID: result.ID,
			Title:   result.Title,
			Status:  history.StatusFetched,
		})
	}
	logger.Info("audio fetch complete",
		logging.Int("fetched", len(results)),
		logging.Int("failed", len(failures)),
	)

	for _, result := range results {
		if err := ctx.Err(); err != nil {
			err = context.Cause(ctx)
			r.finishRun(ctx, summary.RunID, err)
			return summary, err
		}
		written, err := r.process(ctx, req, result)
		if err != nil {
			r.finishRun(ctx, summary.RunID, err)
			return summary, err
		}
		path := OutputPath(req.OutputDir, result, req.TitleModel, req.Format)
		if written {
			summary.Written = append(summary.Written, path)
		} else {
			summary.Skipped = append(summary.Skipped, path)
		}
	}

	logger.Info("run complete",
		logging.Int("written", len(summary.Written)),
		logging.Int("skipped", len(summary.Skipped)),
		logging.Int("failed", len(summary.Failures)),
		logging.Duration("stage_duration", r.now().Sub(started)),
	)
	r.finishRun(ctx, summary.RunID, nil)
	return summary, nil
}

func (r *Runner) resolve(ctx context.Context, req Request) ([]string, error) {
	if req.VideoType != config.VideoTypePlaylists {
		return req.URLs, nil
	}
	ctx = services.WithStage(ctx, StageResolve)
	logger := logging.WithContext(ctx, r.logger)
	if r.resolver == nil {
		return nil, services.Wrap(services.ErrConfiguration, StageResolve, "resolve playlist", "no playlist resolver configured", nil)
	}
	if len(req.URLs) > 1 {
		logging.WarnWithContext(logger, "only the first playlist URL is expanded", "extra_playlist_urls",
			logging.Int("ignored", len(req.URLs)-1),
			logging.String(logging.FieldImpact, "remaining URLs are not processed"),
		)
	}
	urls, err := r.resolver.Resolve(ctx, req.URLs[0])
	if err != nil {
		return nil, err
	}
	return urls, nil
}

// process handles one fetched item and reports whether a file was written.
func (r *Runner) process(ctx context.Context, req Request, result fetch.Result) (bool, error) {
	ctx = services.WithItemID(ctx, result.ID)
	path := OutputPath(req.OutputDir, result, req.TitleModel, req.Format)
	logger := logging.WithContext(ctx, r.logger)

	item := history.Item{
		URL:        result.URL,
		VideoID:    result.ID,
		Title:      result.Title,
		OutputPath: path,
	}

	if exists, err := fileExists(path); err != nil {
		return false, services.Wrap(services.ErrExternalTool, StageWrite, "stat output", path, err)
	} else if exists {
		logger.Info("subtitle already exists, skipping", logging.String("output_file", path))
		item.Status = history.StatusSkipped
		r.recordItem(ctx, item)
		return false, nil
	}

	transcribeCtx := services.WithStage(ctx, StageTranscribe)
	logging.WithContext(transcribeCtx, r.logger).Info("transcribing audio",
		logging.String("title", result.Title),
		logging.String("model", req.Transcription.Model),
		logging.String("task", req.Transcription.Task),
	)
	segments, err := r.transcriber.Transcribe(transcribeCtx, result.AudioPath, req.Transcription)
	if err != nil {
		item.Status = history.StatusTranscribeFailed
		item.Error = err.Error()
		r.recordItem(ctx, item)
		return false, fmt.Errorf("transcribe %s: %w", result.URL, err)
	}

	writeCtx := services.WithStage(ctx, StageWrite)
	created, err := writeSubtitle(path, req.Format, segments, req.BreakLines)
	if err != nil {
		item.Status = history.StatusWriteFailed
		item.Error = err.Error()
		r.recordItem(ctx, item)
		return false, err
	}
	if !created {
		logging.WithContext(writeCtx, r.logger).Info("subtitle already exists, skipping", logging.String("output_file", path))
		item.Status = history.StatusSkipped
		r.recordItem(ctx, item)
		return false, nil
	}
	logging.WithContext(writeCtx, r.logger).Info("subtitle written",
		logging.String("output_file", path),
		logging.String("format", string(req.Format)),
		logging.Int("entries", len(segments)),
	)
	item.Status = history.StatusWritten
	r.recordItem(ctx, item)
	return true, nil
}

// writeSubtitle creates path exclusively. It returns false without error when
// the file appeared after the existence check.
func writeSubtitle(path string, format subtitles.Format, segments []subtitles.Segment, width int) (bool, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, services.Wrap(services.ErrExternalTool, StageWrite, "create subtitle", path, err)
	}
	if err := subtitles.Write(file, format, segments, width); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return false, services.Wrap(services.ErrExternalTool, StageWrite, "write subtitle", path, err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return false, services.Wrap(services.ErrExternalTool, StageWrite, "close subtitle", path, err)
	}
	return true, nil
}

func lockOutputDir(dir string) (func(), error) {
	lock := flock.New(filepath.Join(dir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "workflow", "acquire lock", dir, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	return func() { _ = lock.Unlock() }, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (r *Runner) startRun(ctx context.Context, summary Summary, req Request) {
	if r.recorder == nil {
		return
	}
	err := r.recorder.StartRun(ctx, history.Run{
		ID:        summary.RunID,
		StartedAt: r.now(),
		URLCount:  summary.URLs,
		Model:     req.Transcription.Model,
		Format:    string(req.Format),
		OutputDir: req.OutputDir,
	})
	if err != nil {
		r.historyWarning(ctx, "start run", err)
		r.recorder = nil
	}
}

func (r *Runner) finishRun(ctx context.Context, runID string, runErr error) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.FinishRun(context.WithoutCancel(ctx), runID, runErr); err != nil {
		r.historyWarning(ctx, "finish run", err)
	}
}

func (r *Runner) recordItem(ctx context.Context, item history.Item) {
	if runID, ok := services.RunIDFromContext(ctx); ok {
		item.RunID = runID
	}
	r.record(ctx, item)
}

func (r *Runner) record(ctx context.Context, item history.Item) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.RecordItem(context.WithoutCancel(ctx), item); err != nil {
		r.historyWarning(ctx, "record item", err)
	}
}

func (r *Runner) historyWarning(ctx context.Context, op string, err error) {
	logging.WarnWithContext(logging.WithContext(ctx, r.logger), "history update failed", "history_failed",
		logging.String("operation", op),
		logging.Error(err),
		logging.String(logging.FieldImpact, "run history is incomplete"),
		logging.String(logging.FieldErrorHint, "check history.path permissions or disable history"),
	)
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
