package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"ytwhisper/internal/logging"
	"ytwhisper/internal/media/audio"
	"ytwhisper/internal/services"
	"ytwhisper/internal/services/youtube"
	"ytwhisper/internal/services/ytdlp"
	"ytwhisper/internal/textutil"
)

const (
	DefaultWorkers        = 10
	defaultInitialBackoff = 2 * time.Second
	defaultMaxBackoff     = 30 * time.Second
)

// Options controls the pool.
type Options struct {
	ScratchDir  string
	AudioFormat string
	Workers     int
	// Retries is the number of extra attempts per URL. Zero disables retry.
	Retries        int
	InitialBackoff time.Duration
}

// ProbeFunc validates a downloaded file.
type ProbeFunc func(path, format string) (audio.Info, error)

// Fetcher runs downloads in parallel.
type Fetcher struct {
	downloader Downloader
	opts       Options
	logger     *slog.Logger
	probe      ProbeFunc
}

// New constructs a Fetcher.
func New(downloader Downloader, opts Options, logger *slog.Logger) *Fetcher {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = defaultInitialBackoff
	}
	if strings.TrimSpace(opts.AudioFormat) == "" {
		opts.AudioFormat = ytdlp.DefaultAudioFormat
	}
	if strings.TrimSpace(opts.ScratchDir) == "" {
		opts.ScratchDir = os.TempDir()
	}
	return &Fetcher{
		downloader: downloader,
		opts:       opts,
		logger:     logging.NewComponentLogger(logger, "fetch"),
		probe:      audio.Probe,
	}
}

// WithProbe replaces the downloaded-file check (primarily for tests).
func (f *Fetcher) WithProbe(probe ProbeFunc) {
	if probe != nil {
		f.probe = probe
	}
}

// FetchAll downloads every URL and returns successes in completion order plus
// the failures. Results are unique by video ID; a second URL resolving to an
// ID already fetched is dropped.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) ([]Result, []Failure) {
	if len(urls) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(f.opts.ScratchDir, 0o755); err != nil {
		failures := make([]Failure, 0, len(urls))
		for _, u := range urls {
			failures = append(failures, f.fail(ctx, u, fmt.Errorf("create scratch dir: %w", err)))
		}
		return nil, failures
	}

	workers := min(f.opts.Workers, len(urls))
	jobs := make(chan string)
	type outcome struct {
		result Result
		fail   *Failure
	}
	outcomes := make(chan outcome)

	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for u := range jobs {
				res, err := f.fetchOne(ctx, u)
				if err != nil {
					failure := f.fail(ctx, u, err)
					outcomes <- outcome{fail: &failure}
					continue
				}
				outcomes <- outcome{result: res}
			}
		})
	}

	go func() {
		defer close(jobs)
		for _, u := range urls {
			select {
			case jobs <- u:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	seen := make(map[string]struct{}, len(urls))
	attempted := make(map[string]int, len(urls))
	var results []Result
	var failures []Failure
	for o := range outcomes {
		if o.fail != nil {
			attempted[o.fail.URL]++
			failures = append(failures, *o.fail)
			continue
		}
		attempted[o.result.URL]++
		if _, dup := seen[o.result.ID]; dup {
			f.logger.Info("duplicate video skipped",
				logging.String(logging.FieldItemID, o.result.ID),
				logging.String("url", o.result.URL),
			)
			continue
		}
		seen[o.result.ID] = struct{}{}
		results = append(results, o.result)
	}

	// URLs never handed to a worker because the context ended.
	for _, u := range urls {
		if attempted[u] > 0 {
			attempted[u]--
			continue
		}
		failures = append(failures, Failure{URL: u, Err: context.Cause(ctx)})
	}
	return results, failures
}

func (f *Fetcher) fetchOne(ctx context.Context, url string) (Result, error) {
	itemCtx := services.WithStage(services.WithItemID(ctx, itemKey(url)), "fetch")
	logger := logging.WithContext(itemCtx, f.logger)

	var result Result
	operation := func() error {
		res, err := f.attempt(itemCtx, url)
		if err != nil {
			if isPermanent(err) || itemCtx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		result = res
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = f.opts.InitialBackoff
	policy.MaxInterval = defaultMaxBackoff
	policy.MaxElapsedTime = 0
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(f.opts.Retries)), itemCtx)

	notify := func(err error, wait time.Duration) {
		logger.Warn("fetch attempt failed; retrying",
			logging.String("url", url),
			logging.Duration("backoff", wait),
			logging.Error(err),
		)
	}
	if err := backoff.RetryNotify(operation, retry, notify); err != nil {
		return Result{}, err
	}

	logger = logging.WithContext(services.WithItemID(itemCtx, result.ID), f.logger)
	logger.Info("audio downloaded",
		logging.String("title", result.Title),
		logging.Int64("audio_bytes", result.AudioBytes),
		logging.String("audio_path", result.AudioPath),
	)
	return result, nil
}

func (f *Fetcher) attempt(ctx context.Context, url string) (Result, error) {
	dl, err := f.downloader.FetchAudio(ctx, url, f.opts.ScratchDir)
	if err != nil {
		return Result{}, err
	}
	info, err := f.probe(dl.AudioPath, f.opts.AudioFormat)
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "fetch", "probe", "downloaded audio unusable", err)
	}
	return Result{
		ID:           dl.ID,
		URL:          url,
		Title:        dl.Title,
		DisplayTitle: DisplayTitle(dl.Title, dl.ID),
		AudioPath:    dl.AudioPath,
		AudioBytes:   info.Size,
	}, nil
}

func (f *Fetcher) fail(ctx context.Context, url string, err error) Failure {
	itemCtx := services.WithStage(services.WithItemID(ctx, itemKey(url)), "fetch")
	logging.WarnWithContext(logging.WithContext(itemCtx, f.logger),
		fmt.Sprintf("%s generated an exception", url),
		"fetch_failed",
		logging.String("url", url),
		logging.Error(err),
		logging.String(logging.FieldImpact, "item skipped; remaining items continue"),
		logging.String(logging.FieldErrorHint, "check the URL plays in a browser and that yt-dlp is up to date"),
	)
	return Failure{URL: url, Err: err}
}

// DisplayTitle builds the human-readable, filesystem-safe item title.
func DisplayTitle(title, id string) string {
	return textutil.SanitizeTitle(fmt.Sprintf("%s [%s]", title, id))
}

func isPermanent(err error) bool {
	return errors.Is(err, ytdlp.ErrUnavailable) ||
		errors.Is(err, audio.ErrUnexpectedType) ||
		errors.Is(err, services.ErrValidation)
}

// itemKey labels log lines for a URL before its video ID is known.
func itemKey(url string) string {
	if id, ok := youtube.VideoID(url); ok {
		return id
	}
	return url
}
