package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ytwhisper/internal/logging"
	"ytwhisper/internal/media/audio"
	"ytwhisper/internal/services/ytdlp"
)

type stubDownloader struct {
	mu       sync.Mutex
	calls    map[string]int
	respond  func(url string, attempt int) (ytdlp.Download, error)
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
}

func (s *stubDownloader) FetchAudio(ctx context.Context, url, destDir string) (ytdlp.Download, error) {
	if err := ctx.Err(); err != nil {
		return ytdlp.Download{}, err
	}
	current := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		peak := s.peak.Load()
		if current <= peak || s.peak.CompareAndSwap(peak, current) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[url]++
	attempt := s.calls[url]
	s.mu.Unlock()
	return s.respond(url, attempt)
}

func (s *stubDownloader) attempts(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[url]
}

func okDownload(id, title string) (ytdlp.Download, error) {
	return ytdlp.Download{
		Info:      ytdlp.Info{ID: id, Title: title},
		AudioPath: filepath.Join("/scratch", id+".mp3"),
	}, nil
}

func acceptAll(path, _ string) (audio.Info, error) {
	return audio.Info{Path: path, Size: 1024}, nil
}

func newTestFetcher(t *testing.T, d Downloader, opts Options) (*Fetcher, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &logs})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	if opts.ScratchDir == "" {
		opts.ScratchDir = t.TempDir()
	}
	f := New(d, opts, logger)
	f.WithProbe(acceptAll)
	return f, &logs
}

func TestFetchAllPartialFailure(t *testing.T) {
	urls := []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"}
	d := &stubDownloader{respond: func(url string, _ int) (ytdlp.Download, error) {
		if url == urls[1] {
			return ytdlp.Download{}, errors.New("HTTP Error 404")
		}
		id := url[len(url)-1:]
		return okDownload("vid"+id, "Video "+id)
	}}
	f, logs := newTestFetcher(t, d, Options{})

	results, failures := f.FetchAll(context.Background(), urls)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if len(failures) != 1 || failures[0].URL != urls[1] {
		t.Fatalf("expected one failure for %s, got %+v", urls[1], failures)
	}
	if !strings.Contains(logs.String(), urls[1]+" generated an exception") {
		t.Fatalf("expected warning naming the failed url, got %q", logs.String())
	}
	ids := map[string]bool{}
	for _, r := range results {
		ids[r.ID] = true
	}
	if !ids["vid1"] || !ids["vid3"] {
		t.Fatalf("unexpected result ids %v", ids)
	}
}

func TestFetchAllBuildsSanitizedDisplayTitle(t *testing.T) {
	d := &stubDownloader{respond: func(string, int) (ytdlp.Download, error) {
		return okDownload("abc", `What? A/B: "test"`)
	}}
	f, _ := newTestFetcher(t, d, Options{})
	results, failures := f.FetchAll(context.Background(), []string{"https://example.com/v"})
	if len(failures) != 0 || len(results) != 1 {
		t.Fatalf("unexpected outcome %+v %+v", results, failures)
	}
	r := results[0]
	if r.DisplayTitle != "What？ A／B： ＂test＂ [abc]" {
		t.Fatalf("unexpected display title %q", r.DisplayTitle)
	}
	if r.Title != `What? A/B: "test"` || r.URL != "https://example.com/v" || r.AudioBytes != 1024 {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestFetchAllKeysByVideoID(t *testing.T) {
	d := &stubDownloader{respond: func(url string, _ int) (ytdlp.Download, error) {
		// Two URLs for the same video, plus a different video sharing its title.
		if strings.HasSuffix(url, "other") {
			return okDownload("other", "Same Title")
		}
		return okDownload("same", "Same Title")
	}}
	f, _ := newTestFetcher(t, d, Options{})
	results, failures := f.FetchAll(context.Background(), []string{
		"https://youtu.be/same", "https://www.youtube.com/watch?v=same", "https://example.com/other",
	})
	if len(failures) != 0 {
		t.Fatalf("unexpected failures %+v", failures)
	}
	if len(results) != 2 {
		t.Fatalf("expected results deduplicated by id (2), got %d", len(results))
	}
}

func TestFetchAllRespectsWorkerBound(t *testing.T) {
	d := &stubDownloader{delay: 5 * time.Millisecond, respond: func(url string, _ int) (ytdlp.Download, error) {
		return okDownload(url, url)
	}}
	f, _ := newTestFetcher(t, d, Options{Workers: 3})
	urls := make([]string, 20)
	for i := range urls {
		urls[i] = fmt.Sprintf("u%02d", i)
	}
	results, failures := f.FetchAll(context.Background(), urls)
	if len(results) != 20 || len(failures) != 0 {
		t.Fatalf("expected 20 results, got %d results %d failures", len(results), len(failures))
	}
	if peak := d.peak.Load(); peak > 3 || peak < 1 {
		t.Fatalf("expected at most 3 concurrent fetches, saw %d", peak)
	}
}

func TestFetchAllRetriesTransientFailures(t *testing.T) {
	d := &stubDownloader{respond: func(url string, attempt int) (ytdlp.Download, error) {
		if attempt < 3 {
			return ytdlp.Download{}, errors.New("connection reset")
		}
		return okDownload("abc", "t")
	}}
	f, _ := newTestFetcher(t, d, Options{Retries: 2, InitialBackoff: time.Millisecond})
	results, failures := f.FetchAll(context.Background(), []string{"u"})
	if len(results) != 1 || len(failures) != 0 {
		t.Fatalf("expected success after retries, got %+v %+v", results, failures)
	}
	if got := d.attempts("u"); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestFetchAllDoesNotRetryByDefault(t *testing.T) {
	d := &stubDownloader{respond: func(string, int) (ytdlp.Download, error) {
		return ytdlp.Download{}, errors.New("connection reset")
	}}
	f, _ := newTestFetcher(t, d, Options{})
	_, failures := f.FetchAll(context.Background(), []string{"u"})
	if len(failures) != 1 {
		t.Fatalf("expected one failure, got %+v", failures)
	}
	if got := d.attempts("u"); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestFetchAllNeverRetriesUnavailableVideos(t *testing.T) {
	d := &stubDownloader{respond: func(string, int) (ytdlp.Download, error) {
		return ytdlp.Download{}, fmt.Errorf("%w: Private video", ytdlp.ErrUnavailable)
	}}
	f, _ := newTestFetcher(t, d, Options{Retries: 3, InitialBackoff: time.Millisecond})
	_, failures := f.FetchAll(context.Background(), []string{"u"})
	if len(failures) != 1 || !errors.Is(failures[0].Err, ytdlp.ErrUnavailable) {
		t.Fatalf("expected unavailable failure, got %+v", failures)
	}
	if got := d.attempts("u"); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestFetchAllProbeFailure(t *testing.T) {
	d := &stubDownloader{respond: func(string, int) (ytdlp.Download, error) {
		return okDownload("abc", "t")
	}}
	f, _ := newTestFetcher(t, d, Options{})
	f.WithProbe(func(path, _ string) (audio.Info, error) {
		return audio.Info{}, fmt.Errorf("%w: %s", audio.ErrEmpty, path)
	})
	results, failures := f.FetchAll(context.Background(), []string{"u"})
	if len(results) != 0 || len(failures) != 1 {
		t.Fatalf("expected probe failure, got %+v %+v", results, failures)
	}
	if !errors.Is(failures[0], audio.ErrEmpty) {
		t.Fatalf("expected ErrEmpty in chain, got %v", failures[0])
	}
}

func TestFetchAllEmptyInput(t *testing.T) {
	f, _ := newTestFetcher(t, &stubDownloader{}, Options{})
	results, failures := f.FetchAll(context.Background(), nil)
	if results != nil || failures != nil {
		t.Fatalf("expected nothing, got %+v %+v", results, failures)
	}
}

func TestFetchAllCanceledContext(t *testing.T) {
	d := &stubDownloader{respond: func(string, int) (ytdlp.Download, error) {
		return okDownload("abc", "t")
	}}
	f, _ := newTestFetcher(t, d, Options{Workers: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, failures := f.FetchAll(ctx, []string{"a", "b", "c"})
	if len(results) != 0 || len(failures) != 3 {
		t.Fatalf("expected every url reported as failed, got %d results %d failures", len(results), len(failures))
	}
	for _, failure := range failures {
		if !errors.Is(failure.Err, context.Canceled) {
			t.Fatalf("expected cancellation cause, got %v", failure.Err)
		}
	}
}

func TestDisplayTitle(t *testing.T) {
	if got := DisplayTitle("a|b", "id1"); got != "a｜b [id1]" {
		t.Fatalf("unexpected display title %q", got)
	}
}
