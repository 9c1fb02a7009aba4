package ytdlp_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"testing"

	"ytwhisper/internal/services"
	"ytwhisper/internal/services/ytdlp"
)

type fakeRunner struct {
	calls  []services.Command
	stdout string
	err    error
}

func (f *fakeRunner) run(_ context.Context, cmd services.Command) error {
	f.calls = append(f.calls, cmd)
	if cmd.Stdout != nil && f.stdout != "" {
		fmt.Fprint(cmd.Stdout, f.stdout)
	}
	return f.err
}

func TestFetchAudioBuildsCommandAndParsesInfo(t *testing.T) {
	runner := &fakeRunner{stdout: "[youtube] noise\n{\"id\": \"abc123\", \"title\": \"A: Title?\", \"duration\": 61}\n"}
	client := ytdlp.New("", ytdlp.WithCommandRunner(runner.run))

	dl, err := client.FetchAudio(context.Background(), "https://www.youtube.com/watch?v=abc123", "/scratch")
	if err != nil {
		t.Fatalf("FetchAudio returned error: %v", err)
	}
	if dl.ID != "abc123" || dl.Title != "A: Title?" || dl.Duration != 61 {
		t.Fatalf("unexpected info %+v", dl.Info)
	}
	if dl.AudioPath != filepath.Join("/scratch", "abc123.mp3") {
		t.Fatalf("unexpected audio path %q", dl.AudioPath)
	}

	cmd := runner.calls[0]
	if cmd.Name != "yt-dlp" {
		t.Fatalf("expected default binary, got %q", cmd.Name)
	}
	want := []string{
		"-f", "bestaudio", "-x", "--audio-format", "mp3", "--audio-quality", "192",
		"--no-playlist", "-o", filepath.Join("/scratch", "%(id)s.%(ext)s"), "-j", "--no-simulate",
		"https://www.youtube.com/watch?v=abc123",
	}
	if !slices.Equal(cmd.Args, want) {
		t.Fatalf("unexpected args\n got %q\nwant %q", cmd.Args, want)
	}
}

func TestFetchAudioHonoursAudioOverrides(t *testing.T) {
	runner := &fakeRunner{stdout: `{"id": "x1", "title": "t"}`}
	client := ytdlp.New("/usr/local/bin/yt-dlp", ytdlp.WithCommandRunner(runner.run), ytdlp.WithAudio("m4a", "0"))

	dl, err := client.FetchAudio(context.Background(), "u", "/tmp")
	if err != nil {
		t.Fatalf("FetchAudio returned error: %v", err)
	}
	if dl.AudioPath != filepath.Join("/tmp", "x1.m4a") {
		t.Fatalf("unexpected path %q", dl.AudioPath)
	}
	if !slices.Contains(runner.calls[0].Args, "m4a") || !slices.Contains(runner.calls[0].Args, "0") {
		t.Fatalf("expected overrides in args %q", runner.calls[0].Args)
	}
}

func TestFetchAudioErrors(t *testing.T) {
	tests := []struct {
		name        string
		runner      *fakeRunner
		unavailable bool
	}{
		{"tool failure", &fakeRunner{err: errors.New("yt-dlp: exit status 1: network unreachable")}, false},
		{"private video", &fakeRunner{err: errors.New("yt-dlp: exit status 1: ERROR: [youtube] abc: Private video")}, true},
		{"no json", &fakeRunner{stdout: "nothing useful\n"}, false},
		{"missing id", &fakeRunner{stdout: `{"title": "no id"}`}, false},
	}
	for _, tt := range tests {
		client := ytdlp.New("yt-dlp", ytdlp.WithCommandRunner(tt.runner.run))
		_, err := client.FetchAudio(context.Background(), "https://youtu.be/abc", "/scratch")
		if err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
		if !errors.Is(err, services.ErrExternalTool) {
			t.Fatalf("%s: expected external tool marker, got %v", tt.name, err)
		}
		if got := errors.Is(err, ytdlp.ErrUnavailable); got != tt.unavailable {
			t.Fatalf("%s: unavailable = %v, want %v (%v)", tt.name, got, tt.unavailable, err)
		}
	}
}

func TestFetchAudioRequiresInputs(t *testing.T) {
	client := ytdlp.New("yt-dlp", ytdlp.WithCommandRunner((&fakeRunner{}).run))
	if _, err := client.FetchAudio(context.Background(), "", "/scratch"); err == nil {
		t.Fatal("expected error for empty url")
	}
	if _, err := client.FetchAudio(context.Background(), "u", " "); err == nil {
		t.Fatal("expected error for empty dest dir")
	}
}

func TestResolveReturnsEntriesInOrder(t *testing.T) {
	runner := &fakeRunner{stdout: `{
		"id": "PL1", "title": "My List",
		"entries": [
			{"id": "b", "url": "https://www.youtube.com/watch?v=b", "title": "B"},
			{"id": "a", "url": "", "title": "A"},
			{"id": "c", "url": "https://www.youtube.com/watch?v=c"}
		]
	}`}
	client := ytdlp.New("yt-dlp", ytdlp.WithCommandRunner(runner.run))

	urls, err := client.Resolve(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	want := []string{
		"https://www.youtube.com/watch?v=b",
		"https://www.youtube.com/watch?v=a",
		"https://www.youtube.com/watch?v=c",
	}
	if !slices.Equal(urls, want) {
		t.Fatalf("Resolve = %q, want %q", urls, want)
	}
	if !slices.Equal(runner.calls[0].Args, []string{"--flat-playlist", "-J", "https://www.youtube.com/playlist?list=PL1"}) {
		t.Fatalf("unexpected args %q", runner.calls[0].Args)
	}
}

func TestResolveEmptyPlaylist(t *testing.T) {
	runner := &fakeRunner{stdout: `{"id": "PL2", "title": "Empty", "entries": []}`}
	client := ytdlp.New("yt-dlp", ytdlp.WithCommandRunner(runner.run))
	urls, err := client.Resolve(context.Background(), "https://www.youtube.com/playlist?list=PL2")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(urls) != 0 {
		t.Fatalf("expected no urls, got %q", urls)
	}
}

func TestResolveFailures(t *testing.T) {
	for name, runner := range map[string]*fakeRunner{
		"tool":      {err: errors.New("exit status 1")},
		"malformed": {stdout: "not json"},
	} {
		client := ytdlp.New("yt-dlp", ytdlp.WithCommandRunner(runner.run))
		if _, err := client.Resolve(context.Background(), "https://www.youtube.com/playlist?list=x"); !errors.Is(err, services.ErrExternalTool) {
			t.Fatalf("%s: expected external tool error, got %v", name, err)
		}
	}
}

func TestVersion(t *testing.T) {
	runner := &fakeRunner{stdout: "2025.10.22\n"}
	client := ytdlp.New("yt-dlp", ytdlp.WithCommandRunner(runner.run))
	version, err := client.Version(context.Background())
	if err != nil {
		t.Fatalf("Version returned error: %v", err)
	}
	if version != "2025.10.22" {
		t.Fatalf("unexpected version %q", version)
	}
}
