package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"ytwhisper/internal/config"
	"ytwhisper/internal/deps"
	"ytwhisper/internal/services"
)

const (
	videoOne   = "https://www.youtube.com/watch?v=aaaaaaaaaaa"
	videoTwo   = "https://www.youtube.com/watch?v=bbbbbbbbbbb"
	videoThree = "https://www.youtube.com/watch?v=ccccccccccc"
	brokenID   = "bbbbbbbbbbb"
)

// fakeTools emulates yt-dlp and the Whisper CLI.
type fakeTools struct {
	mu          sync.Mutex
	titles      map[string]string
	playlist    []string
	transcribed []string
	whisperEnv  [][]string
}

func newFakeTools() *fakeTools {
	return &fakeTools{titles: map[string]string{
		"aaaaaaaaaaa": "Intro: Go/Concurrency",
		"bbbbbbbbbbb": "Private",
		"ccccccccccc": "Outro?",
	}}
}

func (f *fakeTools) run(_ context.Context, cmd services.Command) error {
	switch cmd.Name {
	case "yt-dlp":
		return f.ytdlp(cmd)
	case "uvx":
		return f.whisper(cmd)
	default:
		return fmt.Errorf("unexpected command %s", cmd.Name)
	}
}

func (f *fakeTools) ytdlp(cmd services.Command) error {
	args := cmd.Args
	if len(args) == 1 && args[0] == "--version" {
		_, err := io.WriteString(cmd.Stdout, "2025.01.15\n")
		return err
	}
	target := args[len(args)-1]
	if hasArg(args, "--flat-playlist") {
		entries := make([]map[string]string, 0, len(f.playlist))
		for _, u := range f.playlist {
			entries = append(entries, map[string]string{"id": videoID(u), "url": u})
		}
		return json.NewEncoder(cmd.Stdout).Encode(map[string]any{"id": "PL", "title": "Playlist", "entries": entries})
	}

	id := videoID(target)
	if id == brokenID {
		return errors.New("ERROR: [youtube] bbbbbbbbbbb: Private video")
	}
	template := argAfter(args, "-o")
	path := strings.NewReplacer("%(id)s", id, "%(ext)s", "mp3").Replace(template)
	frames := append([]byte{0xFF, 0xFB, 0x90, 0x64}, make([]byte, 512)...)
	if err := os.WriteFile(path, frames, 0o644); err != nil {
		return err
	}
	return json.NewEncoder(cmd.Stdout).Encode(map[string]any{"id": id, "title": f.titles[id], "webpage_url": target})
}

func (f *fakeTools) whisper(cmd services.Command) error {
	var audio string
	for _, arg := range cmd.Args {
		if strings.HasSuffix(arg, ".mp3") {
			audio = arg
		}
	}
	f.mu.Lock()
	f.transcribed = append(f.transcribed, filepath.Base(audio))
	f.whisperEnv = append(f.whisperEnv, cmd.Env)
	f.mu.Unlock()

	base := strings.TrimSuffix(filepath.Base(audio), ".mp3")
	payload := `{"segments":[{"start":0,"end":1.5,"text":" spoken words in ` + base + `"}]}`
	return os.WriteFile(filepath.Join(argAfter(cmd.Args, "--output_dir"), base+".json"), []byte(payload), 0o644)
}

func hasArg(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func argAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func videoID(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Query().Get("v")
}

type cliEnv struct {
	base       string
	configPath string
	outputDir  string
	tools      *fakeTools
}

func setupCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	base := t.TempDir()
	env := &cliEnv{
		base:       base,
		configPath: filepath.Join(base, "config.toml"),
		outputDir:  filepath.Join(base, "subs"),
		tools:      newFakeTools(),
	}
	contents := fmt.Sprintf(`[paths]
scratch_dir = %q

[history]
enabled = true
path = %q

[logging]
level = "warn"
`, filepath.Join(base, "scratch"), filepath.Join(base, "state", "history.db"))
	if err := os.WriteFile(env.configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	ctx := newCommandContext()
	ctx.commandRunner = e.tools.run
	ctx.checkDeps = func(*config.Config) []deps.Status { return nil }

	cmd := newRootCommand(ctx)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestRootCommandTranscribesAndSkips(t *testing.T) {
	env := setupCLIEnv(t)

	out, stderr, err := env.run(t, "-o", env.outputDir, "--format", "srt", videoOne, videoTwo, videoThree)
	if err != nil {
		t.Fatalf("first run failed: %v\nstderr:\n%s", err, stderr)
	}
	requireContains(t, out, "Saved SRT")
	requireContains(t, out, "Fetch failed")
	requireContains(t, out, videoTwo)
	requireContains(t, out, "2 written, 0 skipped, 1 failed of 3 URLs")
	requireContains(t, stderr, videoTwo+" generated an exception")

	first := filepath.Join(env.outputDir, "intro-goconcurrency-aaaaaaaaaaa.srt")
	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("read subtitle: %v", err)
	}
	want := "1\n00:00:00,000 --> 00:00:01,500\nspoken words in aaaaaaaaaaa\n\n"
	if string(data) != want {
		t.Fatalf("unexpected srt:\n%q\nwant\n%q", data, want)
	}
	if _, err := os.Stat(filepath.Join(env.outputDir, "outro-ccccccccccc.srt")); err != nil {
		t.Fatalf("expected second subtitle: %v", err)
	}

	out, _, err = env.run(t, "-o", env.outputDir, "--format", "srt", videoOne, videoThree)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	requireContains(t, out, "0 written, 2 skipped, 0 failed of 2 URLs")
	if len(env.tools.transcribed) != 2 {
		t.Fatalf("expected the second run to skip transcription, got %v", env.tools.transcribed)
	}

	out, _, err = env.run(t, "history", "--limit", "3")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	requireContains(t, out, "skipped")
}

func TestRootCommandTitleModelAndVerbose(t *testing.T) {
	env := setupCLIEnv(t)

	_, _, err := env.run(t, "-o", env.outputDir, "--title_model", "yt_dlp", "--verbose", "False", videoOne)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	name := "Intro： Go／Concurrency [aaaaaaaaaaa].vtt"
	if _, err := os.Stat(filepath.Join(env.outputDir, name)); err != nil {
		t.Fatalf("expected %q: %v", name, err)
	}
	if got := env.tools.whisperEnv[0]; len(got) != 1 || got[0] != "PYTHONWARNINGS=ignore" {
		t.Fatalf("expected scoped warning suppression, got %v", got)
	}
}

func TestRootCommandPlaylist(t *testing.T) {
	env := setupCLIEnv(t)
	env.tools.playlist = []string{videoOne, videoThree}

	out, _, err := env.run(t, "-o", env.outputDir, "--video_type", "playlists", "https://www.youtube.com/playlist?list=PL")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	requireContains(t, out, "2 written, 0 skipped, 0 failed of 2 URLs")
}

func TestRootCommandRejectsInvalidFlags(t *testing.T) {
	env := setupCLIEnv(t)
	tests := []struct {
		name string
		args []string
	}{
		{"model", []string{"--model", "gigantic", videoOne}},
		{"format", []string{"--format", "ass", videoOne}},
		{"language", []string{"--language", "klingon", videoOne}},
		{"break-lines", []string{"--break-lines", "-1", videoOne}},
		{"title model", []string{"--title_model", "fancy", videoOne}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.run(t, append([]string{"-o", env.outputDir}, tt.args...)...)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if services.ExitCode(err) != 2 {
				t.Fatalf("expected exit code 2, got %d (%v)", services.ExitCode(err), err)
			}
		})
	}

	if _, _, err := env.run(t, "--verbose", "maybe", videoOne); err == nil {
		t.Fatal("expected --verbose to reject non-boolean values")
	}
}

func TestRootCommandWithoutURLsPrintsHelp(t *testing.T) {
	env := setupCLIEnv(t)
	out, _, err := env.run(t)
	if err != nil {
		t.Fatalf("help failed: %v", err)
	}
	requireContains(t, out, "--break-lines")
	requireContains(t, out, "--title_model")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLIEnv(t)

	out, _, err := env.run(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "History enabled: yes")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = env.run(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := env.run(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
	if _, _, err := env.run(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestListingCommands(t *testing.T) {
	env := setupCLIEnv(t)

	out, _, err := env.run(t, "models")
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	requireContains(t, out, "large-v3-turbo")
	requireContains(t, out, "tiny.en")

	out, _, err = env.run(t, "languages", "--json")
	if err != nil {
		t.Fatalf("languages: %v", err)
	}
	requireContains(t, out, `"Code": "en"`)
}

func TestDoctorCommand(t *testing.T) {
	env := setupCLIEnv(t)
	out, _, err := env.run(t, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	requireContains(t, out, "== Dependencies ==")
	requireContains(t, out, "[OK] 2025.01.15")
	requireContains(t, out, "Output directory")
}
