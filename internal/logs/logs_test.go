package logs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"ytwhisper/internal/logs"
)

func TestLastReturnsTrailingLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ytwhisper.log")
	if err := os.WriteFile(path, []byte("a\nb\nc\nd\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	lines, offset, err := logs.Last(path, 2)
	if err != nil {
		t.Fatalf("Last failed: %v", err)
	}
	if strings.Join(lines, ",") != "c,d" {
		t.Fatalf("unexpected lines %v", lines)
	}
	if offset != 8 {
		t.Fatalf("expected offset 8, got %d", offset)
	}

	lines, _, err = logs.Last(path, 10)
	if err != nil || strings.Join(lines, ",") != "a,b,c,d" {
		t.Fatalf("expected all lines, got %v (%v)", lines, err)
	}
}

func TestLastMissingFile(t *testing.T) {
	lines, offset, err := logs.Last(filepath.Join(t.TempDir(), "nope.log"), 5)
	if err != nil || lines != nil || offset != 0 {
		t.Fatalf("expected empty result, got %v %d %v", lines, offset, err)
	}
}

func TestFollowEmitsAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ytwhisper.log")
	if err := os.WriteFile(path, []byte("old\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	_, offset, err := logs.Last(path, 1)
	if err != nil {
		t.Fatalf("Last failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var (
		mu  sync.Mutex
		got []string
	)
	done := make(chan error, 1)
	go func() {
		done <- logs.Follow(ctx, path, offset, 10*time.Millisecond, func(line string) {
			mu.Lock()
			got = append(got, line)
			mu.Unlock()
		})
	}()

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	_, _ = file.WriteString("new\n")
	_ = file.Close()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Follow returned error: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != "new" {
		t.Fatalf("unexpected followed lines %v", got)
	}
}

func TestParseRecord(t *testing.T) {
	line := `{"ts":"2025-03-04T05:06:07Z","level":"warn","msg":"https://youtu.be/x generated an exception","component":"fetch","item_id":"x","stage":"fetch","correlation_id":"run-1","error":"HTTP Error 404"}`
	rec, ok := logs.ParseRecord(line)
	if !ok {
		t.Fatal("expected record to parse")
	}
	if rec.Level != "WARN" || rec.Component != "fetch" || rec.ItemID != "x" || rec.RunID != "run-1" {
		t.Fatalf("unexpected record %#v", rec)
	}
	if rec.Time.UTC().Hour() != 5 {
		t.Fatalf("unexpected time %v", rec.Time)
	}
	if len(rec.Fields) != 1 || rec.Fields["error"] != "HTTP Error 404" {
		t.Fatalf("unexpected extra fields %#v", rec.Fields)
	}
	rendered := rec.String()
	for _, want := range []string{"WARN [fetch] x (fetch) – https://youtu.be/x generated an exception", "error=HTTP Error 404"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("expected %q in %q", want, rendered)
		}
	}

	if _, ok := logs.ParseRecord("plain text"); ok {
		t.Fatal("expected plain text to be rejected")
	}
}
