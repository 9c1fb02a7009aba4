package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"ytwhisper/internal/subtitles"
	"ytwhisper/internal/workflow"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// summaryLines renders the end-of-run report: one line per written file,
// skipped file and failed URL, then the totals.
func summaryLines(summary workflow.Summary, format subtitles.Format, colorize bool) []string {
	lines := make([]string, 0, summary.Processed()+len(summary.Failures)+3)
	label := "Saved " + strings.ToUpper(string(format))
	for _, path := range summary.Written {
		lines = append(lines, renderStatusLine(label, statusOK, absPath(path), colorize))
	}
	for _, path := range summary.Skipped {
		lines = append(lines, renderStatusLine("Skipped", statusInfo, absPath(path)+" (already exists)", colorize))
	}
	for _, failure := range summary.Failures {
		lines = append(lines, renderStatusLine("Fetch failed", statusWarn, failure.Error(), colorize))
	}

	kind := statusOK
	if len(summary.Failures) > 0 {
		kind = statusWarn
	}
	if summary.URLs > 0 && summary.Fetched == 0 {
		kind = statusError
	}
	totals := fmt.Sprintf("%d written, %d skipped, %d failed of %s",
		len(summary.Written), len(summary.Skipped), len(summary.Failures), pluralize(summary.URLs, "URL"))
	if summary.Duration > 0 {
		totals += " in " + summary.Duration.Round(time.Millisecond).String()
	}
	lines = append(lines, renderStatusLine("Summary", kind, totals, colorize))
	return lines
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
