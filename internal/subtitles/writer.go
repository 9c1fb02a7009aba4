package subtitles

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Write renders segments in the requested format. width > 0 enables pyramid
// line wrapping.
func Write(w io.Writer, format Format, segments []Segment, width int) error {
	switch format {
	case FormatSRT:
		return WriteSRT(w, segments, width)
	case FormatVTT:
		return WriteVTT(w, segments, width)
	default:
		return fmt.Errorf("unsupported subtitle format %q", format)
	}
}

// WriteSRT writes numbered SRT cues starting at 1.
func WriteSRT(w io.Writer, segments []Segment, width int) error {
	for i, seg := range segments {
		if _, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			i+1,
			srtTimestamp(seg.Start),
			srtTimestamp(seg.End),
			cueText(seg.Text, width),
		); err != nil {
			return fmt.Errorf("write srt cue %d: %w", i+1, err)
		}
	}
	return nil
}

// WriteVTT writes a WEBVTT header followed by unnumbered cues.
func WriteVTT(w io.Writer, segments []Segment, width int) error {
	if _, err := io.WriteString(w, "WEBVTT\n\n"); err != nil {
		return fmt.Errorf("write vtt header: %w", err)
	}
	for i, seg := range segments {
		if _, err := fmt.Fprintf(w, "%s --> %s\n%s\n\n",
			vttTimestamp(seg.Start),
			vttTimestamp(seg.End),
			cueText(seg.Text, width),
		); err != nil {
			return fmt.Errorf("write vtt cue %d: %w", i+1, err)
		}
	}
	return nil
}

// cueText trims the text, applies optional wrapping, and neutralizes the cue
// timing arrow so text can never be mistaken for a timing line.
func cueText(text string, width int) string {
	text = strings.TrimSpace(text)
	if width > 0 && utf8.RuneCountInString(text) > width {
		text = strings.Join(WrapPyramid(text, width), "\n")
	}
	return strings.ReplaceAll(text, "-->", "->")
}
