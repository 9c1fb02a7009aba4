package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dhowden/tag"
)

var (
	// ErrEmpty reports a zero-length or missing file.
	ErrEmpty = errors.New("audio file is empty")
	// ErrUnexpectedType reports a container other than the requested one.
	ErrUnexpectedType = errors.New("unexpected audio container")
)

// Info summarizes a probed audio file.
type Info struct {
	Path     string
	Size     int64
	FileType tag.FileType
	Format   tag.Format
	Title    string
	Artist   string
}

var expectedTypes = map[string][]tag.FileType{
	"mp3":    {tag.MP3},
	"m4a":    {tag.M4A, tag.M4B, tag.M4P, tag.ALAC},
	"flac":   {tag.FLAC},
	"ogg":    {tag.OGG},
	"opus":   {tag.OGG},
	"vorbis": {tag.OGG},
}

// Probe inspects path and checks it holds audio of the given format
// (an extension such as "mp3"). Formats without a known signature are only
// checked for size.
func Probe(path, format string) (Info, error) {
	info := Info{Path: path}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return info, fmt.Errorf("%w: %s", ErrEmpty, path)
		}
		return info, fmt.Errorf("open audio: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return info, fmt.Errorf("stat audio: %w", err)
	}
	info.Size = stat.Size()
	if info.Size == 0 {
		return info, fmt.Errorf("%w: %s", ErrEmpty, path)
	}

	format = strings.ToLower(strings.TrimSpace(format))
	want, known := expectedTypes[format]
	if !known {
		return info, nil
	}

	tagFormat, fileType, err := tag.Identify(file)
	if err != nil {
		// Files without a recognizable tag block may still be bare MPEG streams.
		if format == "mp3" {
			ok, syncErr := hasMPEGFrameSync(file)
			if syncErr != nil {
				return info, syncErr
			}
			if ok {
				info.FileType = tag.MP3
				return info, nil
			}
		}
		return info, fmt.Errorf("%w: %s is not %s: %w", ErrUnexpectedType, path, format, err)
	}
	info.Format = tagFormat
	info.FileType = fileType

	if !containsType(want, fileType) {
		return info, fmt.Errorf("%w: %s is %s, want %s", ErrUnexpectedType, path, fileType, format)
	}

	if _, err := file.Seek(0, io.SeekStart); err == nil {
		if meta, err := tag.ReadFrom(file); err == nil {
			info.Title = strings.TrimSpace(meta.Title())
			info.Artist = strings.TrimSpace(meta.Artist())
		}
	}
	return info, nil
}

func containsType(types []tag.FileType, t tag.FileType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

// hasMPEGFrameSync reports whether the file begins with an MPEG audio frame header.
func hasMPEGFrameSync(file *os.File) (bool, error) {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return false, fmt.Errorf("seek audio: %w", err)
	}
	header := make([]byte, 2)
	if _, err := io.ReadFull(file, header); err != nil {
		return false, nil
	}
	return header[0] == 0xFF && header[1]&0xE0 == 0xE0, nil
}
