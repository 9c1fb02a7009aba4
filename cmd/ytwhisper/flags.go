package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"ytwhisper/internal/config"
	"ytwhisper/internal/services/whisper"
)

// boolValue is a flag that requires an explicit yes/no style argument, so
// `--verbose False` parses the way users of the Python CLI expect.
type boolValue bool

func (b *boolValue) Set(value string) error {
	parsed, err := parseBool(value)
	if err != nil {
		return err
	}
	*b = boolValue(parsed)
	return nil
}

func (b *boolValue) String() string {
	return strconv.FormatBool(bool(*b))
}

func (b *boolValue) Type() string {
	return "bool"
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "true", "t", "y", "1", "on":
		return true, nil
	case "no", "false", "f", "n", "0", "off":
		return false, nil
	default:
		return false, fmt.Errorf("boolean value expected, got %q", value)
	}
}

// runFlags holds the root command's job options. They override config
// values only when set on the command line.
type runFlags struct {
	videoType  string
	titleModel string
	model      string
	format     string
	outputDir  string
	verbose    boolValue
	task       string
	language   string
	breakLines int
}

func (f *runFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.videoType, "video_type", config.VideoTypeVideo, "media type of the URLs (video, playlists)")
	fs.StringVar(&f.titleModel, "title_model", config.TitleModelSlugify, "output filename strategy (yt_dlp, slugify)")
	fs.StringVar(&f.model, "model", whisper.DefaultModel, "name of the Whisper model to use ("+strings.Join(whisper.ModelNames(), ", ")+")")
	fs.StringVar(&f.format, "format", config.FormatVTT, "subtitle format to write (vtt, srt)")
	fs.StringVarP(&f.outputDir, "output_dir", "o", ".", "directory to save the outputs")
	fs.Var(&f.verbose, "verbose", "print progress and debug messages from the model (yes/no)")
	fs.StringVar(&f.task, "task", config.TaskTranscribe, "X->X speech recognition (transcribe) or X->English translation (translate)")
	fs.StringVar(&f.language, "language", "", "language spoken in the audio; leave empty to detect it (see 'ytwhisper languages')")
	fs.IntVar(&f.breakLines, "break-lines", 0, "wrap cues into a bottom-heavy pyramid when longer than N characters; 0 disables")
}

// apply copies explicitly set flags over cfg.
func (f *runFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("video_type") {
		cfg.Download.VideoType = f.videoType
	}
	if fs.Changed("title_model") {
		cfg.Subtitles.TitleModel = f.titleModel
	}
	if fs.Changed("model") {
		cfg.Transcription.Model = f.model
	}
	if fs.Changed("format") {
		cfg.Subtitles.Format = f.format
	}
	if fs.Changed("output_dir") {
		cfg.Paths.OutputDir = f.outputDir
	}
	if fs.Changed("verbose") {
		cfg.Transcription.Verbose = bool(f.verbose)
	}
	if fs.Changed("task") {
		cfg.Transcription.Task = f.task
	}
	if fs.Changed("language") {
		cfg.Transcription.Language = f.language
	}
	if fs.Changed("break-lines") {
		cfg.Subtitles.BreakLines = f.breakLines
	}
}
