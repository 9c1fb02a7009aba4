package workflow

import (
	"errors"
	"fmt"
	"strings"

	"ytwhisper/internal/config"
	"ytwhisper/internal/services"
	"ytwhisper/internal/services/whisper"
	"ytwhisper/internal/subtitles"
)

// Request is the immutable job description for one run.
type Request struct {
	URLs       []string
	VideoType  string
	TitleModel string
	Format     subtitles.Format
	OutputDir  string
	BreakLines int
	// Transcription carries only the options Whisper understands.
	Transcription whisper.Options
}

// RequestFromConfig builds a Request from normalized configuration and the
// positional URLs.
func RequestFromConfig(cfg *config.Config, urls []string) (Request, error) {
	if cfg == nil {
		return Request{}, services.Wrap(services.ErrConfiguration, "workflow", "build request", "configuration unavailable", nil)
	}
	format, err := subtitles.ParseFormat(cfg.Subtitles.Format)
	if err != nil {
		return Request{}, services.Wrap(services.ErrValidation, "workflow", "build request", "", err)
	}
	req := Request{
		URLs:       trimURLs(urls),
		VideoType:  cfg.Download.VideoType,
		TitleModel: cfg.Subtitles.TitleModel,
		Format:     format,
		OutputDir:  cfg.Paths.OutputDir,
		BreakLines: cfg.Subtitles.BreakLines,
		Transcription: whisper.Options{
			Model:            cfg.Transcription.Model,
			Task:             cfg.Transcription.Task,
			Language:         cfg.Transcription.Language,
			Verbose:          cfg.Transcription.Verbose,
			SuppressWarnings: cfg.Transcription.SuppressWarnings,
		},
	}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Validate checks the fields a run depends on.
func (r Request) Validate() error {
	var problems []error
	if len(r.URLs) == 0 {
		problems = append(problems, errors.New("at least one URL is required"))
	}
	if strings.TrimSpace(r.OutputDir) == "" {
		problems = append(problems, errors.New("output directory is required"))
	}
	if r.VideoType != config.VideoTypeVideo && r.VideoType != config.VideoTypePlaylists {
		problems = append(problems, fmt.Errorf("unsupported video type %q", r.VideoType))
	}
	if r.TitleModel != config.TitleModelSlugify && r.TitleModel != config.TitleModelYTDLP {
		problems = append(problems, fmt.Errorf("unsupported title model %q", r.TitleModel))
	}
	if _, err := subtitles.ParseFormat(string(r.Format)); err != nil {
		problems = append(problems, err)
	}
	if r.BreakLines < 0 {
		problems = append(problems, errors.New("break-lines must be >= 0"))
	}
	if len(problems) == 0 {
		return nil
	}
	return services.Wrap(services.ErrValidation, "workflow", "validate request", "", errors.Join(problems...))
}

func trimURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}
