package config

import "os"

const (
	defaultConfigPath       = "~/.config/ytwhisper/config.toml"
	projectConfigName       = "ytwhisper.toml"
	defaultOutputDir        = "."
	defaultHistoryPath      = "~/.local/share/ytwhisper/history.db"
	defaultDownloaderBinary = "yt-dlp"
	defaultWhisperRunner    = "uvx"
	defaultWorkers          = 10
	defaultAudioFormat      = "mp3"
	defaultAudioQuality     = "192"
	defaultModel            = "small"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Video types accepted by download.video_type / --video_type.
const (
	VideoTypeVideo     = "video"
	VideoTypePlaylists = "playlists"
)

// Playlist resolvers accepted by download.resolver.
const (
	ResolverYTDLP  = "ytdlp"
	ResolverNative = "native"
)

// Title strategies accepted by subtitles.title_model / --title_model.
const (
	TitleModelYTDLP   = "yt_dlp"
	TitleModelSlugify = "slugify"
)

// Tasks accepted by transcription.task / --task.
const (
	TaskTranscribe = "transcribe"
	TaskTranslate  = "translate"
)

// Subtitle formats accepted by subtitles.format / --format.
const (
	FormatVTT = "vtt"
	FormatSRT = "srt"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:  defaultOutputDir,
			ScratchDir: defaultScratchDir(),
		},
		Download: Download{
			Binary:       defaultDownloaderBinary,
			VideoType:    VideoTypeVideo,
			Resolver:     ResolverYTDLP,
			Workers:      defaultWorkers,
			AudioFormat:  defaultAudioFormat,
			AudioQuality: defaultAudioQuality,
		},
		Transcription: Transcription{
			Model:            defaultModel,
			Task:             TaskTranscribe,
			Runner:           defaultWhisperRunner,
			SuppressWarnings: true,
		},
		Subtitles: Subtitles{
			Format:     FormatVTT,
			TitleModel: TitleModelSlugify,
		},
		History: History{
			Path: defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultScratchDir() string {
	if value, ok := os.LookupEnv("YTWHISPER_SCRATCH_DIR"); ok && value != "" {
		return value
	}
	return os.TempDir()
}
