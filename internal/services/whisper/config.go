package whisper

// Options is the typed option set for one transcription.
type Options struct {
	// Model is a published Whisper model name (see Models).
	Model string
	// Task is TaskTranscribe or TaskTranslate.
	Task string
	// Language is an ISO code; empty lets Whisper detect it.
	Language string
	// Verbose streams the model's progress and text to the verbose writer.
	Verbose bool
	// SuppressWarnings sets PYTHONWARNINGS=ignore for the child process.
	SuppressWarnings bool
}

// Whisper configuration constants.
const (
	DefaultModel   = "small"
	TaskTranscribe = "transcribe"
	TaskTranslate  = "translate"
	OutputFormat   = "json"
	PackageName    = "openai-whisper"
	EntryPoint     = "whisper"
	EnglishCode    = "en"
)

// Command names for external tools.
const (
	UVXCommand = "uvx"
)
