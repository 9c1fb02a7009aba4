package whisper

import "strings"

// Model describes a published Whisper checkpoint.
type Model struct {
	Name        string
	Parameters  string
	VRAM        string
	Speed       string
	EnglishOnly bool
}

var models = []Model{
	{Name: "tiny.en", Parameters: "39 M", VRAM: "~1 GB", Speed: "~10x", EnglishOnly: true},
	{Name: "tiny", Parameters: "39 M", VRAM: "~1 GB", Speed: "~10x"},
	{Name: "base.en", Parameters: "74 M", VRAM: "~1 GB", Speed: "~7x", EnglishOnly: true},
	{Name: "base", Parameters: "74 M", VRAM: "~1 GB", Speed: "~7x"},
	{Name: "small.en", Parameters: "244 M", VRAM: "~2 GB", Speed: "~4x", EnglishOnly: true},
	{Name: "small", Parameters: "244 M", VRAM: "~2 GB", Speed: "~4x"},
	{Name: "medium.en", Parameters: "769 M", VRAM: "~5 GB", Speed: "~2x", EnglishOnly: true},
	{Name: "medium", Parameters: "769 M", VRAM: "~5 GB", Speed: "~2x"},
	{Name: "large-v1", Parameters: "1550 M", VRAM: "~10 GB", Speed: "1x"},
	{Name: "large-v2", Parameters: "1550 M", VRAM: "~10 GB", Speed: "1x"},
	{Name: "large-v3", Parameters: "1550 M", VRAM: "~10 GB", Speed: "1x"},
	{Name: "large", Parameters: "1550 M", VRAM: "~10 GB", Speed: "1x"},
	{Name: "large-v3-turbo", Parameters: "809 M", VRAM: "~6 GB", Speed: "~8x"},
	{Name: "turbo", Parameters: "809 M", VRAM: "~6 GB", Speed: "~8x"},
}

// Models returns the published checkpoints in size order.
func Models() []Model {
	out := make([]Model, len(models))
	copy(out, models)
	return out
}

// ModelNames returns the accepted model names in size order.
func ModelNames() []string {
	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.Name)
	}
	return names
}

// IsKnownModel reports whether name is a published checkpoint.
func IsKnownModel(name string) bool {
	name = strings.TrimSpace(name)
	for _, m := range models {
		if m.Name == name {
			return true
		}
	}
	return false
}

// IsEnglishOnly reports whether the model only handles English audio.
func IsEnglishOnly(name string) bool {
	return strings.HasSuffix(strings.TrimSpace(name), ".en")
}
