package language

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
)

type entry struct {
	code string
	name string
}

// languages mirrors the vocabulary published by the Whisper tokenizer.
var languages = []entry{
	{"en", "english"}, {"zh", "chinese"}, {"de", "german"}, {"es", "spanish"},
	{"ru", "russian"}, {"ko", "korean"}, {"fr", "french"}, {"ja", "japanese"},
	{"pt", "portuguese"}, {"tr", "turkish"}, {"pl", "polish"}, {"ca", "catalan"},
	{"nl", "dutch"}, {"ar", "arabic"}, {"sv", "swedish"}, {"it", "italian"},
	{"id", "indonesian"}, {"hi", "hindi"}, {"fi", "finnish"}, {"vi", "vietnamese"},
	{"he", "hebrew"}, {"uk", "ukrainian"}, {"el", "greek"}, {"ms", "malay"},
	{"cs", "czech"}, {"ro", "romanian"}, {"da", "danish"}, {"hu", "hungarian"},
	{"ta", "tamil"}, {"no", "norwegian"}, {"th", "thai"}, {"ur", "urdu"},
	{"hr", "croatian"}, {"bg", "bulgarian"}, {"lt", "lithuanian"}, {"la", "latin"},
	{"mi", "maori"}, {"ml", "malayalam"}, {"cy", "welsh"}, {"sk", "slovak"},
	{"te", "telugu"}, {"fa", "persian"}, {"lv", "latvian"}, {"bn", "bengali"},
	{"sr", "serbian"}, {"az", "azerbaijani"}, {"sl", "slovenian"}, {"kn", "kannada"},
	{"et", "estonian"}, {"mk", "macedonian"}, {"br", "breton"}, {"eu", "basque"},
	{"is", "icelandic"}, {"hy", "armenian"}, {"ne", "nepali"}, {"mn", "mongolian"},
	{"bs", "bosnian"}, {"kk", "kazakh"}, {"sq", "albanian"}, {"sw", "swahili"},
	{"gl", "galician"}, {"mr", "marathi"}, {"pa", "punjabi"}, {"si", "sinhala"},
	{"km", "khmer"}, {"sn", "shona"}, {"yo", "yoruba"}, {"so", "somali"},
	{"af", "afrikaans"}, {"oc", "occitan"}, {"ka", "georgian"}, {"be", "belarusian"},
	{"tg", "tajik"}, {"sd", "sindhi"}, {"gu", "gujarati"}, {"am", "amharic"},
	{"yi", "yiddish"}, {"lo", "lao"}, {"uz", "uzbek"}, {"fo", "faroese"},
	{"ht", "haitian creole"}, {"ps", "pashto"}, {"tk", "turkmen"}, {"nn", "nynorsk"},
	{"mt", "maltese"}, {"sa", "sanskrit"}, {"lb", "luxembourgish"}, {"my", "myanmar"},
	{"bo", "tibetan"}, {"tl", "tagalog"}, {"mg", "malagasy"}, {"as", "assamese"},
	{"tt", "tatar"}, {"haw", "hawaiian"}, {"ln", "lingala"}, {"ha", "hausa"},
	{"ba", "bashkir"}, {"jw", "javanese"}, {"su", "sundanese"}, {"yue", "cantonese"},
}

var aliases = map[string]string{
	"burmese":       "my",
	"valencian":     "ca",
	"flemish":       "nl",
	"haitian":       "ht",
	"letzeburgesch": "lb",
	"pushto":        "ps",
	"panjabi":       "pa",
	"moldavian":     "ro",
	"moldovan":      "ro",
	"sinhalese":     "si",
	"castilian":     "es",
	"mandarin":      "zh",
}

var (
	byCode map[string]*entry
	byName map[string]*entry
	titler = cases.Title(xlanguage.English)
)

func init() {
	byCode = make(map[string]*entry, len(languages))
	byName = make(map[string]*entry, len(languages)+len(aliases))
	for i := range languages {
		e := &languages[i]
		byCode[e.code] = e
		byName[e.name] = e
	}
	for alias, code := range aliases {
		byName[alias] = byCode[code]
	}
}

// Language describes one entry in the vocabulary.
type Language struct {
	Code string
	Name string
}

// Resolve maps a language code, display name, or alias (case-insensitive) to
// the Whisper language code. Empty input resolves to "" with ok=false.
func Resolve(value string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(value))
	if key == "" {
		return "", false
	}
	if e, ok := byCode[key]; ok {
		return e.code, true
	}
	if e, ok := byName[key]; ok {
		return e.code, true
	}
	return "", false
}

// DisplayName returns the title-cased name for a code, or the uppercased code
// when it is not part of the vocabulary.
func DisplayName(code string) string {
	key := strings.ToLower(strings.TrimSpace(code))
	if key == "" {
		return "Auto-detect"
	}
	if e, ok := byCode[key]; ok {
		return titler.String(e.name)
	}
	return strings.ToUpper(key)
}

// All returns every language sorted by code.
func All() []Language {
	out := make([]Language, 0, len(languages))
	for _, e := range languages {
		out = append(out, Language{Code: e.code, Name: titler.String(e.name)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Choices returns the accepted command-line values: sorted codes followed by
// sorted title-cased names and aliases.
func Choices() []string {
	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, titler.String(name))
	}
	sort.Strings(names)
	return append(codes, names...)
}
