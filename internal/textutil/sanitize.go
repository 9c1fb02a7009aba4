package textutil

import "strings"

// titleReplacer swaps characters that are illegal in common filesystems for
// their visually similar full-width forms.
var titleReplacer = strings.NewReplacer(
	"<", "＜",
	">", "＞",
	":", "：",
	"\"", "＂",
	"/", "／",
	"\\", "＼",
	"|", "｜",
	"?", "？",
	"*", "＊",
)

// SanitizeTitle makes a media title safe to use as a file name while keeping
// it readable: unsafe ASCII characters become full-width look-alikes and
// surrounding whitespace is trimmed.
func SanitizeTitle(title string) string {
	return strings.TrimSpace(titleReplacer.Replace(title))
}
