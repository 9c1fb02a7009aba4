package subtitles

import (
	"strings"
	"unicode/utf8"
)

// WrapPyramid breaks text at word boundaries into lines no wider than width,
// arranged so lower lines carry at least as much text as the ones above them.
// Lines only exceed width when a single word does. A width <= 0, or text that
// already fits, yields a single line with whitespace collapsed.
func WrapPyramid(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	if width <= 0 || joinedLen(words) <= width {
		return []string{strings.Join(words, " ")}
	}

	remainingLines := greedyLineCount(words, width)
	var reversed []string
	end := len(words)
	for end > 0 {
		if remainingLines < 1 {
			remainingLines = 1
		}
		target := (joinedLen(words[:end]) + remainingLines - 1) / remainingLines
		start := end - 1
		lineLen := utf8.RuneCountInString(words[start])
		for start > 0 && lineLen < target {
			next := lineLen + 1 + utf8.RuneCountInString(words[start-1])
			if next > width {
				break
			}
			start--
			lineLen = next
		}
		reversed = append(reversed, strings.Join(words[start:end], " "))
		end = start
		remainingLines--
	}

	lines := make([]string, len(reversed))
	for i, line := range reversed {
		lines[len(reversed)-1-i] = line
	}
	return lines
}

// greedyLineCount is the number of lines needed when filling from the bottom
// as full as width allows.
func greedyLineCount(words []string, width int) int {
	count := 0
	end := len(words)
	for end > 0 {
		start := end - 1
		lineLen := utf8.RuneCountInString(words[start])
		for start > 0 {
			next := lineLen + 1 + utf8.RuneCountInString(words[start-1])
			if next > width {
				break
			}
			start--
			lineLen = next
		}
		count++
		end = start
	}
	return count
}

func joinedLen(words []string) int {
	if len(words) == 0 {
		return 0
	}
	total := len(words) - 1
	for _, w := range words {
		total += utf8.RuneCountInString(w)
	}
	return total
}
