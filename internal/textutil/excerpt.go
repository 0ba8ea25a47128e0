package textutil

import (
	"strings"
)

const (
	DefaultExcerptLength = 160
	DefaultWordsPerMin   = 200
)

// Excerpt returns whole leading sentences that fit in maxLength runes. When
// not even the first sentence fits, the text is cut at maxLength-3 runes and
// "..." is appended.
func Excerpt(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultExcerptLength
	}
	trimmed := strings.TrimSpace(text)
	if runeLen(trimmed) <= maxLength {
		return trimmed
	}
	var (
		sb      strings.Builder
		current int
	)
	for _, s := range SplitSentences(trimmed) {
		n := runeLen(s)
		sep := 0
		if current > 0 {
			sep = 1
		}
		if current+sep+n > maxLength {
			break
		}
		if sep > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(s)
		current += sep + n
	}
	excerpt := sb.String()
	if excerpt == "" || runeLen(excerpt) > maxLength {
		return truncate(trimmed, maxLength)
	}
	return excerpt
}

func truncate(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	return strings.TrimSpace(string(runes[:maxLength-3])) + "..."
}

// ReadingTime is ceil(words / wpm) minutes, where words is a plain whitespace
// split with punctuation left in place.
func ReadingTime(text string, wpm int) int {
	if wpm <= 0 {
		wpm = DefaultWordsPerMin
	}
	words := len(strings.Fields(text))
	return (words + wpm - 1) / wpm
}
