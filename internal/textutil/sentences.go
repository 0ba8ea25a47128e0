package textutil

import (
	"strings"
	"unicode"
)

const dari = '।'

// SplitSentences breaks text into trimmed sentences, each keeping its
// terminal mark. The Bengali dari always ends a sentence; '.', '!' and '?'
// end one only when followed by whitespace or the end of the text.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var (
		out   []string
		start int
	)
	emit := func(end int) {
		s := strings.TrimSpace(string(runes[start:end]))
		if s != "" {
			out = append(out, s)
		}
		start = end
	}
	for i, r := range runes {
		switch r {
		case dari:
			emit(i + 1)
		case '.', '!', '?':
			if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) {
				emit(i + 1)
			}
		}
	}
	emit(len(runes))
	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}
