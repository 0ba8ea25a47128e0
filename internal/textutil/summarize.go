package textutil

import (
	"sort"
	"strings"
)

const DefaultSummaryLength = 300

// significanceKeywords mark sentences that carry news weight: economy,
// politics, government, development, elections and the like.
var significanceKeywords = []string{
	"অর্থনীতি",
	"রাজনীতি",
	"সরকার",
	"উন্নয়ন",
	"নির্বাচন",
	"প্রধানমন্ত্রী",
	"মন্ত্রী",
	"বাজেট",
	"শিক্ষা",
	"স্বাস্থ্য",
	"আইন",
	"আদালত",
	"পুলিশ",
	"দুর্নীতি",
	"বিনিয়োগ",
	"ব্যবসা",
	"কৃষি",
	"বাণিজ্য",
	"জাতীয়",
}

type sentenceScore struct {
	sentence string
	score    int
	index    int
}

// Summarize builds an extractive summary of at most maxLength runes.
// Text that already fits, or that has three sentences or fewer, is returned
// unchanged. Output is deterministic for a given input.
func Summarize(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultSummaryLength
	}
	if runeLen(text) <= maxLength {
		return text
	}
	sentences := SplitSentences(text)
	if len(sentences) <= 3 {
		return text
	}

	scored := make([]sentenceScore, len(sentences))
	for i, s := range sentences {
		scored[i] = sentenceScore{sentence: s, score: scoreSentence(s, i, len(sentences)), index: i}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].index < scored[j].index
	})

	pick := (len(sentences) + 4) / 5
	if pick < 3 {
		pick = 3
	}
	selected := scored[:pick]
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].index < selected[j].index
	})

	var (
		sb      strings.Builder
		current int
	)
	for _, s := range selected {
		n := runeLen(s.sentence)
		if current+n > maxLength {
			break
		}
		sb.WriteString(s.sentence)
		sb.WriteString(" ")
		current += n + 1
	}
	return strings.TrimSpace(sb.String())
}

func scoreSentence(sentence string, index, total int) int {
	score := 0
	switch index {
	case 0:
		score += 3
	case 1:
		score += 2
	}
	if index == total-1 {
		score += 2
	}
	words := len(strings.Fields(sentence))
	if words > 5 && words < 25 {
		score++
	}
	for _, kw := range significanceKeywords {
		score += strings.Count(sentence, kw)
	}
	return score
}
