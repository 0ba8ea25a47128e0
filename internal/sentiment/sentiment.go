// Package sentiment holds keyword heuristics used when no remote classifier
// answers. They are presence checks over fixed word lists, not models.
package sentiment

import (
	"strings"

	"github.com/xxxsen/contentintel/internal/model"
)

// FallbackConfidence is reported for every heuristic label. It is a constant,
// not a calibrated probability: the classifier only checks keyword presence.
const FallbackConfidence = 0.75

const SourceLocal = "local"

var (
	positiveKeywords = []string{"ভালো", "সফল", "উন্নতি", "খুশি", "আনন্দ"}
	negativeKeywords = []string{"খারাপ", "ব্যর্থ", "সমস্যা", "দুঃখ", "ক্ষতি"}
)

var displays = map[model.SentimentLabel]model.SentimentDisplay{
	model.SentimentPositive: {Text: "ইতিবাচক", Color: "green", Emoji: "😊"},
	model.SentimentNegative: {Text: "নেতিবাচক", Color: "red", Emoji: "😟"},
	model.SentimentNeutral:  {Text: "নিরপেক্ষ", Color: "gray", Emoji: "😐"},
}

// Classify labels text positive when only positive keywords occur, negative
// when only negative ones occur, and neutral otherwise.
func Classify(text string) model.Sentiment {
	pos := containsAny(text, positiveKeywords)
	neg := containsAny(text, negativeKeywords)
	label := model.SentimentNeutral
	switch {
	case pos && !neg:
		label = model.SentimentPositive
	case neg && !pos:
		label = model.SentimentNegative
	}
	return model.Sentiment{
		Label:      label,
		Confidence: FallbackConfidence,
		Display:    Display(label),
		Source:     SourceLocal,
	}
}

func Display(label model.SentimentLabel) model.SentimentDisplay {
	if d, ok := displays[label]; ok {
		return d
	}
	return displays[model.SentimentNeutral]
}

// ParseLabel normalizes a label from a remote model reply.
func ParseLabel(raw string) (model.SentimentLabel, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "positive", "ইতিবাচক":
		return model.SentimentPositive, true
	case "negative", "নেতিবাচক":
		return model.SentimentNegative, true
	case "neutral", "নিরপেক্ষ":
		return model.SentimentNeutral, true
	}
	return "", false
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
