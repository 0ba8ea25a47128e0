package model

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

type SentimentDisplay struct {
	Text  string `json:"text"`
	Color string `json:"color"`
	Emoji string `json:"emoji"`
}

type Sentiment struct {
	Label      SentimentLabel   `json:"label"`
	Confidence float64          `json:"confidence"`
	Display    SentimentDisplay `json:"display"`
	Source     string           `json:"source"`
}
