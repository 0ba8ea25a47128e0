package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/contentintel/internal/model"
	"github.com/xxxsen/contentintel/internal/sentiment"
)

const SourceRemote = "remote"

type ManagerConfig struct {
	Timeout       int
	MaxInputChars int
}

type Manager struct {
	gen IGenerator
	cfg ManagerConfig
}

func NewManager(gen IGenerator, cfg ManagerConfig) *Manager {
	return &Manager{gen: gen, cfg: cfg}
}

func (m *Manager) Name() string {
	if m.gen == nil {
		return ""
	}
	return m.gen.Name()
}

// Probe reports whether at least one configured provider can be reached.
func (m *Manager) Probe(ctx context.Context) error {
	if m.gen == nil {
		return ErrUnavailable
	}
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	return m.gen.Probe(ctx)
}

func (m *Manager) Summarize(ctx context.Context, text string, maxLength int) (string, error) {
	if m.gen == nil {
		return "", fmt.Errorf("summarizer not configured: %w", ErrUnavailable)
	}
	prompt := fmt.Sprintf(`You are a news editor.
Summarize the following article in at most %d characters.
- Use the same language as the content (usually Bengali).
- Keep factual accuracy and key points.
- Output ONLY the summary text.

CONTENT:
%s`, maxLength, text)
	out, err := m.generateText(ctx, prompt)
	if err != nil {
		return "", err
	}
	if maxLength > 0 {
		if r := []rune(out); len(r) > maxLength {
			out = strings.TrimSpace(string(r[:maxLength]))
		}
	}
	return out, nil
}

func (m *Manager) Sentiment(ctx context.Context, text string) (model.Sentiment, error) {
	if m.gen == nil {
		return model.Sentiment{}, fmt.Errorf("classifier not configured: %w", ErrUnavailable)
	}
	prompt := fmt.Sprintf(`You are a sentiment classifier for news articles.
Classify the overall tone of the content as positive, negative or neutral.
- Return a JSON object only: {"label": "positive|negative|neutral", "confidence": 0.0-1.0}
- No extra text.

CONTENT:
%s`, text)
	out, err := m.generateText(ctx, prompt)
	if err != nil {
		return model.Sentiment{}, err
	}
	return parseSentiment(out)
}

func (m *Manager) ExtractTags(ctx context.Context, text string, maxTags int) ([]string, error) {
	if m.gen == nil {
		return nil, fmt.Errorf("tagger not configured: %w", ErrUnavailable)
	}
	if maxTags <= 0 {
		maxTags = sentiment.DefaultMaxTags
	}
	if maxTags > sentiment.MaxTags {
		maxTags = sentiment.MaxTags
	}
	prompt := fmt.Sprintf(`You are a tag extraction assistant.
From the article below, extract up to %d concise topic tags.
- Tags should be short phrases (1-3 words).
- Return a JSON array of strings only. No extra text.
- Use the same language as the content.

CONTENT:
%s`, maxTags, text)
	result, err := m.generateText(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseTags(result, maxTags)
}

func (m *Manager) MaxInputChars() int {
	return m.cfg.MaxInputChars
}

func (m *Manager) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, time.Duration(m.cfg.Timeout)*time.Second)
	}
	return context.WithCancel(ctx)
}

func (m *Manager) generateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	resp, err := m.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp)
	if text == "" {
		return "", fmt.Errorf("empty ai response")
	}
	return text, nil
}

func stripFence(output string) string {
	clean := strings.TrimSpace(output)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

type sentimentReply struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

func parseSentiment(output string) (model.Sentiment, error) {
	clean := stripFence(output)
	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start >= 0 && end > start {
		clean = clean[start : end+1]
	}
	var reply sentimentReply
	if err := json.Unmarshal([]byte(clean), &reply); err != nil {
		return model.Sentiment{}, fmt.Errorf("parse sentiment: %w", err)
	}
	label, ok := sentiment.ParseLabel(reply.Label)
	if !ok {
		return model.Sentiment{}, fmt.Errorf("unknown sentiment label: %q", reply.Label)
	}
	conf := reply.Confidence
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	return model.Sentiment{
		Label:      label,
		Confidence: conf,
		Display:    sentiment.Display(label),
		Source:     SourceRemote,
	}, nil
}

func parseTags(output string, maxTags int) ([]string, error) {
	clean := stripFence(output)
	start := strings.Index(clean, "[")
	end := strings.LastIndex(clean, "]")
	if start >= 0 && end > start {
		clean = clean[start : end+1]
	}

	var tags []string
	if err := json.Unmarshal([]byte(clean), &tags); err != nil {
		return nil, fmt.Errorf("parse tags: %w", err)
	}
	uniq := make([]string, 0, len(tags))
	seen := make(map[string]bool)
	for _, tag := range tags {
		normalized := strings.TrimSpace(tag)
		if normalized == "" {
			continue
		}
		key := strings.ToLower(normalized)
		if seen[key] {
			continue
		}
		seen[key] = true
		uniq = append(uniq, normalized)
		if len(uniq) >= maxTags {
			break
		}
	}
	if len(uniq) == 0 {
		return nil, fmt.Errorf("no tags found")
	}
	return uniq, nil
}
