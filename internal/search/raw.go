package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/contentintel/internal/model"
)

const (
	fieldRelevanceScore = "ai_relevance_score"
	fieldSearchEnhanced = "search_enhanced"
)

// EnhanceRaw reranks article JSON objects of any shape. Only the string
// fields title, excerpt and content are read; every other field is carried
// through as-is and the two annotation fields are merged into each object.
// Like Enhance it never fails: when any item is not a JSON object or scoring
// fails, items is returned untouched.
func (e *Enhancer) EnhanceRaw(ctx context.Context, query string, items []json.RawMessage) []json.RawMessage {
	if len(items) == 0 {
		return items
	}
	logger := logutil.GetLogger(ctx).With(zap.String("query", query), zap.Int("candidates", len(items)))
	out, err := e.rankRaw(ctx, query, items)
	if err != nil {
		logger.Warn("search enhancement failed, returning original results", zap.Error(err))
		return items
	}
	logger.Debug("search results enhanced")
	return out
}

func (e *Enhancer) rankRaw(ctx context.Context, query string, items []json.RawMessage) ([]json.RawMessage, error) {
	objects := make([]map[string]json.RawMessage, len(items))
	articles := make([]model.Article, len(items))
	for i, raw := range items {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("decode article %d: %w", i, err)
		}
		if obj == nil {
			return nil, fmt.Errorf("decode article %d: not an object", i)
		}
		objects[i] = obj
		articles[i] = model.Article{
			Title:   stringField(obj, "title"),
			Excerpt: stringField(obj, "excerpt"),
			Content: stringField(obj, "content"),
		}
	}
	order, scores, err := e.order(ctx, query, articles)
	if err != nil {
		return nil, err
	}
	out := make([]json.RawMessage, 0, len(items))
	for _, idx := range order {
		obj := objects[idx]
		obj[fieldRelevanceScore] = json.RawMessage(strconv.FormatFloat(scores[idx], 'g', -1, 64))
		obj[fieldSearchEnhanced] = json.RawMessage("true")
		data, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("encode article %d: %w", idx, err)
		}
		out = append(out, data)
	}
	return out, nil
}

// stringField returns obj[key] when it is a JSON string and "" otherwise.
func stringField(obj map[string]json.RawMessage, key string) string {
	raw, ok := obj[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
