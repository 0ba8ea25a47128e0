package search

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/contentintel/internal/embedding"
)

func rawItems(items ...string) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		out = append(out, json.RawMessage(item))
	}
	return out
}

func TestEnhanceRawMergesAnnotations(t *testing.T) {
	e := newTestEnhancer(t, embedding.New(embedding.WithDisabled()))
	items := rawItems(
		`{"id":1,"title":"weather","published_at":"2024-05-01","image_url":"w.png"}`,
		`{"id":"two","title":"economy","content":42,"category_id":9}`,
	)

	got := e.EnhanceRaw(context.Background(), "economy", items)
	require.Len(t, got, 2)

	var first, second map[string]interface{}
	require.NoError(t, json.Unmarshal(got[0], &first))
	require.NoError(t, json.Unmarshal(got[1], &second))
	require.Equal(t, "two", first["id"])
	require.Equal(t, float64(42), first["content"])
	require.Equal(t, float64(9), first["category_id"])
	require.Equal(t, float64(1), second["id"])
	require.Equal(t, "2024-05-01", second["published_at"])
	require.Equal(t, "w.png", second["image_url"])
	for _, item := range []map[string]interface{}{first, second} {
		require.Equal(t, true, item["search_enhanced"])
		require.IsType(t, float64(0), item["ai_relevance_score"])
	}
	require.GreaterOrEqual(t, first["ai_relevance_score"].(float64), second["ai_relevance_score"].(float64))
}

func TestEnhanceRawMatchesTypedRanking(t *testing.T) {
	e := newTestEnhancer(t, embedding.New(embedding.WithDisabled()))
	typed := e.Enhance(context.Background(), "economy", sampleArticles())

	items := make([]json.RawMessage, 0, len(sampleArticles()))
	for _, a := range sampleArticles() {
		data, err := json.Marshal(a)
		require.NoError(t, err)
		items = append(items, data)
	}
	raw := e.EnhanceRaw(context.Background(), "economy", items)
	require.Len(t, raw, len(typed))
	for i, data := range raw {
		var item struct {
			ID    string  `json:"id"`
			Score float64 `json:"ai_relevance_score"`
		}
		require.NoError(t, json.Unmarshal(data, &item))
		require.Equal(t, typed[i].ID, item.ID)
		require.InDelta(t, typed[i].Score(), item.Score, 1e-9)
	}
}

func TestEnhanceRawFailOpenKeepsBytes(t *testing.T) {
	tests := []struct {
		name     string
		embedder embedding.Embedder
		items    []json.RawMessage
	}{
		{"scoring error", stubEmbedder{fail: "economy"}, rawItems(`{"title":"economy"}`, `{"title": "rain" ,"id":3}`)},
		{"scoring panic", stubEmbedder{panicOn: "rain"}, rawItems(`{"title":"economy"}`, `{"title": "rain" ,"id":3}`)},
		{"not an object", embedding.New(embedding.WithDisabled()), rawItems(`{"title":"economy"}`, `"plain string"`)},
		{"null item", embedding.New(embedding.WithDisabled()), rawItems(`null`, `{"title":"economy"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnhancer(t, tt.embedder)
			got := e.EnhanceRaw(context.Background(), "economy", tt.items)
			require.Equal(t, tt.items, got)
		})
	}
}

func TestEnhanceRawEmpty(t *testing.T) {
	e := newTestEnhancer(t, embedding.New())
	require.Empty(t, e.EnhanceRaw(context.Background(), "x", nil))
}
