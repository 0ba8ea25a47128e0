package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/xxxsen/contentintel/internal/analysis"
	"github.com/xxxsen/contentintel/internal/embedding"
	"github.com/xxxsen/contentintel/internal/handler"
	"github.com/xxxsen/contentintel/internal/middleware"
	"github.com/xxxsen/contentintel/internal/pkg/errcode"
	"github.com/xxxsen/contentintel/internal/pkg/jwt"
	"github.com/xxxsen/contentintel/internal/querycache"
	"github.com/xxxsen/contentintel/internal/search"
	"github.com/xxxsen/contentintel/internal/service"
)

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func setupRouter(t *testing.T, secret []byte) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := embedding.New()
	t.Cleanup(func() { _ = engine.Close() })
	enhancer, err := search.NewEnhancer(engine, search.WithWorkers(4))
	require.NoError(t, err)
	t.Cleanup(enhancer.Close)
	selector := analysis.NewSelector(nil, analysis.NewLocal())
	content := service.NewContentService(engine, querycache.New(engine, 0), enhancer, selector, service.Config{MaxInputChars: 2000})

	deps := handler.RouterDeps{
		Content:   handler.NewContentHandler(content),
		Search:    handler.NewSearchHandler(content),
		Status:    handler.NewStatusHandler(content),
		JWTSecret: secret,
	}
	router, err := webapi.NewEngine(
		"/api/v1",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}, header map[string]string) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	var out envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func TestSummaryEndpoint(t *testing.T) {
	router := setupRouter(t, nil)
	out := doJSON(t, router, http.MethodPost, "/api/v1/content/summary", map[string]interface{}{
		"text": "বাক্য এক। বাক্য দুই।",
	}, nil)
	require.Equal(t, 0, out.Code)
	var data struct {
		Summary string `json:"summary"`
		Source  string `json:"source"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &data))
	require.Equal(t, "বাক্য এক। বাক্য দুই।", data.Summary)
	require.Equal(t, "local", data.Source)

	out = doJSON(t, router, http.MethodPost, "/api/v1/content/summary", map[string]interface{}{"text": "  "}, nil)
	require.Equal(t, errcode.ErrInvalid, out.Code)
}

func TestOversizeInputRejected(t *testing.T) {
	router := setupRouter(t, nil)
	out := doJSON(t, router, http.MethodPost, "/api/v1/content/sentiment", map[string]interface{}{
		"text": strings.Repeat("ক", 2001),
	}, nil)
	require.Equal(t, errcode.ErrInvalid, out.Code)
}

func TestSentimentEndpoint(t *testing.T) {
	router := setupRouter(t, nil)
	out := doJSON(t, router, http.MethodPost, "/api/v1/content/sentiment", map[string]interface{}{
		"text": "প্রকল্পটি ব্যর্থ হয়েছে, অনেক ক্ষতি।",
	}, nil)
	require.Equal(t, 0, out.Code)
	var data struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
		Display    struct {
			Color string `json:"color"`
		} `json:"display"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &data))
	require.Equal(t, "negative", data.Label)
	require.Equal(t, 0.75, data.Confidence)
	require.Equal(t, "red", data.Display.Color)
}

func TestExcerptAndReadingTimeEndpoints(t *testing.T) {
	router := setupRouter(t, nil)
	out := doJSON(t, router, http.MethodPost, "/api/v1/content/excerpt", map[string]interface{}{
		"text":       "প্রথম বাক্য। দ্বিতীয় বাক্য।",
		"max_length": 15,
	}, nil)
	require.Equal(t, 0, out.Code)
	var excerpt struct {
		Excerpt string `json:"excerpt"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &excerpt))
	require.Equal(t, "প্রথম বাক্য।", excerpt.Excerpt)

	out = doJSON(t, router, http.MethodPost, "/api/v1/content/reading-time", map[string]interface{}{
		"text": strings.Repeat("শব্দ ", 201),
	}, nil)
	var rt struct {
		Minutes int `json:"minutes"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &rt))
	require.Equal(t, 2, rt.Minutes)
}

func TestEnhanceAndSimilarEndpoints(t *testing.T) {
	router := setupRouter(t, nil)
	out := doJSON(t, router, http.MethodPost, "/api/v1/search/enhance", map[string]interface{}{
		"query": "নির্বাচন",
		"articles": []map[string]interface{}{
			{"id": "a", "title": "খেলার খবর", "content": "ক্রিকেট"},
			{"id": "b", "title": "নির্বাচন", "content": "ভোট গ্রহণ"},
		},
	}, nil)
	require.Equal(t, 0, out.Code)
	var data struct {
		Items []struct {
			ID             string   `json:"id"`
			Score          *float64 `json:"ai_relevance_score"`
			SearchEnhanced bool     `json:"search_enhanced"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &data))
	require.Len(t, data.Items, 2)
	for _, item := range data.Items {
		require.True(t, item.SearchEnhanced)
		require.NotNil(t, item.Score)
	}
	require.GreaterOrEqual(t, *data.Items[0].Score, *data.Items[1].Score)

	doJSON(t, router, http.MethodPost, "/api/v1/search/enhance", map[string]interface{}{"query": "নির্বাচনী ফলাফল"}, nil)

	out = doJSON(t, router, http.MethodGet, "/api/v1/search/similar?q="+url.QueryEscape("নির্বাচন")+"&limit=5", nil, nil)
	require.Equal(t, 0, out.Code)
	var similar struct {
		Queries []string `json:"queries"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &similar))
	require.Equal(t, []string{"নির্বাচনী ফলাফল"}, similar.Queries)

	out = doJSON(t, router, http.MethodGet, "/api/v1/search/similar?q=x&limit=abc", nil, nil)
	require.Equal(t, errcode.ErrInvalid, out.Code)
}

func TestEnhanceKeepsArticleFields(t *testing.T) {
	router := setupRouter(t, nil)
	out := doJSON(t, router, http.MethodPost, "/api/v1/search/enhance", map[string]interface{}{
		"query": "নির্বাচন",
		"articles": []map[string]interface{}{
			{"id": 7, "title": "খেলার খবর", "published_at": "2024-05-01T10:00:00Z", "image_url": "x.png"},
			{"id": "b", "title": "নির্বাচন", "excerpt": 12, "category_id": "c1", "meta": map[string]interface{}{"views": 3}},
		},
	}, nil)
	require.Equal(t, 0, out.Code)
	var data struct {
		Items []map[string]interface{} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &data))
	require.Len(t, data.Items, 2)
	byTitle := make(map[string]map[string]interface{}, len(data.Items))
	for _, item := range data.Items {
		require.Equal(t, true, item["search_enhanced"])
		require.Contains(t, item, "ai_relevance_score")
		byTitle[item["title"].(string)] = item
	}
	sports := byTitle["খেলার খবর"]
	require.Equal(t, float64(7), sports["id"])
	require.Equal(t, "2024-05-01T10:00:00Z", sports["published_at"])
	require.Equal(t, "x.png", sports["image_url"])
	election := byTitle["নির্বাচন"]
	require.Equal(t, "c1", election["category_id"])
	require.Equal(t, float64(12), election["excerpt"])
	require.Equal(t, map[string]interface{}{"views": float64(3)}, election["meta"])
}

func TestEnhanceLargeBatch(t *testing.T) {
	router := setupRouter(t, nil)
	articles := make([]map[string]interface{}, 0, 600)
	for i := 0; i < 600; i++ {
		articles = append(articles, map[string]interface{}{"id": i, "title": fmt.Sprintf("খবর %d", i)})
	}
	out := doJSON(t, router, http.MethodPost, "/api/v1/search/enhance", map[string]interface{}{
		"query":    "খবর",
		"articles": articles,
	}, nil)
	require.Equal(t, 0, out.Code)
	var data struct {
		Items []map[string]interface{} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &data))
	require.Len(t, data.Items, 600)
	seen := make(map[float64]bool, 600)
	for _, item := range data.Items {
		require.Equal(t, true, item["search_enhanced"])
		seen[item["id"].(float64)] = true
	}
	require.Len(t, seen, 600)
}

func TestAnalyzeAndStatusEndpoints(t *testing.T) {
	router := setupRouter(t, nil)
	out := doJSON(t, router, http.MethodPost, "/api/v1/content/analyze", map[string]interface{}{
		"text":   "# শিরোনাম\n\nদলের **সফল** অভিযান।",
		"format": "markdown",
	}, nil)
	require.Equal(t, 0, out.Code)
	var data struct {
		ReadingTime int `json:"reading_time"`
		Sentiment   struct {
			Label string `json:"label"`
		} `json:"sentiment"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &data))
	require.Equal(t, 1, data.ReadingTime)
	require.Equal(t, "positive", data.Sentiment.Label)

	out = doJSON(t, router, http.MethodGet, "/api/v1/status", nil, nil)
	require.Equal(t, 0, out.Code)
	var status struct {
		Analyzer      string `json:"analyzer"`
		CacheCapacity int    `json:"cache_capacity"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &status))
	require.Equal(t, "local", status.Analyzer)
	require.Equal(t, 100, status.CacheCapacity)
}

func TestJWTProtectedRoutes(t *testing.T) {
	secret := []byte("test-secret")
	router := setupRouter(t, secret)
	body := map[string]interface{}{"text": "খেলা"}

	out := doJSON(t, router, http.MethodPost, "/api/v1/content/tags", body, nil)
	require.Equal(t, errcode.ErrUnauthorized, out.Code)

	token, err := jwt.GenerateToken("desk", secret, time.Hour)
	require.NoError(t, err)
	out = doJSON(t, router, http.MethodPost, "/api/v1/content/tags", body, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, 0, out.Code)

	out = doJSON(t, router, http.MethodGet, "/api/v1/status", nil, nil)
	require.Equal(t, 0, out.Code)
}
