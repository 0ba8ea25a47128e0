package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/contentintel/internal/ai"
	"github.com/xxxsen/contentintel/internal/analysis"
	"github.com/xxxsen/contentintel/internal/embedding"
	"github.com/xxxsen/contentintel/internal/model"
	appErr "github.com/xxxsen/contentintel/internal/pkg/errors"
	"github.com/xxxsen/contentintel/internal/querycache"
	"github.com/xxxsen/contentintel/internal/search"
	"github.com/xxxsen/contentintel/internal/textutil"
)

const (
	FormatText     = "text"
	FormatMarkdown = "markdown"

	resultCacheSize = 10000
	resultCacheTTL  = 2 * time.Hour
)

type Config struct {
	SummaryLength int
	ExcerptLength int
	WordsPerMin   int
	MaxInputChars int
}

type ContentService struct {
	engine   *embedding.Engine
	queries  *querycache.Cache
	enhancer *search.Enhancer
	selector *analysis.Selector
	results  *expirable.LRU[string, string]
	cfg      Config
}

func NewContentService(
	engine *embedding.Engine,
	queries *querycache.Cache,
	enhancer *search.Enhancer,
	selector *analysis.Selector,
	cfg Config,
) *ContentService {
	if cfg.SummaryLength <= 0 {
		cfg.SummaryLength = textutil.DefaultSummaryLength
	}
	if cfg.ExcerptLength <= 0 {
		cfg.ExcerptLength = textutil.DefaultExcerptLength
	}
	if cfg.WordsPerMin <= 0 {
		cfg.WordsPerMin = textutil.DefaultWordsPerMin
	}
	return &ContentService{
		engine:   engine,
		queries:  queries,
		enhancer: enhancer,
		selector: selector,
		results:  expirable.NewLRU[string, string](resultCacheSize, nil, resultCacheTTL),
		cfg:      cfg,
	}
}

// Search reranks article objects for query and records the query for
// suggestions. Articles keep whatever fields the caller sent. A blank query
// leaves them untouched.
func (s *ContentService) Search(ctx context.Context, query string, articles []json.RawMessage) []json.RawMessage {
	query = strings.TrimSpace(query)
	if query == "" {
		return articles
	}
	out := s.enhancer.EnhanceRaw(ctx, query, articles)
	if err := s.queries.Add(ctx, query); err != nil {
		logutil.GetLogger(ctx).Warn("record search query failed", zap.String("query", query), zap.Error(err))
	}
	return out
}

func (s *ContentService) SimilarQueries(ctx context.Context, query string, limit int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, appErr.ErrInvalid
	}
	res, err := s.queries.Similar(ctx, query, limit)
	if err != nil {
		logutil.GetLogger(ctx).Warn("similar query lookup failed", zap.String("query", query), zap.Error(err))
		return []string{}, nil
	}
	return res, nil
}

func (s *ContentService) Summarize(ctx context.Context, input string, maxLength int, format string) (analysis.Result, error) {
	text, err := s.cleanInput(input, format)
	if err != nil {
		return analysis.Result{}, err
	}
	if maxLength <= 0 {
		maxLength = s.cfg.SummaryLength
	}
	key := s.cacheKey("summary:"+strconv.Itoa(maxLength), text)
	var cached analysis.Result
	if s.loadCached(key, &cached) {
		return cached, nil
	}
	res, err := s.selector.Current().Summarize(ctx, text, maxLength)
	if err != nil {
		return analysis.Result{}, err
	}
	s.storeRemote(key, res.Source, res)
	return res, nil
}

func (s *ContentService) Excerpt(input string, maxLength int, format string) string {
	text := normalize(input, format)
	if maxLength <= 0 {
		maxLength = s.cfg.ExcerptLength
	}
	return textutil.Excerpt(text, maxLength)
}

func (s *ContentService) ReadingTime(input string, wpm int, format string) int {
	if wpm <= 0 {
		wpm = s.cfg.WordsPerMin
	}
	return textutil.ReadingTime(normalize(input, format), wpm)
}

func (s *ContentService) Sentiment(ctx context.Context, input string) (model.Sentiment, error) {
	text, err := s.cleanInput(input, FormatText)
	if err != nil {
		return model.Sentiment{}, err
	}
	key := s.cacheKey("sentiment", text)
	var cached model.Sentiment
	if s.loadCached(key, &cached) {
		return cached, nil
	}
	res, err := s.selector.Current().Sentiment(ctx, text)
	if err != nil {
		return model.Sentiment{}, err
	}
	s.storeRemote(key, res.Source, res)
	return res, nil
}

func (s *ContentService) Tags(ctx context.Context, input string, maxTags int) (analysis.TagResult, error) {
	text, err := s.cleanInput(input, FormatText)
	if err != nil {
		return analysis.TagResult{}, err
	}
	key := s.cacheKey("tags:"+strconv.Itoa(maxTags), text)
	var cached analysis.TagResult
	if s.loadCached(key, &cached) {
		return cached, nil
	}
	res, err := s.selector.Current().Tags(ctx, text, maxTags)
	if err != nil {
		return analysis.TagResult{}, err
	}
	s.storeRemote(key, res.Source, res)
	return res, nil
}

type Analysis struct {
	Summary     analysis.Result    `json:"summary"`
	Excerpt     string             `json:"excerpt"`
	ReadingTime int                `json:"reading_time"`
	Sentiment   model.Sentiment    `json:"sentiment"`
	Tags        analysis.TagResult `json:"tags"`
}

func (s *ContentService) Analyze(ctx context.Context, input string, format string) (*Analysis, error) {
	text, err := s.cleanInput(input, format)
	if err != nil {
		return nil, err
	}
	summary, err := s.Summarize(ctx, text, 0, FormatText)
	if err != nil {
		return nil, err
	}
	sent, err := s.Sentiment(ctx, text)
	if err != nil {
		return nil, err
	}
	tags, err := s.Tags(ctx, text, 0)
	if err != nil {
		return nil, err
	}
	return &Analysis{
		Summary:     summary,
		Excerpt:     s.Excerpt(text, 0, FormatText),
		ReadingTime: s.ReadingTime(text, 0, FormatText),
		Sentiment:   sent,
		Tags:        tags,
	}, nil
}

type Status struct {
	EmbeddingMode string `json:"embedding_mode"`
	CachedQueries int    `json:"cached_queries"`
	CacheCapacity int    `json:"cache_capacity"`
	Analyzer      string `json:"analyzer"`
	RemoteActive  bool   `json:"remote_active"`
	Probes        int64  `json:"probes"`
	CachedResults int    `json:"cached_results"`
}

func (s *ContentService) Status() Status {
	return Status{
		EmbeddingMode: string(s.engine.Mode()),
		CachedQueries: s.queries.Len(),
		CacheCapacity: s.queries.Capacity(),
		Analyzer:      s.selector.Current().Name(),
		RemoteActive:  s.selector.RemoteActive(),
		Probes:        s.selector.Probes(),
		CachedResults: s.results.Len(),
	}
}

// Reprobe re-checks remote AI capability. Cached remote answers survive a
// switch to local; they are still valid answers for their text.
func (s *ContentService) Reprobe(ctx context.Context) bool {
	return s.selector.Reprobe(ctx)
}

func (s *ContentService) loadCached(key string, dst interface{}) bool {
	raw, ok := s.results.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(raw), dst) == nil
}

func (s *ContentService) storeRemote(key, source string, v interface{}) {
	if source != ai.SourceRemote {
		return
	}
	if data, err := json.Marshal(v); err == nil {
		s.results.Add(key, string(data))
	}
}

func (s *ContentService) cleanInput(input, format string) (string, error) {
	trimmed := normalize(input, format)
	if trimmed == "" {
		return "", appErr.ErrInvalid
	}
	if max := s.cfg.MaxInputChars; max > 0 && len([]rune(trimmed)) > max {
		return "", appErr.ErrInvalid
	}
	return trimmed, nil
}

func (s *ContentService) cacheKey(feature, text string) string {
	hash := sha256.Sum256([]byte(text))
	return feature + ":" + hex.EncodeToString(hash[:])
}

func normalize(input, format string) string {
	if strings.EqualFold(strings.TrimSpace(format), FormatMarkdown) {
		input = textutil.PlainText(input)
	}
	return strings.TrimSpace(input)
}
