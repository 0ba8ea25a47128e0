package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/contentintel/internal/embedding"
	"github.com/xxxsen/contentintel/internal/model"
)

const contentPrefixRunes = 200

// Enhancer reranks search candidates by embedding similarity to the query.
type Enhancer struct {
	embedder embedding.Embedder
	pool     *ants.Pool
}

type Option func(*Enhancer) error

// WithWorkers scores candidates on a bounded worker pool. n <= 1 keeps scoring
// on the calling goroutine.
func WithWorkers(n int) Option {
	return func(e *Enhancer) error {
		if n <= 1 {
			return nil
		}
		pool, err := ants.NewPool(n)
		if err != nil {
			return fmt.Errorf("create scoring pool: %w", err)
		}
		e.pool = pool
		return nil
	}
}

func NewEnhancer(embedder embedding.Embedder, opts ...Option) (*Enhancer, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	e := &Enhancer{embedder: embedder}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Enhance returns a copy of articles annotated with ai_relevance_score and
// search_enhanced, sorted by score descending (ties keep input order).
// It never fails: on any scoring error, panic or context expiry the original
// slice is returned untouched.
func (e *Enhancer) Enhance(ctx context.Context, query string, articles []model.Article) []model.Article {
	if len(articles) == 0 {
		return articles
	}
	logger := logutil.GetLogger(ctx).With(zap.String("query", query), zap.Int("candidates", len(articles)))
	ranked, err := e.rank(ctx, query, articles)
	if err != nil {
		logger.Warn("search enhancement failed, returning original results", zap.Error(err))
		return articles
	}
	logger.Debug("search results enhanced")
	return ranked
}

func (e *Enhancer) rank(ctx context.Context, query string, articles []model.Article) ([]model.Article, error) {
	order, scores, err := e.order(ctx, query, articles)
	if err != nil {
		return nil, err
	}
	out := make([]model.Article, 0, len(articles))
	for _, idx := range order {
		item := articles[idx]
		score := scores[idx]
		item.RelevanceScore = &score
		item.SearchEnhanced = true
		out = append(out, item)
	}
	return out, nil
}

// order returns the input indexes sorted by score descending (stable) along
// with the per-index scores.
func (e *Enhancer) order(ctx context.Context, query string, articles []model.Article) (order []int, scores []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			order, scores, err = nil, nil, fmt.Errorf("scoring panic: %v", r)
		}
	}()
	queryEmb, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("embed query: %w", err)
	}
	scores, err = e.score(ctx, queryEmb, articles)
	if err != nil {
		return nil, nil, err
	}
	order = make([]int, len(articles))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})
	return order, scores, nil
}

func (e *Enhancer) score(ctx context.Context, queryEmb embedding.Embedding, articles []model.Article) ([]float64, error) {
	scores := make([]float64, len(articles))
	scoreOne := func(i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		emb, err := e.embedder.Embed(ctx, RepresentativeText(articles[i]))
		if err != nil {
			return fmt.Errorf("embed article %d: %w", i, err)
		}
		scores[i] = embedding.Similarity(queryEmb, emb)
		return nil
	}
	if e.pool == nil {
		for i := range articles {
			if err := scoreOne(i); err != nil {
				return nil, err
			}
		}
		return scores, nil
	}

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() { firstErr = err })
	}
	for i := range articles {
		i := i
		wg.Add(1)
		submitErr := e.pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					fail(fmt.Errorf("scoring panic: %v", r))
				}
			}()
			if err := scoreOne(i); err != nil {
				fail(err)
			}
		})
		if submitErr != nil {
			wg.Done()
			fail(fmt.Errorf("submit scoring task: %w", submitErr))
			break
		}
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return scores, nil
}

// RepresentativeText is the text embedded for an article: title, excerpt and
// the first 200 runes of content.
func RepresentativeText(a model.Article) string {
	content := a.Content
	if r := []rune(content); len(r) > contentPrefixRunes {
		content = string(r[:contentPrefixRunes])
	}
	return strings.Join([]string{a.Title, a.Excerpt, content}, " ")
}

func (e *Enhancer) Close() {
	if e.pool != nil {
		e.pool.Release()
	}
}
