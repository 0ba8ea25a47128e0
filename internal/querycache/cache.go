package querycache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/contentintel/internal/embedding"
)

const (
	DefaultCapacity = 100
	DefaultLimit    = 5
)

type Entry struct {
	Query     string
	Embedding embedding.Embedding
	Timestamp time.Time
}

// Cache keeps the most recent search queries for "similar query" suggestions.
// Eviction is strict insertion order (FIFO), not recency: looking an entry up
// never protects it, and re-adding a cached query refreshes it in place
// without moving it.
type Cache struct {
	embedder embedding.Embedder
	capacity int
	now      func() time.Time

	mu      sync.Mutex
	entries []*Entry
	index   map[string]*Entry
}

func New(embedder embedding.Embedder, capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		embedder: embedder,
		capacity: capacity,
		now:      time.Now,
		entries:  make([]*Entry, 0, capacity+1),
		index:    make(map[string]*Entry, capacity+1),
	}
}

func (c *Cache) Add(ctx context.Context, query string) error {
	emb, err := c.embedder.Embed(ctx, query)
	if err != nil {
		return err
	}
	ts := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.index[query]; ok {
		existing.Embedding = emb
		existing.Timestamp = ts
		return nil
	}
	entry := &Entry{Query: query, Embedding: emb, Timestamp: ts}
	c.entries = append(c.entries, entry)
	c.index[query] = entry
	for len(c.entries) > c.capacity {
		evicted := c.entries[0]
		c.entries[0] = nil
		c.entries = c.entries[1:]
		delete(c.index, evicted.Query)
		logutil.GetLogger(ctx).Debug("query cache evicted", zap.String("query", evicted.Query))
	}
	return nil
}

// Similar returns up to limit cached queries ordered by similarity to query,
// excluding an exact match of query itself. Ties keep insertion order.
func (c *Cache) Similar(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	snapshot := c.snapshot()
	if len(snapshot) == 0 {
		return []string{}, nil
	}
	probe, err := c.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	type scored struct {
		query string
		score float64
	}
	scores := make([]scored, 0, len(snapshot))
	for _, entry := range snapshot {
		if entry.Query == query {
			continue
		}
		scores = append(scores, scored{query: entry.Query, score: embedding.Similarity(probe, entry.Embedding)})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})
	if limit > len(scores) {
		limit = len(scores)
	}
	result := make([]string, 0, limit)
	for _, s := range scores[:limit] {
		result = append(result, s.query)
	}
	return result, nil
}

func (c *Cache) snapshot() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, *e)
	}
	return out
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) Capacity() int {
	return c.capacity
}

// Queries lists cached queries, oldest first.
func (c *Cache) Queries() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.Query)
	}
	return out
}
