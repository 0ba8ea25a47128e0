package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// WrapLRU memoizes embeddings of identical texts. Article texts repeat across
// searches, so reranking the same candidates twice skips the forward pass.
func WrapLRU(e Embedder, size int, ttl time.Duration) Embedder {
	if e == nil || size <= 0 || ttl <= 0 {
		return e
	}
	return &lruEmbedder{
		next:  e,
		cache: expirable.NewLRU[string, Embedding](size, nil, ttl),
	}
}

type lruEmbedder struct {
	next  Embedder
	cache *expirable.LRU[string, Embedding]
}

func (l *lruEmbedder) Embed(ctx context.Context, text string) (Embedding, error) {
	key := cacheKey(text)
	if cached, ok := l.cache.Get(key); ok {
		logutil.GetLogger(ctx).Debug("embedding cache hit", zap.String("source", cached.Source.String()))
		return clone(cached), nil
	}
	res, err := l.next.Embed(ctx, text)
	if err != nil {
		return Embedding{}, err
	}
	l.cache.Add(key, clone(res))
	return res, nil
}

func cacheKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

func clone(e Embedding) Embedding {
	if len(e.Values) == 0 {
		return Embedding{Source: e.Source}
	}
	values := make([]float32, len(e.Values))
	copy(values, e.Values)
	return Embedding{Values: values, Source: e.Source}
}
