package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/contentintel/internal/service"
)

type StatusSource interface {
	Status() service.Status
}

type CacheStatsJob struct {
	source StatusSource
}

func NewCacheStatsJob(source StatusSource) *CacheStatsJob {
	return &CacheStatsJob{source: source}
}

func (j *CacheStatsJob) Name() string {
	return "cache_stats"
}

func (j *CacheStatsJob) Run(ctx context.Context) error {
	if j.source == nil {
		return nil
	}
	st := j.source.Status()
	logutil.GetLogger(ctx).Info("content cache stats",
		zap.String("embedding_mode", st.EmbeddingMode),
		zap.Int("cached_queries", st.CachedQueries),
		zap.Int("cache_capacity", st.CacheCapacity),
		zap.Int("cached_results", st.CachedResults),
		zap.String("analyzer", st.Analyzer),
		zap.Bool("remote_active", st.RemoteActive),
	)
	return nil
}
