package main

import (
	"fmt"
	"time"

	"github.com/xxxsen/contentintel/internal/ai"
	"github.com/xxxsen/contentintel/internal/analysis"
	"github.com/xxxsen/contentintel/internal/config"
	"github.com/xxxsen/contentintel/internal/embedding"
	"github.com/xxxsen/contentintel/internal/querycache"
	"github.com/xxxsen/contentintel/internal/search"
	"github.com/xxxsen/contentintel/internal/service"
)

type app struct {
	engine   *embedding.Engine
	enhancer *search.Enhancer
	content  *service.ContentService
}

func buildApp(cfg *config.Config) (*app, error) {
	opts := []embedding.Option{embedding.WithSeed(cfg.Embedding.Seed)}
	if cfg.Embedding.Disabled {
		opts = append(opts, embedding.WithDisabled())
	}
	engine := embedding.New(opts...)

	articleEmbedder := embedding.WrapLRU(engine, cfg.Embedding.CacheSize, time.Duration(cfg.Embedding.CacheTTLSeconds)*time.Second)
	enhancer, err := search.NewEnhancer(articleEmbedder, search.WithWorkers(cfg.Search.Workers))
	if err != nil {
		_ = engine.Close()
		return nil, fmt.Errorf("init search enhancer: %w", err)
	}

	remote, err := buildRemote(cfg.AI)
	if err != nil {
		enhancer.Close()
		_ = engine.Close()
		return nil, err
	}
	var prober analysis.Prober
	if remote != nil {
		prober = remote
	}
	selector := analysis.NewSelector(prober, analysis.NewLocal())

	content := service.NewContentService(
		engine,
		querycache.New(engine, cfg.QueryCache.Capacity),
		enhancer,
		selector,
		service.Config{
			SummaryLength: cfg.Summary.MaxLength,
			ExcerptLength: cfg.Excerpt.MaxLength,
			WordsPerMin:   cfg.Reading.WPM,
			MaxInputChars: cfg.AI.MaxInputChars,
		},
	)
	return &app{engine: engine, enhancer: enhancer, content: content}, nil
}

func buildRemote(cfg config.AIConfig) (*analysis.Remote, error) {
	if len(cfg.Providers) == 0 {
		return nil, nil
	}
	entries := make([]ai.GeneratorEntry, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		provider, err := ai.NewProvider(p.Type, p.Data)
		if err != nil {
			return nil, fmt.Errorf("init ai provider %s: %w", p.Name, err)
		}
		entries = append(entries, ai.GeneratorEntry{
			Name:      p.Name,
			Generator: ai.NewGenerator(provider, p.Model),
		})
	}
	manager := ai.NewManager(ai.NewGroupGenerator(entries), ai.ManagerConfig{
		Timeout:       cfg.Timeout,
		MaxInputChars: cfg.MaxInputChars,
	})
	return analysis.NewRemote(manager), nil
}

func (a *app) Close() {
	a.enhancer.Close()
	_ = a.engine.Close()
}
