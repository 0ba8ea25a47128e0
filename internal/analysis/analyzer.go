// Package analysis chooses between the remote AI classifier and the local
// keyword heuristics for summaries, sentiment and tags.
package analysis

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/contentintel/internal/ai"
	"github.com/xxxsen/contentintel/internal/model"
	"github.com/xxxsen/contentintel/internal/sentiment"
	"github.com/xxxsen/contentintel/internal/textutil"
)

type Analyzer interface {
	Name() string
	Summarize(ctx context.Context, text string, maxLength int) (Result, error)
	Sentiment(ctx context.Context, text string) (model.Sentiment, error)
	Tags(ctx context.Context, text string, maxTags int) (TagResult, error)
}

type Result struct {
	Text   string `json:"summary"`
	Source string `json:"source"`
}

type TagResult struct {
	Tags   []string `json:"tags"`
	Source string   `json:"source"`
}

// Local never fails.
type Local struct{}

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Name() string {
	return sentiment.SourceLocal
}

func (l *Local) Summarize(ctx context.Context, text string, maxLength int) (Result, error) {
	return Result{Text: textutil.Summarize(text, maxLength), Source: sentiment.SourceLocal}, nil
}

func (l *Local) Sentiment(ctx context.Context, text string) (model.Sentiment, error) {
	return sentiment.Classify(text), nil
}

func (l *Local) Tags(ctx context.Context, text string, maxTags int) (TagResult, error) {
	return TagResult{Tags: sentiment.Tags(text, maxTags), Source: sentiment.SourceLocal}, nil
}

type Remote struct {
	m *ai.Manager
}

func NewRemote(m *ai.Manager) *Remote {
	return &Remote{m: m}
}

func (r *Remote) Name() string {
	return ai.SourceRemote + ":" + r.m.Name()
}

func (r *Remote) Probe(ctx context.Context) error {
	return r.m.Probe(ctx)
}

func (r *Remote) Summarize(ctx context.Context, text string, maxLength int) (Result, error) {
	if maxLength <= 0 {
		maxLength = textutil.DefaultSummaryLength
	}
	out, err := r.m.Summarize(ctx, text, maxLength)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: out, Source: ai.SourceRemote}, nil
}

func (r *Remote) Sentiment(ctx context.Context, text string) (model.Sentiment, error) {
	return r.m.Sentiment(ctx, text)
}

func (r *Remote) Tags(ctx context.Context, text string, maxTags int) (TagResult, error) {
	tags, err := r.m.ExtractTags(ctx, text, maxTags)
	if err != nil {
		return TagResult{}, err
	}
	return TagResult{Tags: tags, Source: ai.SourceRemote}, nil
}

// Fallback answers with secondary whenever primary fails.
type Fallback struct {
	primary   Analyzer
	secondary Analyzer
}

func NewFallback(primary, secondary Analyzer) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

func (f *Fallback) Name() string {
	return f.primary.Name() + ">" + f.secondary.Name()
}

func (f *Fallback) Summarize(ctx context.Context, text string, maxLength int) (Result, error) {
	res, err := f.primary.Summarize(ctx, text, maxLength)
	if err == nil {
		return res, nil
	}
	f.logFallback(ctx, "summarize", err)
	return f.secondary.Summarize(ctx, text, maxLength)
}

func (f *Fallback) Sentiment(ctx context.Context, text string) (model.Sentiment, error) {
	res, err := f.primary.Sentiment(ctx, text)
	if err == nil {
		return res, nil
	}
	f.logFallback(ctx, "sentiment", err)
	return f.secondary.Sentiment(ctx, text)
}

func (f *Fallback) Tags(ctx context.Context, text string, maxTags int) (TagResult, error) {
	res, err := f.primary.Tags(ctx, text, maxTags)
	if err == nil {
		return res, nil
	}
	f.logFallback(ctx, "tags", err)
	return f.secondary.Tags(ctx, text, maxTags)
}

func (f *Fallback) logFallback(ctx context.Context, feature string, err error) {
	logutil.GetLogger(ctx).Warn("remote analysis failed, use local heuristic",
		zap.String("feature", feature), zap.String("primary", f.primary.Name()), zap.Error(err))
}
