package embedding

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/xxxsen/contentintel/internal/vector"
)

var (
	ErrDisabled = errors.New("embedding model disabled")
	ErrClosed   = errors.New("embedding engine closed")
)

type Source int

const (
	SourceModel Source = iota + 1
	// SourceVectorizer marks the raw 100-d text vector returned in fallback mode.
	SourceVectorizer
)

func (s Source) String() string {
	switch s {
	case SourceModel:
		return "model"
	case SourceVectorizer:
		return "vectorizer"
	default:
		return "unknown"
	}
}

// Embedding is opaque to callers. Two embeddings are only comparable when they
// come from the same Source.
type Embedding struct {
	Values []float32
	Source Source
}

// Similarity is the cosine similarity of a and b; embeddings from different
// sources are never compared and score 0.
func Similarity(a, b Embedding) float64 {
	if a.Source != b.Source {
		return 0
	}
	return vector.Cosine(a.Values, b.Values)
}

type Embedder interface {
	Embed(ctx context.Context, text string) (Embedding, error)
}

type Mode string

const (
	ModeUninitialized Mode = "uninitialized"
	ModeModel         Mode = "model"
	ModeFallback      Mode = "fallback"
	ModeClosed        Mode = "closed"
)

type Builder func(ctx context.Context) (*Network, error)

type Option func(*Engine)

func WithBuilder(b Builder) Option {
	return func(e *Engine) {
		if b != nil {
			e.builder = b
		}
	}
}

func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.builder = seededBuilder(seed)
	}
}

// WithDisabled makes initialization fail so the engine runs in fallback mode.
func WithDisabled() Option {
	return func(e *Engine) {
		e.builder = func(ctx context.Context) (*Network, error) {
			return nil, ErrDisabled
		}
	}
}

// Engine owns the embedding network for the lifetime of the process. It is
// built lazily on first use; concurrent first callers share a single build.
// If the build fails the engine permanently serves raw text vectors instead.
type Engine struct {
	builder Builder
	group   singleflight.Group
	builds  atomic.Int64

	mu      sync.RWMutex
	mode    Mode
	net     *Network
	initErr error
}

func New(opts ...Option) *Engine {
	e := &Engine{
		builder: seededBuilder(DefaultSeed),
		mode:    ModeUninitialized,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func seededBuilder(seed int64) Builder {
	return func(ctx context.Context) (*Network, error) {
		net := NewNetwork(seed)
		if err := net.Validate(); err != nil {
			return nil, err
		}
		return net, nil
	}
}

// Init builds the network if it has not been built yet. A build failure is not
// returned: it switches the engine to fallback mode. Only ctx expiry while
// waiting for an in-flight build is reported.
func (e *Engine) Init(ctx context.Context) error {
	if e.Mode() != ModeUninitialized {
		return nil
	}
	ch := e.group.DoChan("init", func() (interface{}, error) {
		e.build()
		return nil, nil
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

func (e *Engine) build() {
	e.mu.RLock()
	done := e.mode != ModeUninitialized
	e.mu.RUnlock()
	if done {
		return
	}
	e.builds.Add(1)
	// the build is shared, so it must not die with the first caller's context
	ctx := context.Background()
	net, err := e.safeBuild(ctx)
	if err == nil {
		err = net.Validate()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != ModeUninitialized {
		return
	}
	if err != nil {
		e.mode = ModeFallback
		e.initErr = err
		logutil.GetLogger(ctx).Error("embedding model init failed, using text vectors", zap.Error(err))
		return
	}
	e.net = net
	e.mode = ModeModel
	logutil.GetLogger(ctx).Info("embedding model ready", zap.Strings("layers", net.Describe()))
}

func (e *Engine) safeBuild(ctx context.Context) (net *Network, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("build embedding model panic: %v", r)
		}
	}()
	return e.builder(ctx)
}

func (e *Engine) Embed(ctx context.Context, text string) (Embedding, error) {
	if err := e.Init(ctx); err != nil {
		return Embedding{}, err
	}
	e.mu.RLock()
	mode, net := e.mode, e.net
	e.mu.RUnlock()

	vec := vector.Vectorize(text)
	switch mode {
	case ModeModel:
		return Embedding{Values: net.Forward(vec[:]), Source: SourceModel}, nil
	case ModeFallback:
		return Embedding{Values: vec.Slice(), Source: SourceVectorizer}, nil
	default:
		return Embedding{}, ErrClosed
	}
}

func (e *Engine) Mode() Mode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mode
}

// InitErr is the error that pushed the engine into fallback mode, if any.
func (e *Engine) InitErr() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.initErr
}

func (e *Engine) Builds() int64 {
	return e.builds.Load()
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = ModeClosed
	e.net = nil
	return nil
}
