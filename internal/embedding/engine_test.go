package embedding

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/contentintel/internal/vector"
)

func TestEngineModelEmbedding(t *testing.T) {
	e := New()
	defer e.Close()

	emb, err := e.Embed(context.Background(), "দেশের অর্থনীতি ভালো করছে")
	require.NoError(t, err)
	require.Equal(t, ModeModel, e.Mode())
	require.Equal(t, SourceModel, emb.Source)
	require.Len(t, emb.Values, Dim)
	for _, v := range emb.Values {
		require.GreaterOrEqual(t, v, float32(-1))
		require.LessOrEqual(t, v, float32(1))
	}
}

func TestEngineDeterministicAcrossInstances(t *testing.T) {
	a, b := New(WithSeed(7)), New(WithSeed(7))
	ea, err := a.Embed(context.Background(), "same text")
	require.NoError(t, err)
	eb, err := b.Embed(context.Background(), "same text")
	require.NoError(t, err)
	require.Equal(t, ea, eb)
	require.InDelta(t, 1.0, Similarity(ea, eb), 1e-6)
}

func TestEngineFallbackIsPermanent(t *testing.T) {
	var calls atomic.Int32
	e := New(WithBuilder(func(ctx context.Context) (*Network, error) {
		calls.Add(1)
		return nil, errors.New("backend unavailable")
	}))

	for i := 0; i < 3; i++ {
		emb, err := e.Embed(context.Background(), "hello world")
		require.NoError(t, err)
		require.Equal(t, SourceVectorizer, emb.Source)
		require.Len(t, emb.Values, vector.Dim)
		want := vector.Vectorize("hello world")
		require.Equal(t, want.Slice(), emb.Values)
	}
	require.Equal(t, ModeFallback, e.Mode())
	require.Error(t, e.InitErr())
	require.EqualValues(t, 1, calls.Load())
}

func TestEngineDisabled(t *testing.T) {
	e := New(WithDisabled())
	require.NoError(t, e.Init(context.Background()))
	require.Equal(t, ModeFallback, e.Mode())
	require.ErrorIs(t, e.InitErr(), ErrDisabled)
}

func TestEngineBuilderPanicFallsBack(t *testing.T) {
	e := New(WithBuilder(func(ctx context.Context) (*Network, error) {
		panic("boom")
	}))
	require.NoError(t, e.Init(context.Background()))
	require.Equal(t, ModeFallback, e.Mode())
}

func TestEngineConcurrentInitSharesBuild(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	e := New(WithBuilder(func(ctx context.Context) (*Network, error) {
		calls.Add(1)
		<-release
		return NewNetwork(DefaultSeed), nil
	}))

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Embed(context.Background(), "concurrent")
			errs <- err
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	require.EqualValues(t, 1, calls.Load())
	require.EqualValues(t, 1, e.Builds())
	require.Equal(t, ModeModel, e.Mode())
}

func TestEngineInitHonorsContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	e := New(WithBuilder(func(ctx context.Context) (*Network, error) {
		<-release
		return NewNetwork(DefaultSeed), nil
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := e.Embed(ctx, "slow")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEngineClosed(t *testing.T) {
	e := New()
	require.NoError(t, e.Close())
	_, err := e.Embed(context.Background(), "x")
	require.ErrorIs(t, err, ErrClosed)
}

func TestSimilarityAcrossSources(t *testing.T) {
	a := Embedding{Values: []float32{1, 2}, Source: SourceModel}
	b := Embedding{Values: []float32{1, 2}, Source: SourceVectorizer}
	require.Zero(t, Similarity(a, b))
	require.InDelta(t, 1.0, Similarity(a, a), 1e-6)
}

func TestNetworkShape(t *testing.T) {
	net := NewNetwork(DefaultSeed)
	require.NoError(t, net.Validate())
	require.Equal(t, []string{
		"dense(100->64, relu)",
		"dropout(0.2)",
		"dense(64->32, relu)",
		"dense(32->16, tanh)",
	}, net.Describe())
	require.Len(t, net.Forward(make([]float32, vector.Dim)), Dim)
}

type countingEmbedder struct {
	calls atomic.Int32
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) (Embedding, error) {
	c.calls.Add(1)
	return Embedding{Values: []float32{float32(len(text)), 1}, Source: SourceModel}, nil
}

func TestWrapLRU(t *testing.T) {
	inner := &countingEmbedder{}
	e := WrapLRU(inner, 10, time.Minute)

	first, err := e.Embed(context.Background(), "abc")
	require.NoError(t, err)
	first.Values[0] = 99

	second, err := e.Embed(context.Background(), "abc")
	require.NoError(t, err)
	require.Equal(t, float32(3), second.Values[0])
	require.EqualValues(t, 1, inner.calls.Load())

	require.Same(t, inner, WrapLRU(inner, 0, time.Minute))
}
