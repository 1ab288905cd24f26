package translation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeTranslator struct {
	name   string
	calls  atomic.Int32
	output string
	err    error
	delay  time.Duration
}

func (f *fakeTranslator) Name() string { return f.name }

func (f *fakeTranslator) Translate(ctx context.Context, text, from, to string) (string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.output, f.err
}

type fakeStrictTranslator struct {
	fakeTranslator
	strictCalls  atomic.Int32
	strictOutput string
}

func (f *fakeStrictTranslator) TranslateStrict(_ context.Context, _, _, _ string) (string, error) {
	f.strictCalls.Add(1)
	return f.strictOutput, nil
}

func newTestPipeline(providers ...Translator) *Pipeline {
	return NewPipeline(slog.New(slog.DiscardHandler), NewCache(100), 50*time.Millisecond, providers...)
}

func TestPipeline_CachesSuccessfulTranslation(t *testing.T) {
	req := require.New(t)
	provider := &fakeTranslator{name: "primary", output: "नमस्ते"}
	pipeline := newTestPipeline(provider)

	req.Equal("नमस्ते", pipeline.Translate(context.Background(), "Hello", "en", "hi"))
	req.Equal("नमस्ते", pipeline.Translate(context.Background(), "Hello", "en", "hi"))
	req.Equal(int32(1), provider.calls.Load())

	stats := pipeline.Stats()
	req.Equal(int64(1), stats.Hits)
	req.Equal(int64(1), stats.Misses)
	req.Equal(1, stats.Size)
}

func TestPipeline_NormalizedTextSharesCacheEntry(t *testing.T) {
	req := require.New(t)
	provider := &fakeTranslator{name: "primary", output: "Bonjour"}
	pipeline := newTestPipeline(provider)

	pipeline.Translate(context.Background(), "Hello", "en", "fr")
	pipeline.Translate(context.Background(), "  HELLO ", "en", "fr")
	req.Equal(int32(1), provider.calls.Load())
}

func TestPipeline_ShortCircuits(t *testing.T) {
	req := require.New(t)
	provider := &fakeTranslator{name: "primary", output: "nope"}
	pipeline := newTestPipeline(provider)

	req.Equal("", pipeline.Translate(context.Background(), "", "en", "fr"))
	req.Equal("   ", pipeline.Translate(context.Background(), "   ", "en", "fr"))
	req.Equal("Hello", pipeline.Translate(context.Background(), "Hello", "en", "en"))
	req.Zero(provider.calls.Load())
}

func TestPipeline_AutoSourceIsNotShortCircuited(t *testing.T) {
	req := require.New(t)
	provider := &fakeTranslator{name: "primary", output: "Hallo"}
	pipeline := newTestPipeline(provider)

	req.Equal("Hallo", pipeline.Translate(context.Background(), "Hello", AutoLanguage, AutoLanguage))
	req.Equal(int32(1), provider.calls.Load())
}

func TestPipeline_FallsBackInOrder(t *testing.T) {
	req := require.New(t)
	first := &fakeTranslator{name: "first", err: errors.New("quota exceeded")}
	second := &fakeTranslator{name: "second", delay: time.Second, output: "late"}
	third := &fakeTranslator{name: "third", output: "Hola"}
	pipeline := newTestPipeline(first, second, third)

	req.Equal("Hola", pipeline.Translate(context.Background(), "Hello", "en", "es"))
	req.Equal(int32(1), first.calls.Load())
	req.Equal(int32(1), second.calls.Load())
	req.Equal(int32(1), third.calls.Load())
}

func TestPipeline_TotalFailureReturnsInput(t *testing.T) {
	req := require.New(t)
	failing := &fakeTranslator{name: "failing", err: errors.New("down")}
	pipeline := newTestPipeline(failing)

	req.Equal("Hello", pipeline.Translate(context.Background(), "Hello", "en", "es"))
	req.Equal(int64(1), pipeline.Stats().Failures)
	req.Zero(pipeline.Stats().Size)
}

func TestPipeline_StrictRetryOnImplausibleOutput(t *testing.T) {
	req := require.New(t)
	llm := &fakeStrictTranslator{
		fakeTranslator: fakeTranslator{name: "llm", output: "Hello"},
		strictOutput:   "नमस्ते",
	}
	pipeline := newTestPipeline(llm)

	req.Equal("नमस्ते", pipeline.Translate(context.Background(), "Hello", "en", "hi"))
	req.Equal(int32(1), llm.calls.Load())
	req.Equal(int32(1), llm.strictCalls.Load())
}

func TestPipeline_ImplausibleStrictOutputFallsThrough(t *testing.T) {
	req := require.New(t)
	llm := &fakeStrictTranslator{
		fakeTranslator: fakeTranslator{name: "llm", output: "Namaste"},
		strictOutput:   "Namaste",
	}
	pipeline := newTestPipeline(llm)

	req.Equal("Hello", pipeline.Translate(context.Background(), "Hello", "en", "hi"))
	req.Equal(int32(1), llm.strictCalls.Load())
}

func TestCache_EvictsOldestFirst(t *testing.T) {
	req := require.New(t)
	cache := NewCache(2)

	cache.Put("one", "en", "fr", "un")
	cache.Put("two", "en", "fr", "deux")
	_, _ = cache.Get("one", "en", "fr")
	cache.Put("three", "en", "fr", "trois")

	_, ok := cache.Get("one", "en", "fr")
	req.False(ok)
	value, ok := cache.Get("two", "en", "fr")
	req.True(ok)
	req.Equal("deux", value)
	req.Equal(2, cache.Len())
}

func TestCache_ConcurrentPutsStayBounded(t *testing.T) {
	req := require.New(t)
	cache := NewCache(10)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cache.Put(string(rune('a'+i%26))+"-"+string(rune('A'+i/26)), "en", "fr", "x")
		}(i)
	}
	wg.Wait()
	req.LessOrEqual(cache.Len(), 10)
}

func TestPlausible(t *testing.T) {
	req := require.New(t)
	req.True(Plausible("Hello", "नमस्ते", "en", "hi"))
	req.False(Plausible("Hello", "Namaste", "en", "hi"))
	req.False(Plausible("Hello", "Hello", "en", "fr"))
	req.True(Plausible("Hello", "Bonjour", "en", "fr"))
	req.True(Plausible("42", "42!", "en", "ru"))
	req.False(Plausible("Hello", "  ", "en", "fr"))
}
