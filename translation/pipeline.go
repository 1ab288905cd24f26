//go:generate go run go.uber.org/mock/mockgen -source=pipeline.go -destination=../mocks/mock_translator.go -package=mocks
package translation

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

const DefaultProviderTimeout = 5 * time.Second

// Translator is one translation backend. Implementations return an error for anything
// that is not a usable translation, including an empty response.
type Translator interface {
	Name() string
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// StrictTranslator is a backend able to retry with tighter instructions when its first
// output looks wrong.
type StrictTranslator interface {
	Translator
	TranslateStrict(ctx context.Context, text, from, to string) (string, error)
}

type IPipeline interface {
	Translate(ctx context.Context, text, from, to string) string
	Stats() Stats
}

// Pipeline resolves a translation through the cache, then each provider in order.
// It never fails: the caller gets the input back when nothing worked.
type Pipeline struct {
	log       *slog.Logger
	cache     *Cache
	providers []Translator
	timeout   time.Duration
	failures  atomic.Int64
}

func NewPipeline(log *slog.Logger, cache *Cache, timeout time.Duration, providers ...Translator) *Pipeline {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &Pipeline{
		log:       log,
		cache:     cache,
		providers: providers,
		timeout:   timeout,
	}
}

func (p *Pipeline) Translate(ctx context.Context, text, from, to string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	if IsConcrete(from) && from == to {
		return text
	}
	if cached, ok := p.cache.Get(text, from, to); ok {
		return cached
	}

	for _, provider := range p.providers {
		if ctx.Err() != nil {
			break
		}
		translated, ok := p.tryProvider(ctx, provider, text, from, to)
		if !ok {
			continue
		}
		p.cache.Put(text, from, to, translated)
		return translated
	}

	p.failures.Add(1)
	p.log.Debug("No provider produced a translation", "from", from, "to", to)
	return text
}

func (p *Pipeline) tryProvider(ctx context.Context, provider Translator, text, from, to string) (string, bool) {
	translated, err := p.call(ctx, provider.Translate, text, from, to)
	if err != nil {
		p.log.Debug("Translation provider failed", "provider", provider.Name(), "error", err)
		return "", false
	}

	strict, ok := provider.(StrictTranslator)
	if !ok {
		return translated, true
	}
	if Plausible(text, translated, from, to) {
		return translated, true
	}

	p.log.Debug("Implausible translation, retrying strictly", "provider", provider.Name(), "to", to)
	translated, err = p.call(ctx, strict.TranslateStrict, text, from, to)
	if err != nil || !Plausible(text, translated, from, to) {
		return "", false
	}
	return translated, true
}

func (p *Pipeline) call(
	ctx context.Context,
	fn func(context.Context, string, string, string) (string, error),
	text, from, to string,
) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return fn(callCtx, text, from, to)
}

func (p *Pipeline) Stats() Stats {
	stats := p.cache.Stats()
	stats.Failures = p.failures.Load()
	return stats
}
