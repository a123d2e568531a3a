// Package provider fronts the platform extractors with a result cache.
package provider

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/samber/lo"
	"github.com/squidlr/squidlr/cache"
	"github.com/squidlr/squidlr/content"
	"github.com/squidlr/squidlr/log"
	"github.com/squidlr/squidlr/telemetry"
)

// Extractor resolves identifiers of one platform.
// Expected failures are returned as a content.Kind inside the result.
type Extractor interface {
	Platform() content.Platform
	Extract(ctx context.Context, id content.Identifier) content.Result
}

// DefaultTTL is how long results and cacheable failures are kept.
const DefaultTTL = 60 * time.Minute

// Provider dispatches identifiers to extractors and caches what they return.
//
// The cache lookup and the later store are not atomic: concurrent requests for
// the same identifier may all reach the extractor.
type Provider struct {
	extractors map[content.Platform]Extractor
	cache      cache.Store
	tracker    telemetry.Tracker
	ttl        time.Duration
}

type Option func(*Provider)

func WithCache(store cache.Store) Option {
	return func(p *Provider) { p.cache = store }
}

func WithTracker(tracker telemetry.Tracker) Option {
	return func(p *Provider) { p.tracker = tracker }
}

func WithTTL(ttl time.Duration) Option {
	return func(p *Provider) { p.ttl = ttl }
}

// New registers extractors by platform. A later extractor for the same platform wins.
func New(extractors []Extractor, opts ...Option) *Provider {
	p := &Provider{
		extractors: lo.KeyBy(extractors, Extractor.Platform),
		cache:      cache.NewMemory(),
		tracker:    telemetry.Nop{},
		ttl:        DefaultTTL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Platforms lists the platforms with a registered extractor.
func (p *Provider) Platforms() []content.Platform {
	return lo.Filter(content.Platforms(), func(platform content.Platform, _ int) bool {
		_, ok := p.extractors[platform]
		return ok
	})
}

// GetContent returns the content behind id, from cache when possible.
func (p *Provider) GetContent(ctx context.Context, id content.Identifier) content.Result {
	start := time.Now()
	p.tracker.Track(ctx, telemetry.NewEvent(telemetry.Requested, id))

	if cached, ok := p.lookup(ctx, id); ok {
		p.tracker.Track(ctx, telemetry.NewEvent(telemetry.CacheHit, id))
		p.trackOutcome(ctx, id, cached, true, start)
		return cached
	}

	extractor, ok := p.extractors[id.Platform]
	if !ok {
		result := content.Fail(content.PlatformNotSupported)
		p.trackOutcome(ctx, id, result, false, start)
		return result
	}

	result := p.extract(ctx, extractor, id)
	if content.KindOf(result).Cacheable() {
		p.store(ctx, id, result)
	}

	p.trackOutcome(ctx, id, result, false, start)
	return result
}

// extract runs the extractor and normalizes whatever it produced to either
// content or a bare Kind.
func (p *Provider) extract(ctx context.Context, extractor Extractor, id content.Identifier) (result content.Result) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"platform": id.Platform,
				"id":       id.ID,
				"panic":    fmt.Sprint(r),
			}).Errorf("extractor panicked\n%s", debug.Stack())
			result = content.Fail(content.Error)
		}
	}()

	result = extractor.Extract(ctx, id)

	if c, err := result.Get(); err == nil {
		if c == nil {
			log.WithFields(log.Fields{"platform": id.Platform, "id": id.ID}).Error("extractor returned no content")
			return content.Fail(content.Error)
		}
		return result
	}

	kind := content.KindOf(result)
	if ctx.Err() != nil {
		kind = content.Canceled
	}
	if kind == content.Error {
		log.WithFields(log.Fields{"platform": id.Platform, "id": id.ID}).WithError(result.Error()).Error("extraction failed")
	}
	return content.Fail(kind)
}

func (p *Provider) lookup(ctx context.Context, id content.Identifier) (content.Result, bool) {
	data, ok, err := p.cache.Get(ctx, id.CacheKey())
	if err != nil {
		log.WithError(err).WithField("key", id.CacheKey()).Warn("cache lookup failed")
		return content.Result{}, false
	}
	if !ok {
		return content.Result{}, false
	}

	result, err := content.DecodeResult(data)
	if err != nil {
		log.WithError(err).WithField("key", id.CacheKey()).Warn("discarding undecodable cache entry")
		return content.Result{}, false
	}
	return result, true
}

func (p *Provider) store(ctx context.Context, id content.Identifier, result content.Result) {
	data, err := content.EncodeResult(result)
	if err != nil {
		log.WithError(err).WithField("key", id.CacheKey()).Warn("encode result for cache")
		return
	}
	if err := p.cache.Set(ctx, id.CacheKey(), data, p.ttl); err != nil {
		log.WithError(err).WithField("key", id.CacheKey()).Warn("cache store failed")
	}
}

func (p *Provider) trackOutcome(ctx context.Context, id content.Identifier, result content.Result, cached bool, start time.Time) {
	event := telemetry.NewEvent(telemetry.Outcome, id)
	event.Result = content.KindOf(result)
	event.Cached = cached
	event.Elapsed = time.Since(start)
	p.tracker.Track(ctx, event)
}
