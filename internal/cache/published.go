package cache

import (
	"context"
	"encoding/json"
	"time"
)

// publishedKeyPrefix namespaces cached published-page payloads.
const publishedKeyPrefix = "published:"

// PublishedPages caches rendered published-page payloads keyed by slug.
// A publish invalidates the whole namespace so stale pages never serve.
type PublishedPages struct {
	cache Cacher
	ttl   time.Duration
}

// NewPublishedPages creates the published-page cache view.
func NewPublishedPages(c Cacher, ttl time.Duration) *PublishedPages {
	return &PublishedPages{cache: c, ttl: ttl}
}

// Get loads a cached payload into v. Returns false on miss; backend
// errors degrade to a miss so rendering always proceeds.
func (p *PublishedPages) Get(ctx context.Context, slug string, v any) bool {
	data, err := p.cache.Get(ctx, publishedKeyPrefix+slug)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// Set stores a payload for slug. Failures are ignored; the cache is an
// optimization, not a source of truth.
func (p *PublishedPages) Set(ctx context.Context, slug string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = p.cache.Set(ctx, publishedKeyPrefix+slug, data, p.ttl)
}

// Invalidate drops all cached published pages. Called after every
// publish and schedule fire.
func (p *PublishedPages) Invalidate(ctx context.Context) {
	type prefixDeleter interface {
		DeleteByPrefix(ctx context.Context, prefix string) error
	}
	if pd, ok := p.cache.(prefixDeleter); ok {
		_ = pd.DeleteByPrefix(ctx, publishedKeyPrefix)
		return
	}
	_ = p.cache.Clear(ctx)
}
