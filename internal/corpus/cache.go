package corpus

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/citegate/citegate/internal/model"
)

// CachedIndex memoizes Search and ReadLines results of an inner index.
// Caching lives on the corpus side only: run-scoped objects (claims,
// records) are never cached, and the corpus is read-only so entries cannot
// go stale within their TTL under normal operation.
type CachedIndex struct {
	inner Index
	cache *gocache.Cache
}

// NewCachedIndex wraps inner with an in-memory cache using the given TTL
func NewCachedIndex(inner Index, ttl time.Duration) *CachedIndex {
	return &CachedIndex{
		inner: inner,
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

// Files delegates to the inner index
func (c *CachedIndex) Files() []string {
	return c.inner.Files()
}

// Search returns cached results when the same query/scope/limit was seen
// before; otherwise it delegates and stores the result
func (c *CachedIndex) Search(ctx context.Context, query string, scope []string, maxResults int) ([]model.EvidenceSpan, error) {
	key := cacheKey("search", query, strings.Join(scope, "\x00"), fmt.Sprintf("%d", maxResults))

	if val, found := c.cache.Get(key); found {
		cached := val.([]model.EvidenceSpan)
		return append([]model.EvidenceSpan(nil), cached...), nil
	}

	spans, err := c.inner.Search(ctx, query, scope, maxResults)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, append([]model.EvidenceSpan(nil), spans...), gocache.DefaultExpiration)
	return spans, nil
}

// ReadLines returns the cached text for a previously read range, otherwise
// delegates and stores the result
func (c *CachedIndex) ReadLines(ctx context.Context, fileID string, lines model.LineRange) (string, error) {
	key := cacheKey("read", fileID, fmt.Sprintf("%d-%d", lines.Start, lines.End))

	if val, found := c.cache.Get(key); found {
		return val.(string), nil
	}

	quote, err := c.inner.ReadLines(ctx, fileID, lines)
	if err != nil {
		return "", err
	}

	c.cache.Set(key, quote, gocache.DefaultExpiration)
	return quote, nil
}

func cacheKey(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return "citegate:v1:" + hex.EncodeToString(hash[:])
}
