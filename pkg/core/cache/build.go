package cache

import (
	"github.com/msto63/posttext/foundation/utils/filex"
)

// BuildCache remembers the content hash of each compiled source so that
// unchanged sources can skip a rebuild
type BuildCache struct {
	cache *Cache
}

// BuildStats counts lookups of previous builds
type BuildStats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// NewBuildCache creates an empty build cache
func NewBuildCache() *BuildCache {
	return &BuildCache{
		cache: New(Config{MaxItems: 256}),
	}
}

// Changed reports whether content differs from what was last remembered
// for path
func (b *BuildCache) Changed(path string, content []byte) bool {
	prev, ok := b.cache.Get(path)
	return !ok || prev.(string) != HashContent(content)
}

// Remember records content as the last successful build of path
func (b *BuildCache) Remember(path string, content []byte) {
	b.cache.Set(path, HashContent(content))
}

// Forget drops path so that the next build runs unconditionally
func (b *BuildCache) Forget(path string) {
	b.cache.Delete(path)
}

// Stats reports how often a previous build of a path was found
func (b *BuildCache) Stats() BuildStats {
	hits, misses, rate := b.cache.Stats()
	return BuildStats{Hits: hits, Misses: misses, HitRate: rate}
}

// HashContent returns the hex SHA-256 of content
func HashContent(content []byte) string {
	return filex.HashBytes(content)
}
