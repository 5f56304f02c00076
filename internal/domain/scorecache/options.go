package scorecache

// Option applies a configuration option to the in-memory cache.
type Option func(*inMemoryCache)

// WithMaxEntries sets the maximum number of cached scores.
// If maxEntries > 0: bounded mode with oldest-first eviction.
// If maxEntries <= 0: unbounded mode (no eviction, no size limit).
func WithMaxEntries(maxEntries int) Option {
	return func(c *inMemoryCache) {
		c.maxEntries = maxEntries
	}
}
