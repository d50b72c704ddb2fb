// Package sitecache serves the scraped website text consumed by the chat
// pipeline's model fallback. The text is produced out-of-band (cmd/scrape)
// and read here with a hard length cap; a stale or missing cache is served
// as-is or replaced by a fallback, never refreshed inline.
package sitecache

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/liquidaesthetik/praxis-assistant/pkg/logging"
)

// Key is the Redis key holding the scraped site text.
const Key = "site:text"

// Provider supplies bounded site text. Implementations must not block on
// refreshing the underlying data.
type Provider interface {
	Text(ctx context.Context) string
}

// Truncate caps s at max runes. Rune-based so a multi-byte umlaut is never
// cut in half.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// RedisCache reads the site text from Redis, falling back to the next
// provider when the key is missing or Redis is unreachable.
type RedisCache struct {
	client   *redis.Client
	ttl      time.Duration
	maxChars int
	fallback Provider
	logger   *logging.Logger
}

// NewRedisCache creates a Redis-backed provider. fallback may be nil.
func NewRedisCache(client *redis.Client, ttl time.Duration, maxChars int, fallback Provider, logger *logging.Logger) *RedisCache {
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisCache{client: client, ttl: ttl, maxChars: maxChars, fallback: fallback, logger: logger}
}

// Text returns the cached site text, capped at maxChars.
func (c *RedisCache) Text(ctx context.Context) string {
	val, err := c.client.Get(ctx, Key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("sitecache: redis read failed", "error", err)
		}
		if c.fallback != nil {
			return c.fallback.Text(ctx)
		}
		return ""
	}
	return Truncate(val, c.maxChars)
}

// Store writes freshly scraped text with the configured TTL. Called by the
// scraper, not by request handlers.
func (c *RedisCache) Store(ctx context.Context, text string) error {
	return c.client.Set(ctx, Key, text, c.ttl).Err()
}

// FileCache reads the site text from the first readable file in its path
// list. The scraper's own output is tried before the bundled snapshot, so a
// read-only deployment still serves the shipped data.
type FileCache struct {
	paths    []string
	maxChars int
}

// NewFileCache creates a file-backed provider.
func NewFileCache(maxChars int, paths ...string) *FileCache {
	return &FileCache{paths: paths, maxChars: maxChars}
}

// Text returns the first readable file's content, capped at maxChars.
func (c *FileCache) Text(_ context.Context) string {
	for _, path := range c.paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return Truncate(string(raw), c.maxChars)
	}
	return ""
}
