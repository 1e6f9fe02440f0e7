package galaxy

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	goredis "github.com/redis/go-redis/v9"

	"starmap-server/internal/shared/redis"
)

const (
	cacheKeyPrefix   = "starmap:galaxy:"
	memoryCacheLimit = 64
)

// Cache stores encoded galaxies by request digest. It uses Redis when a client
// is configured and a small in-process map otherwise.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger

	mu     sync.Mutex
	memory map[string][]byte
	order  []string
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: slog.With("component", "galaxy_cache"),
		memory: make(map[string][]byte),
	}
}

// Digest hashes a canonical request encoding into a short hex key.
func Digest(canonical []byte) string {
	return strconv.FormatUint(xxhash.Sum64(canonical), 16)
}

func (c *Cache) Get(ctx context.Context, digest string) ([]byte, bool) {
	if c.client == nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		body, ok := c.memory[digest]
		return body, ok
	}

	body, err := c.client.Get(ctx, cacheKeyPrefix+digest).Bytes()
	if err != nil {
		if !stderrors.Is(err, goredis.Nil) {
			c.logger.Warn("Cache read failed", "digest", digest, "error", err)
		}
		return nil, false
	}
	return body, true
}

func (c *Cache) Set(ctx context.Context, digest string, body []byte) {
	if c.client == nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := c.memory[digest]; !ok {
			c.order = append(c.order, digest)
		}
		c.memory[digest] = body
		for len(c.order) > memoryCacheLimit {
			delete(c.memory, c.order[0])
			c.order = c.order[1:]
		}
		return
	}

	if err := c.client.Set(ctx, cacheKeyPrefix+digest, body, c.ttl).Err(); err != nil {
		c.logger.Warn("Cache write failed", "digest", digest, "error", err)
	}
}
