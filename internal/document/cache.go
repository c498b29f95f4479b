package document

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTextTTL = 30 * time.Minute

// TextCache keeps extracted document text in Redis so repeated generation
// calls against the same document skip re-extraction.
type TextCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Cache = (*TextCache)(nil)

// NewTextCache builds a Redis-backed cache with the given TTL.
func NewTextCache(client *redis.Client, ttl time.Duration) *TextCache {
	if ttl <= 0 {
		ttl = defaultTextTTL
	}
	return &TextCache{client: client, ttl: ttl}
}

func (c *TextCache) key(docID string) string {
	return "doctext:" + docID
}

// Get returns the cached text, or ("", nil) on a miss.
func (c *TextCache) Get(ctx context.Context, docID string) (string, error) {
	text, err := c.client.Get(ctx, c.key(docID)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return text, nil
}

// Set stores the extracted text with the configured TTL.
func (c *TextCache) Set(ctx context.Context, docID, text string) error {
	return c.client.Set(ctx, c.key(docID), text, c.ttl).Err()
}
