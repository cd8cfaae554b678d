package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/projectvault/vault-backend/internal/vault/filter"
)

const (
	summaryKeyPrefix    = "vault:summary:"     // vault:summary:{owner_id}
	generationKeyPrefix = "vault:summary-gen:" // vault:summary-gen:{owner_id}
	defaultSummaryTTL   = 10 * time.Minute
	generationTTL       = 24 * time.Hour
)

// Summary is the cached per-owner aggregate shown next to the project grid.
type Summary struct {
	Stats          filter.Stats `json:"stats"`
	TechVocabulary []string     `json:"tech_vocabulary"`
}

// SummaryCache stores per-owner summaries in Redis.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryCache creates a new SummaryCache. A non-positive ttl uses the default.
func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	if ttl <= 0 {
		ttl = defaultSummaryTTL
	}
	return &SummaryCache{client: client, ttl: ttl}
}

// Get returns the cached summary. The bool is false on a cache miss.
func (c *SummaryCache) Get(ctx context.Context, ownerID string) (*Summary, bool, error) {
	data, err := c.client.Get(ctx, c.key(ownerID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get summary: %w", err)
	}

	var s Summary
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal summary: %w", err)
	}
	return &s, true, nil
}

// Generation returns the owner's invalidation counter. Read it before loading
// the data a summary is computed from and pass it to Set.
func (c *SummaryCache) Generation(ctx context.Context, ownerID string) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey(ownerID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get summary generation: %w", err)
	}
	return gen, nil
}

// Set stores the summary unless the owner was invalidated after gen was read.
// A skipped write is not an error.
func (c *SummaryCache) Set(ctx context.Context, ownerID string, gen int64, s Summary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	genKey := c.genKey(ownerID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(ownerID), data, c.ttl)
			return nil
		})
		return err
	}, genKey)

	// Lost the race with an invalidation.
	if err == redis.TxFailedErr {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to set summary: %w", err)
	}
	return nil
}

// Invalidate drops the owner's summary and bumps the generation so that a
// summary computed from older data is not written back.
func (c *SummaryCache) Invalidate(ctx context.Context, ownerID string) error {
	genKey := c.genKey(ownerID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		pipe.Del(ctx, c.key(ownerID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate summary: %w", err)
	}
	return nil
}

func (c *SummaryCache) key(ownerID string) string {
	return fmt.Sprintf("%s%s", summaryKeyPrefix, ownerID)
}

func (c *SummaryCache) genKey(ownerID string) string {
	return generationKeyPrefix + ownerID
}
