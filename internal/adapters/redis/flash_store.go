package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/target/jobboard/internal/domain/auth"
)

const flashKeyPrefix = "flash:"

// FlashStore queues flash messages in a Redis list per browser.
// Each push refreshes the list TTL so abandoned queues disappear.
type FlashStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewFlashStore creates a flash store whose queues expire after ttl of inactivity.
func NewFlashStore(client redis.UniversalClient, ttl time.Duration) *FlashStore {
	if client == nil {
		panic("redis client is required")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &FlashStore{client: client, prefix: flashKeyPrefix, ttl: ttl}
}

// Push appends a message to the queue identified by key.
func (s *FlashStore) Push(ctx context.Context, key string, f domainauth.Flash) error {
	if key == "" {
		return errors.New("flash key cannot be empty")
	}
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal flash: %w", err)
	}

	k := s.prefix + key
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, k, data)
		p.Expire(ctx, k, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis push flash: %w", err)
	}
	return nil
}

// Pop returns and clears every queued message for key.
func (s *FlashStore) Pop(ctx context.Context, key string) ([]domainauth.Flash, error) {
	if key == "" {
		return nil, nil
	}

	k := s.prefix + key
	var rng *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		rng = p.LRange(ctx, k, 0, -1)
		p.Del(ctx, k)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis pop flash: %w", err)
	}

	raw := rng.Val()
	out := make([]domainauth.Flash, 0, len(raw))
	for _, item := range raw {
		var f domainauth.Flash
		if err := json.Unmarshal([]byte(item), &f); err != nil {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}
