package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"roadwatch/internal/models"
)

const (
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second
)

// NewClient returns a configured go-redis client and validates the connection with PING.
func NewClient(addr, password string) (*redis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("cache: addr is empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), defaultDialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// ErrCacheMiss indicates the record is not cached.
var ErrCacheMiss = errors.New("cache miss")

// RecordCache keeps recently read records in redis for quick point lookups.
type RecordCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRecordCache returns redis-backed cache.
func NewRecordCache(client *redis.Client, ttl time.Duration) *RecordCache {
	return &RecordCache{client: client, ttl: ttl}
}

func (c *RecordCache) key(id int64) string {
	return fmt.Sprintf("records:%d", id)
}

// Save caches the record under its id.
func (c *RecordCache) Save(ctx context.Context, record *models.ProcessedRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(record.ID), data, c.ttl).Err()
}

// Get returns the cached record or ErrCacheMiss.
func (c *RecordCache) Get(ctx context.Context, id int64) (*models.ProcessedRecord, error) {
	result, err := c.client.Get(ctx, c.key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	var record models.ProcessedRecord
	if err := json.Unmarshal([]byte(result), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Delete evicts the record.
func (c *RecordCache) Delete(ctx context.Context, id int64) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
