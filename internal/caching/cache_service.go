package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"beadstock/internal/models"
)

type CacheService interface {
	// Batch caching
	GetBatch(ctx context.Context, batchID uuid.UUID) (*models.Batch, error)
	SetBatch(ctx context.Context, batch *models.Batch, ttl time.Duration) error
	DeleteBatch(ctx context.Context, batchID uuid.UUID) error

	// Full batch-list caching, keyed as a single entry. The inventory tree is
	// rebuilt from this list, so any batch write must invalidate it.
	GetBatchList(ctx context.Context) ([]*models.Batch, error)
	SetBatchList(ctx context.Context, batches []*models.Batch, ttl time.Duration) error
	InvalidateBatchList(ctx context.Context) error

	// Cache invalidation
	InvalidateAllCache(ctx context.Context) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Generic string operations for job reports
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept both bare host:port and redis:// URLs
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

const batchListKey = "beadstock:batches:all"

func batchKey(batchID uuid.UUID) string {
	return fmt.Sprintf("beadstock:batch:%s", batchID.String())
}

func (r *redisCacheService) GetBatch(ctx context.Context, batchID uuid.UUID) (*models.Batch, error) {
	data, err := r.client.Get(ctx, batchKey(batchID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var batch models.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *redisCacheService) SetBatch(ctx context.Context, batch *models.Batch, ttl time.Duration) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, batchKey(batch.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteBatch(ctx context.Context, batchID uuid.UUID) error {
	return r.client.Del(ctx, batchKey(batchID)).Err()
}

func (r *redisCacheService) GetBatchList(ctx context.Context) ([]*models.Batch, error) {
	data, err := r.client.Get(ctx, batchListKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var batches []*models.Batch
	if err := json.Unmarshal(data, &batches); err != nil {
		return nil, err
	}
	return batches, nil
}

func (r *redisCacheService) SetBatchList(ctx context.Context, batches []*models.Batch, ttl time.Duration) error {
	data, err := json.Marshal(batches)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, batchListKey, data, ttl).Err()
}

func (r *redisCacheService) InvalidateBatchList(ctx context.Context) error {
	return r.client.Del(ctx, batchListKey).Err()
}

func (r *redisCacheService) InvalidateAllCache(ctx context.Context) error {
	pattern := "beadstock:*"
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("beadstock:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
