package database

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/minjcho/findoc-be/config"
	"github.com/minjcho/findoc-be/types"
	"github.com/redis/go-redis/v9"
)

const documentCachePrefix = "findoc:document:"

// RedisDocumentCache caches documents by security code. Cache misses and
// backend errors both read through to Mongo; the cache is never load-bearing.
type RedisDocumentCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDocumentCache(cfg config.RedisConfig) (*RedisDocumentCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisDocumentCache{
		client: client,
		ttl:    time.Duration(cfg.TTLSec) * time.Second,
	}, nil
}

// NewRedisDocumentCacheWithClient wires an existing client, used by tests.
func NewRedisDocumentCacheWithClient(client *redis.Client, ttl time.Duration) *RedisDocumentCache {
	return &RedisDocumentCache{client: client, ttl: ttl}
}

func (c *RedisDocumentCache) Get(ctx context.Context, securityCode string) (*types.Document, bool) {
	data, err := c.client.Get(ctx, documentCachePrefix+securityCode).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("document cache get failed for %s: %v", securityCode, err)
		}
		return nil, false
	}
	var doc types.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("document cache decode failed for %s: %v", securityCode, err)
		return nil, false
	}
	return &doc, true
}

func (c *RedisDocumentCache) Set(ctx context.Context, doc *types.Document) {
	data, err := json.Marshal(doc)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, documentCachePrefix+doc.SecurityCode, data, c.ttl).Err(); err != nil {
		log.Printf("document cache set failed for %s: %v", doc.SecurityCode, err)
	}
}

func (c *RedisDocumentCache) Invalidate(ctx context.Context, securityCode string) {
	if err := c.client.Del(ctx, documentCachePrefix+securityCode).Err(); err != nil {
		log.Printf("document cache invalidate failed for %s: %v", securityCode, err)
	}
}
