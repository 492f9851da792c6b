package redis_adapter

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

const listingKeyPrefix = "listing:"

// ListingCache stores listing pages as JSON under per-kind keys.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewListingCache(client *redis.Client, ttl time.Duration) (*ListingCache, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	return &ListingCache{client: client, ttl: ttl}, nil
}

// GenerateQueryCacheKey hashes the sorted query parameters under prefix.
func GenerateQueryCacheKey(prefix string, queryParams map[string]string) string {
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for i, k := range keys {
		if i > 0 {
			builder.WriteString(":")
		}
		builder.WriteString(k)
		builder.WriteString("=")
		builder.WriteString(queryParams[k])
	}

	hash := md5.Sum([]byte(builder.String()))
	return prefix + ":" + hex.EncodeToString(hash[:])
}

func kindPrefix(kind domain.EntityKind) string {
	return listingKeyPrefix + string(kind)
}

type cachedRecord struct {
	ID        string         `json:"id"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type cachedPage struct {
	Items []cachedRecord `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

func encodePage(page *domain.RecordPage) ([]byte, error) {
	cp := cachedPage{Items: make([]cachedRecord, len(page.Items)), Total: page.Total, Page: page.Page, Limit: page.Limit}
	for i, rec := range page.Items {
		cp.Items[i] = cachedRecord{ID: rec.ID, Data: rec.Data, CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt}
	}
	return json.Marshal(cp)
}

func decodePage(kind domain.EntityKind, raw []byte) (*domain.RecordPage, error) {
	var cp cachedPage
	if err := json.Unmarshal(raw, &cp); err != nil {
		return nil, err
	}
	page := &domain.RecordPage{Items: make([]domain.Record, len(cp.Items)), Total: cp.Total, Page: cp.Page, Limit: cp.Limit}
	for i, rec := range cp.Items {
		page.Items[i] = domain.Record{ID: rec.ID, Kind: kind, Data: rec.Data, CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt}
	}
	return page, nil
}

func (c *ListingCache) Get(ctx context.Context, kind domain.EntityKind, query domain.ListQuery) (*domain.RecordPage, bool, error) {
	key := GenerateQueryCacheKey(kindPrefix(kind), query.Params())
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read listing cache: %w", err)
	}
	page, err := decodePage(kind, raw)
	if err != nil {
		// a broken entry is a miss; the next Set overwrites it
		return nil, false, fmt.Errorf("failed to decode cached listing: %w", err)
	}
	return page, true, nil
}

func (c *ListingCache) Set(ctx context.Context, kind domain.EntityKind, query domain.ListQuery, page *domain.RecordPage) error {
	data, err := encodePage(page)
	if err != nil {
		return fmt.Errorf("failed to encode listing: %w", err)
	}
	key := GenerateQueryCacheKey(kindPrefix(kind), query.Params())
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Invalidate drops every cached page of the kind.
func (c *ListingCache) Invalidate(ctx context.Context, kind domain.EntityKind) error {
	iter := c.client.Scan(ctx, 0, kindPrefix(kind)+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == 100 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to invalidate listings: %w", err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan listings: %w", err)
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to invalidate listings: %w", err)
		}
	}
	return nil
}
