// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

package document

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/docsafe-app/docsafe/internal/platform/constants"
	"github.com/docsafe-app/docsafe/internal/platform/ctxutil"
)

// RedisListCache implements ListCache on go-redis.
//
// # Failure Policy
//
// Every Redis error is logged and swallowed; the caller falls through to
// PostgreSQL. A degraded cache must never degrade the API.
type RedisListCache struct {
	client *redis.Client
}

// NewListCache creates a new Redis-backed ListCache.
func NewListCache(client *redis.Client) *RedisListCache {
	return &RedisListCache{client: client}
}

/*
Get returns the cached document listing for an owner.

Parameters:
  - ctx: context.Context
  - ownerID: The listing owner.

Returns:
  - []Document: The cached listing. Valid only when found is true.
  - bool: false on miss, on connectivity failure, or on a corrupt entry.
*/
func (cache *RedisListCache) Get(ctx context.Context, ownerID int64) ([]Document, bool) {
	key := listKey(ownerID)

	raw, err := cache.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "document_list_cache_get_failed",
				slog.String("key", key),
				slog.Any("error", err),
			)
		}
		return nil, false
	}

	var documents []Document
	if err := json.Unmarshal(raw, &documents); err != nil {
		// Corrupt entry: drop it so the next write starts clean.
		cache.client.Del(ctx, key)
		return nil, false
	}

	return documents, true
}

/*
Set stores the document listing for an owner with the standard TTL.
*/
func (cache *RedisListCache) Set(ctx context.Context, ownerID int64, documents []Document) {
	raw, err := json.Marshal(documents)
	if err != nil {
		return
	}

	key := listKey(ownerID)
	if err := cache.client.Set(ctx, key, raw, constants.DocumentListCacheTTL).Err(); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "document_list_cache_set_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}

/*
Invalidate drops the cached listing for an owner. Called after every upload.
*/
func (cache *RedisListCache) Invalidate(ctx context.Context, ownerID int64) {
	key := listKey(ownerID)
	if err := cache.client.Del(ctx, key).Err(); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "document_list_cache_invalidate_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}

// listKey builds the cache key for an owner's listing.
func listKey(ownerID int64) string {
	return fmt.Sprintf("%s%d", constants.RedisPrefixDocumentList, ownerID)
}
