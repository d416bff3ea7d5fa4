package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/memorymusicllc/pow3r/internal/contract"
	"github.com/memorymusicllc/pow3r/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cachedScanRepo consults the scan cache before running the full pipeline.
// The cache key is bound to the repository HEAD hash, so any new commit
// invalidates the entry; a fallback to direct computation covers the
// disabled-cache case.
func cachedScanRepo(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, repoPath string, now time.Time) (*schema.StatusDocument, bool, error) {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetScanStore()
	}
	if store == nil {
		doc, err := ScanRepo(ctx, cfg, client, repoPath, now)
		return doc, false, err
	}

	key := scanCacheKey(ctx, client, cfg, repoPath)

	if doc := checkCacheHit(store, key, cfg.CacheTTL); doc != nil {
		return doc, true, nil
	}

	doc, err := ScanRepo(ctx, cfg, client, repoPath, now)
	if err != nil {
		return nil, false, err
	}
	if data, err := json.Marshal(doc); err == nil {
		_ = store.Set(key, data, currentCacheVersion, now.Unix())
	}
	return doc, false, nil
}

// checkCacheHit attempts to retrieve and validate a cached document.
func checkCacheHit(store contract.CacheStore, key string, ttl time.Duration) *schema.StatusDocument {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	if version == currentCacheVersion {
		entryTimestamp := time.Unix(ts, 0)
		if time.Since(entryTimestamp) <= ttl {
			var doc schema.StatusDocument
			if err := json.Unmarshal(data, &doc); err == nil {
				return &doc // Cache hit
			}
		}
	}

	return nil // Cache miss (stale or version mismatch)
}

// scanCacheKey creates a unique key based on the scan parameters. The HEAD
// hash ensures the entry is invalidated when the repository changes.
func scanCacheKey(ctx context.Context, client contract.GitClient, cfg *contract.Config, repoPath string) string {
	repoHash, err := client.GetRepoHash(ctx, repoPath)
	if err != nil {
		repoHash = ""
	}

	key := fmt.Sprintf("%s:%d:%s", repoPath, cfg.MaxDepth, repoHash)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
