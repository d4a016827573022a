package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey generates a cache key from a query string
func CacheKey(query string) string {
	hash := sha256.Sum256([]byte(query))
	return "qfilter:v1:scan:" + hex.EncodeToString(hash[:])
}
