package cache

import (
	"strings"
	"testing"
)

func TestCacheKey(t *testing.T) {
	if CacheKey("a") == CacheKey("b") {
		t.Error("different queries should have different keys")
	}
	if CacheKey("type:commit") != CacheKey("type:commit") {
		t.Error("cache key should be deterministic")
	}
	if !strings.HasPrefix(CacheKey("x"), "qfilter:v1:scan:") {
		t.Errorf("unexpected key namespace %q", CacheKey("x"))
	}
}
