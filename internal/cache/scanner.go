package cache

import (
	"time"

	"github.com/ppiankov/qfilter/internal/query"
)

// CachingScanner memoizes the tokens of recently scanned queries. Tokens are
// a pure function of the query text, so a hit can never disagree with a
// fresh scan. Scan errors are not cached.
type CachingScanner struct {
	next  query.Scanner
	cache Cache
	ttl   time.Duration
}

// NewCachingScanner wraps next, or query.DefaultScanner if next is nil
func NewCachingScanner(next query.Scanner, c Cache, ttl time.Duration) *CachingScanner {
	if next == nil {
		next = query.DefaultScanner
	}
	return &CachingScanner{next: next, cache: c, ttl: ttl}
}

// Scan returns cached tokens for q or scans it
func (s *CachingScanner) Scan(q string) ([]query.Token, error) {
	key := CacheKey(q)
	if val, found := s.cache.Get(key); found {
		if tokens, ok := val.([]query.Token); ok {
			return cloneTokens(tokens), nil
		}
	}

	tokens, err := s.next.Scan(q)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(key, cloneTokens(tokens), s.ttl)
	return tokens, nil
}

// cloneTokens copies tokens so callers cannot mutate cached entries
func cloneTokens(tokens []query.Token) []query.Token {
	if tokens == nil {
		return nil
	}
	out := make([]query.Token, len(tokens))
	copy(out, tokens)
	for i := range out {
		if out[i].Filter != nil {
			fv := *out[i].Filter
			out[i].Filter = &fv
		}
	}
	return out
}
