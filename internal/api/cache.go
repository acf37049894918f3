package api

import (
	"strings"
	"sync"
)

// responseCache stores raw GET response bodies keyed by request URL.
// Every GET is cached, including market-order listings; under continuous
// polling those would grow without bound, so the pool purges them each
// time a client is released.
type responseCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newResponseCache() *responseCache {
	return &responseCache{entries: make(map[string][]byte)}
}

func (rc *responseCache) get(key string) ([]byte, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	body, ok := rc.entries[key]
	return body, ok
}

func (rc *responseCache) put(key string, body []byte) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.entries[key] = body
}

// purge removes every entry whose key contains substr and returns the
// number of entries removed.
func (rc *responseCache) purge(substr string) int {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	n := 0
	for key := range rc.entries {
		if strings.Contains(key, substr) {
			delete(rc.entries, key)
			n++
		}
	}
	return n
}

func (rc *responseCache) size() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.entries)
}
