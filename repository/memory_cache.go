package repository

import (
	"context"
	"sync"
	"time"
)

type cachedReply struct {
	value     string
	expiresAt time.Time
}

// MemoryCache is the in-process ReplyCache used when no redis address is
// configured. Expired entries are dropped lazily on read.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]cachedReply
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string]cachedReply)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	entry, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return "", false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.data, key)
		m.mu.Unlock()
		return "", false
	}
	return entry.value, true
}

func (m *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	entry := cachedReply{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.data[key] = entry
	m.mu.Unlock()
	return nil
}
