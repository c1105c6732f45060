package metrics

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"indian-hedge-fund/internal/interfaces"
	"indian-hedge-fund/internal/types"
)

// Cache is a file-backed TTL cache in front of a MetricsProvider, so the
// second analyst in a run and reruns within the TTL do not refetch.
type Cache struct {
	next     interfaces.MetricsProvider
	cacheDir string
	ttl      time.Duration
	mu       sync.RWMutex
	now      func() time.Time
}

var _ interfaces.MetricsProvider = (*Cache)(nil)

type cacheEntry struct {
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewCache(next interfaces.MetricsProvider, cacheDir string, ttl time.Duration) *Cache {
	// a failed mkdir only disables writes; reads then miss
	_ = os.MkdirAll(cacheDir, 0o755)
	return &Cache{next: next, cacheDir: cacheDir, ttl: ttl, now: time.Now}
}

func (c *Cache) Latest(ctx context.Context, ticker string) (*types.FinancialMetrics, error) {
	var m types.FinancialMetrics
	err := c.getOrFetch("latest:"+strings.ToUpper(ticker), &m, func() (any, error) {
		return c.next.Latest(ctx, ticker)
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Cache) Historical(ctx context.Context, ticker string, periods int) ([]types.FinancialMetrics, error) {
	var hist []types.FinancialMetrics
	key := fmt.Sprintf("historical:%s:%d", strings.ToUpper(ticker), periods)
	err := c.getOrFetch(key, &hist, func() (any, error) {
		return c.next.Historical(ctx, ticker, periods)
	})
	if err != nil {
		return nil, err
	}
	return hist, nil
}

// getOrFetch decodes the cached value for key into out, or calls fetch and
// stores its result. Errors are never cached.
func (c *Cache) getOrFetch(key string, out any, fetch func() (any, error)) error {
	if data, ok := c.get(key); ok {
		if err := json.Unmarshal(data, out); err == nil {
			return nil
		}
	}

	v, err := fetch()
	if err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = c.set(key, data)
	return json.Unmarshal(data, out)
}

func (c *Cache) get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	raw, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}
	if entry.Key != key || c.now().Sub(entry.Timestamp) > c.ttl {
		return nil, false
	}
	return entry.Data, true
}

func (c *Cache) set(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := json.Marshal(cacheEntry{Key: key, Data: data, Timestamp: c.now()})
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(key), raw, 0o644)
}

// CleanupExpired removes entries older than the TTL.
func (c *Cache) CleanupExpired() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if c.now().Sub(info.ModTime()) > c.ttl {
			_ = os.Remove(filepath.Join(c.cacheDir, e.Name()))
		}
	}
	return nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.cacheDir, fmt.Sprintf("%x.json", md5.Sum([]byte(key))))
}
