package forecast

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sync"
	"time"
)

type cacheEntry struct {
	params    Params
	expiresAt time.Time
}

// FitCache memoizes fitted smoothing weights per input series. Only the weights are
// stored; the model is replayed from them, so projections are identical with or
// without the cache. A nil *FitCache is valid and never hits.
type FitCache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewFitCache creates a cache whose entries expire after ttl (no expiry when ttl <= 0).
func NewFitCache(ttl time.Duration) *FitCache {
	return &FitCache{
		store: make(map[string]cacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the parameters for key unless missing or expired.
func (c *FitCache) Get(key string) (Params, bool) {
	if c == nil {
		return Params{}, false
	}
	c.mu.RLock()
	entry, ok := c.store[key]
	c.mu.RUnlock()
	if !ok {
		return Params{}, false
	}
	if c.ttl > 0 && c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.store, key)
		c.mu.Unlock()
		return Params{}, false
	}
	return entry.params, true
}

func (c *FitCache) Set(key string, p Params) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = cacheEntry{params: p, expiresAt: c.now().Add(c.ttl)}
}

func (c *FitCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

func (c *FitCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]cacheEntry)
}

// SeriesKey hashes the period and the exact bit patterns of y.
func SeriesKey(y []float64, period int) string {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(period))
	h.Write(buf[:])
	for _, v := range y {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
