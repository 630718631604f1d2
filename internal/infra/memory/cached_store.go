package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"archetype-quiz-service/internal/kvstore"
	"golang.org/x/sync/singleflight"
)

// CachedStore fronts a durable kvstore.Store with a TTL cache. Reads of the
// same key collapse into one backend call; writes go through to the backend
// before the cache is updated.
type CachedStore struct {
	backend kvstore.Store
	ttl     time.Duration
	clock   func() time.Time
	sf      singleflight.Group
	rnd     *rand.Rand
	rndMu   sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedEntry
	// gen counts writes per key; a load only caches if no write happened meanwhile
	gen map[string]uint64
}

type cachedEntry struct {
	value     string
	found     bool
	expiresAt time.Time
}

type loadResult struct {
	value string
	found bool
}

func NewCachedStore(backend kvstore.Store, ttl time.Duration) *CachedStore {
	return &CachedStore{
		backend: backend,
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:   make(map[string]cachedEntry),
		gen:     make(map[string]uint64),
	}
}

func (c *CachedStore) Get(ctx context.Context, key string) (string, bool, error) {
	if entry, ok := c.lookup(key); ok {
		return entry.value, entry.found, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		if entry, ok := c.lookup(key); ok {
			return loadResult{value: entry.value, found: entry.found}, nil
		}
		gen := c.generation(key)
		value, found, err := c.backend.Get(ctx, key)
		if err != nil {
			return loadResult{}, err
		}
		c.rememberIfCurrent(key, value, found, gen)
		return loadResult{value: value, found: found}, nil
	})
	if err != nil {
		return "", false, err
	}
	loaded := result.(loadResult)
	return loaded.value, loaded.found, nil
}

func (c *CachedStore) Set(ctx context.Context, key, value string) error {
	err := c.backend.Set(ctx, key, value)
	c.sf.Forget(key)
	if err != nil {
		c.forget(key)
		return err
	}
	c.store(key, value, true, true, 0)
	return nil
}

func (c *CachedStore) lookup(key string) (cachedEntry, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[key]
	if !ok || !entry.expiresAt.After(now) {
		return cachedEntry{}, false
	}
	return entry, true
}

func (c *CachedStore) generation(key string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen[key]
}

func (c *CachedStore) rememberIfCurrent(key, value string, found bool, gen uint64) {
	c.store(key, value, found, false, gen)
}

// store caches value. Writes bump the key's generation; loads are dropped
// when the generation moved since they started.
func (c *CachedStore) store(key, value string, found, write bool, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if write {
		c.gen[key]++
	} else if c.gen[key] != gen {
		return
	}
	if c.ttl <= 0 {
		return
	}
	expires := c.clock().Add(c.ttlWithJitter())
	c.cache[key] = cachedEntry{value: value, found: found, expiresAt: expires}
}

func (c *CachedStore) forget(key string) {
	c.mu.Lock()
	c.gen[key]++
	delete(c.cache, key)
	c.mu.Unlock()
}

func (c *CachedStore) ttlWithJitter() time.Duration {
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
