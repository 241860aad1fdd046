package data

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/phuslu/log"

	"github.com/ducminhle1904/market-timing/internal/logger"
	"github.com/ducminhle1904/market-timing/pkg/types"
)

// MemoryCache implements DataCache in memory
type MemoryCache struct {
	cache map[string][]types.OHLCV
	mutex sync.RWMutex
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		cache: make(map[string][]types.OHLCV),
	}
}

// Get returns a copy of the cached data
func (c *MemoryCache) Get(key string) ([]types.OHLCV, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	data, exists := c.cache[key]
	if !exists {
		return nil, false
	}
	result := make([]types.OHLCV, len(data))
	copy(result, data)
	return result, true
}

// Set stores a copy of data
func (c *MemoryCache) Set(key string, data []types.OHLCV) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	cached := make([]types.OHLCV, len(data))
	copy(cached, data)
	c.cache[key] = cached
}

func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string][]types.OHLCV)
}

func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// CachedProvider wraps another DataProvider with a cache
type CachedProvider struct {
	provider DataProvider
	cache    DataCache
	logger   *log.Logger
}

func NewCachedProvider(provider DataProvider, l *log.Logger) *CachedProvider {
	return NewCachedProviderWithCache(provider, NewMemoryCache(), l)
}

func NewCachedProviderWithCache(provider DataProvider, cache DataCache, l *log.Logger) *CachedProvider {
	if l == nil {
		l = logger.Nop()
	}
	return &CachedProvider{
		provider: provider,
		cache:    cache,
		logger:   l,
	}
}

func (p *CachedProvider) GetName() string {
	return "Cached " + p.provider.GetName()
}

// LoadData serves source from the cache, loading it on a miss
func (p *CachedProvider) LoadData(ctx context.Context, source string) ([]types.OHLCV, error) {
	if cachedData, exists := p.cache.Get(source); exists {
		return cachedData, nil
	}

	data, err := p.provider.LoadData(ctx, source)
	if err != nil {
		p.logger.Error().Str("source", filepath.Base(source)).Err(err).Msg("failed to load data")
		return nil, err
	}
	p.cache.Set(source, data)

	p.logger.Info().
		Str("provider", p.provider.GetName()).
		Str("source", filepath.Base(source)).
		Int("records", len(data)).
		Msg("loaded and cached data")
	return data, nil
}

func (p *CachedProvider) ValidateData(data []types.OHLCV) error {
	return p.provider.ValidateData(data)
}

func (p *CachedProvider) ClearCache() {
	p.cache.Clear()
}

func (p *CachedProvider) GetCacheSize() int {
	return p.cache.Size()
}
