package cache

import (
	"encoding/json"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/labstack/echo/v4"

	"github.com/iotaledger/hive.go/ierrors"
)

// Cache is a size bounded cache for API responses that are expensive to compute but never change for a given key.
type Cache struct {
	cache *fastcache.Cache
}

func NewCache(maxSize int) *Cache {
	return &Cache{
		cache: fastcache.New(maxSize),
	}
}

func (c *Cache) Set(key, value []byte) {
	c.cache.Set(key, value)
}

func (c *Cache) Get(key []byte) []byte {
	if c.cache.Has(key) {
		value := make([]byte, 0)

		return c.cache.Get(value, key)
	}

	return nil
}

func (c *Cache) Reset() {
	c.cache.Reset()
}

// GetOrCreate returns the cached response for the key or computes it with defaultValueFunc and caches it.
func GetOrCreate[T any](c *Cache, key []byte, defaultValueFunc func() (T, error)) (T, error) {
	var result T

	if cachedBytes := c.Get(key); cachedBytes != nil {
		if err := json.Unmarshal(cachedBytes, &result); err == nil {
			return result, nil
		}

		// entries that can not be decoded anymore are recomputed
		c.cache.Del(key)
	}

	result, err := defaultValueFunc()
	if err != nil {
		return result, err
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return result, ierrors.Wrapf(echo.ErrInternalServerError, "failed to encode response: %s", err)
	}

	c.Set(key, encoded)

	return result, nil
}
