package usecase

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// ClassificationCache memoizes the has-tests result per diff locator for the
// lifetime of one run. A locator is computed at most once, including when
// several goroutines ask for it concurrently.
type ClassificationCache struct {
	mu      sync.Mutex
	results map[string]bool
	group   singleflight.Group
}

// NewClassificationCache creates an empty cache.
func NewClassificationCache() *ClassificationCache {
	return &ClassificationCache{results: make(map[string]bool)}
}

// Get returns the cached result for locator.
func (c *ClassificationCache) Get(locator string) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.results[locator]
	return v, ok
}

// Len returns the number of cached locators.
func (c *ClassificationCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

// Do returns the cached result for locator, calling compute on a miss.
// Failed computations are not cached.
func (c *ClassificationCache) Do(locator string, compute func() (bool, error)) (bool, error) {
	if v, ok := c.Get(locator); ok {
		return v, nil
	}
	v, err, _ := c.group.Do(locator, func() (interface{}, error) {
		if v, ok := c.Get(locator); ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return false, err
		}
		c.mu.Lock()
		c.results[locator] = v
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}
