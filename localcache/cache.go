// Package localcache is a small durable key-value store for client state
// (cart mirror, auth token, user snapshot). It survives process restarts but
// is local to one machine; concurrent writers are last-writer-wins.
package localcache

import (
	"errors"
	"sync"
)

var ErrInvalidKey = errors.New("localcache: invalid key")

// Cache is the key-value contract consumed by the cart and auth stores.
// Get reports false for keys that are absent or unreadable.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Memory is an in-process Cache, used in tests and as a no-persistence mode.
type Memory struct {
	mu sync.Mutex
	m  map[string]string
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

func (c *Memory) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *Memory) Set(key, value string) error {
	if key == "" {
		return ErrInvalidKey
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return nil
}

func (c *Memory) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
	return nil
}
