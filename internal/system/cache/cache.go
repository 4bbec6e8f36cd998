/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package cache

import (
	"sync"
	"time"

	"github.com/hollyandmorty/advisor-console/internal/system/log"
)

type item[V any] struct {
	value      V
	expiration time.Time
}

// Cache is a TTL keyed store. A zero TTL keeps entries until they are deleted.
type Cache[V any] struct {
	name  string
	items map[string]item[V]
	mutex sync.Mutex
	ttl   time.Duration
	now   func() time.Time
}

// NewCache creates a cache whose entries live for ttl.
func NewCache[V any](name string, ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		name:  name,
		items: make(map[string]item[V]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// WithClock swaps the time source. Intended for tests.
func (c *Cache[V]) WithClock(now func() time.Time) *Cache[V] {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.now = now
	return c
}

func (c *Cache[V]) Set(key string, value V) {
	log.GetLogger().Debug("Setting cache entry", log.String("cache", c.name), log.String("key", key))
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var expiration time.Time
	if c.ttl > 0 {
		expiration = c.now().Add(c.ttl)
	}
	c.items[key] = item[V]{value: value, expiration: expiration}
}

// Get returns the live value for key. Expired entries are evicted on access.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var zero V
	entry, found := c.items[key]
	if !found {
		return zero, false
	}
	if !entry.expiration.IsZero() && c.now().After(entry.expiration) {
		log.GetLogger().Debug("Cache entry expired", log.String("cache", c.name), log.String("key", key))
		delete(c.items, key)
		return zero, false
	}
	return entry.value, true
}

func (c *Cache[V]) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.items, key)
}

// Len counts entries, including ones that expired but were not yet evicted.
func (c *Cache[V]) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.items)
}
