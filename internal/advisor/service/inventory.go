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

package service

import (
	"context"
	"sync"
	"time"

	"github.com/hollyandmorty/advisor-console/internal/advisor/model"
	profileModel "github.com/hollyandmorty/advisor-console/internal/profile/model"
	"github.com/hollyandmorty/advisor-console/internal/system/cache"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
)

const inventoryKey = "all"

// Inventory caches the unfiltered profile listing behind stats, pipeline
// and export.
type Inventory struct {
	dispatcher *Dispatcher
	cache      *cache.Cache[[]profileModel.Profile]
	mu         sync.Mutex
}

func NewInventory(dispatcher *Dispatcher, ttl time.Duration) *Inventory {
	return &Inventory{
		dispatcher: dispatcher,
		cache:      cache.NewCache[[]profileModel.Profile]("advisor-inventory", ttl),
	}
}

// Profiles returns the cached inventory, loading it on a miss.
func (i *Inventory) Profiles(ctx context.Context) []profileModel.Profile {
	if profiles, ok := i.cache.Get(inventoryKey); ok {
		return profiles
	}
	return i.Refresh(ctx)
}

// Refresh reloads the inventory. Empty results are not cached, so a failed
// load is retried on the next read.
func (i *Inventory) Refresh(ctx context.Context) []profileModel.Profile {
	i.mu.Lock()
	defer i.mu.Unlock()

	started := time.Now()
	profiles := i.dispatcher.Dispatch(ctx, model.NewFilterQuery())
	if len(profiles) > 0 {
		i.cache.Set(inventoryKey, profiles)
	} else {
		i.cache.Delete(inventoryKey)
	}
	log.GetLogger().Debug("Advisor inventory refreshed", log.Int("profiles", len(profiles)),
		log.Duration("elapsed", time.Since(started)))
	return profiles
}

// Invalidate drops the cached inventory.
func (i *Inventory) Invalidate() {
	i.cache.Delete(inventoryKey)
}
