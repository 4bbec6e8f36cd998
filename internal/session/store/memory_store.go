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

package store

import (
	"context"
	"time"

	"github.com/hollyandmorty/advisor-console/internal/profile/model"
	"github.com/hollyandmorty/advisor-console/internal/system/cache"
	"github.com/hollyandmorty/advisor-console/internal/system/constants"
)

// MemoryStore keeps the session for the lifetime of the process.
type MemoryStore struct {
	entries *cache.Cache[[]byte]
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{entries: cache.NewCache[[]byte]("session", ttl)}
}

func (s *MemoryStore) Load(_ context.Context) (*model.Profile, error) {
	data, ok := s.entries.Get(constants.SessionProfileKey)
	if !ok {
		return nil, nil
	}
	return decodeProfile(constants.SessionBackendMemory, data), nil
}

func (s *MemoryStore) Save(_ context.Context, profile *model.Profile) error {
	data, err := encodeProfile(profile)
	if err != nil {
		return err
	}
	s.entries.Set(constants.SessionProfileKey, data)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.entries.Delete(constants.SessionProfileKey)
	return nil
}
