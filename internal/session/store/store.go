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
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/hollyandmorty/advisor-console/internal/profile/model"
	"github.com/hollyandmorty/advisor-console/internal/system/config"
	"github.com/hollyandmorty/advisor-console/internal/system/constants"
	errors2 "github.com/hollyandmorty/advisor-console/internal/system/errors"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Store keeps the signed-in profile between console runs under a single key.
//
// Load returns nil when nothing is stored. Unreadable entries are logged and
// treated as absent.
type Store interface {
	Load(ctx context.Context) (*model.Profile, error)
	Save(ctx context.Context, profile *model.Profile) error
	Clear(ctx context.Context) error
}

// NewStore builds the backend selected by cfg.Backend.
func NewStore(cfg config.SessionConfig) (Store, error) {
	switch cfg.Backend {
	case "", constants.SessionBackendMemory:
		return NewMemoryStore(cfg.TTL), nil
	case constants.SessionBackendFile:
		return NewFileStore(cfg.FilePath), nil
	case constants.SessionBackendRedis:
		return NewRedisStore(cfg.Redis, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported session backend %q", cfg.Backend)
	}
}

func encodeProfile(profile *model.Profile) ([]byte, error) {
	data, err := jsonAPI.Marshal(profile)
	if err != nil {
		return nil, storeError("Failed to encode session profile.", err)
	}
	return data, nil
}

// decodeProfile never fails: corrupt data is reported and dropped.
func decodeProfile(backend string, data []byte) *model.Profile {
	var profile model.Profile
	if err := jsonAPI.Unmarshal(data, &profile); err != nil || profile.UserId == "" {
		log.GetLogger().Warn("Discarding unreadable session entry", log.String("backend", backend),
			log.String("key", constants.SessionProfileKey), log.Any("cause", err))
		return nil
	}
	return &profile
}

func storeError(description string, cause error) error {
	return errors2.NewServerError(errors2.WithDescription(errors2.SESSION_STORE_FAILED, description), cause)
}
