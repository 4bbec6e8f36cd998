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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollyandmorty/advisor-console/internal/profile/model"
	"github.com/hollyandmorty/advisor-console/internal/system/config"
	"github.com/hollyandmorty/advisor-console/internal/system/constants"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

func sessionProfile() *model.Profile {
	return &model.Profile{
		UserId:       "+447700900123",
		Status:       model.StatusPartial,
		PersonalInfo: &model.PersonalInfo{FirstName: "Ada", LastName: "Lovelace"},
		Employment:   &model.EmploymentDetails{AnnualSalary: model.Float(52000)},
	}
}

// exerciseStore runs the lifecycle every backend must support.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded, "empty store")

	require.NoError(t, s.Save(ctx, sessionProfile()))
	loaded, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sessionProfile(), loaded)

	updated := sessionProfile()
	updated.Status = model.StatusComplete
	require.NoError(t, s.Save(ctx, updated))
	loaded, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StatusComplete, loaded.Status)

	require.NoError(t, s.Clear(ctx))
	loaded, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	require.NoError(t, s.Clear(ctx), "clearing twice is harmless")
}

// ---------------------------------------------------------------------------
// MemoryStore
// ---------------------------------------------------------------------------

func TestMemoryStore_Lifecycle(t *testing.T) {
	exerciseStore(t, NewMemoryStore(time.Hour))
}

func TestMemoryStore_ReturnsIndependentCopies(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	p := sessionProfile()
	require.NoError(t, s.Save(context.Background(), p))

	p.PersonalInfo.FirstName = "changed"
	loaded, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada", loaded.PersonalInfo.FirstName)
}

// ---------------------------------------------------------------------------
// FileStore
// ---------------------------------------------------------------------------

func TestFileStore_Lifecycle(t *testing.T) {
	exerciseStore(t, NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json")))
}

func TestFileStore_SharedBetweenInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, NewFileStore(path).Save(context.Background(), sessionProfile()))

	loaded, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "+447700900123", loaded.UserId)
}

func TestFileStore_CorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	s := NewFileStore(path)

	loaded, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, loaded)

	require.NoError(t, s.Save(context.Background(), sessionProfile()))
	loaded, err = s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, loaded)
}

func TestFileStore_CorruptEntryIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"hm_user": "oops"}`), 0o600))

	loaded, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

// ---------------------------------------------------------------------------
// NewStore
// ---------------------------------------------------------------------------

func TestNewStore(t *testing.T) {
	s, err := NewStore(config.SessionConfig{Backend: constants.SessionBackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = NewStore(config.SessionConfig{Backend: constants.SessionBackendFile, FilePath: filepath.Join(t.TempDir(), "s.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = NewStore(config.SessionConfig{Backend: constants.SessionBackendRedis, Redis: config.RedisConfig{Addr: "localhost:6379"}})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)

	_, err = NewStore(config.SessionConfig{Backend: "sqlite"})
	assert.Error(t, err)
}
