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
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/hollyandmorty/advisor-console/internal/profile/model"
	"github.com/hollyandmorty/advisor-console/internal/system/constants"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
)

// FileStore persists the session as a JSON document so CLI invocations share it.
// The document maps session keys to raw values.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(_ context.Context) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	raw, ok := doc[constants.SessionProfileKey]
	if !ok {
		return nil, nil
	}
	return decodeProfile(constants.SessionBackendFile, raw), nil
}

func (s *FileStore) Save(_ context.Context, profile *model.Profile) error {
	data, err := encodeProfile(profile)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	doc[constants.SessionProfileKey] = data
	return s.write(doc)
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := doc[constants.SessionProfileKey]; !ok {
		return nil
	}
	delete(doc, constants.SessionProfileKey)
	return s.write(doc)
}

func (s *FileStore) read() (map[string]json.RawMessage, error) {
	doc := map[string]json.RawMessage{}
	content, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return doc, nil
	}
	if err != nil {
		return nil, storeError("Failed to read session file.", err)
	}
	if err := jsonAPI.Unmarshal(content, &doc); err != nil {
		log.GetLogger().Warn("Session file is corrupt; starting with an empty session",
			log.String("path", s.path), log.Error(err))
		return map[string]json.RawMessage{}, nil
	}
	return doc, nil
}

func (s *FileStore) write(doc map[string]json.RawMessage) error {
	content, err := jsonAPI.MarshalIndent(doc, "", "  ")
	if err != nil {
		return storeError("Failed to encode session file.", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return storeError("Failed to create session directory.", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return storeError("Failed to write session file.", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return storeError("Failed to write session file.", err)
	}
	if err := tmp.Close(); err != nil {
		return storeError("Failed to write session file.", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return storeError("Failed to replace session file.", err)
	}
	return nil
}
