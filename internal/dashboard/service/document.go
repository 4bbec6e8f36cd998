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
	"bytes"
	"context"
	_ "embed"
	"net/http"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/hollyandmorty/advisor-console/internal/dashboard/model"
	errors2 "github.com/hollyandmorty/advisor-console/internal/system/errors"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
)

const profileSchemaURL = "https://schemas.hollyandmorty.com/profile.schema.json"

//go:embed profile.schema.json
var profileSchemaJSON []byte

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	profileSchema     *jsonschema.Schema
	profileSchemaErr  error
	profileSchemaOnce sync.Once
)

func compiledProfileSchema() (*jsonschema.Schema, error) {
	profileSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(profileSchemaURL, bytes.NewReader(profileSchemaJSON)); err != nil {
			profileSchemaErr = err
			return
		}
		profileSchema, profileSchemaErr = compiler.Compile(profileSchemaURL)
	})
	return profileSchema, profileSchemaErr
}

// Finalize saves pending edits and returns the committed profile as a
// shareable document. Nothing is returned if the save fails.
func (r *Reconciler) Finalize(ctx context.Context) (*model.FinalizedProfile, error) {
	r.mu.Lock()
	if r.committed == nil || r.closed {
		r.mu.Unlock()
		return nil, noSessionError()
	}
	dirty := r.dirty
	r.mu.Unlock()

	if dirty {
		if _, err := r.Save(ctx); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	profile := r.committed.Clone()
	r.mu.Unlock()

	document, err := RenderDocument(profile)
	if err != nil {
		return nil, err
	}

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   profile.UserId,
		InitiatorType: log.InitiatorTypeClient,
		TargetID:      profile.UserId,
		TargetType:    log.TargetTypeProfile,
		ActionID:      log.ActionFinalizeProfile,
		Data:          map[string]interface{}{"status": profile.Status},
	})
	return &model.FinalizedProfile{Profile: profile, Document: string(document)}, nil
}

// RenderDocument encodes a profile as indented JSON and checks it against the
// profile schema.
func RenderDocument(profile interface{}) ([]byte, error) {
	document, err := jsonAPI.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil, errors2.NewServerError(errors2.ENCODE_PROFILE_FAILED, err)
	}

	schema, err := compiledProfileSchema()
	if err != nil {
		return nil, errors2.NewServerError(errors2.ENCODE_PROFILE_FAILED, err)
	}
	var decoded interface{}
	if err := jsonAPI.Unmarshal(document, &decoded); err != nil {
		return nil, errors2.NewServerError(errors2.ENCODE_PROFILE_FAILED, err)
	}
	if err := schema.Validate(decoded); err != nil {
		log.GetLogger().Warn("Finalized profile does not match the profile schema", log.Error(err))
		return nil, errors2.NewClientError(errors2.WithDescription(errors2.INVALID_PROFILE_DOCUMENT, err.Error()),
			http.StatusUnprocessableEntity)
	}
	return document, nil
}
