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
	"errors"
	"net/http"
	"strings"
	"sync"

	profileModel "github.com/hollyandmorty/advisor-console/internal/profile/model"
	"github.com/hollyandmorty/advisor-console/internal/session/store"
	"github.com/hollyandmorty/advisor-console/internal/signin/model"
	"github.com/hollyandmorty/advisor-console/internal/system/client"
	errors2 "github.com/hollyandmorty/advisor-console/internal/system/errors"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
)

// ProfileAPI is the part of the profile API used during sign-in.
type ProfileAPI interface {
	GetProfile(ctx context.Context, userId string) (*profileModel.Profile, error)
	CreateProfile(ctx context.Context, userId, firstName, lastName string) (*profileModel.Profile, error)
}

// Flow drives sign-in: phone lookup, first-time profile setup and the
// hand-off of the authenticated profile to the session.
type Flow struct {
	api     ProfileAPI
	session store.Store

	mu        sync.Mutex
	step      model.Step
	phone     string
	firstName string
	pending   *profileModel.Profile
	lastError string
}

func NewFlow(api ProfileAPI, session store.Store) *Flow {
	return &Flow{
		api:     api,
		session: session,
		step:    model.StepPhone,
	}
}

// State returns the current step and what the screen shows for it.
func (f *Flow) State() model.State {
	f.mu.Lock()
	defer f.mu.Unlock()

	state := model.State{Step: f.step, Phone: f.phone, Error: f.lastError}
	if f.step == model.StepSuccess {
		state.DisplayName = "User"
		if f.pending != nil && f.pending.PersonalInfo != nil && f.pending.PersonalInfo.FirstName != "" {
			state.DisplayName = f.pending.PersonalInfo.FirstName
		} else if f.firstName != "" {
			state.DisplayName = f.firstName
		}
	}
	return state
}

// SubmitPhone looks up the profile for a phone number. Known clients go
// straight to SUCCESS; unknown ones are asked to set up a profile.
func (f *Flow) SubmitPhone(ctx context.Context, phone string) error {
	logger := log.GetLogger()
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return errors2.NewClientError(errors2.INVALID_PHONE, http.StatusBadRequest)
	}
	if err := f.expect(model.StepPhone); err != nil {
		return err
	}

	profile, err := f.api.GetProfile(ctx, phone)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastError = ""
	if err != nil {
		logger.Error("Sign-in lookup failed", log.String("user_id", phone), log.Error(err))
		signInErr := signInError(err)
		f.lastError = signInErr.Description
		return signInErr
	}

	f.phone = phone
	if profile != nil && profile.PersonalInfo != nil {
		f.pending = profile
		f.step = model.StepSuccess
		logger.Info("Existing client found", log.String("user_id", phone))
		return nil
	}
	f.step = model.StepProfileSetup
	logger.Info("No profile found; starting profile setup", log.String("user_id", phone))
	return nil
}

// SubmitProfile creates the profile of a first-time client.
func (f *Flow) SubmitProfile(ctx context.Context, firstName, lastName string) error {
	logger := log.GetLogger()
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return errors2.NewClientError(errors2.INVALID_NAME, http.StatusBadRequest)
	}

	f.mu.Lock()
	if f.step != model.StepProfileSetup {
		f.mu.Unlock()
		return stepError(model.StepProfileSetup)
	}
	phone := f.phone
	f.mu.Unlock()

	profile, err := f.api.CreateProfile(ctx, phone, firstName, lastName)
	logger.Audit(log.AuditEvent{
		InitiatorID:   phone,
		InitiatorType: log.InitiatorTypeClient,
		TargetID:      phone,
		TargetType:    log.TargetTypeProfile,
		ActionID:      log.ActionCreateProfile,
		Data:          map[string]interface{}{"success": err == nil},
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastError = ""
	f.firstName = firstName
	if err != nil {
		logger.Error("Profile setup failed", log.String("user_id", phone), log.Error(err))
		setupErr := setupError(err)
		f.lastError = setupErr.Description
		return setupErr
	}
	if profile == nil || profile.PersonalInfo == nil {
		setupErr := errors2.NewClientError(errors2.WithDescription(errors2.CREATE_PROFILE_FAILED,
			"No profile data returned from server."), http.StatusBadGateway)
		f.lastError = setupErr.Description
		return setupErr
	}
	f.pending = profile
	f.step = model.StepSuccess
	return nil
}

// Back returns from profile setup to the phone step.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != model.StepProfileSetup {
		return stepError(model.StepProfileSetup)
	}
	f.step = model.StepPhone
	f.lastError = ""
	return nil
}

// Complete writes the authenticated profile to the session and resets the flow.
func (f *Flow) Complete(ctx context.Context) (*profileModel.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != model.StepSuccess || f.pending == nil {
		return nil, stepError(model.StepSuccess)
	}

	profile := f.pending
	if err := f.session.Save(ctx, profile); err != nil {
		return nil, err
	}
	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   profile.UserId,
		InitiatorType: log.InitiatorTypeClient,
		TargetID:      profile.UserId,
		TargetType:    log.TargetTypeProfile,
		ActionID:      log.ActionSignIn,
	})
	f.resetLocked()
	return profile.Clone(), nil
}

// SignOut clears the session and resets the flow.
func (f *Flow) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	profile, _ := f.session.Load(ctx)
	if err := f.session.Clear(ctx); err != nil {
		return err
	}
	if profile != nil {
		log.GetLogger().Audit(log.AuditEvent{
			InitiatorID:   profile.UserId,
			InitiatorType: log.InitiatorTypeClient,
			TargetID:      profile.UserId,
			TargetType:    log.TargetTypeProfile,
			ActionID:      log.ActionSignOut,
		})
	}
	f.resetLocked()
	return nil
}

// Restore returns the profile persisted by an earlier sign-in, or nil.
func (f *Flow) Restore(ctx context.Context) (*profileModel.Profile, error) {
	return f.session.Load(ctx)
}

func (f *Flow) expect(step model.Step) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != step {
		return stepError(step)
	}
	return nil
}

func (f *Flow) resetLocked() {
	f.step = model.StepPhone
	f.phone = ""
	f.firstName = ""
	f.pending = nil
	f.lastError = ""
}

func stepError(want model.Step) error {
	return errors2.NewClientError(errors2.WithDescription(errors2.INVALID_SIGN_IN_STEP,
		"Only allowed in step "+string(want)+"."), http.StatusConflict)
}

func signInError(err error) *errors2.ClientError {
	if client.IsUnreachable(err) {
		return errors2.NewClientError(errors2.SERVICE_UNREACHABLE, http.StatusServiceUnavailable)
	}
	return errors2.NewClientError(errors2.SIGN_IN_FAILED, http.StatusBadGateway)
}

func setupError(err error) *errors2.ClientError {
	var clientError *errors2.ClientError
	if client.IsUnreachable(err) {
		return errors2.NewClientError(errors2.SERVICE_UNREACHABLE, http.StatusServiceUnavailable)
	}
	if errors.As(err, &clientError) {
		return clientError
	}
	return errors2.NewClientError(errors2.WithDescription(errors2.CREATE_PROFILE_FAILED,
		"Could not create profile. Please try again."), http.StatusBadGateway)
}
