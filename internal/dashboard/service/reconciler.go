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
	"net/http"
	"sync"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hollyandmorty/advisor-console/internal/dashboard/model"
	profileModel "github.com/hollyandmorty/advisor-console/internal/profile/model"
	"github.com/hollyandmorty/advisor-console/internal/session/store"
	"github.com/hollyandmorty/advisor-console/internal/system/config"
	"github.com/hollyandmorty/advisor-console/internal/system/constants"
	errors2 "github.com/hollyandmorty/advisor-console/internal/system/errors"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
	"github.com/hollyandmorty/advisor-console/internal/system/metrics"
	"github.com/hollyandmorty/advisor-console/internal/system/utils"
)

// ProfileAPI is the part of the profile API the dashboard depends on.
type ProfileAPI interface {
	GetProfile(ctx context.Context, userId string) (*profileModel.Profile, error)
	UpdateProfile(ctx context.Context, userId string, profile *profileModel.Profile) (*profileModel.Profile, error)
	InitiateCall(ctx context.Context, userId string) error
	GetConversations(ctx context.Context, userId string) (profileModel.ConversationList, error)
}

// Observer is notified of every flow transition. It runs while the reconciler
// lock is held and must not call back into the reconciler.
type Observer func(from, to model.FlowStatus)

type Option func(*Reconciler)

func WithObserver(o Observer) Option {
	return func(r *Reconciler) {
		r.observer = o
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Reconciler) {
		r.metrics = m
	}
}

// WithAfterFunc replaces time.After for polling and reveal delays.
func WithAfterFunc(after func(time.Duration) <-chan time.Time) Option {
	return func(r *Reconciler) {
		r.after = after
	}
}

// Reconciler owns the state of one mounted client dashboard: the committed
// profile, the editable draft, the discovery flow and its background tasks.
type Reconciler struct {
	api      ProfileAPI
	session  store.Store
	cfg      config.DashboardConfig
	observer Observer
	metrics  *metrics.Metrics
	after    func(time.Duration) <-chan time.Time

	mu        sync.Mutex
	committed *profileModel.Profile
	draft     *profileModel.Profile
	dirty     bool
	flow      model.FlowStatus
	revealed  []string
	attempts  int
	poll      *PollHandle
	reveal    *PollHandle
	closed    bool
}

func NewReconciler(api ProfileAPI, session store.Store, cfg config.DashboardConfig, opts ...Option) *Reconciler {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = constants.DefaultPollInterval
	}
	if cfg.MaxPollAttempts <= 0 {
		cfg.MaxPollAttempts = constants.DefaultMaxPollAttempts
	}
	if cfg.RevealStep <= 0 {
		cfg.RevealStep = constants.DefaultRevealStep
	}
	if cfg.MergePolicy == "" {
		cfg.MergePolicy = constants.MergePolicyServerWins
	}

	r := &Reconciler{
		api:     api,
		session: session,
		cfg:     cfg,
		after:   time.After,
		flow:    model.FlowIdle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mount loads a profile into the dashboard. A partial profile resumes discovery
// polling straight away.
func (r *Reconciler) Mount(ctx context.Context, profile *profileModel.Profile) error {
	if profile == nil {
		return noSessionError()
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return noSessionError()
	}
	poll, reveal := r.poll, r.reveal
	r.poll, r.reveal = nil, nil
	r.committed = profile.Clone()
	r.draft = profile.Clone()
	r.dirty = false
	r.revealed = nil
	r.attempts = 0
	r.flow = model.FlowIdle
	resume := profile.Status == profileModel.StatusPartial
	if resume {
		r.setFlow(model.FlowCalling)
	}
	r.mu.Unlock()

	poll.Stop()
	reveal.Stop()

	log.GetLogger().Info("Mounted dashboard", log.String("user_id", profile.UserId),
		log.String("status", string(profile.Status)), log.Bool("resume_discovery", resume))
	if resume {
		r.StartPolling(ctx)
	}
	return nil
}

// StartDiscovery asks the voice agent to call the client and starts polling for
// the extracted profile. Only allowed while the flow is idle.
func (r *Reconciler) StartDiscovery(ctx context.Context) error {
	logger := log.GetLogger()

	r.mu.Lock()
	if r.committed == nil || r.closed {
		r.mu.Unlock()
		return noSessionError()
	}
	if r.flow != model.FlowIdle {
		flow := r.flow
		r.mu.Unlock()
		return errors2.NewClientError(errors2.WithDescription(errors2.DISCOVERY_IN_PROGRESS,
			"Discovery is already "+string(flow)+"."), http.StatusConflict)
	}
	r.setFlow(model.FlowCalling)
	userId := r.committed.UserId
	r.mu.Unlock()

	err := r.api.InitiateCall(ctx, userId)
	logger.Audit(log.AuditEvent{
		InitiatorID:   userId,
		InitiatorType: log.InitiatorTypeClient,
		TargetID:      userId,
		TargetType:    log.TargetTypeProfile,
		ActionID:      log.ActionInitiateCall,
		Data:          map[string]interface{}{"success": err == nil},
	})
	if err != nil {
		logger.Warn("Failed to reach Holly", log.String("user_id", userId), log.Error(err))
		r.mu.Lock()
		if r.flow == model.FlowCalling {
			r.setFlow(model.FlowIdle)
		}
		r.mu.Unlock()
		return err
	}

	r.StartPolling(ctx)
	return nil
}

// EditDraft applies fn to a copy of the draft. The edit is rejected if it
// changes the user id or lowers the status below the committed status.
func (r *Reconciler) EditDraft(fn func(draft *profileModel.Profile)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.committed == nil {
		return noSessionError()
	}
	candidate := r.draft.Clone()
	fn(candidate)
	if candidate.UserId != r.committed.UserId {
		return errors2.NewClientError(errors2.WithDescription(errors2.INVALID_FIELD_VALUE,
			"The user id of a profile cannot be changed."), http.StatusBadRequest)
	}
	if err := r.checkStatus(candidate.Status); err != nil {
		return err
	}
	r.draft = candidate
	r.dirty = !cmp.Equal(r.draft, r.committed)
	return nil
}

// SetField applies a single form edit. Values are coerced to the field type;
// blank values clear the field.
func (r *Reconciler) SetField(section, field string, value interface{}) error {
	f, ok := profileModel.LookupField(section, field)
	if !ok {
		return errors2.NewClientError(errors2.WithDescription(errors2.UNKNOWN_FIELD,
			"Field "+qualified(section, field)+" is not editable."), http.StatusBadRequest)
	}

	var coerced interface{}
	if !utils.IsBlank(value) {
		coerced = utils.CoerceValueToType(value, f.Type)
		if coerced == nil {
			return invalidValueError(section, field)
		}
		if s, isString := coerced.(string); isString && !f.Allows(s) {
			return invalidValueError(section, field)
		}
	} else if f.Section == profileModel.SectionProfile && f.Field == "status" {
		return invalidValueError(section, field)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.committed == nil {
		return noSessionError()
	}
	updated, err := r.draft.WithField(f, coerced)
	if err != nil {
		return invalidValueError(section, field)
	}
	if err := r.checkStatus(updated.Status); err != nil {
		return err
	}
	r.draft = updated
	r.dirty = !cmp.Equal(r.draft, r.committed)
	return nil
}

// DraftDiff describes how the draft differs from the committed profile.
func (r *Reconciler) DraftDiff() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cmp.Diff(r.committed, r.draft)
}

// Save replaces the server profile with the draft. On success both copies
// become the server response; on failure nothing changes.
func (r *Reconciler) Save(ctx context.Context) (*profileModel.Profile, error) {
	logger := log.GetLogger()

	r.mu.Lock()
	if r.committed == nil || r.closed {
		r.mu.Unlock()
		return nil, noSessionError()
	}
	draft := r.draft.Clone()
	userId := r.committed.UserId
	r.mu.Unlock()

	updated, err := r.api.UpdateProfile(ctx, userId, draft)
	if err != nil {
		logger.Error("Failed to save profile", log.String("user_id", userId), log.Error(err))
		return nil, err
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		logger.Info("Session ended while saving; keeping the session store cleared", log.String("user_id", userId))
		return nil, noSessionError()
	}
	r.committed = updated.Clone()
	r.draft = updated.Clone()
	r.dirty = false
	r.mu.Unlock()

	r.persist(ctx, updated)
	logger.Audit(log.AuditEvent{
		InitiatorID:   userId,
		InitiatorType: log.InitiatorTypeClient,
		TargetID:      userId,
		TargetType:    log.TargetTypeProfile,
		ActionID:      log.ActionSaveProfile,
		Data:          map[string]interface{}{"status": updated.Status},
	})
	return updated.Clone(), nil
}

// Snapshot returns a copy of the current state.
func (r *Reconciler) Snapshot() model.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return model.Snapshot{
		Committed:    r.committed.Clone(),
		Draft:        r.draft.Clone(),
		Dirty:        r.dirty,
		Flow:         r.flow,
		Revealed:     append([]string{}, r.revealed...),
		Polling:      r.poll != nil,
		PollAttempts: r.attempts,
		Stages:       r.stages(),
	}
}

// Close stops polling and the reveal sequence. Once it returns the reconciler
// makes no further calls and no further state changes.
func (r *Reconciler) Close() {
	r.mu.Lock()
	r.closed = true
	poll, reveal := r.poll, r.reveal
	r.poll, r.reveal = nil, nil
	r.mu.Unlock()

	poll.Stop()
	reveal.Stop()
}

// stages derives the navigation path. Callers hold r.mu.
func (r *Reconciler) stages() []model.Stage {
	var status profileModel.ProfileStatus
	if r.committed != nil {
		status = r.committed.Status
	}
	brandNew := status == profileModel.StatusNew || status == profileModel.StatusIncomplete
	partial := status == profileModel.StatusPartial || r.flow == model.FlowFormFilling
	complete := status.Rank() >= profileModel.StatusComplete.Rank() || r.flow == model.FlowCompleted

	voice := model.StageCompleted
	if brandNew && r.flow == model.FlowIdle {
		voice = model.StageCurrent
	}
	factFind := model.StageLocked
	if partial {
		factFind = model.StageCurrent
	} else if complete {
		factFind = model.StageCompleted
	}
	wealth := model.StageLocked
	if complete {
		wealth = model.StageCurrent
	}

	return []model.Stage{
		{Id: 1, Title: model.StageVoiceDiscovery, Status: voice},
		{Id: 2, Title: model.StageDigitalFactFinding, Status: factFind},
		{Id: 3, Title: model.StageWealthArchitecture, Status: wealth},
	}
}

// setFlow records a transition. Callers hold r.mu.
func (r *Reconciler) setFlow(to model.FlowStatus) {
	from := r.flow
	if from == to {
		return
	}
	r.flow = to
	r.metrics.IncFlowTransition(string(from), string(to))
	log.GetLogger().Debug("Dashboard flow transition", log.String("from", string(from)), log.String("to", string(to)))
	if r.observer != nil {
		r.observer(from, to)
	}
}

// checkStatus rejects local status downgrades. Callers hold r.mu.
func (r *Reconciler) checkStatus(status profileModel.ProfileStatus) error {
	if status == r.committed.Status {
		return nil
	}
	if !status.IsValid() {
		return invalidValueError(profileModel.SectionProfile, "status")
	}
	if status.Rank() < r.committed.Status.Rank() {
		return errors2.NewClientError(errors2.WithDescription(errors2.STATUS_DOWNGRADE,
			"Status cannot move from "+string(r.committed.Status)+" to "+string(status)+"."), http.StatusConflict)
	}
	return nil
}

func (r *Reconciler) persist(ctx context.Context, profile *profileModel.Profile) {
	if r.session == nil {
		return
	}
	if err := r.session.Save(ctx, profile); err != nil {
		log.GetLogger().Warn("Failed to persist session profile", log.String("user_id", profile.UserId), log.Error(err))
	}
}

func noSessionError() error {
	return errors2.NewClientError(errors2.NO_ACTIVE_SESSION, http.StatusUnauthorized)
}

func invalidValueError(section, field string) error {
	return errors2.NewClientError(errors2.WithDescription(errors2.INVALID_FIELD_VALUE,
		"Invalid value for "+qualified(section, field)+"."), http.StatusBadRequest)
}

func qualified(section, field string) string {
	if section == "" {
		return field
	}
	return section + "." + field
}
