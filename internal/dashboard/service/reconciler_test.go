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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/hollyandmorty/advisor-console/internal/dashboard/model"
	profileModel "github.com/hollyandmorty/advisor-console/internal/profile/model"
	"github.com/hollyandmorty/advisor-console/internal/session/store"
	"github.com/hollyandmorty/advisor-console/internal/system/config"
	"github.com/hollyandmorty/advisor-console/internal/system/constants"
	errors2 "github.com/hollyandmorty/advisor-console/internal/system/errors"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	goleak.VerifyTestMain(m)
}

const userId = "+447700900123"

type fakeAPI struct {
	mu            sync.Mutex
	profiles      []*profileModel.Profile
	profileErr    error
	conversations profileModel.ConversationList
	convErr       error
	callErr       error
	updateErr     error
	updateHook    func(p *profileModel.Profile) *profileModel.Profile

	getCalls    int
	convCalls   int
	updateCalls int
	callCalls   int
}

func (f *fakeAPI) GetProfile(_ context.Context, _ string) (*profileModel.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if len(f.profiles) == 0 {
		return nil, nil
	}
	p := f.profiles[0]
	if len(f.profiles) > 1 {
		f.profiles = f.profiles[1:]
	}
	return p.Clone(), nil
}

func (f *fakeAPI) UpdateProfile(_ context.Context, _ string, p *profileModel.Profile) (*profileModel.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updateHook != nil {
		return f.updateHook(p.Clone()), nil
	}
	return p.Clone(), nil
}

func (f *fakeAPI) InitiateCall(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callCalls++
	return f.callErr
}

func (f *fakeAPI) GetConversations(_ context.Context, _ string) (profileModel.ConversationList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.convCalls++
	if f.convErr != nil {
		return profileModel.ConversationList{}, f.convErr
	}
	return f.conversations, nil
}

func (f *fakeAPI) counts() (get, conv, update, call int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls, f.convCalls, f.updateCalls, f.callCalls
}

type transitions struct {
	mu   sync.Mutex
	list []string
}

func (tr *transitions) observe(from, to model.FlowStatus) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.list = append(tr.list, string(from)+"->"+string(to))
}

func (tr *transitions) get() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]string{}, tr.list...)
}

func profileWithStatus(status profileModel.ProfileStatus) *profileModel.Profile {
	return &profileModel.Profile{
		UserId:       userId,
		Status:       status,
		PersonalInfo: &profileModel.PersonalInfo{FirstName: "Ada", LastName: "Lovelace"},
	}
}

func fastConfig() config.DashboardConfig {
	return config.DashboardConfig{
		PollInterval:    2 * time.Millisecond,
		MaxPollAttempts: 40,
		RevealStep:      time.Millisecond,
		MergePolicy:     constants.MergePolicyServerWins,
	}
}

func newTestReconciler(t *testing.T, api *fakeAPI, cfg config.DashboardConfig, opts ...Option) (*Reconciler, store.Store) {
	t.Helper()
	session := store.NewMemoryStore(time.Hour)
	r := NewReconciler(api, session, cfg, opts...)
	t.Cleanup(r.Close)
	return r, session
}

func waitDone(t *testing.T, h *PollHandle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("poll did not finish")
	}
}

var errBoom = errors2.NewServerError(errors2.UPDATE_PROFILE_FAILED, errors.New("boom"))

// ---------------------------------------------------------------------------
// Mount
// ---------------------------------------------------------------------------

func TestMount_NewProfileStaysIdle(t *testing.T) {
	api := &fakeAPI{}
	r, _ := newTestReconciler(t, api, fastConfig())

	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))

	snap := r.Snapshot()
	assert.Equal(t, model.FlowIdle, snap.Flow)
	assert.False(t, snap.Dirty)
	assert.False(t, snap.Polling)
	assert.Equal(t, snap.Committed, snap.Draft)
}

func TestMount_PartialResumesPolling(t *testing.T) {
	api := &fakeAPI{profiles: []*profileModel.Profile{profileWithStatus(profileModel.StatusNew)}}
	r, _ := newTestReconciler(t, api, fastConfig())

	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusPartial)))

	snap := r.Snapshot()
	assert.Equal(t, model.FlowCalling, snap.Flow)
	assert.True(t, snap.Polling)
	assert.Eventually(t, func() bool {
		get, _, _, _ := api.counts()
		return get > 0
	}, time.Second, time.Millisecond)
}

func TestMount_NilProfile(t *testing.T) {
	r, _ := newTestReconciler(t, &fakeAPI{}, fastConfig())
	err := r.Mount(context.Background(), nil)
	assert.True(t, errors2.HasCode(err, errors2.NO_ACTIVE_SESSION))
}

// ---------------------------------------------------------------------------
// Save
// ---------------------------------------------------------------------------

func TestSave_FailureKeepsDirtyAndCommitted(t *testing.T) {
	api := &fakeAPI{updateErr: errBoom}
	r, session := newTestReconciler(t, api, fastConfig())
	original := profileWithStatus(profileModel.StatusNew)
	require.NoError(t, r.Mount(context.Background(), original))

	require.NoError(t, r.SetField(profileModel.SectionPersonalInfo, "city", "London"))
	before := r.Snapshot()
	require.True(t, before.Dirty)

	saved, err := r.Save(context.Background())
	require.Error(t, err)
	assert.Nil(t, saved)
	assert.True(t, errors2.HasCode(err, errors2.UPDATE_PROFILE_FAILED))

	after := r.Snapshot()
	assert.True(t, after.Dirty)
	assert.Equal(t, original, after.Committed)
	assert.Equal(t, before.Draft, after.Draft)

	stored, err := session.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stored, "failed saves must not touch the session")
}

func TestSave_SuccessCollapsesToServerResponse(t *testing.T) {
	api := &fakeAPI{updateHook: func(p *profileModel.Profile) *profileModel.Profile {
		p.FinancialPosition = &profileModel.FinancialPosition{
			Assets:   []profileModel.Asset{{AssetType: "isa", CurrentValue: profileModel.Float(30000)}},
			NetWorth: profileModel.Float(30000),
		}
		p.UpdatedAt = "2025-03-01T10:00:00Z"
		return p
	}}
	r, session := newTestReconciler(t, api, fastConfig())
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))
	require.NoError(t, r.SetField(profileModel.SectionEmployment, "annual_salary", "52000"))

	saved, err := r.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30000.0, saved.NetWorth())

	snap := r.Snapshot()
	assert.False(t, snap.Dirty)
	assert.Equal(t, saved, snap.Committed)
	assert.Equal(t, saved, snap.Draft)
	assert.Equal(t, 30000.0, snap.Committed.NetWorth())

	stored, err := session.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, saved, stored)
}

func TestSave_WithoutMount(t *testing.T) {
	r, _ := newTestReconciler(t, &fakeAPI{}, fastConfig())
	_, err := r.Save(context.Background())
	assert.True(t, errors2.HasCode(err, errors2.NO_ACTIVE_SESSION))
}

// ---------------------------------------------------------------------------
// Draft edits
// ---------------------------------------------------------------------------

func TestSetField_CoercesAndTracksDirty(t *testing.T) {
	r, _ := newTestReconciler(t, &fakeAPI{}, fastConfig())
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))

	require.NoError(t, r.SetField(profileModel.SectionEmployment, "annual_salary", "52000"))
	require.NoError(t, r.SetField(profileModel.SectionPersonalInfo, "number_of_dependents", "2"))
	require.NoError(t, r.SetField(profileModel.SectionHealth, "smoker", "no"))

	snap := r.Snapshot()
	assert.True(t, snap.Dirty)
	salary, ok := snap.Draft.AnnualSalary()
	assert.True(t, ok)
	assert.Equal(t, 52000.0, salary)
	assert.Equal(t, 2, *snap.Draft.PersonalInfo.NumberOfDependents)
	assert.False(t, *snap.Draft.HealthAndProtection.Smoker)
	assert.Nil(t, snap.Committed.Employment, "committed copy is untouched")
	assert.NotEmpty(t, r.DraftDiff())
}

func TestSetField_RevertingClearsDirty(t *testing.T) {
	r, _ := newTestReconciler(t, &fakeAPI{}, fastConfig())
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))

	require.NoError(t, r.SetField(profileModel.SectionPersonalInfo, "first_name", "Grace"))
	assert.True(t, r.Snapshot().Dirty)
	require.NoError(t, r.SetField(profileModel.SectionPersonalInfo, "first_name", "Ada"))
	assert.False(t, r.Snapshot().Dirty)
}

func TestSetField_Rejections(t *testing.T) {
	r, _ := newTestReconciler(t, &fakeAPI{}, fastConfig())
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusPartial)))
	r.Close()

	tests := []struct {
		name    string
		section string
		field   string
		value   interface{}
		code    errors2.ErrorMessage
	}{
		{"unknown field", profileModel.SectionPersonalInfo, "shoe_size", "9", errors2.UNKNOWN_FIELD},
		{"bad number", profileModel.SectionEmployment, "annual_salary", "lots", errors2.INVALID_FIELD_VALUE},
		{"bad option", profileModel.SectionRisk, "risk_attitude", "reckless", errors2.INVALID_FIELD_VALUE},
		{"bad date", profileModel.SectionPersonalInfo, "date_of_birth", "12/04/1985", errors2.INVALID_FIELD_VALUE},
		{"status downgrade", profileModel.SectionProfile, "status", "new", errors2.STATUS_DOWNGRADE},
		{"blank status", profileModel.SectionProfile, "status", "", errors2.INVALID_FIELD_VALUE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.SetField(tt.section, tt.field, tt.value)
			require.Error(t, err)
			assert.True(t, errors2.HasCode(err, tt.code), err.Error())
			assert.False(t, r.Snapshot().Dirty)
		})
	}
}

func TestSetField_StatusUpgradeAllowed(t *testing.T) {
	r, _ := newTestReconciler(t, &fakeAPI{}, fastConfig())
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))

	require.NoError(t, r.SetField(profileModel.SectionProfile, "status", "complete"))
	assert.Equal(t, profileModel.StatusComplete, r.Snapshot().Draft.Status)
}

func TestEditDraft(t *testing.T) {
	r, _ := newTestReconciler(t, &fakeAPI{}, fastConfig())
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))

	require.NoError(t, r.EditDraft(func(p *profileModel.Profile) {
		p.Notes = "Prefers morning calls"
	}))
	assert.True(t, r.Snapshot().Dirty)

	err := r.EditDraft(func(p *profileModel.Profile) { p.UserId = "someone-else" })
	assert.True(t, errors2.HasCode(err, errors2.INVALID_FIELD_VALUE))
	assert.Equal(t, userId, r.Snapshot().Draft.UserId)
}

// ---------------------------------------------------------------------------
// Discovery
// ---------------------------------------------------------------------------

func TestStartDiscovery_FailureReturnsToIdle(t *testing.T) {
	api := &fakeAPI{callErr: errors2.NewServerError(errors2.CALL_FAILED, errors.New("503"))}
	tr := &transitions{}
	r, _ := newTestReconciler(t, api, fastConfig(), WithObserver(tr.observe))
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))

	err := r.StartDiscovery(context.Background())
	require.Error(t, err)
	assert.True(t, errors2.HasCode(err, errors2.CALL_FAILED))

	snap := r.Snapshot()
	assert.Equal(t, model.FlowIdle, snap.Flow)
	assert.False(t, snap.Polling)
	assert.Equal(t, []string{"idle->calling", "calling->idle"}, tr.get())
}

func TestStartDiscovery_OnlyFromIdle(t *testing.T) {
	api := &fakeAPI{profiles: []*profileModel.Profile{profileWithStatus(profileModel.StatusNew)}}
	r, _ := newTestReconciler(t, api, fastConfig())
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))

	require.NoError(t, r.StartDiscovery(context.Background()))
	err := r.StartDiscovery(context.Background())
	assert.True(t, errors2.HasCode(err, errors2.DISCOVERY_IN_PROGRESS))

	_, _, _, calls := api.counts()
	assert.Equal(t, 1, calls)
}

func TestDiscovery_PartialThenCompleteChain(t *testing.T) {
	partial := profileWithStatus(profileModel.StatusPartial)
	partial.Employment = &profileModel.EmploymentDetails{AnnualSalary: profileModel.Float(48000)}
	complete := partial.Clone()
	complete.Status = profileModel.StatusComplete

	api := &fakeAPI{
		conversations: profileModel.ConversationList{{ConversationId: "c1"}},
		profiles: []*profileModel.Profile{
			profileWithStatus(profileModel.StatusNew),
			partial,
			complete,
		},
	}
	tr := &transitions{}
	cfg := fastConfig()
	cfg.RevealStep = 50 * time.Millisecond
	r, session := newTestReconciler(t, api, cfg, WithObserver(tr.observe))
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))

	require.NoError(t, r.StartDiscovery(context.Background()))

	require.Eventually(t, func() bool {
		return r.Snapshot().Flow == model.FlowCompleted && !r.Snapshot().Polling
	}, 5*time.Second, time.Millisecond)

	assert.Equal(t, []string{
		"idle->calling",
		"calling->extracting",
		"extracting->formFilling",
		"formFilling->completed",
	}, tr.get())

	snap := r.Snapshot()
	assert.Equal(t, profileModel.StatusComplete, snap.Committed.Status)
	assert.Equal(t, snap.Committed, snap.Draft)

	stored, err := session.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, profileModel.StatusComplete, stored.Status)

	get, _, _, _ := api.counts()
	time.Sleep(20 * time.Millisecond)
	getAfter, _, _, _ := api.counts()
	assert.Equal(t, get, getAfter, "no polling after completion")
}

func TestMount_PartialCompletesInOneTick(t *testing.T) {
	complete := profileWithStatus(profileModel.StatusComplete)
	api := &fakeAPI{
		conversations: profileModel.ConversationList{{ConversationId: "c1"}},
		profiles:      []*profileModel.Profile{complete},
	}
	tr := &transitions{}
	r, _ := newTestReconciler(t, api, fastConfig(), WithObserver(tr.observe))

	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusPartial)))

	require.Eventually(t, func() bool {
		snap := r.Snapshot()
		return snap.Flow == model.FlowCompleted && !snap.Polling
	}, 5*time.Second, time.Millisecond)

	assert.Equal(t, []string{
		"idle->calling",
		"calling->extracting",
		"extracting->formFilling",
		"formFilling->completed",
	}, tr.get())
	get, conv, _, _ := api.counts()
	assert.Equal(t, 1, get)
	assert.Equal(t, 1, conv)
}

func TestMount_PartialVerifiedCompletesDiscovery(t *testing.T) {
	api := &fakeAPI{
		conversations: profileModel.ConversationList{{ConversationId: "c1"}},
		profiles:      []*profileModel.Profile{profileWithStatus(profileModel.StatusVerified)},
	}
	cfg := fastConfig()
	cfg.MaxPollAttempts = 5
	r, session := newTestReconciler(t, api, cfg)

	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusPartial)))

	require.Eventually(t, func() bool {
		snap := r.Snapshot()
		return snap.Flow == model.FlowCompleted && !snap.Polling
	}, 5*time.Second, time.Millisecond)

	snap := r.Snapshot()
	assert.Equal(t, profileModel.StatusVerified, snap.Committed.Status)
	assert.Equal(t, profileModel.StatusVerified, snap.Draft.Status)
	assert.Equal(t, 1, snap.PollAttempts)
	get, _, _, _ := api.counts()
	assert.Equal(t, 1, get)

	stored, err := session.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, profileModel.StatusVerified, stored.Status)
}

func TestPolling_StopsOnComplete(t *testing.T) {
	api := &fakeAPI{profiles: []*profileModel.Profile{profileWithStatus(profileModel.StatusComplete)}}
	r, _ := newTestReconciler(t, api, fastConfig())
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))

	h := r.StartPolling(context.Background())
	waitDone(t, h)

	get, _, _, _ := api.counts()
	assert.Equal(t, 1, get)
	snap := r.Snapshot()
	assert.Equal(t, model.FlowCompleted, snap.Flow)
	assert.False(t, snap.Polling)
	assert.Equal(t, 1, snap.PollAttempts)
}

func TestPolling_StopsAfterExactlyMaxAttempts(t *testing.T) {
	api := &fakeAPI{profiles: []*profileModel.Profile{profileWithStatus(profileModel.StatusNew)}}
	cfg := fastConfig()
	cfg.MaxPollAttempts = 3
	tr := &transitions{}
	r, _ := newTestReconciler(t, api, cfg, WithObserver(tr.observe))
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))

	require.NoError(t, r.StartDiscovery(context.Background()))
	snap := r.Snapshot()
	require.True(t, snap.Polling)

	require.Eventually(t, func() bool { return !r.Snapshot().Polling }, 5*time.Second, time.Millisecond)

	get, conv, _, _ := api.counts()
	assert.Equal(t, 3, conv)
	assert.Equal(t, 3, get)
	assert.Equal(t, model.FlowIdle, r.Snapshot().Flow)
	assert.Equal(t, []string{"idle->calling", "calling->idle"}, tr.get())
}

func TestPolling_ExhaustionAfterPartialMergeKeepsFormFilling(t *testing.T) {
	api := &fakeAPI{profiles: []*profileModel.Profile{profileWithStatus(profileModel.StatusPartial)}}
	cfg := fastConfig()
	cfg.MaxPollAttempts = 3
	cfg.RevealStep = time.Hour
	tr := &transitions{}
	r, _ := newTestReconciler(t, api, cfg, WithObserver(tr.observe))
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))

	require.NoError(t, r.StartDiscovery(context.Background()))
	require.Eventually(t, func() bool { return !r.Snapshot().Polling }, 5*time.Second, time.Millisecond)

	snap := r.Snapshot()
	assert.Equal(t, model.FlowFormFilling, snap.Flow)
	assert.Equal(t, profileModel.StatusPartial, snap.Committed.Status)
	assert.Equal(t, 3, snap.PollAttempts)
	assert.Equal(t, []string{"idle->calling", "calling->formFilling"}, tr.get())
}

func TestPolling_ErrorsDoNotStopPolling(t *testing.T) {
	api := &fakeAPI{
		convErr:    errors.New("conversations down"),
		profileErr: errors.New("profiles down"),
	}
	cfg := fastConfig()
	cfg.MaxPollAttempts = 4
	r, _ := newTestReconciler(t, api, cfg)
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))

	waitDone(t, r.StartPolling(context.Background()))
	get, conv, _, _ := api.counts()
	assert.Equal(t, 4, conv)
	assert.Equal(t, 4, get)
}

func TestStartPolling_SingleActivePoll(t *testing.T) {
	api := &fakeAPI{profiles: []*profileModel.Profile{profileWithStatus(profileModel.StatusNew)}}
	cfg := fastConfig()
	cfg.PollInterval = time.Hour
	r, _ := newTestReconciler(t, api, cfg)
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))

	first := r.StartPolling(context.Background())
	second := r.StartPolling(context.Background())

	select {
	case <-first.Done():
	default:
		t.Fatal("starting a new poll must stop the previous one")
	}
	select {
	case <-second.Done():
		t.Fatal("the new poll must still be running")
	default:
	}
	assert.True(t, r.Snapshot().Polling)

	second.Stop()
	assert.False(t, r.Snapshot().Polling)
}

func TestClose_StopsBackgroundWork(t *testing.T) {
	api := &fakeAPI{profiles: []*profileModel.Profile{profileWithStatus(profileModel.StatusNew)}}
	cfg := fastConfig()
	cfg.MaxPollAttempts = 1000
	r, _ := newTestReconciler(t, api, cfg)
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusPartial)))

	require.Eventually(t, func() bool {
		get, _, _, _ := api.counts()
		return get >= 2
	}, time.Second, time.Millisecond)

	r.Close()
	get, conv, _, _ := api.counts()
	time.Sleep(20 * time.Millisecond)
	getAfter, convAfter, _, _ := api.counts()
	assert.Equal(t, get, getAfter)
	assert.Equal(t, conv, convAfter)
	assert.False(t, r.Snapshot().Polling)

	h := r.StartPolling(context.Background())
	waitDone(t, h)
}

func TestSave_AfterCloseKeepsSessionCleared(t *testing.T) {
	api := &fakeAPI{}
	r, session := newTestReconciler(t, api, fastConfig())
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))
	require.NoError(t, r.SetField(profileModel.SectionEmployment, "annual_salary", "52000"))

	r.Close()
	require.NoError(t, session.Clear(context.Background()))

	_, err := r.Save(context.Background())
	assert.True(t, errors2.HasCode(err, errors2.NO_ACTIVE_SESSION))
	_, err = r.Finalize(context.Background())
	assert.True(t, errors2.HasCode(err, errors2.NO_ACTIVE_SESSION))

	stored, err := session.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stored)
	_, _, update, _ := api.counts()
	assert.Equal(t, 0, update)
}

func TestSave_ClosedWhileSavingDoesNotPersist(t *testing.T) {
	api := &fakeAPI{}
	r, session := newTestReconciler(t, api, fastConfig())
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))
	require.NoError(t, r.SetField(profileModel.SectionEmployment, "annual_salary", "52000"))

	api.updateHook = func(p *profileModel.Profile) *profileModel.Profile {
		r.Close()
		require.NoError(t, session.Clear(context.Background()))
		return p
	}

	_, err := r.Save(context.Background())
	assert.True(t, errors2.HasCode(err, errors2.NO_ACTIVE_SESSION))

	stored, err := session.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stored)
	snap := r.Snapshot()
	assert.True(t, snap.Dirty)
	assert.Nil(t, snap.Committed.Employment)
}

func TestMergePolicy_PreserveDraft(t *testing.T) {
	serverUpdate := profileWithStatus(profileModel.StatusPartial)
	serverUpdate.Employment = &profileModel.EmploymentDetails{AnnualSalary: profileModel.Float(70000)}

	api := &fakeAPI{profiles: []*profileModel.Profile{serverUpdate}}
	cfg := fastConfig()
	cfg.MergePolicy = constants.MergePolicyPreserveDraft
	cfg.MaxPollAttempts = 1
	r, _ := newTestReconciler(t, api, cfg)
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))
	require.NoError(t, r.SetField(profileModel.SectionPersonalInfo, "city", "Leeds"))

	waitDone(t, r.StartPolling(context.Background()))

	snap := r.Snapshot()
	assert.Equal(t, profileModel.StatusPartial, snap.Committed.Status)
	salary, _ := snap.Committed.AnnualSalary()
	assert.Equal(t, 70000.0, salary)
	assert.Equal(t, "Leeds", snap.Draft.PersonalInfo.City)
	assert.Equal(t, profileModel.StatusPartial, snap.Draft.Status)
	assert.True(t, snap.Dirty)
}

func TestMergePolicy_ServerWins(t *testing.T) {
	serverUpdate := profileWithStatus(profileModel.StatusPartial)
	api := &fakeAPI{profiles: []*profileModel.Profile{serverUpdate}}
	cfg := fastConfig()
	cfg.MaxPollAttempts = 1
	r, _ := newTestReconciler(t, api, cfg)
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))
	require.NoError(t, r.SetField(profileModel.SectionPersonalInfo, "city", "Leeds"))

	waitDone(t, r.StartPolling(context.Background()))

	snap := r.Snapshot()
	assert.Equal(t, serverUpdate, snap.Draft)
	assert.False(t, snap.Dirty)
}

// ---------------------------------------------------------------------------
// Reveal and navigation
// ---------------------------------------------------------------------------

func TestReveal_RevealsSectionsInOrderThenCompletes(t *testing.T) {
	api := &fakeAPI{profiles: []*profileModel.Profile{profileWithStatus(profileModel.StatusPartial)}}
	cfg := fastConfig()
	cfg.MaxPollAttempts = 1
	r, _ := newTestReconciler(t, api, cfg)
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))

	waitDone(t, r.StartPolling(context.Background()))
	require.Eventually(t, func() bool { return r.Snapshot().Flow == model.FlowCompleted }, 5*time.Second, time.Millisecond)

	assert.Equal(t, []string{"salary", "assets", "goals", "risk", "health"}, r.Snapshot().Revealed)
}

func TestSnapshot_Stages(t *testing.T) {
	r, _ := newTestReconciler(t, &fakeAPI{}, fastConfig())

	stageStatuses := func() []model.StageStatus {
		var out []model.StageStatus
		for _, s := range r.Snapshot().Stages {
			out = append(out, s.Status)
		}
		return out
	}

	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))
	assert.Equal(t, []model.StageStatus{model.StageCurrent, model.StageLocked, model.StageLocked}, stageStatuses())

	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusComplete)))
	assert.Equal(t, []model.StageStatus{model.StageCompleted, model.StageCompleted, model.StageCurrent}, stageStatuses())

	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusVerified)))
	assert.Equal(t, []model.StageStatus{model.StageCompleted, model.StageCompleted, model.StageCurrent}, stageStatuses())
}

// ---------------------------------------------------------------------------
// Finalize
// ---------------------------------------------------------------------------

func TestFinalize_SavesPendingEditsFirst(t *testing.T) {
	api := &fakeAPI{}
	r, _ := newTestReconciler(t, api, fastConfig())
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))
	require.NoError(t, r.SetField(profileModel.SectionPersonalInfo, "city", "York"))

	finalized, err := r.Finalize(context.Background())
	require.NoError(t, err)

	_, _, updates, _ := api.counts()
	assert.Equal(t, 1, updates)
	assert.Equal(t, "York", finalized.Profile.PersonalInfo.City)
	assert.Contains(t, finalized.Document, "\"city\": \"York\"")
	assert.Contains(t, finalized.Document, "\n  \"user_id\"")
}

func TestFinalize_CleanProfileSkipsSave(t *testing.T) {
	api := &fakeAPI{}
	r, _ := newTestReconciler(t, api, fastConfig())
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))

	_, err := r.Finalize(context.Background())
	require.NoError(t, err)
	_, _, updates, _ := api.counts()
	assert.Zero(t, updates)
}

func TestFinalize_SaveFailureExposesNothing(t *testing.T) {
	api := &fakeAPI{updateErr: errBoom}
	r, _ := newTestReconciler(t, api, fastConfig())
	require.NoError(t, r.Mount(context.Background(), profileWithStatus(profileModel.StatusNew)))
	require.NoError(t, r.SetField(profileModel.SectionPersonalInfo, "city", "York"))

	finalized, err := r.Finalize(context.Background())
	assert.Error(t, err)
	assert.Nil(t, finalized)
	assert.True(t, r.Snapshot().Dirty)
}

func TestRenderDocument_RejectsInvalidProfile(t *testing.T) {
	_, err := RenderDocument(&profileModel.Profile{UserId: "", Status: "archived"})
	assert.True(t, errors2.HasCode(err, errors2.INVALID_PROFILE_DOCUMENT))
}
