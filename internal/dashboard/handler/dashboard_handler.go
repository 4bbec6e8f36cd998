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

package handler

import (
	"context"
	"net/http"
	"sync"

	"github.com/hollyandmorty/advisor-console/internal/dashboard/model"
	"github.com/hollyandmorty/advisor-console/internal/dashboard/service"
	profileModel "github.com/hollyandmorty/advisor-console/internal/profile/model"
	errors2 "github.com/hollyandmorty/advisor-console/internal/system/errors"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
	"github.com/hollyandmorty/advisor-console/internal/system/utils"
)

type Option func(*DashboardHandler)

// WithSaveHook registers fn to run after every successful save.
func WithSaveHook(fn func(profile *profileModel.Profile)) Option {
	return func(h *DashboardHandler) {
		h.onSaved = fn
	}
}

// DashboardHandler serves the client dashboard. It owns one reconciler per
// signed-in client and replaces it on every mount.
type DashboardHandler struct {
	newReconciler func() *service.Reconciler
	onSaved       func(profile *profileModel.Profile)

	mu      sync.Mutex
	current *service.Reconciler
}

func NewDashboardHandler(newReconciler func() *service.Reconciler, opts ...Option) *DashboardHandler {
	h := &DashboardHandler{newReconciler: newReconciler}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Mount replaces the active dashboard with one for profile.
func (h *DashboardHandler) Mount(ctx context.Context, profile *profileModel.Profile) error {
	r := h.newReconciler()
	if err := r.Mount(ctx, profile); err != nil {
		r.Close()
		return err
	}

	h.mu.Lock()
	previous := h.current
	h.current = r
	h.mu.Unlock()

	if previous != nil {
		previous.Close()
	}
	return nil
}

// Unmount stops the active dashboard, if any.
func (h *DashboardHandler) Unmount() {
	h.mu.Lock()
	previous := h.current
	h.current = nil
	h.mu.Unlock()

	if previous != nil {
		previous.Close()
	}
}

// Active returns the mounted reconciler.
func (h *DashboardHandler) Active() (*service.Reconciler, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil {
		return nil, errors2.NewClientError(errors2.NO_ACTIVE_SESSION, http.StatusUnauthorized)
	}
	return h.current, nil
}

func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	reconciler, err := h.Active()
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, reconciler.Snapshot())
}

// GetFields lists the editable fields of the fact-find form.
func (h *DashboardHandler) GetFields(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, profileModel.EditableFields)
}

// StartDiscovery requests the discovery call.
func (h *DashboardHandler) StartDiscovery(w http.ResponseWriter, r *http.Request) {
	reconciler, err := h.Active()
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	if err := reconciler.StartDiscovery(r.Context()); err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusAccepted, reconciler.Snapshot())
}

// UpdateDraft applies one field edit to the draft.
func (h *DashboardHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	reconciler, err := h.Active()
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	var update model.FieldUpdate
	if err := utils.DecodeJSONBody(r, &update, "field update"); err != nil {
		utils.HandleError(w, err)
		return
	}
	if err := reconciler.SetField(update.Section, update.Field, update.Value); err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, reconciler.Snapshot())
}

// GetDraftDiff describes the unsaved edits.
func (h *DashboardHandler) GetDraftDiff(w http.ResponseWriter, r *http.Request) {
	reconciler, err := h.Active()
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"diff": reconciler.DraftDiff()})
}

func (h *DashboardHandler) Save(w http.ResponseWriter, r *http.Request) {
	reconciler, err := h.Active()
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	profile, err := reconciler.Save(r.Context())
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	h.saved(profile)
	utils.WriteJSON(w, http.StatusOK, profile)
}

// Finalize saves pending edits and returns the finished profile document.
func (h *DashboardHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	reconciler, err := h.Active()
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	finalized, err := reconciler.Finalize(r.Context())
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	h.saved(finalized.Profile)
	log.GetLogger().Info("Profile finalized", log.String("user_id", finalized.Profile.UserId))
	utils.WriteJSON(w, http.StatusOK, finalized)
}

func (h *DashboardHandler) saved(profile *profileModel.Profile) {
	if h.onSaved != nil {
		h.onSaved(profile)
	}
}
