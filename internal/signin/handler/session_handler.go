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

	profileModel "github.com/hollyandmorty/advisor-console/internal/profile/model"
	"github.com/hollyandmorty/advisor-console/internal/signin/model"
	"github.com/hollyandmorty/advisor-console/internal/signin/service"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
	"github.com/hollyandmorty/advisor-console/internal/system/utils"
)

// DashboardMounter receives the signed-in profile.
type DashboardMounter interface {
	Mount(ctx context.Context, profile *profileModel.Profile) error
	Unmount()
}

type SessionHandler struct {
	flow      *service.Flow
	dashboard DashboardMounter
}

func NewSessionHandler(flow *service.Flow, dashboard DashboardMounter) *SessionHandler {
	return &SessionHandler{
		flow:      flow,
		dashboard: dashboard,
	}
}

type sessionResponse struct {
	SignIn  model.State           `json:"sign_in"`
	Profile *profileModel.Profile `json:"profile"`
}

// GetSession returns the sign-in state and the signed-in profile, if any.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	profile, err := h.flow.Restore(r.Context())
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sessionResponse{SignIn: h.flow.State(), Profile: profile})
}

// SubmitPhone handles the phone step.
func (h *SessionHandler) SubmitPhone(w http.ResponseWriter, r *http.Request) {
	var req model.PhoneRequest
	if err := utils.DecodeJSONBody(r, &req, "sign-in"); err != nil {
		utils.HandleError(w, err)
		return
	}
	if err := h.flow.SubmitPhone(r.Context(), req.Phone); err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.flow.State())
}

// SubmitProfile handles first-time profile setup.
func (h *SessionHandler) SubmitProfile(w http.ResponseWriter, r *http.Request) {
	var req model.ProfileSetupRequest
	if err := utils.DecodeJSONBody(r, &req, "profile setup"); err != nil {
		utils.HandleError(w, err)
		return
	}
	if err := h.flow.SubmitProfile(r.Context(), req.FirstName, req.LastName); err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, h.flow.State())
}

func (h *SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	if err := h.flow.Back(); err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.flow.State())
}

// Complete signs the client in and mounts their dashboard.
func (h *SessionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	profile, err := h.flow.Complete(r.Context())
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	if err := h.dashboard.Mount(r.Context(), profile); err != nil {
		utils.HandleError(w, err)
		return
	}
	log.GetLogger().Info("Client signed in", log.String("user_id", profile.UserId))
	utils.WriteJSON(w, http.StatusOK, profile)
}

// SignOut clears the session and tears the dashboard down.
func (h *SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.dashboard.Unmount()
	if err := h.flow.SignOut(r.Context()); err != nil {
		utils.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
