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
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/hollyandmorty/advisor-console/internal/advisor/model"
	"github.com/hollyandmorty/advisor-console/internal/advisor/service"
	profileModel "github.com/hollyandmorty/advisor-console/internal/profile/model"
	"github.com/hollyandmorty/advisor-console/internal/system/constants"
	errors2 "github.com/hollyandmorty/advisor-console/internal/system/errors"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
	"github.com/hollyandmorty/advisor-console/internal/system/pagination"
	"github.com/hollyandmorty/advisor-console/internal/system/utils"
)

type AdvisorHandler struct {
	dispatcher *service.Dispatcher
	inventory  *service.Inventory
	pageSize   int
}

func NewAdvisorHandler(dispatcher *service.Dispatcher, inventory *service.Inventory, pageSize int) *AdvisorHandler {
	return &AdvisorHandler{
		dispatcher: dispatcher,
		inventory:  inventory,
		pageSize:   pageSize,
	}
}

// SearchProfiles runs the filter in the query string and pages the result.
func (h *AdvisorHandler) SearchProfiles(w http.ResponseWriter, r *http.Request) {
	q, err := model.ParseFilterQuery(r.URL.Query())
	if err != nil {
		utils.HandleError(w, invalidFilter(err.Error()))
		return
	}
	limit, err := pagination.ParseLimit(r, h.pageSize)
	if err != nil {
		utils.HandleError(w, invalidFilter(err.Error()))
		return
	}
	offset, err := pagination.ParseOffset(r)
	if err != nil {
		utils.HandleError(w, invalidFilter(err.Error()))
		return
	}

	profiles := h.dispatcher.Dispatch(r.Context(), q)
	page, p := pagination.Page(profiles, limit, offset)
	utils.WriteJSON(w, http.StatusOK, model.SearchResult{
		Query:      q,
		Plan:       h.dispatcher.Plan(q),
		Profiles:   page,
		Pagination: p,
	})
}

// GetStats summarises the profiles matching the filter in the query string,
// or the whole inventory when no filter applies.
func (h *AdvisorHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.filteredProfiles(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, service.Stats(profiles))
}

func (h *AdvisorHandler) GetPipeline(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.filteredProfiles(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, service.Pipeline(profiles))
}

// filteredProfiles serves unfiltered requests from the cached inventory and
// dispatches everything else as a search.
func (h *AdvisorHandler) filteredProfiles(r *http.Request) ([]profileModel.Profile, error) {
	q, err := model.ParseFilterQuery(r.URL.Query())
	if err != nil {
		return nil, invalidFilter(err.Error())
	}
	if h.dispatcher.Plan(q).Endpoint == model.EndpointList {
		return h.inventory.Profiles(r.Context()), nil
	}
	return h.dispatcher.Dispatch(r.Context(), q), nil
}

// RefreshInventory reloads the inventory and returns the new stats.
func (h *AdvisorHandler) RefreshInventory(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, service.Stats(h.inventory.Refresh(r.Context())))
}

// ExportInventory downloads the inventory as csv (default) or xlsx.
func (h *AdvisorHandler) ExportInventory(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = constants.ExportFormatCSV
	}

	profiles := h.inventory.Profiles(r.Context())
	var buf bytes.Buffer
	if err := service.Export(&buf, profiles, format); err != nil {
		utils.HandleError(w, err)
		return
	}

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   advisorName(r),
		InitiatorType: log.InitiatorTypeAdvisor,
		TargetID:      "inventory",
		TargetType:    log.TargetTypeInventory,
		ActionID:      log.ActionExportInventory,
		Data:          map[string]interface{}{"format": format, "profiles": len(profiles)},
	})

	filename := fmt.Sprintf("inventory-%s.%s", time.Now().UTC().Format("20060102"), format)
	w.Header().Set(constants.ContentTypeHeader, service.ExportContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func invalidFilter(description string) error {
	return errors2.NewClientError(errors2.WithDescription(errors2.INVALID_FILTER, description), http.StatusBadRequest)
}

func advisorName(r *http.Request) string {
	if username, _, ok := r.BasicAuth(); ok {
		return username
	}
	return "advisor"
}
