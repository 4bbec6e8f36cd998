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

package services

import (
	"fmt"
	"net/http"

	"github.com/hollyandmorty/advisor-console/internal/dashboard/handler"
)

type DashboardService struct {
	handler *handler.DashboardHandler
}

func NewDashboardService(mux *http.ServeMux, apiBasePath string, handler *handler.DashboardHandler) *DashboardService {
	instance := &DashboardService{handler: handler}
	instance.RegisterRoutes(mux, apiBasePath)
	return instance
}

func (s *DashboardService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {
	mux.HandleFunc(fmt.Sprintf("GET %s/dashboard", apiBasePath), s.handler.GetDashboard)
	mux.HandleFunc(fmt.Sprintf("GET %s/dashboard/fields", apiBasePath), s.handler.GetFields)
	mux.HandleFunc(fmt.Sprintf("POST %s/dashboard/discovery", apiBasePath), s.handler.StartDiscovery)
	mux.HandleFunc(fmt.Sprintf("PATCH %s/dashboard/draft", apiBasePath), s.handler.UpdateDraft)
	mux.HandleFunc(fmt.Sprintf("GET %s/dashboard/draft/diff", apiBasePath), s.handler.GetDraftDiff)
	mux.HandleFunc(fmt.Sprintf("POST %s/dashboard/save", apiBasePath), s.handler.Save)
	mux.HandleFunc(fmt.Sprintf("POST %s/dashboard/finalize", apiBasePath), s.handler.Finalize)
}
