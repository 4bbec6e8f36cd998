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

	"github.com/hollyandmorty/advisor-console/internal/advisor/handler"
	"github.com/hollyandmorty/advisor-console/internal/system/config"
	"github.com/hollyandmorty/advisor-console/internal/system/security"
)

type AdvisorService struct {
	handler *handler.AdvisorHandler
	cfg     config.AdvisorConfig
}

func NewAdvisorService(mux *http.ServeMux, apiBasePath string, handler *handler.AdvisorHandler,
	cfg config.AdvisorConfig) *AdvisorService {
	instance := &AdvisorService{handler: handler, cfg: cfg}
	instance.RegisterRoutes(mux, apiBasePath)
	return instance
}

// RegisterRoutes mounts the advisor routes behind advisor authentication.
func (s *AdvisorService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {
	protect := func(next http.HandlerFunc) http.HandlerFunc {
		return security.RequireAdvisor(s.cfg, next)
	}
	mux.HandleFunc(fmt.Sprintf("GET %s/advisor/profiles", apiBasePath), protect(s.handler.SearchProfiles))
	mux.HandleFunc(fmt.Sprintf("GET %s/advisor/stats", apiBasePath), protect(s.handler.GetStats))
	mux.HandleFunc(fmt.Sprintf("GET %s/advisor/pipeline", apiBasePath), protect(s.handler.GetPipeline))
	mux.HandleFunc(fmt.Sprintf("GET %s/advisor/export", apiBasePath), protect(s.handler.ExportInventory))
	mux.HandleFunc(fmt.Sprintf("POST %s/advisor/inventory/refresh", apiBasePath), protect(s.handler.RefreshInventory))
}
