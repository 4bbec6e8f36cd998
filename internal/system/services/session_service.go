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

	"github.com/hollyandmorty/advisor-console/internal/signin/handler"
)

type SessionService struct {
	handler *handler.SessionHandler
}

func NewSessionService(mux *http.ServeMux, apiBasePath string, handler *handler.SessionHandler) *SessionService {
	instance := &SessionService{handler: handler}
	instance.RegisterRoutes(mux, apiBasePath)
	return instance
}

func (s *SessionService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {
	mux.HandleFunc(fmt.Sprintf("GET %s/session", apiBasePath), s.handler.GetSession)
	mux.HandleFunc(fmt.Sprintf("DELETE %s/session", apiBasePath), s.handler.SignOut)
	mux.HandleFunc(fmt.Sprintf("POST %s/session/phone", apiBasePath), s.handler.SubmitPhone)
	mux.HandleFunc(fmt.Sprintf("POST %s/session/profile", apiBasePath), s.handler.SubmitProfile)
	mux.HandleFunc(fmt.Sprintf("POST %s/session/back", apiBasePath), s.handler.Back)
	mux.HandleFunc(fmt.Sprintf("POST %s/session/complete", apiBasePath), s.handler.Complete)
}
