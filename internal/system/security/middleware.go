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

package security

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/hollyandmorty/advisor-console/internal/system/config"
	"github.com/hollyandmorty/advisor-console/internal/system/errors"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
	"github.com/hollyandmorty/advisor-console/internal/system/utils"
)

// AuthnWithAdvisorCredentials checks the request's basic credentials against
// the configured advisor account.
func AuthnWithAdvisorCredentials(r *http.Request, cfg config.AdvisorConfig) error {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Basic ") {
		return unauthorized()
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Basic "))
	if !validateAdvisorCredentials(token, cfg) {
		return unauthorized()
	}
	return nil
}

// RequireAdvisor protects an advisor route. Without configured credentials
// the route is left open.
func RequireAdvisor(cfg config.AdvisorConfig, next http.HandlerFunc) http.HandlerFunc {
	if !AdvisorAuthEnabled(cfg) {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if err := AuthnWithAdvisorCredentials(r, cfg); err != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="advisor"`)
			utils.HandleError(w, err)
			return
		}
		next(w, r)
	}
}

// AdvisorAuthEnabled reports whether advisor credentials are configured.
func AdvisorAuthEnabled(cfg config.AdvisorConfig) bool {
	return strings.TrimSpace(cfg.AdminUsername) != "" && strings.TrimSpace(cfg.AdminPassword) != ""
}

func validateAdvisorCredentials(token string, cfg config.AdvisorConfig) bool {
	username := strings.TrimSpace(cfg.AdminUsername)
	password := strings.TrimSpace(cfg.AdminPassword)
	if username == "" || password == "" || token == "" {
		return false
	}

	expected := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) == 1 {
		log.GetLogger().Debug("Advisor credentials validated successfully.")
		return true
	}
	return false
}

func unauthorized() error {
	return errors.NewClientError(errors.WithDescription(errors.UN_AUTHORIZED,
		"Missing or invalid Authorization header"), http.StatusUnauthorized)
}
