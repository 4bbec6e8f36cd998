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

package authn

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	errors2 "github.com/hollyandmorty/advisor-console/internal/system/errors"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
)

// CheckAccessToken validates the bearer token configured for the profile API
// before it is sent. JWTs must not be expired; opaque tokens are passed through
// and left for the server to judge.
func CheckAccessToken(token string, now time.Time) error {

	logger := log.GetLogger()
	if strings.Count(token, ".") != 2 {
		logger.Debug("Access token is opaque; skipping local expiry check.")
		return nil
	}

	claims, err := ParseJWTClaims(token)
	if err != nil {
		return err
	}

	expRaw, ok := claims["exp"]
	if !ok {
		logger.Debug("Token does not have an expiration time.")
		return nil
	}
	expFloat, ok := expRaw.(float64)
	if !ok {
		logger.Debug("Token does not have a valid expiration time.", log.Any("exp", expRaw))
		return tokenExpiredError()
	}
	expUnix := int64(expFloat)
	if expUnix < now.Unix() {
		logger.Debug("Token has expired.", log.String("exp", time.Unix(expUnix, 0).String()))
		return tokenExpiredError()
	}
	return nil
}

// ParseJWTClaims parses claims from a JWT without verifying the signature
func ParseJWTClaims(tokenString string) (map[string]interface{}, error) {

	logger := log.GetLogger()
	claims := jwt.MapClaims{}
	_, _, err := new(jwt.Parser).ParseUnverified(tokenString, claims)
	if err != nil {
		errMsg := "Error occurred when parsing claims from JWT token."
		logger.Debug(errMsg, log.Error(err))
		serverError := errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.PARSING_ERROR.Code,
			Message:     errors2.PARSING_ERROR.Message,
			Description: errMsg,
		}, err)
		return nil, serverError
	}
	return claims, nil
}

func tokenExpiredError() error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.TOKEN_EXPIRED.Code,
		Message:     errors2.TOKEN_EXPIRED.Message,
		Description: errors2.TOKEN_EXPIRED.Description,
	}, http.StatusUnauthorized)
}
