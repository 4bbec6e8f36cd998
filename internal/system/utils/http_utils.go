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

package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hollyandmorty/advisor-console/internal/system/constants"
	errors2 "github.com/hollyandmorty/advisor-console/internal/system/errors"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
)

const maxRequestBody = 1 << 20

// HandleError sends an HTTP error response based on the provided error.
// Client errors are returned as-is; anything else becomes a generic 500.
func HandleError(w http.ResponseWriter, err error) {
	var clientError *errors2.ClientError
	if errors.As(err, &clientError) {
		status := clientError.StatusCode
		if status == 0 {
			status = http.StatusBadRequest
		}
		WriteJSON(w, status, clientError.ErrorMessage)
		return
	}

	log.GetLogger().Error("Request failed", log.Error(err))
	var serverError *errors2.ServerError
	if errors.As(err, &serverError) {
		WriteJSON(w, http.StatusInternalServerError, errors2.ErrorMessage{
			Code:    serverError.Code,
			Message: serverError.Message,
			TraceID: serverError.TraceID,
		})
		return
	}
	WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "Internal server error",
	})
}

// WriteJSON encodes data as the response body.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set(constants.ContentTypeHeader, "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// DecodeJSONBody decodes a request body into v, rejecting unknown fields.
func DecodeJSONBody(r *http.Request, v interface{}, resourceName string) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return errors2.NewClientError(errors2.WithDescription(errors2.INVALID_REQUEST_BODY,
			describeDecodeError(err, resourceName)), http.StatusBadRequest)
	}
	return nil
}

func describeDecodeError(err error, resourceName string) string {
	if errors.Is(err, io.EOF) {
		return fmt.Sprintf("Request body for %s is empty.", resourceName)
	}
	if strings.HasPrefix(err.Error(), "json: unknown field ") {
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return fmt.Sprintf("Unknown field %s in %s request body.", field, resourceName)
	}
	var syntaxError *json.SyntaxError
	if errors.As(err, &syntaxError) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Sprintf("Malformed JSON in %s request body.", resourceName)
	}
	var typeError *json.UnmarshalTypeError
	if errors.As(err, &typeError) && typeError.Field != "" {
		return fmt.Sprintf("Invalid type for field '%s' in %s request body.", typeError.Field, resourceName)
	}
	return fmt.Sprintf("Invalid %s request body.", resourceName)
}
