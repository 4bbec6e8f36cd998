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

package errors

import "errors"

const errorPrefix = "HMC-"

// ErrCannotConnect marks transport failures reaching the profile API.
var ErrCannotConnect = errors.New("unable to connect to profile service")

var (
	// Server error codes

	FETCH_PROFILE_FAILED = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Error while fetching profile.",
	}

	LIST_PROFILES_FAILED = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while listing profiles.",
	}

	CREATE_PROFILE_FAILED = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while creating profile.",
	}

	UPDATE_PROFILE_FAILED = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error saving profile changes.",
	}

	SEARCH_PROFILES_FAILED = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while searching profiles.",
	}

	CALL_FAILED = ErrorMessage{
		Code:        errorPrefix + "15006",
		Message:     "Failed to initiate outbound call.",
		Description: "Failed to reach Holly. Please verify your phone number.",
	}

	FETCH_CONVERSATIONS_FAILED = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while fetching conversations.",
	}

	SERVICE_UNREACHABLE = ErrorMessage{
		Code:        errorPrefix + "15008",
		Message:     "Unable to connect to service.",
		Description: "Unable to connect to service. Please check your network.",
	}

	SIGN_IN_FAILED = ErrorMessage{
		Code:        errorPrefix + "15009",
		Message:     "Sign-in failed.",
		Description: "An unexpected error occurred during sign-in.",
	}

	SESSION_STORE_FAILED = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while accessing the session store.",
	}

	EXPORT_FAILED = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while exporting profiles.",
	}

	ENCODE_PROFILE_FAILED = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Error while encoding profile.",
	}

	CIRCUIT_OPEN = ErrorMessage{
		Code:        errorPrefix + "15013",
		Message:     "Profile service temporarily unavailable.",
		Description: "Too many consecutive failures reaching the profile service.",
	}

	PARSING_ERROR = ErrorMessage{
		Code:    errorPrefix + "15014",
		Message: "Error while parsing token.",
	}

	// Client error codes

	PROFILE_NOT_FOUND = ErrorMessage{
		Code:        errorPrefix + "11001",
		Message:     "Profile not found.",
		Description: "No profile exists for the given user.",
	}

	INVALID_PHONE = ErrorMessage{
		Code:        errorPrefix + "11002",
		Message:     "Invalid phone number.",
		Description: "A phone number is required to sign in.",
	}

	INVALID_NAME = ErrorMessage{
		Code:        errorPrefix + "11003",
		Message:     "Invalid name.",
		Description: "First name and last name are required.",
	}

	INVALID_SIGN_IN_STEP = ErrorMessage{
		Code:    errorPrefix + "11004",
		Message: "Operation not allowed in the current sign-in step.",
	}

	NO_ACTIVE_SESSION = ErrorMessage{
		Code:        errorPrefix + "11005",
		Message:     "No active session.",
		Description: "Sign in before using the dashboard.",
	}

	DISCOVERY_IN_PROGRESS = ErrorMessage{
		Code:        errorPrefix + "11006",
		Message:     "Discovery already in progress.",
		Description: "A call can only be requested while discovery is idle.",
	}

	UNKNOWN_FIELD = ErrorMessage{
		Code:    errorPrefix + "11007",
		Message: "Unknown profile field.",
	}

	INVALID_FIELD_VALUE = ErrorMessage{
		Code:    errorPrefix + "11008",
		Message: "Invalid profile field value.",
	}

	STATUS_DOWNGRADE = ErrorMessage{
		Code:        errorPrefix + "11009",
		Message:     "Profile status cannot be downgraded.",
		Description: "Discovery status only moves forward.",
	}

	INVALID_FILTER = ErrorMessage{
		Code:    errorPrefix + "11010",
		Message: "Invalid filter.",
	}

	INVALID_EXPORT_FORMAT = ErrorMessage{
		Code:        errorPrefix + "11011",
		Message:     "Invalid export format.",
		Description: "Supported formats are csv and xlsx.",
	}

	INVALID_REQUEST_BODY = ErrorMessage{
		Code:    errorPrefix + "11012",
		Message: "Invalid request body.",
	}

	TOKEN_EXPIRED = ErrorMessage{
		Code:        errorPrefix + "11013",
		Message:     "Access token expired.",
		Description: "The configured API access token has expired.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:    errorPrefix + "11014",
		Message: "Unauthorized.",
	}

	PROFILE_REJECTED = ErrorMessage{
		Code:    errorPrefix + "11015",
		Message: "Profile service rejected the request.",
	}

	INVALID_PROFILE_DOCUMENT = ErrorMessage{
		Code:    errorPrefix + "11016",
		Message: "Profile document failed validation.",
	}
)
