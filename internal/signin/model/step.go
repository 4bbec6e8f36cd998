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

package model

// Step is a stage of the sign-in flow.
type Step string

const (
	StepPhone        Step = "PHONE"
	StepProfileSetup Step = "PROFILE_SETUP"
	StepSuccess      Step = "SUCCESS"
)

// State is what the sign-in screen renders.
type State struct {
	Step        Step   `json:"step"`
	Phone       string `json:"phone,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Error       string `json:"error,omitempty"`
}

type PhoneRequest struct {
	Phone string `json:"phone"`
}

type ProfileSetupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
