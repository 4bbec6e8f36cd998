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

import (
	profileModel "github.com/hollyandmorty/advisor-console/internal/profile/model"
)

// Snapshot is a point-in-time copy of the dashboard state.
type Snapshot struct {
	Committed    *profileModel.Profile `json:"committed"`
	Draft        *profileModel.Profile `json:"draft"`
	Dirty        bool                  `json:"dirty"`
	Flow         FlowStatus            `json:"flow"`
	Revealed     []string              `json:"revealed"`
	Polling      bool                  `json:"polling"`
	PollAttempts int                   `json:"poll_attempts"`
	Stages       []Stage               `json:"stages"`
}

// FinalizedProfile is the shareable result of the fact find.
type FinalizedProfile struct {
	Profile  *profileModel.Profile `json:"profile"`
	Document string                `json:"document"`
}

// FieldUpdate is a single form edit.
type FieldUpdate struct {
	Section string      `json:"section"`
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
}
