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

// FlowStatus tracks the discovery flow of the client dashboard.
type FlowStatus string

const (
	FlowIdle        FlowStatus = "idle"
	FlowCalling     FlowStatus = "calling"
	FlowExtracting  FlowStatus = "extracting"
	FlowFormFilling FlowStatus = "formFilling"
	FlowCompleted   FlowStatus = "completed"
)

// InDiscovery reports whether the voice agent is still on the call or its
// transcript is being processed.
func (f FlowStatus) InDiscovery() bool {
	return f == FlowCalling || f == FlowExtracting
}

// StageStatus is the state of one step in the navigation path.
type StageStatus string

const (
	StageCurrent   StageStatus = "current"
	StageCompleted StageStatus = "completed"
	StageLocked    StageStatus = "locked"
)

const (
	StageVoiceDiscovery     = "Voice Discovery"
	StageDigitalFactFinding = "Digital Fact Finding"
	StageWealthArchitecture = "Wealth Architecture"
)

type Stage struct {
	Id     int         `json:"id"`
	Title  string      `json:"title"`
	Status StageStatus `json:"status"`
}
