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

// Endpoint names the profile API listing a plan resolves to.
type Endpoint string

const (
	EndpointByName       Endpoint = "by-name"
	EndpointByStatus     Endpoint = "by-status"
	EndpointByRisk       Endpoint = "by-risk-attitude"
	EndpointByEmployment Endpoint = "by-employment"
	EndpointByNetWorth   Endpoint = "by-net-worth-range"
	EndpointByIncome     Endpoint = "by-income-range"
	EndpointList         Endpoint = "list"
)

// Plan is the single outbound query a filter resolves to.
type Plan struct {
	Endpoint Endpoint `json:"endpoint"`
	Value    string   `json:"value,omitempty"`
	Min      float64  `json:"min,omitempty"`
	Max      float64  `json:"max,omitempty"`
	Limit    int      `json:"limit,omitempty"`
	Offset   int      `json:"offset"`
}
