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
	"github.com/hollyandmorty/advisor-console/internal/system/pagination"
)

// Stats summarises an inventory of client profiles.
type Stats struct {
	Total                 int     `json:"total"`
	Ready                 int     `json:"ready"`
	AssetsUnderManagement float64 `json:"assets_under_management"`
	AverageIncome         float64 `json:"average_income"`
}

// PipelineColumn is one kanban column of the advisor pipeline.
type PipelineColumn struct {
	Status   profileModel.ProfileStatus `json:"status"`
	Label    string                     `json:"label"`
	Profiles []profileModel.Profile     `json:"profiles"`
}

// SearchResult is a page of dispatched search results.
type SearchResult struct {
	Query      FilterQuery            `json:"query"`
	Plan       Plan                   `json:"plan"`
	Profiles   []profileModel.Profile `json:"profiles"`
	Pagination pagination.Pagination  `json:"pagination"`
}
