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

package service

import (
	"github.com/hollyandmorty/advisor-console/internal/advisor/model"
	profileModel "github.com/hollyandmorty/advisor-console/internal/profile/model"
)

var pipelineColumns = []struct {
	status profileModel.ProfileStatus
	label  string
}{
	{profileModel.StatusNew, "New Discovery"},
	{profileModel.StatusPartial, "Partial Map"},
	{profileModel.StatusComplete, "Analysis Complete"},
	{profileModel.StatusVerified, "Verified Ready"},
}

// Stats computes the advisor headline figures.
func Stats(profiles []profileModel.Profile) model.Stats {
	stats := model.Stats{Total: len(profiles)}
	var income float64
	for i := range profiles {
		p := &profiles[i]
		if p.Status.IsReady() {
			stats.Ready++
		}
		stats.AssetsUnderManagement += p.NetWorth()
		if salary, ok := p.AnnualSalary(); ok {
			income += salary
		}
	}
	if stats.Total > 0 {
		stats.AverageIncome = income / float64(stats.Total)
	}
	return stats
}

// Pipeline groups profiles into kanban columns by status. Profiles in any
// other status are left out.
func Pipeline(profiles []profileModel.Profile) []model.PipelineColumn {
	columns := make([]model.PipelineColumn, 0, len(pipelineColumns))
	for _, c := range pipelineColumns {
		column := model.PipelineColumn{Status: c.status, Label: c.label, Profiles: []profileModel.Profile{}}
		for _, p := range profiles {
			if p.Status == c.status {
				column.Profiles = append(column.Profiles, p)
			}
		}
		columns = append(columns, column)
	}
	return columns
}
