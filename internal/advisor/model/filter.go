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

// FilterKind selects which dimension an advisor search filters on.
type FilterKind string

const (
	FilterName       FilterKind = "name"
	FilterStatus     FilterKind = "status"
	FilterRisk       FilterKind = "risk"
	FilterEmployment FilterKind = "employment"
	FilterNetWorth   FilterKind = "networth"
	FilterIncome     FilterKind = "income"
	FilterAll        FilterKind = "all"
)

func AllFilterKinds() []FilterKind {
	return []FilterKind{FilterName, FilterStatus, FilterRisk, FilterEmployment, FilterNetWorth, FilterIncome, FilterAll}
}

func (k FilterKind) IsValid() bool {
	for _, kind := range AllFilterKinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// FilterQuery is the advisor's filter panel. Only the parameters of the
// active kind are ever set.
type FilterQuery struct {
	Kind       FilterKind                    `json:"kind"`
	Name       string                        `json:"name,omitempty"`
	Status     profileModel.ProfileStatus    `json:"status,omitempty"`
	Risk       profileModel.RiskAttitude     `json:"risk,omitempty"`
	Employment profileModel.EmploymentStatus `json:"employment,omitempty"`
	Min        *float64                      `json:"min,omitempty"`
	Max        *float64                      `json:"max,omitempty"`
}

// NewFilterQuery returns an unfiltered query.
func NewFilterQuery() FilterQuery {
	return FilterQuery{Kind: FilterAll}
}

// SetKind switches the filter dimension. Changing the kind clears every
// parameter.
func (q *FilterQuery) SetKind(kind FilterKind) {
	if q.Kind == kind {
		return
	}
	*q = FilterQuery{Kind: kind}
}

func (q *FilterQuery) SetName(name string) {
	q.SetKind(FilterName)
	q.Name = name
}

func (q *FilterQuery) SetStatus(status profileModel.ProfileStatus) {
	q.SetKind(FilterStatus)
	q.Status = status
}

func (q *FilterQuery) SetRisk(risk profileModel.RiskAttitude) {
	q.SetKind(FilterRisk)
	q.Risk = risk
}

func (q *FilterQuery) SetEmployment(employment profileModel.EmploymentStatus) {
	q.SetKind(FilterEmployment)
	q.Employment = employment
}

// SetRange sets the bounds of a net worth or income filter. Other kinds are
// switched to networth.
func (q *FilterQuery) SetRange(min, max *float64) {
	if q.Kind != FilterNetWorth && q.Kind != FilterIncome {
		q.SetKind(FilterNetWorth)
	}
	q.Min = min
	q.Max = max
}

// Reset clears all filters.
func (q *FilterQuery) Reset() {
	*q = NewFilterQuery()
}
