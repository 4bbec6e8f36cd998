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
	"fmt"
	"net/url"
	"strconv"
	"strings"

	profileModel "github.com/hollyandmorty/advisor-console/internal/profile/model"
)

// Query parameters of an advisor search.
const (
	KindParam       = "kind"
	NameParam       = "name"
	StatusParam     = "status"
	RiskParam       = "risk"
	EmploymentParam = "employment"
	MinParam        = "min"
	MaxParam        = "max"
)

// ParseFilterQuery builds a query from URL parameters. Parameters that do
// not belong to the selected kind are ignored.
func ParseFilterQuery(values url.Values) (FilterQuery, error) {
	q := NewFilterQuery()
	kind := FilterKind(strings.TrimSpace(values.Get(KindParam)))
	if kind == "" {
		return q, nil
	}
	if !kind.IsValid() {
		return q, fmt.Errorf("unknown filter kind %q", kind)
	}
	q.SetKind(kind)

	switch kind {
	case FilterName:
		q.SetName(values.Get(NameParam))
	case FilterStatus:
		status := profileModel.ProfileStatus(values.Get(StatusParam))
		if status != "" && !status.IsValid() {
			return q, fmt.Errorf("unknown status %q", status)
		}
		q.SetStatus(status)
	case FilterRisk:
		risk := profileModel.RiskAttitude(values.Get(RiskParam))
		if risk != "" && !risk.IsValid() {
			return q, fmt.Errorf("unknown risk attitude %q", risk)
		}
		q.SetRisk(risk)
	case FilterEmployment:
		employment := profileModel.EmploymentStatus(values.Get(EmploymentParam))
		if employment != "" && !employment.IsValid() {
			return q, fmt.Errorf("unknown employment status %q", employment)
		}
		q.SetEmployment(employment)
	case FilterNetWorth, FilterIncome:
		min, err := parseBound(values.Get(MinParam))
		if err != nil {
			return q, fmt.Errorf("invalid min: %w", err)
		}
		max, err := parseBound(values.Get(MaxParam))
		if err != nil {
			return q, fmt.Errorf("invalid max: %w", err)
		}
		q.SetRange(min, max)
	}
	return q, nil
}

// Values is the inverse of ParseFilterQuery.
func (q FilterQuery) Values() url.Values {
	values := url.Values{}
	values.Set(KindParam, string(q.Kind))
	switch q.Kind {
	case FilterName:
		values.Set(NameParam, q.Name)
	case FilterStatus:
		values.Set(StatusParam, string(q.Status))
	case FilterRisk:
		values.Set(RiskParam, string(q.Risk))
	case FilterEmployment:
		values.Set(EmploymentParam, string(q.Employment))
	case FilterNetWorth, FilterIncome:
		if q.Min != nil {
			values.Set(MinParam, strconv.FormatFloat(*q.Min, 'f', -1, 64))
		}
		if q.Max != nil {
			values.Set(MaxParam, strconv.FormatFloat(*q.Max, 'f', -1, 64))
		}
	}
	return values
}

func parseBound(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
