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
	"context"
	"strings"

	"github.com/hollyandmorty/advisor-console/internal/advisor/model"
	profileModel "github.com/hollyandmorty/advisor-console/internal/profile/model"
	"github.com/hollyandmorty/advisor-console/internal/system/constants"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
	"github.com/hollyandmorty/advisor-console/internal/system/metrics"
)

// SearchAPI is the part of the profile API used for advisor searches.
type SearchAPI interface {
	ListProfiles(ctx context.Context, limit, offset int) (profileModel.ProfileList, error)
	SearchByName(ctx context.Context, name string) (profileModel.ProfileList, error)
	SearchByStatus(ctx context.Context, status profileModel.ProfileStatus) (profileModel.ProfileList, error)
	SearchByEmployment(ctx context.Context, status profileModel.EmploymentStatus) (profileModel.ProfileList, error)
	SearchByRisk(ctx context.Context, risk profileModel.RiskAttitude) (profileModel.ProfileList, error)
	SearchByNetWorth(ctx context.Context, min, max float64) (profileModel.ProfileList, error)
	SearchByIncome(ctx context.Context, min, max float64) (profileModel.ProfileList, error)
}

// Dispatcher resolves an advisor filter to exactly one profile API query.
type Dispatcher struct {
	api      SearchAPI
	pageSize int
	metrics  *metrics.Metrics
}

func NewDispatcher(api SearchAPI, pageSize int, m *metrics.Metrics) *Dispatcher {
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	return &Dispatcher{api: api, pageSize: pageSize, metrics: m}
}

// Plan resolves q without calling the API. The first satisfied filter wins;
// a filter missing its parameter falls back to the unfiltered listing.
func (d *Dispatcher) Plan(q model.FilterQuery) model.Plan {
	switch {
	case q.Kind == model.FilterName && strings.TrimSpace(q.Name) != "":
		return model.Plan{Endpoint: model.EndpointByName, Value: strings.TrimSpace(q.Name)}
	case q.Kind == model.FilterStatus && q.Status != "":
		return model.Plan{Endpoint: model.EndpointByStatus, Value: string(q.Status)}
	case q.Kind == model.FilterRisk && q.Risk != "":
		return model.Plan{Endpoint: model.EndpointByRisk, Value: string(q.Risk)}
	case q.Kind == model.FilterEmployment && q.Employment != "":
		return model.Plan{Endpoint: model.EndpointByEmployment, Value: string(q.Employment)}
	case q.Kind == model.FilterNetWorth && hasBound(q):
		min, max := bounds(q)
		return model.Plan{Endpoint: model.EndpointByNetWorth, Min: min, Max: max}
	case q.Kind == model.FilterIncome && hasBound(q):
		min, max := bounds(q)
		return model.Plan{Endpoint: model.EndpointByIncome, Min: min, Max: max}
	default:
		return model.Plan{Endpoint: model.EndpointList, Limit: d.pageSize, Offset: 0}
	}
}

// Dispatch runs the query q resolves to. It never returns nil: failed or
// malformed responses yield an empty list.
func (d *Dispatcher) Dispatch(ctx context.Context, q model.FilterQuery) []profileModel.Profile {
	plan := d.Plan(q)
	profiles, err := d.execute(ctx, plan)
	if err != nil {
		log.GetLogger().Warn("Advisor search failed", log.String("endpoint", string(plan.Endpoint)), log.Error(err))
		profiles = nil
	}
	if profiles == nil {
		profiles = profileModel.ProfileList{}
	}
	d.metrics.ObserveSearch(string(plan.Endpoint), len(profiles))
	return profiles
}

func (d *Dispatcher) execute(ctx context.Context, plan model.Plan) (profileModel.ProfileList, error) {
	switch plan.Endpoint {
	case model.EndpointByName:
		return d.api.SearchByName(ctx, plan.Value)
	case model.EndpointByStatus:
		return d.api.SearchByStatus(ctx, profileModel.ProfileStatus(plan.Value))
	case model.EndpointByRisk:
		return d.api.SearchByRisk(ctx, profileModel.RiskAttitude(plan.Value))
	case model.EndpointByEmployment:
		return d.api.SearchByEmployment(ctx, profileModel.EmploymentStatus(plan.Value))
	case model.EndpointByNetWorth:
		return d.api.SearchByNetWorth(ctx, plan.Min, plan.Max)
	case model.EndpointByIncome:
		return d.api.SearchByIncome(ctx, plan.Min, plan.Max)
	default:
		return d.api.ListProfiles(ctx, plan.Limit, plan.Offset)
	}
}

func hasBound(q model.FilterQuery) bool {
	return q.Min != nil || q.Max != nil
}

// bounds fills in missing range bounds. A zero max counts as missing.
func bounds(q model.FilterQuery) (float64, float64) {
	min, max := float64(constants.DefaultRangeMin), float64(constants.DefaultRangeMax)
	if q.Min != nil {
		min = *q.Min
	}
	if q.Max != nil && *q.Max != 0 {
		max = *q.Max
	}
	return min, max
}
