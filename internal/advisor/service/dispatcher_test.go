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
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hollyandmorty/advisor-console/internal/advisor/model"
	profileModel "github.com/hollyandmorty/advisor-console/internal/profile/model"
	"github.com/hollyandmorty/advisor-console/internal/system/constants"
	errors2 "github.com/hollyandmorty/advisor-console/internal/system/errors"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
	"github.com/hollyandmorty/advisor-console/internal/system/metrics"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

type call struct {
	endpoint string
	args     []interface{}
}

type fakeSearchAPI struct {
	mu       sync.Mutex
	calls    []call
	profiles profileModel.ProfileList
	err      error
}

func (f *fakeSearchAPI) record(endpoint string, args ...interface{}) (profileModel.ProfileList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{endpoint: endpoint, args: args})
	return f.profiles, f.err
}

func (f *fakeSearchAPI) ListProfiles(_ context.Context, limit, offset int) (profileModel.ProfileList, error) {
	return f.record("list", limit, offset)
}

func (f *fakeSearchAPI) SearchByName(_ context.Context, name string) (profileModel.ProfileList, error) {
	return f.record("by-name", name)
}

func (f *fakeSearchAPI) SearchByStatus(_ context.Context, status profileModel.ProfileStatus) (profileModel.ProfileList, error) {
	return f.record("by-status", status)
}

func (f *fakeSearchAPI) SearchByEmployment(_ context.Context, status profileModel.EmploymentStatus) (profileModel.ProfileList, error) {
	return f.record("by-employment", status)
}

func (f *fakeSearchAPI) SearchByRisk(_ context.Context, risk profileModel.RiskAttitude) (profileModel.ProfileList, error) {
	return f.record("by-risk-attitude", risk)
}

func (f *fakeSearchAPI) SearchByNetWorth(_ context.Context, min, max float64) (profileModel.ProfileList, error) {
	return f.record("by-net-worth-range", min, max)
}

func (f *fakeSearchAPI) SearchByIncome(_ context.Context, min, max float64) (profileModel.ProfileList, error) {
	return f.record("by-income-range", min, max)
}

func (f *fakeSearchAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func client(userId string, status profileModel.ProfileStatus, netWorth, salary float64) profileModel.Profile {
	return profileModel.Profile{
		UserId:            userId,
		Status:            status,
		PersonalInfo:      &profileModel.PersonalInfo{FirstName: "Client", LastName: userId},
		Employment:        &profileModel.EmploymentDetails{EmploymentStatus: profileModel.EmploymentEmployed, AnnualSalary: profileModel.Float(salary)},
		FinancialPosition: &profileModel.FinancialPosition{NetWorth: profileModel.Float(netWorth)},
	}
}

// ---------------------------------------------------------------------------
// Plan
// ---------------------------------------------------------------------------

func TestPlan(t *testing.T) {
	d := NewDispatcher(&fakeSearchAPI{}, 100, nil)

	withQuery := func(fn func(q *model.FilterQuery)) model.FilterQuery {
		q := model.NewFilterQuery()
		fn(&q)
		return q
	}

	tests := []struct {
		name  string
		query model.FilterQuery
		want  model.Plan
	}{
		{
			name:  "unfiltered",
			query: model.NewFilterQuery(),
			want:  model.Plan{Endpoint: model.EndpointList, Limit: 100},
		},
		{
			name:  "name",
			query: withQuery(func(q *model.FilterQuery) { q.SetName(" Ada ") }),
			want:  model.Plan{Endpoint: model.EndpointByName, Value: "Ada"},
		},
		{
			name:  "blank name falls back",
			query: withQuery(func(q *model.FilterQuery) { q.SetName("   ") }),
			want:  model.Plan{Endpoint: model.EndpointList, Limit: 100},
		},
		{
			name:  "status",
			query: withQuery(func(q *model.FilterQuery) { q.SetStatus(profileModel.StatusPartial) }),
			want:  model.Plan{Endpoint: model.EndpointByStatus, Value: "partial"},
		},
		{
			name:  "risk",
			query: withQuery(func(q *model.FilterQuery) { q.SetRisk(profileModel.RiskHigh) }),
			want:  model.Plan{Endpoint: model.EndpointByRisk, Value: "high"},
		},
		{
			name:  "employment",
			query: withQuery(func(q *model.FilterQuery) { q.SetEmployment(profileModel.EmploymentRetired) }),
			want:  model.Plan{Endpoint: model.EndpointByEmployment, Value: "retired"},
		},
		{
			name:  "net worth min only",
			query: withQuery(func(q *model.FilterQuery) { q.SetRange(profileModel.Float(1000), nil) }),
			want:  model.Plan{Endpoint: model.EndpointByNetWorth, Min: 1000, Max: 999999999},
		},
		{
			name:  "net worth max only",
			query: withQuery(func(q *model.FilterQuery) { q.SetRange(nil, profileModel.Float(500)) }),
			want:  model.Plan{Endpoint: model.EndpointByNetWorth, Min: 0, Max: 500},
		},
		{
			name:  "zero max counts as unset",
			query: withQuery(func(q *model.FilterQuery) { q.SetRange(profileModel.Float(10), profileModel.Float(0)) }),
			want:  model.Plan{Endpoint: model.EndpointByNetWorth, Min: 10, Max: 999999999},
		},
		{
			name: "income",
			query: withQuery(func(q *model.FilterQuery) {
				q.SetKind(model.FilterIncome)
				q.SetRange(profileModel.Float(20000), profileModel.Float(80000))
			}),
			want: model.Plan{Endpoint: model.EndpointByIncome, Min: 20000, Max: 80000},
		},
		{
			name:  "range without bounds falls back",
			query: withQuery(func(q *model.FilterQuery) { q.SetKind(model.FilterIncome) }),
			want:  model.Plan{Endpoint: model.EndpointList, Limit: 100},
		},
		{
			name: "switching kind drops the stale status",
			query: withQuery(func(q *model.FilterQuery) {
				q.SetStatus(profileModel.StatusComplete)
				q.SetKind(model.FilterRisk)
			}),
			want: model.Plan{Endpoint: model.EndpointList, Limit: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Plan(tt.query))
		})
	}
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

func TestDispatch_IssuesExactlyOneQuery(t *testing.T) {
	api := &fakeSearchAPI{profiles: profileModel.ProfileList{client("a", profileModel.StatusNew, 0, 0)}}
	d := NewDispatcher(api, 100, nil)

	q := model.NewFilterQuery()
	q.SetRange(profileModel.Float(1000), nil)
	profiles := d.Dispatch(context.Background(), q)

	assert.Len(t, profiles, 1)
	require.Len(t, api.calls, 1)
	assert.Equal(t, call{endpoint: "by-net-worth-range", args: []interface{}{1000.0, 999999999.0}}, api.calls[0])
}

func TestDispatch_ErrorsYieldEmptyList(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"unreachable", errors2.NewServerError(errors2.SEARCH_PROFILES_FAILED, errors2.ErrCannotConnect)},
		{"server error", errors2.NewServerError(errors2.SEARCH_PROFILES_FAILED, errors.New("status 500"))},
		{"client error", errors2.NewClientError(errors2.SEARCH_PROFILES_FAILED, http.StatusBadRequest)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeSearchAPI{err: tt.err, profiles: profileModel.ProfileList{client("a", profileModel.StatusNew, 0, 0)}}
			profiles := NewDispatcher(api, 100, nil).Dispatch(context.Background(), model.NewFilterQuery())
			assert.NotNil(t, profiles)
			assert.Empty(t, profiles)
			assert.Equal(t, 1, api.callCount(), "no retries")
		})
	}
}

func TestDispatch_NilListIsNotNil(t *testing.T) {
	profiles := NewDispatcher(&fakeSearchAPI{}, 100, nil).Dispatch(context.Background(), model.NewFilterQuery())
	assert.NotNil(t, profiles)
	assert.Empty(t, profiles)
}

func TestDispatch_RecordsMetrics(t *testing.T) {
	m := metrics.New()
	api := &fakeSearchAPI{profiles: profileModel.ProfileList{client("a", profileModel.StatusNew, 0, 0)}}
	NewDispatcher(api, 100, m).Dispatch(context.Background(), model.NewFilterQuery())

	count, err := testutil.GatherAndCount(m.Registry(), "hm_console_advisor_search_results")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// ---------------------------------------------------------------------------
// Stats and pipeline
// ---------------------------------------------------------------------------

func TestStats(t *testing.T) {
	profiles := []profileModel.Profile{
		client("a", profileModel.StatusNew, 10000, 30000),
		client("b", profileModel.StatusComplete, 250000, 90000),
		client("c", profileModel.StatusVerified, 40000, 0),
		{UserId: "d", Status: profileModel.StatusPartial},
	}

	stats := Stats(profiles)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Ready)
	assert.Equal(t, 300000.0, stats.AssetsUnderManagement)
	assert.Equal(t, 30000.0, stats.AverageIncome)
}

func TestStats_Empty(t *testing.T) {
	assert.Equal(t, model.Stats{}, Stats(nil))
}

func TestPipeline(t *testing.T) {
	profiles := []profileModel.Profile{
		client("a", profileModel.StatusNew, 0, 0),
		client("b", profileModel.StatusPartial, 0, 0),
		client("c", profileModel.StatusPartial, 0, 0),
		client("d", profileModel.StatusIncomplete, 0, 0),
		client("e", profileModel.StatusVerified, 0, 0),
	}

	columns := Pipeline(profiles)
	require.Len(t, columns, 4)

	var statuses []profileModel.ProfileStatus
	var sizes []int
	for _, c := range columns {
		statuses = append(statuses, c.Status)
		sizes = append(sizes, len(c.Profiles))
	}
	assert.Equal(t, []profileModel.ProfileStatus{
		profileModel.StatusNew, profileModel.StatusPartial, profileModel.StatusComplete, profileModel.StatusVerified,
	}, statuses)
	assert.Equal(t, []int{1, 2, 0, 1}, sizes)
	assert.NotNil(t, columns[2].Profiles)
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

func TestExport_CSV(t *testing.T) {
	var buf bytes.Buffer
	profiles := []profileModel.Profile{client("+447700900123", profileModel.StatusComplete, 250000, 90000)}

	require.NoError(t, Export(&buf, profiles, constants.ExportFormatCSV))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, inventoryHeaders, rows[0])
	assert.Equal(t, []string{"+447700900123", "Client +447700900123", "complete", "employed", "90000", "250000", "", ""}, rows[1])
}

func TestExport_XLSX(t *testing.T) {
	var buf bytes.Buffer
	profiles := []profileModel.Profile{
		client("a", profileModel.StatusNew, 1000, 20000),
		client("b", profileModel.StatusPartial, 2000, 30000),
	}

	require.NoError(t, Export(&buf, profiles, constants.ExportFormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{inventorySheet}, f.GetSheetList())
	rows, err := f.GetRows(inventorySheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "User ID", rows[0][0])
	assert.Equal(t, "b", rows[2][0])
	assert.Equal(t, "partial", rows[2][2])
}

func TestExport_UnknownFormat(t *testing.T) {
	err := Export(&bytes.Buffer{}, nil, "pdf")
	assert.True(t, errors2.HasCode(err, errors2.INVALID_EXPORT_FORMAT))
}

// ---------------------------------------------------------------------------
// Inventory
// ---------------------------------------------------------------------------

func TestInventory_CachesListing(t *testing.T) {
	api := &fakeSearchAPI{profiles: profileModel.ProfileList{client("a", profileModel.StatusNew, 0, 0)}}
	inventory := NewInventory(NewDispatcher(api, 50, nil), time.Hour)

	assert.Len(t, inventory.Profiles(context.Background()), 1)
	assert.Len(t, inventory.Profiles(context.Background()), 1)
	assert.Equal(t, 1, api.callCount())
	assert.Equal(t, call{endpoint: "list", args: []interface{}{50, 0}}, api.calls[0])

	inventory.Invalidate()
	inventory.Profiles(context.Background())
	assert.Equal(t, 2, api.callCount())
}

func TestInventory_DoesNotCacheEmptyResults(t *testing.T) {
	api := &fakeSearchAPI{err: errors.New("down")}
	inventory := NewInventory(NewDispatcher(api, 50, nil), time.Hour)

	assert.Empty(t, inventory.Profiles(context.Background()))
	assert.Empty(t, inventory.Profiles(context.Background()))
	assert.Equal(t, 2, api.callCount())
}
