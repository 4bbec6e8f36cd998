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

package managers

import (
	"context"
	"net/http"

	advisorHandler "github.com/hollyandmorty/advisor-console/internal/advisor/handler"
	advisorService "github.com/hollyandmorty/advisor-console/internal/advisor/service"
	dashboardHandler "github.com/hollyandmorty/advisor-console/internal/dashboard/handler"
	dashboardService "github.com/hollyandmorty/advisor-console/internal/dashboard/service"
	healthHandler "github.com/hollyandmorty/advisor-console/internal/health_check/handler"
	healthService "github.com/hollyandmorty/advisor-console/internal/health_check/service"
	profileModel "github.com/hollyandmorty/advisor-console/internal/profile/model"
	"github.com/hollyandmorty/advisor-console/internal/session/store"
	signinHandler "github.com/hollyandmorty/advisor-console/internal/signin/handler"
	signinService "github.com/hollyandmorty/advisor-console/internal/signin/service"
	"github.com/hollyandmorty/advisor-console/internal/system/client"
	"github.com/hollyandmorty/advisor-console/internal/system/config"
	"github.com/hollyandmorty/advisor-console/internal/system/constants"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
	"github.com/hollyandmorty/advisor-console/internal/system/metrics"
	"github.com/hollyandmorty/advisor-console/internal/system/schedulers"
	"github.com/hollyandmorty/advisor-console/internal/system/services"
	"github.com/hollyandmorty/advisor-console/internal/system/workers"
)

// Dependencies are the shared collaborators of the console services.
type Dependencies struct {
	Config  *config.Config
	API     *client.ProfileAPIClient
	Session store.Store
	Metrics *metrics.Metrics
}

type ServiceManager struct {
	mux        *http.ServeMux
	deps       Dependencies
	flow       *signinService.Flow
	dispatcher *advisorService.Dispatcher
	dashboard  *dashboardHandler.DashboardHandler
	inventory  *advisorService.Inventory
	worker     *workers.RefreshWorker
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux, deps Dependencies) *ServiceManager {
	sm := &ServiceManager{mux: mux, deps: deps}
	cfg := deps.Config

	sm.flow = signinService.NewFlow(deps.API, deps.Session)
	sm.dispatcher = advisorService.NewDispatcher(deps.API, cfg.Advisor.PageSize, deps.Metrics)
	sm.inventory = advisorService.NewInventory(sm.dispatcher, constants.DefaultInventoryTTL)
	sm.worker = workers.NewRefreshWorker("advisor-inventory", constants.InventoryQueueSize, func(ctx context.Context) {
		sm.inventory.Refresh(ctx)
	})
	sm.dashboard = dashboardHandler.NewDashboardHandler(
		func() *dashboardService.Reconciler {
			return dashboardService.NewReconciler(deps.API, deps.Session, cfg.Dashboard,
				dashboardService.WithMetrics(deps.Metrics))
		},
		dashboardHandler.WithSaveHook(func(*profileModel.Profile) {
			sm.inventory.Invalidate()
			sm.worker.Enqueue("profile-saved")
		}),
	)
	return sm
}

func (sm *ServiceManager) RegisterServices(apiBasePath string) error {
	cfg := sm.deps.Config

	checks := []healthService.Check{{Name: "profile-api", Ping: sm.deps.API.Ping}}
	if pinger, ok := sm.deps.Session.(interface{ Ping(context.Context) error }); ok {
		checks = append(checks, healthService.Check{Name: "session-store", Ping: pinger.Ping})
	}
	services.NewHealthService(sm.mux, healthHandler.NewHealthHandler(healthService.NewHealthCheckService(checks...)))

	services.NewSessionService(sm.mux, apiBasePath, signinHandler.NewSessionHandler(sm.flow, sm.dashboard))
	services.NewDashboardService(sm.mux, apiBasePath, sm.dashboard)

	services.NewAdvisorService(sm.mux, apiBasePath,
		advisorHandler.NewAdvisorHandler(sm.dispatcher, sm.inventory, cfg.Advisor.PageSize), cfg.Advisor)

	if cfg.Metrics.Enabled && sm.deps.Metrics != nil {
		sm.mux.Handle("GET /metrics", sm.deps.Metrics.Handler())
	}
	return nil
}

// RestoreSession mounts the dashboard of a client signed in before a restart.
func (sm *ServiceManager) RestoreSession(ctx context.Context) error {
	profile, err := sm.flow.Restore(ctx)
	if err != nil {
		return err
	}
	if profile == nil {
		return nil
	}
	log.GetLogger().Info("Restoring signed-in session", log.String("user_id", profile.UserId))
	return sm.dashboard.Mount(ctx, profile)
}

// StartBackground starts the inventory refresh worker and its schedule. The
// returned func stops the schedule; the worker stops with ctx.
func (sm *ServiceManager) StartBackground(ctx context.Context) (func(), error) {
	sm.worker.Start(ctx)
	c, err := schedulers.StartRefreshScheduler(sm.deps.Config.Advisor.RefreshSchedule, sm.worker)
	if err != nil {
		return nil, err
	}
	return func() { <-c.Stop().Done() }, nil
}

// Shutdown stops the mounted dashboard.
func (sm *ServiceManager) Shutdown() {
	sm.dashboard.Unmount()
}
