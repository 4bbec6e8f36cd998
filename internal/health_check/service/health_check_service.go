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
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hollyandmorty/advisor-console/internal/system/log"
)

const readinessTimeout = 5 * time.Second

// Check is a named readiness probe.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthCheckService runs the readiness probes of the console's dependencies.
type HealthCheckService struct {
	checks []Check
}

func NewHealthCheckService(checks ...Check) *HealthCheckService {
	return &HealthCheckService{checks: checks}
}

// CheckReadiness runs every probe concurrently and returns the first failure.
func (h *HealthCheckService) CheckReadiness(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for _, check := range h.checks {
		g.Go(func() error {
			if err := check.Ping(ctx); err != nil {
				log.GetLogger().Warn("Readiness check failed", log.String("check", check.Name), log.Error(err))
				return fmt.Errorf("%s check failed: %v", check.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}
