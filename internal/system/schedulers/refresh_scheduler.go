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

package schedulers

import (
	"github.com/robfig/cron/v3"

	"github.com/hollyandmorty/advisor-console/internal/system/log"
	"github.com/hollyandmorty/advisor-console/internal/system/workers"
)

// StartRefreshScheduler queues a refresh once at startup and then on every
// tick of the cron schedule. Stop the returned cron to end it.
func StartRefreshScheduler(schedule string, worker *workers.RefreshWorker) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		worker.Enqueue("schedule")
	}); err != nil {
		return nil, err
	}

	worker.Enqueue("startup")
	c.Start()
	log.GetLogger().Info("Inventory refresh scheduled", log.String("schedule", schedule))
	return c, nil
}
