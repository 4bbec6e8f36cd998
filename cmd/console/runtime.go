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

package main

import (
	"io"

	"github.com/hollyandmorty/advisor-console/internal/session/store"
	"github.com/hollyandmorty/advisor-console/internal/system/client"
	"github.com/hollyandmorty/advisor-console/internal/system/config"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
	"github.com/hollyandmorty/advisor-console/internal/system/managers"
	"github.com/hollyandmorty/advisor-console/internal/system/metrics"
)

// consoleRuntime holds the collaborators shared by every command.
type consoleRuntime struct {
	cfg     *config.Config
	api     *client.ProfileAPIClient
	session store.Store
	metrics *metrics.Metrics
}

func newConsoleRuntime(cfg *config.Config) (*consoleRuntime, error) {
	m := metrics.New()
	api, err := client.NewProfileAPIClient(cfg.API, client.WithMetrics(m))
	if err != nil {
		return nil, err
	}
	session, err := store.NewStore(cfg.Session)
	if err != nil {
		return nil, err
	}
	return &consoleRuntime{cfg: cfg, api: api, session: session, metrics: m}, nil
}

func (rt *consoleRuntime) dependencies() managers.Dependencies {
	return managers.Dependencies{
		Config:  rt.cfg,
		API:     rt.api,
		Session: rt.session,
		Metrics: rt.metrics,
	}
}

func (rt *consoleRuntime) Close() {
	if closer, ok := rt.session.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.GetLogger().Warn("Failed to close session store", log.Error(err))
		}
	}
}
