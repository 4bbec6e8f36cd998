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

package config

import "sync"

// ConsoleRuntime holds the runtime configuration for the console.
type ConsoleRuntime struct {
	ConsoleHome string `yaml:"console_home"`
	Config      Config `yaml:"config"`
}

var (
	runtimeConfig *ConsoleRuntime
	once          sync.Once
)

// InitializeConsoleRuntime initializes the ConsoleRuntime configuration.
func InitializeConsoleRuntime(consoleHome string, config *Config) error {

	once.Do(func() {
		runtimeConfig = &ConsoleRuntime{
			ConsoleHome: consoleHome,
			Config:      *config,
		}
	})

	return nil
}

// GetConsoleRuntime returns the ConsoleRuntime configuration.
func GetConsoleRuntime() *ConsoleRuntime {

	if runtimeConfig == nil {
		panic("ConsoleRuntime is not initialized")
	}
	return runtimeConfig
}

// OverrideConsoleRuntime replaces the runtime configuration. Intended for tests.
func OverrideConsoleRuntime(consoleHome string, conf Config) {
	runtimeConfig = &ConsoleRuntime{
		ConsoleHome: consoleHome,
		Config:      conf,
	}
}
