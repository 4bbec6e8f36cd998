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

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hollyandmorty/advisor-console/internal/system/constants"
	"gopkg.in/yaml.v2"
)

// LoadConfig reads the deployment file under consoleHome, expands environment
// variables and applies defaults.
func LoadConfig(consoleHome, filePath string) (*Config, error) {
	file, err := os.ReadFile(path.Join(consoleHome, filePath))
	if err != nil {
		return nil, err
	}

	cfg, err := ParseConfig(file)
	if err != nil {
		return nil, err
	}
	if cfg.Session.Backend == constants.SessionBackendFile && !filepath.IsAbs(cfg.Session.FilePath) {
		cfg.Session.FilePath = filepath.Join(consoleHome, cfg.Session.FilePath)
	}
	return cfg, nil
}

// ParseConfig decodes YAML content after environment expansion.
func ParseConfig(content []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(content))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills every unset value.
func ApplyDefaults(cfg *Config) {
	if cfg.Addr.Host == "" {
		cfg.Addr.Host = "localhost"
	}
	if cfg.Addr.Port == 0 {
		cfg.Addr.Port = 8900
	}
	if cfg.Log.LogLevel == "" {
		cfg.Log.LogLevel = "INFO"
	}
	cfg.API.BaseURL = strings.TrimSuffix(cfg.API.BaseURL, "/")
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = constants.DefaultAPITimeout
	}
	if cfg.API.CircuitBreaker.MaxFailures == 0 {
		cfg.API.CircuitBreaker.MaxFailures = constants.DefaultBreakerFailures
	}
	if cfg.API.CircuitBreaker.OpenInterval == 0 {
		cfg.API.CircuitBreaker.OpenInterval = constants.DefaultBreakerOpenInterval
	}
	if cfg.Dashboard.PollInterval == 0 {
		cfg.Dashboard.PollInterval = constants.DefaultPollInterval
	}
	if cfg.Dashboard.MaxPollAttempts == 0 {
		cfg.Dashboard.MaxPollAttempts = constants.DefaultMaxPollAttempts
	}
	if cfg.Dashboard.RevealStep == 0 {
		cfg.Dashboard.RevealStep = constants.DefaultRevealStep
	}
	if cfg.Dashboard.MergePolicy == "" {
		cfg.Dashboard.MergePolicy = constants.MergePolicyServerWins
	}
	if cfg.Advisor.PageSize == 0 {
		cfg.Advisor.PageSize = constants.DefaultPageSize
	}
	if cfg.Advisor.RefreshSchedule == "" {
		cfg.Advisor.RefreshSchedule = constants.DefaultRefreshSchedule
	}
	if cfg.Session.Backend == "" {
		cfg.Session.Backend = constants.SessionBackendMemory
	}
	if cfg.Session.FilePath == "" {
		cfg.Session.FilePath = constants.DefaultSessionFileName
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = constants.DefaultSessionTTL
	}
	if cfg.Session.Redis.KeyPrefix == "" {
		cfg.Session.Redis.KeyPrefix = constants.DefaultRedisKeyPrefix
	}
}

// Validate rejects configurations the console cannot run with.
func Validate(cfg Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if cfg.Dashboard.MaxPollAttempts < 0 {
		return fmt.Errorf("dashboard.max_poll_attempts must not be negative")
	}
	switch cfg.Dashboard.MergePolicy {
	case constants.MergePolicyServerWins, constants.MergePolicyPreserveDraft:
	default:
		return fmt.Errorf("unsupported dashboard.merge_policy %q", cfg.Dashboard.MergePolicy)
	}
	switch cfg.Session.Backend {
	case constants.SessionBackendMemory, constants.SessionBackendFile:
	case constants.SessionBackendRedis:
		if cfg.Session.Redis.Addr == "" {
			return fmt.Errorf("session.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unsupported session.backend %q", cfg.Session.Backend)
	}
	return nil
}
