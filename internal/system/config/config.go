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

import "time"

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
}

type TLSConfig struct {
	CertDir     string `yaml:"cert_dir"`
	TrustStore  string `yaml:"trust_store"`
	MTLSEnabled bool   `yaml:"mtls_enabled"`
	ClientCert  string `yaml:"client_cert"`
	ClientKey   string `yaml:"client_key"`
}

type CircuitBreakerConfig struct {
	Disabled     bool          `yaml:"disabled"`
	MaxFailures  uint32        `yaml:"max_failures"`
	OpenInterval time.Duration `yaml:"open_interval"`
}

// APIConfig describes the remote profile API.
type APIConfig struct {
	BaseURL        string               `yaml:"base_url"`
	Timeout        time.Duration        `yaml:"timeout"`
	AccessToken    string               `yaml:"access_token"`
	TLS            TLSConfig            `yaml:"tls"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// DashboardConfig controls discovery polling on the client dashboard.
type DashboardConfig struct {
	PollInterval    time.Duration `yaml:"poll_interval"`
	MaxPollAttempts int           `yaml:"max_poll_attempts"`
	RevealStep      time.Duration `yaml:"reveal_step"`
	MergePolicy     string        `yaml:"merge_policy"`
}

type AdvisorConfig struct {
	PageSize        int    `yaml:"page_size"`
	RefreshSchedule string `yaml:"refresh_schedule"`
	AdminUsername   string `yaml:"admin_username"`
	AdminPassword   string `yaml:"admin_password"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

type SessionConfig struct {
	Backend  string        `yaml:"backend"`
	FilePath string        `yaml:"file_path"`
	TTL      time.Duration `yaml:"ttl"`
	Redis    RedisConfig   `yaml:"redis"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	Addr      AddrConfig      `yaml:"addr"`
	Log       LogConfig       `yaml:"log"`
	API       APIConfig       `yaml:"api"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Advisor   AdvisorConfig   `yaml:"advisor"`
	Session   SessionConfig   `yaml:"session"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}
