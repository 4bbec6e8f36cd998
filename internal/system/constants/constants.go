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

package constants

import "time"

const ApiBasePath = "/api/v1"

type contextKey string

const TraceIDContextKey contextKey = "trace_id"

// Remote profile API paths.
const (
	ProfilesPath           = "/profiles/"
	SearchByNamePath       = "/profiles/search/by-name"
	SearchByStatusPath     = "/profiles/search/by-status"
	SearchByEmploymentPath = "/profiles/search/by-employment"
	SearchByRiskPath       = "/profiles/search/by-risk-attitude"
	SearchByNetWorthPath   = "/profiles/search/by-net-worth-range"
	SearchByIncomePath     = "/profiles/search/by-income-range"
	OutboundCallPath       = "/calls/outbound"
	ConversationsPath      = "/conversations/user/"
	HealthPath             = "/health"
)

// Search query parameter names.
const (
	NameParam             = "name"
	StatusParam           = "status"
	EmploymentStatusParam = "employment_status"
	RiskAttitudeParam     = "risk_attitude"
	MinNetWorthParam      = "min_net_worth"
	MaxNetWorthParam      = "max_net_worth"
	MinIncomeParam        = "min_income"
	MaxIncomeParam        = "max_income"
	LimitParam            = "limit"
	OffsetParam           = "offset"
)

const (
	RequestIDHeader   = "X-Request-ID"
	ContentTypeHeader = "Content-Type"
	ContentTypeJSON   = "application/json"
)

// SessionProfileKey is the session key holding the signed-in profile.
const SessionProfileKey = "hm_user"

// Range bounds applied when a range filter leaves a side open.
const (
	DefaultRangeMin = 0
	DefaultRangeMax = 999999999
)

const DefaultPageSize = 100

// Advisor inventory refresh.
const (
	DefaultRefreshSchedule = "@every 5m"
	DefaultInventoryTTL    = 10 * time.Minute
	InventoryQueueSize     = 16
)

// Discovery polling defaults.
const (
	DefaultPollInterval    = 30 * time.Second
	DefaultMaxPollAttempts = 40
	DefaultRevealStep      = 1 * time.Second
)

// RevealFields are revealed one per step once discovery data lands.
var RevealFields = []string{"salary", "assets", "goals", "risk", "health"}

// Merge policies for poll-driven profile updates.
const (
	MergePolicyServerWins    = "server_wins"
	MergePolicyPreserveDraft = "preserve_draft"
)

// Session store backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
)

const (
	DefaultSessionTTL      = 24 * time.Hour
	DefaultSessionFileName = "session.json"
	DefaultRedisKeyPrefix  = "hm:session:"
)

// Outbound HTTP defaults.
const (
	DefaultAPITimeout          = 30 * time.Second
	DefaultBreakerFailures     = 5
	DefaultBreakerOpenInterval = 30 * time.Second
)

// Value types of editable profile fields.
const (
	TextDataType    = "text"
	IntegerDataType = "integer"
	DecimalDataType = "decimal"
	BooleanDataType = "boolean"
	DateDataType    = "date"
	SelectDataType  = "select"
)

// Export formats.
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

const ConfigFile = "repository/conf/deployment.yaml"
