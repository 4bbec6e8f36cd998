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

package model

type ProfileStatus string

const (
	StatusNew        ProfileStatus = "new"
	StatusIncomplete ProfileStatus = "incomplete"
	StatusPartial    ProfileStatus = "partial"
	StatusComplete   ProfileStatus = "complete"
	StatusVerified   ProfileStatus = "verified"
)

// AllProfileStatuses lists statuses in discovery order.
var AllProfileStatuses = []ProfileStatus{StatusNew, StatusIncomplete, StatusPartial, StatusComplete, StatusVerified}

func (s ProfileStatus) IsValid() bool {
	switch s {
	case StatusNew, StatusIncomplete, StatusPartial, StatusComplete, StatusVerified:
		return true
	}
	return false
}

// Rank orders statuses by discovery progress. new and incomplete share the
// lowest rank; unknown statuses rank below both.
func (s ProfileStatus) Rank() int {
	switch s {
	case StatusNew, StatusIncomplete:
		return 0
	case StatusPartial:
		return 1
	case StatusComplete:
		return 2
	case StatusVerified:
		return 3
	}
	return -1
}

// IsReady reports whether an advisor can act on the profile.
func (s ProfileStatus) IsReady() bool {
	return s == StatusComplete || s == StatusVerified
}

type EmploymentStatus string

const (
	EmploymentEmployed     EmploymentStatus = "employed"
	EmploymentSelfEmployed EmploymentStatus = "self_employed"
	EmploymentUnemployed   EmploymentStatus = "unemployed"
	EmploymentRetired      EmploymentStatus = "retired"
	EmploymentStudent      EmploymentStatus = "student"
)

var AllEmploymentStatuses = []EmploymentStatus{
	EmploymentEmployed, EmploymentSelfEmployed, EmploymentUnemployed, EmploymentRetired, EmploymentStudent,
}

func (e EmploymentStatus) IsValid() bool {
	for _, v := range AllEmploymentStatuses {
		if v == e {
			return true
		}
	}
	return false
}

type MaritalStatus string

const (
	MaritalSingle           MaritalStatus = "single"
	MaritalMarried          MaritalStatus = "married"
	MaritalCivilPartnership MaritalStatus = "civil_partnership"
	MaritalDivorced         MaritalStatus = "divorced"
	MaritalWidowed          MaritalStatus = "widowed"
)

var AllMaritalStatuses = []MaritalStatus{
	MaritalSingle, MaritalMarried, MaritalCivilPartnership, MaritalDivorced, MaritalWidowed,
}

func (m MaritalStatus) IsValid() bool {
	for _, v := range AllMaritalStatuses {
		if v == m {
			return true
		}
	}
	return false
}

type RiskAttitude string

const (
	RiskVeryLow  RiskAttitude = "very_low"
	RiskLow      RiskAttitude = "low"
	RiskMedium   RiskAttitude = "medium"
	RiskHigh     RiskAttitude = "high"
	RiskVeryHigh RiskAttitude = "very_high"
)

var AllRiskAttitudes = []RiskAttitude{RiskVeryLow, RiskLow, RiskMedium, RiskHigh, RiskVeryHigh}

func (r RiskAttitude) IsValid() bool {
	for _, v := range AllRiskAttitudes {
		if v == r {
			return true
		}
	}
	return false
}

type TimeHorizon string

const (
	HorizonShortTerm  TimeHorizon = "short_term"
	HorizonMediumTerm TimeHorizon = "medium_term"
	HorizonLongTerm   TimeHorizon = "long_term"
)

var AllTimeHorizons = []TimeHorizon{HorizonShortTerm, HorizonMediumTerm, HorizonLongTerm}

func (h TimeHorizon) IsValid() bool {
	for _, v := range AllTimeHorizons {
		if v == h {
			return true
		}
	}
	return false
}
