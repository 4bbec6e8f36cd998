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

import (
	"testing"

	"github.com/hollyandmorty/advisor-console/internal/system/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupField(t *testing.T) {
	f, ok := LookupField(SectionPersonalInfo, "marital_status")
	require.True(t, ok)
	assert.Equal(t, constants.SelectDataType, f.Type)
	assert.True(t, f.Allows("married"))
	assert.False(t, f.Allows("engaged"))

	_, ok = LookupField(SectionPersonalInfo, "shoe_size")
	assert.False(t, ok)

	f, ok = LookupField(SectionProfile, "status")
	require.True(t, ok)
	assert.Equal(t, []string{"new", "incomplete", "partial", "complete", "verified"}, f.Options)
}

func TestProfile_WithField(t *testing.T) {
	original := sampleProfile()

	f, _ := LookupField(SectionEmployment, "annual_salary")
	updated, err := original.WithField(f, 61000.0)
	require.NoError(t, err)
	salary, _ := updated.AnnualSalary()
	assert.Equal(t, 61000.0, salary)

	salary, _ = original.AnnualSalary()
	assert.Equal(t, 52000.0, salary, "original must not change")
	assert.Equal(t, original.FinancialPosition, updated.FinancialPosition)
}

func TestProfile_WithField_CreatesMissingSection(t *testing.T) {
	p := &Profile{UserId: "a", Status: StatusNew}

	f, _ := LookupField(SectionRisk, "risk_attitude")
	updated, err := p.WithField(f, "high")
	require.NoError(t, err)
	require.NotNil(t, updated.RiskProfile)
	assert.Equal(t, RiskHigh, updated.RiskProfile.RiskAttitude)
}

func TestProfile_WithField_ClearsValue(t *testing.T) {
	p := sampleProfile()

	f, _ := LookupField(SectionEmployment, "annual_salary")
	updated, err := p.WithField(f, nil)
	require.NoError(t, err)
	_, ok := updated.AnnualSalary()
	assert.False(t, ok)
}

func TestProfile_WithField_TopLevel(t *testing.T) {
	f, _ := LookupField(SectionProfile, "status")
	updated, err := sampleProfile().WithField(f, "complete")
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, updated.Status)
}
