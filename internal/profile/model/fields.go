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

import "github.com/hollyandmorty/advisor-console/internal/system/constants"

// Section names as they appear on the wire. The empty section addresses
// top-level profile fields.
const (
	SectionProfile      = ""
	SectionPersonalInfo = "personal_info"
	SectionEmployment   = "employment"
	SectionGoals        = "goals_and_objectives"
	SectionRisk         = "risk_profile"
	SectionHealth       = "health_and_protection"
)

// EditableField describes a profile field the client may edit in the fact find form.
type EditableField struct {
	Section string   `json:"section"`
	Field   string   `json:"field"`
	Label   string   `json:"label"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

// Allows reports whether a select value is one of the field options.
func (f EditableField) Allows(value string) bool {
	if f.Type != constants.SelectDataType {
		return true
	}
	for _, o := range f.Options {
		if o == value {
			return true
		}
	}
	return false
}

var EditableFields = []EditableField{
	{SectionProfile, "status", "Status", constants.SelectDataType, enumOptions(AllProfileStatuses)},
	{SectionProfile, "notes", "Notes", constants.TextDataType, nil},

	{SectionPersonalInfo, "title", "Title", constants.TextDataType, nil},
	{SectionPersonalInfo, "first_name", "First Name", constants.TextDataType, nil},
	{SectionPersonalInfo, "middle_name", "Middle Name", constants.TextDataType, nil},
	{SectionPersonalInfo, "last_name", "Last Name", constants.TextDataType, nil},
	{SectionPersonalInfo, "date_of_birth", "Date of Birth", constants.DateDataType, nil},
	{SectionPersonalInfo, "marital_status", "Marital Status", constants.SelectDataType, enumOptions(AllMaritalStatuses)},
	{SectionPersonalInfo, "number_of_dependents", "Dependents", constants.IntegerDataType, nil},
	{SectionPersonalInfo, "email", "Email", constants.TextDataType, nil},
	{SectionPersonalInfo, "phone", "Phone", constants.TextDataType, nil},
	{SectionPersonalInfo, "address_line_1", "Address Line 1", constants.TextDataType, nil},
	{SectionPersonalInfo, "address_line_2", "Address Line 2", constants.TextDataType, nil},
	{SectionPersonalInfo, "city", "City", constants.TextDataType, nil},
	{SectionPersonalInfo, "postcode", "Postcode", constants.TextDataType, nil},
	{SectionPersonalInfo, "country", "Country", constants.TextDataType, nil},

	{SectionEmployment, "employment_status", "Employment Status", constants.SelectDataType, enumOptions(AllEmploymentStatuses)},
	{SectionEmployment, "employer_name", "Employer", constants.TextDataType, nil},
	{SectionEmployment, "job_title", "Job Title", constants.TextDataType, nil},
	{SectionEmployment, "industry", "Industry", constants.TextDataType, nil},
	{SectionEmployment, "annual_salary", "Annual Salary", constants.DecimalDataType, nil},
	{SectionEmployment, "bonus_income", "Bonus Income", constants.DecimalDataType, nil},
	{SectionEmployment, "other_income", "Other Income", constants.DecimalDataType, nil},

	{SectionGoals, "retirement_age", "Retirement Age", constants.IntegerDataType, nil},
	{SectionGoals, "desired_retirement_income", "Desired Retirement Income", constants.DecimalDataType, nil},
	{SectionGoals, "legacy_wishes", "Legacy Wishes", constants.TextDataType, nil},

	{SectionRisk, "risk_attitude", "Risk Attitude", constants.SelectDataType, enumOptions(AllRiskAttitudes)},
	{SectionRisk, "capacity_for_loss", "Capacity for Loss", constants.TextDataType, nil},
	{SectionRisk, "investment_experience", "Investment Experience", constants.TextDataType, nil},

	{SectionHealth, "smoker", "Smoker", constants.BooleanDataType, nil},
	{SectionHealth, "health_conditions", "Health Conditions", constants.TextDataType, nil},
	{SectionHealth, "life_insurance_coverage", "Life Insurance Cover", constants.DecimalDataType, nil},
	{SectionHealth, "has_will", "Has Will", constants.BooleanDataType, nil},
}

// LookupField finds an editable field by section and wire name.
func LookupField(section, field string) (EditableField, bool) {
	for _, f := range EditableFields {
		if f.Section == section && f.Field == field {
			return f, true
		}
	}
	return EditableField{}, false
}

func enumOptions[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// WithField returns a copy of p with the field set to value, or removed when
// value is nil. value must already be coerced to the field type.
func (p *Profile) WithField(f EditableField, value interface{}) (*Profile, error) {
	raw, err := jsonAPI.Marshal(p)
	if err != nil {
		return nil, err
	}
	doc := map[string]interface{}{}
	if err := jsonAPI.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	target := doc
	if f.Section != SectionProfile {
		section, _ := doc[f.Section].(map[string]interface{})
		if section == nil {
			section = map[string]interface{}{}
		}
		doc[f.Section] = section
		target = section
	}
	if value == nil {
		delete(target, f.Field)
	} else {
		target[f.Field] = value
	}

	raw, err = jsonAPI.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var updated Profile
	if err := jsonAPI.Unmarshal(raw, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
