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

import "strings"

type PersonalInfo struct {
	Title                   string        `json:"title,omitempty"`
	FirstName               string        `json:"first_name"`
	MiddleName              string        `json:"middle_name,omitempty"`
	LastName                string        `json:"last_name"`
	DateOfBirth             string        `json:"date_of_birth,omitempty"`
	NationalInsuranceNumber string        `json:"national_insurance_number,omitempty"`
	MaritalStatus           MaritalStatus `json:"marital_status,omitempty"`
	NumberOfDependents      *int          `json:"number_of_dependents,omitempty"`
	Email                   string        `json:"email,omitempty"`
	Phone                   string        `json:"phone,omitempty"`
	AddressLine1            string        `json:"address_line_1,omitempty"`
	AddressLine2            string        `json:"address_line_2,omitempty"`
	City                    string        `json:"city,omitempty"`
	Postcode                string        `json:"postcode,omitempty"`
	Country                 string        `json:"country,omitempty"`
}

type EmploymentDetails struct {
	EmploymentStatus   EmploymentStatus `json:"employment_status,omitempty"`
	EmployerName       string           `json:"employer_name,omitempty"`
	JobTitle           string           `json:"job_title,omitempty"`
	Industry           string           `json:"industry,omitempty"`
	YearsInCurrentRole *float64         `json:"years_in_current_role,omitempty"`
	AnnualSalary       *float64         `json:"annual_salary,omitempty"`
	BonusIncome        *float64         `json:"bonus_income,omitempty"`
	DividendIncome     *float64         `json:"dividend_income,omitempty"`
	RentalIncome       *float64         `json:"rental_income,omitempty"`
	PensionIncome      *float64         `json:"pension_income,omitempty"`
	OtherIncome        *float64         `json:"other_income,omitempty"`
	TotalAnnualIncome  *float64         `json:"total_annual_income,omitempty"`
	TaxCode            string           `json:"tax_code,omitempty"`
	ExpectedTaxBracket string           `json:"expected_tax_bracket,omitempty"`
}

type Asset struct {
	AssetType    string   `json:"asset_type"`
	Description  string   `json:"description,omitempty"`
	CurrentValue *float64 `json:"current_value,omitempty"`
	Provider     string   `json:"provider,omitempty"`
}

type Liability struct {
	LiabilityType      string   `json:"liability_type"`
	Description        string   `json:"description,omitempty"`
	OutstandingBalance *float64 `json:"outstanding_balance,omitempty"`
	MonthlyPayment     *float64 `json:"monthly_payment,omitempty"`
}

type MonthlyExpenses struct {
	HousingMortgageRent  *float64 `json:"housing_mortgage_rent,omitempty"`
	Utilities            *float64 `json:"utilities,omitempty"`
	Groceries            *float64 `json:"groceries,omitempty"`
	Transport            *float64 `json:"transport,omitempty"`
	TotalMonthlyExpenses *float64 `json:"total_monthly_expenses,omitempty"`
}

// FinancialPosition totals are computed by the server and echoed back on save.
type FinancialPosition struct {
	Assets           []Asset          `json:"assets"`
	Liabilities      []Liability      `json:"liabilities"`
	MonthlyExpenses  *MonthlyExpenses `json:"monthly_expenses,omitempty"`
	TotalAssets      *float64         `json:"total_assets,omitempty"`
	TotalLiabilities *float64         `json:"total_liabilities,omitempty"`
	NetWorth         *float64         `json:"net_worth,omitempty"`
	MonthlySurplus   *float64         `json:"monthly_surplus,omitempty"`
}

type FinancialGoal struct {
	GoalType     string      `json:"goal_type"`
	Description  string      `json:"description"`
	TargetAmount *float64    `json:"target_amount,omitempty"`
	TargetDate   string      `json:"target_date,omitempty"`
	Priority     *int        `json:"priority,omitempty"`
	TimeHorizon  TimeHorizon `json:"time_horizon,omitempty"`
}

type GoalsAndObjectives struct {
	PrimaryGoals            []FinancialGoal `json:"primary_goals"`
	RetirementAge           *int            `json:"retirement_age,omitempty"`
	DesiredRetirementIncome *float64        `json:"desired_retirement_income,omitempty"`
	LegacyWishes            string          `json:"legacy_wishes,omitempty"`
}

type RiskProfile struct {
	RiskAttitude             RiskAttitude `json:"risk_attitude,omitempty"`
	CapacityForLoss          string       `json:"capacity_for_loss,omitempty"`
	InvestmentExperience     string       `json:"investment_experience,omitempty"`
	InvestmentKnowledgeLevel string       `json:"investment_knowledge_level,omitempty"`
	RiskScore                *float64     `json:"risk_score,omitempty"`
}

type HealthInfo struct {
	Smoker                  *bool    `json:"smoker,omitempty"`
	HealthConditions        string   `json:"health_conditions,omitempty"`
	LifeInsuranceCoverage   *float64 `json:"life_insurance_coverage,omitempty"`
	CriticalIllnessCoverage *float64 `json:"critical_illness_coverage,omitempty"`
	HasWill                 *bool    `json:"has_will,omitempty"`
}

// Profile is the client profile as exchanged with the remote profile API.
type Profile struct {
	Id                  string              `json:"id,omitempty"`
	UserId              string              `json:"user_id"`
	Status              ProfileStatus       `json:"status"`
	CreatedAt           string              `json:"created_at,omitempty"`
	UpdatedAt           string              `json:"updated_at,omitempty"`
	PersonalInfo        *PersonalInfo       `json:"personal_info,omitempty"`
	Employment          *EmploymentDetails  `json:"employment,omitempty"`
	FinancialPosition   *FinancialPosition  `json:"financial_position,omitempty"`
	GoalsAndObjectives  *GoalsAndObjectives `json:"goals_and_objectives,omitempty"`
	RiskProfile         *RiskProfile        `json:"risk_profile,omitempty"`
	HealthAndProtection *HealthInfo         `json:"health_and_protection,omitempty"`
	Notes               string              `json:"notes,omitempty"`
	AdvisorNotes        string              `json:"advisor_notes,omitempty"`
}

// DisplayName returns "First Last", falling back to the user id.
func (p *Profile) DisplayName() string {
	if p.PersonalInfo != nil {
		name := strings.TrimSpace(p.PersonalInfo.FirstName + " " + p.PersonalInfo.LastName)
		if name != "" {
			return name
		}
	}
	return p.UserId
}

// Initials returns up to two upper-case initials, or "?" when the name is unknown.
func (p *Profile) Initials() string {
	if p.PersonalInfo == nil {
		return "?"
	}
	var b strings.Builder
	for _, part := range []string{p.PersonalInfo.FirstName, p.PersonalInfo.LastName} {
		part = strings.TrimSpace(part)
		if part != "" {
			b.WriteString(strings.ToUpper(string([]rune(part)[0:1])))
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

// NetWorth returns the server computed net worth, or zero when absent.
func (p *Profile) NetWorth() float64 {
	if p.FinancialPosition == nil || p.FinancialPosition.NetWorth == nil {
		return 0
	}
	return *p.FinancialPosition.NetWorth
}

// AnnualSalary returns the declared salary and whether one is present.
func (p *Profile) AnnualSalary() (float64, bool) {
	if p.Employment == nil || p.Employment.AnnualSalary == nil {
		return 0, false
	}
	return *p.Employment.AnnualSalary, true
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	if p.PersonalInfo != nil {
		pi := *p.PersonalInfo
		pi.NumberOfDependents = clonePtr(p.PersonalInfo.NumberOfDependents)
		c.PersonalInfo = &pi
	}
	if p.Employment != nil {
		e := *p.Employment
		e.YearsInCurrentRole = clonePtr(e.YearsInCurrentRole)
		e.AnnualSalary = clonePtr(e.AnnualSalary)
		e.BonusIncome = clonePtr(e.BonusIncome)
		e.DividendIncome = clonePtr(e.DividendIncome)
		e.RentalIncome = clonePtr(e.RentalIncome)
		e.PensionIncome = clonePtr(e.PensionIncome)
		e.OtherIncome = clonePtr(e.OtherIncome)
		e.TotalAnnualIncome = clonePtr(e.TotalAnnualIncome)
		c.Employment = &e
	}
	if p.FinancialPosition != nil {
		c.FinancialPosition = p.FinancialPosition.clone()
	}
	if p.GoalsAndObjectives != nil {
		g := *p.GoalsAndObjectives
		g.RetirementAge = clonePtr(g.RetirementAge)
		g.DesiredRetirementIncome = clonePtr(g.DesiredRetirementIncome)
		if g.PrimaryGoals != nil {
			g.PrimaryGoals = make([]FinancialGoal, len(p.GoalsAndObjectives.PrimaryGoals))
			for i, goal := range p.GoalsAndObjectives.PrimaryGoals {
				goal.TargetAmount = clonePtr(goal.TargetAmount)
				goal.Priority = clonePtr(goal.Priority)
				g.PrimaryGoals[i] = goal
			}
		}
		c.GoalsAndObjectives = &g
	}
	if p.RiskProfile != nil {
		r := *p.RiskProfile
		r.RiskScore = clonePtr(r.RiskScore)
		c.RiskProfile = &r
	}
	if p.HealthAndProtection != nil {
		h := *p.HealthAndProtection
		h.Smoker = clonePtr(h.Smoker)
		h.LifeInsuranceCoverage = clonePtr(h.LifeInsuranceCoverage)
		h.CriticalIllnessCoverage = clonePtr(h.CriticalIllnessCoverage)
		h.HasWill = clonePtr(h.HasWill)
		c.HealthAndProtection = &h
	}
	return &c
}

func (f *FinancialPosition) clone() *FinancialPosition {
	c := *f
	if f.Assets != nil {
		c.Assets = make([]Asset, len(f.Assets))
		for i, a := range f.Assets {
			a.CurrentValue = clonePtr(a.CurrentValue)
			c.Assets[i] = a
		}
	}
	if f.Liabilities != nil {
		c.Liabilities = make([]Liability, len(f.Liabilities))
		for i, l := range f.Liabilities {
			l.OutstandingBalance = clonePtr(l.OutstandingBalance)
			l.MonthlyPayment = clonePtr(l.MonthlyPayment)
			c.Liabilities[i] = l
		}
	}
	if f.MonthlyExpenses != nil {
		m := *f.MonthlyExpenses
		m.HousingMortgageRent = clonePtr(m.HousingMortgageRent)
		m.Utilities = clonePtr(m.Utilities)
		m.Groceries = clonePtr(m.Groceries)
		m.Transport = clonePtr(m.Transport)
		m.TotalMonthlyExpenses = clonePtr(m.TotalMonthlyExpenses)
		c.MonthlyExpenses = &m
	}
	c.TotalAssets = clonePtr(f.TotalAssets)
	c.TotalLiabilities = clonePtr(f.TotalLiabilities)
	c.NetWorth = clonePtr(f.NetWorth)
	c.MonthlySurplus = clonePtr(f.MonthlySurplus)
	return &c
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Float returns a pointer to v. Handy for building profiles in code.
func Float(v float64) *float64 {
	return &v
}
