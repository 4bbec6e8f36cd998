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
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	advisorModel "github.com/hollyandmorty/advisor-console/internal/advisor/model"
	dashboardModel "github.com/hollyandmorty/advisor-console/internal/dashboard/model"
	profileModel "github.com/hollyandmorty/advisor-console/internal/profile/model"
)

var (
	headline = color.New(color.FgHiWhite, color.Bold)
	muted    = color.New(color.FgHiBlack)
	failure  = color.New(color.FgRed, color.Bold)
)

func statusColor(status profileModel.ProfileStatus) *color.Color {
	switch status {
	case profileModel.StatusNew:
		return color.New(color.FgYellow)
	case profileModel.StatusPartial:
		return color.New(color.FgCyan)
	case profileModel.StatusComplete:
		return color.New(color.FgGreen)
	case profileModel.StatusVerified:
		return color.New(color.FgGreen, color.Bold)
	default:
		return muted
	}
}

func flowColor(flow dashboardModel.FlowStatus) *color.Color {
	switch flow {
	case dashboardModel.FlowCalling:
		return color.New(color.FgYellow)
	case dashboardModel.FlowExtracting:
		return color.New(color.FgMagenta)
	case dashboardModel.FlowFormFilling:
		return color.New(color.FgCyan)
	case dashboardModel.FlowCompleted:
		return color.New(color.FgGreen, color.Bold)
	default:
		return muted
	}
}

func formatMoney(v float64) string {
	return "£" + strconv.FormatFloat(v, 'f', 0, 64)
}

func renderProfiles(w io.Writer, profiles []profileModel.Profile) error {
	if len(profiles) == 0 {
		muted.Fprintln(w, "No profiles found.")
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"User ID", "Name", "Status", "Annual Salary", "Net Worth"})
	for i := range profiles {
		p := &profiles[i]
		salary := "-"
		if v, ok := p.AnnualSalary(); ok {
			salary = formatMoney(v)
		}
		if err := table.Append([]string{p.UserId, p.DisplayName(),
			statusColor(p.Status).Sprint(p.Status), salary, formatMoney(p.NetWorth())}); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderStats(w io.Writer, stats advisorModel.Stats) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value"})
	rows := [][]string{
		{"Total clients", strconv.Itoa(stats.Total)},
		{"Ready", strconv.Itoa(stats.Ready)},
		{"Assets under management", formatMoney(stats.AssetsUnderManagement)},
		{"Average income", formatMoney(stats.AverageIncome)},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderPipeline(w io.Writer, columns []advisorModel.PipelineColumn) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Stage", "Clients", "Names"})
	for _, c := range columns {
		names := ""
		for i := range c.Profiles {
			if i > 0 {
				names += ", "
			}
			names += c.Profiles[i].DisplayName()
		}
		if err := table.Append([]string{statusColor(c.Status).Sprint(c.Label), strconv.Itoa(len(c.Profiles)), names}); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderStages(w io.Writer, stages []dashboardModel.Stage) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Stage", "Status"})
	for _, s := range stages {
		status := muted.Sprint(s.Status)
		switch s.Status {
		case dashboardModel.StageCompleted:
			status = color.GreenString(string(s.Status))
		case dashboardModel.StageCurrent:
			status = color.CyanString(string(s.Status))
		}
		if err := table.Append([]string{fmt.Sprint(s.Id), s.Title, status}); err != nil {
			return err
		}
	}
	return table.Render()
}
