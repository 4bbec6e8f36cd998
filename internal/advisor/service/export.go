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

package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/xuri/excelize/v2"

	profileModel "github.com/hollyandmorty/advisor-console/internal/profile/model"
	"github.com/hollyandmorty/advisor-console/internal/system/constants"
	errors2 "github.com/hollyandmorty/advisor-console/internal/system/errors"
)

const inventorySheet = "Inventory"

var inventoryHeaders = []string{
	"User ID",
	"Name",
	"Status",
	"Employment",
	"Annual Salary",
	"Net Worth",
	"Risk Attitude",
	"Updated At",
}

// ExportContentType returns the media type of an export format.
func ExportContentType(format string) string {
	if format == constants.ExportFormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Export writes the inventory in the given format (csv or xlsx).
func Export(w io.Writer, profiles []profileModel.Profile, format string) error {
	var err error
	switch format {
	case constants.ExportFormatCSV:
		err = exportCSV(w, profiles)
	case constants.ExportFormatXLSX:
		err = exportXLSX(w, profiles)
	default:
		return errors2.NewClientError(errors2.INVALID_EXPORT_FORMAT, http.StatusBadRequest)
	}
	if err != nil {
		return errors2.NewServerError(errors2.EXPORT_FAILED, err)
	}
	return nil
}

func exportCSV(w io.Writer, profiles []profileModel.Profile) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(inventoryHeaders); err != nil {
		return err
	}
	for i := range profiles {
		if err := writer.Write(inventoryRow(&profiles[i])); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func exportXLSX(w io.Writer, profiles []profileModel.Profile) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if _, err := f.NewSheet(inventorySheet); err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	index, _ := f.GetSheetIndex(inventorySheet)
	f.SetActiveSheet(index)

	for i, h := range inventoryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(inventorySheet, cell, h); err != nil {
			return err
		}
	}
	for r := range profiles {
		p := &profiles[r]
		row := r + 2
		values := []interface{}{
			p.UserId,
			p.DisplayName(),
			string(p.Status),
			employmentStatus(p),
			salaryValue(p),
			p.NetWorth(),
			riskAttitude(p),
			p.UpdatedAt,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(inventorySheet, cell, v); err != nil {
				return err
			}
		}
	}
	_ = f.SetColWidth(inventorySheet, "A", "B", 22)
	_ = f.SetColWidth(inventorySheet, "H", "H", 24)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func inventoryRow(p *profileModel.Profile) []string {
	salary := ""
	if v, ok := p.AnnualSalary(); ok {
		salary = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return []string{
		p.UserId,
		p.DisplayName(),
		string(p.Status),
		employmentStatus(p),
		salary,
		strconv.FormatFloat(p.NetWorth(), 'f', -1, 64),
		riskAttitude(p),
		p.UpdatedAt,
	}
}

func salaryValue(p *profileModel.Profile) interface{} {
	if v, ok := p.AnnualSalary(); ok {
		return v
	}
	return ""
}

func employmentStatus(p *profileModel.Profile) string {
	if p.Employment == nil {
		return ""
	}
	return string(p.Employment.EmploymentStatus)
}

func riskAttitude(p *profileModel.Profile) string {
	if p.RiskProfile == nil {
		return ""
	}
	return string(p.RiskProfile.RiskAttitude)
}
