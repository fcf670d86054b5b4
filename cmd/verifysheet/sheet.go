package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"figcheck/internal/csvexport"
	"figcheck/internal/domain"
)

const (
	resultsSheet = "Results"
	summarySheet = "Summary"

	operandSeparator = ";"
)

// column indexes located from the header row; -1 when absent.
type columnIndex struct {
	claimID, reported, operation, operands, percentage, page, itemPath, commentary int
}

func locateColumns(header []string) (columnIndex, error) {
	idx := columnIndex{-1, -1, -1, -1, -1, -1, -1, -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "claim_id":
			idx.claimID = i
		case "reported_value":
			idx.reported = i
		case "operation":
			idx.operation = i
		case "operands":
			idx.operands = i
		case "is_percentage":
			idx.percentage = i
		case "page":
			idx.page = i
		case "item_path":
			idx.itemPath = i
		case "commentary":
			idx.commentary = i
		}
	}

	var missing []string
	if idx.reported < 0 {
		missing = append(missing, "reported_value")
	}
	if idx.operation < 0 {
		missing = append(missing, "operation")
	}
	if idx.operands < 0 {
		missing = append(missing, "operands")
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("header row is missing column(s): %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

// readClaims parses claims from the named sheet, or the first sheet when
// name is empty. Rows without a reported value are skipped.
func readClaims(f *excelize.File, name string) ([]domain.CalculationClaim, error) {
	if name == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		name = sheets[0]
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", name)
	}

	idx, err := locateColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", name, err)
	}

	var claims []domain.CalculationClaim
	for i, row := range rows[1:] {
		cell := func(col int) string {
			if col < 0 || col >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[col])
		}

		reported := cell(idx.reported)
		if reported == "" {
			continue
		}

		claimID := cell(idx.claimID)
		if claimID == "" {
			// Spreadsheet row number, counting the header as row 1.
			claimID = "row-" + strconv.Itoa(i+2)
		}

		claims = append(claims, domain.CalculationClaim{
			ClaimID:       claimID,
			ReportedValue: reported,
			Operands:      splitOperands(cell(idx.operands)),
			Operation:     cell(idx.operation),
			IsPercentage:  domain.ParseHint(cell(idx.percentage)),
			Page:          pageValue(cell(idx.page)),
			ItemPath:      cell(idx.itemPath),
			Commentary:    cell(idx.commentary),
		})
	}
	return claims, nil
}

func splitOperands(s string) []string {
	operands := []string{}
	for _, part := range strings.Split(s, operandSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			operands = append(operands, part)
		}
	}
	return operands
}

// pageValue keeps numeric pages as JSON numbers and anything else as a string.
func pageValue(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	if _, err := strconv.Atoi(s); err == nil {
		return json.RawMessage(s)
	}
	b, _ := json.Marshal(s)
	return b
}

// buildReport creates a workbook with the per-claim results and a summary.
func buildReport(results []domain.ClaimResult, summary domain.RunSummary) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	columns := csvexport.Columns()
	if err := setRow(f, resultsSheet, 1, columns); err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(resultsSheet, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i := range results {
		if err := setRow(f, resultsSheet, i+2, csvexport.Row(&results[i])); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}
	summaryRows := [][]interface{}{
		{"Verdict", "Claims"},
		{"total", summary.Total},
		{"confirmed", summary.Confirmed},
		{"minor_discrepancy", summary.MinorDiscrepancy},
		{"contradicted", summary.Contradicted},
		{"unverifiable", summary.Unverifiable},
	}
	for i, values := range summaryRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", bold); err != nil {
		return nil, fmt.Errorf("style summary header: %w", err)
	}

	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
