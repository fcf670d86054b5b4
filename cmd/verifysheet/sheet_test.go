package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"figcheck/internal/csvexport"
	"figcheck/internal/service"
	"figcheck/internal/verify"
)

func newWorkbook(t *testing.T, rows [][]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	return f
}

func TestReadClaims(t *testing.T) {
	f := newWorkbook(t, [][]interface{}{
		{"Reported_Value", "Operation", "Operands", "is_percentage", "page", "item_path", "commentary"},
		{"1,234百万円", "subtraction", "2,000百万円; 766百万円", "", "3", "pl/operating_income", "from table 3"},
		{"", "addition", "1;2", "", "", "", ""},
		{"12.5", "ratio", "125;1000", "yes", "p.4", "", ""},
	})

	claims, err := readClaims(f, "")
	require.NoError(t, err)
	require.Len(t, claims, 2)

	assert.Equal(t, "row-2", claims[0].ClaimID)
	assert.Equal(t, []string{"2,000百万円", "766百万円"}, claims[0].Operands)
	assert.Equal(t, json.RawMessage("3"), claims[0].Page)
	assert.Equal(t, "pl/operating_income", claims[0].ItemPath)
	assert.False(t, bool(claims[0].IsPercentage))

	assert.Equal(t, "row-4", claims[1].ClaimID)
	assert.True(t, bool(claims[1].IsPercentage))
	assert.Equal(t, json.RawMessage(`"p.4"`), claims[1].Page)
}

func TestReadClaims_MissingColumns(t *testing.T) {
	f := newWorkbook(t, [][]interface{}{
		{"claim_id", "reported_value"},
		{"c1", "100"},
	})

	_, err := readClaims(f, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operation, operands")
}

func TestReadClaims_UnknownSheet(t *testing.T) {
	f := newWorkbook(t, nil)
	_, err := readClaims(f, "Claims")
	require.Error(t, err)
}

func TestBuildReport(t *testing.T) {
	f := newWorkbook(t, [][]interface{}{
		{"claim_id", "reported_value", "operation", "operands"},
		{"c1", "300", "addition", "100;200"},
		{"c2", "301", "addition", "100;100"},
	})
	claims, err := readClaims(f, "")
	require.NoError(t, err)

	batch := verify.NewBatchVerifier(verify.NewVerifier(verify.DefaultTolerance()), 2)
	results, summary := service.VerifyClaims(batch, claims)

	out, err := buildReport(results, summary)
	require.NoError(t, err)
	defer func() { _ = out.Close() }()

	assert.Equal(t, []string{resultsSheet, summarySheet}, out.GetSheetList())

	rows, err := out.GetRows(resultsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvexport.Columns(), rows[0])
	assert.Equal(t, "c1", rows[1][0])
	assert.Equal(t, "confirmed", rows[1][7])
	assert.Equal(t, "contradicted", rows[2][7])

	confirmed, err := out.GetCellValue(summarySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "1", confirmed)
}

func TestParseTolerance(t *testing.T) {
	tol, err := parseTolerance("0.02", "0.5")
	require.NoError(t, err)
	assert.Equal(t, "0.02", tol.Relative.String())

	_, err = parseTolerance("-1", "1")
	require.Error(t, err)
	_, err = parseTolerance("0.01", "x")
	require.Error(t, err)
}
