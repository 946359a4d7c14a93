package export_test

import (
	"bytes"
	"testing"

	"github.com/intellidoc/console-gateway/internal/export"
	"github.com/intellidoc/console-gateway/internal/extraction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWorkbook_FieldsSheet(t *testing.T) {
	result := extraction.Result{
		DocumentType: "Invoice",
		Summary:      "Acme invoice for March",
		Fields: map[string]interface{}{
			"Vendor":      "Acme",
			"TotalAmount": "123.45",
		},
	}

	data, err := export.Workbook(result)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	rows, err := f.GetRows("Fields")
	require.NoError(t, err)

	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Document Type", "Invoice"}, rows[0])
	assert.Equal(t, []string{"Summary", "Acme invoice for March"}, rows[1])
	assert.Equal(t, []string{"TotalAmount", "123,45"}, rows[2], "amount-like values use the comma decimal form")
	assert.Equal(t, []string{"Vendor", "Acme"}, rows[3])
}

func TestWorkbook_TableSheets(t *testing.T) {
	result := extraction.Result{
		DocumentType: "Invoice",
		Tables: []extraction.Table{
			{
				Name: "Line Items",
				Rows: []map[string]interface{}{
					{"Description": "Widget", "Qty": float64(2)},
					{"Description": "Gadget", "Price": "9.99"},
				},
			},
		},
	}

	data, err := export.Workbook(result)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	rows, err := f.GetRows("Line Items")
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Description", "Price", "Qty"}, rows[0])
	assert.Equal(t, "Widget", rows[1][0])
	assert.Equal(t, "Gadget", rows[2][0])
	assert.Equal(t, "9.99", rows[2][1])
}

func TestWorkbook_SanitizesSheetNames(t *testing.T) {
	result := extraction.Result{
		DocumentType: "Invoice",
		Tables: []extraction.Table{
			{Name: "Costs/2024 [Q1]", Rows: []map[string]interface{}{{"A": "1"}}},
			{Name: "", Rows: []map[string]interface{}{{"B": "2"}}},
		},
	}

	data, err := export.Workbook(result)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Costs-2024 -Q1-")
	assert.Contains(t, sheets, "Table 2")
}

func TestWorkbook_DuplicateTableNamesGetOwnSheets(t *testing.T) {
	result := extraction.Result{
		DocumentType: "Invoice",
		Tables: []extraction.Table{
			{Name: "Costs", Rows: []map[string]interface{}{{"Item": "first"}}},
			{Name: "costs", Rows: []map[string]interface{}{{"Item": "second"}}},
			{Name: "Fields", Rows: []map[string]interface{}{{"Item": "third"}}},
		},
	}

	data, err := export.Workbook(result)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.ElementsMatch(t, []string{"Fields", "Costs", "costs 2", "Fields 2"}, f.GetSheetList())

	first, err := f.GetRows("Costs")
	require.NoError(t, err)
	second, err := f.GetRows("costs 2")
	require.NoError(t, err)
	assert.Equal(t, "first", first[1][0])
	assert.Equal(t, "second", second[1][0])
}

func TestWorkbook_EmptyResult(t *testing.T) {
	data, err := export.Workbook(extraction.Sentinel())
	require.NoError(t, err)

	f := openWorkbook(t, data)
	rows, err := f.GetRows("Fields")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "Processing...", rows[0][1])
}
