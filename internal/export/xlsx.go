package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/intellidoc/console-gateway/internal/extraction"
	"github.com/xuri/excelize/v2"
)

const (
	fieldsSheet       = "Fields"
	maxSheetNameLen   = 31
	invalidSheetChars = `[]:*?/\`
)

// Workbook renders a normalized extraction result as an xlsx workbook:
// one sheet listing the scalar fields, plus one sheet per table.
func Workbook(result extraction.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", fieldsSheet); err != nil {
		return nil, fmt.Errorf("rename fields sheet: %w", err)
	}
	if err := writeFieldsSheet(f, result); err != nil {
		return nil, err
	}

	used := map[string]struct{}{strings.ToLower(fieldsSheet): {}}
	for i, table := range result.Tables {
		if err := writeTableSheet(f, table, i, used); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeFieldsSheet(f *excelize.File, result extraction.Result) error {
	rows := [][]interface{}{
		{"Document Type", result.DocumentType},
		{"Summary", result.Summary},
	}

	keys := make([]string, 0, len(result.Fields))
	for key := range result.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		rows = append(rows, []interface{}{key, extraction.FormatFieldValue(key, result.Fields[key])})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(fieldsSheet, cell, &row); err != nil {
			return fmt.Errorf("write fields row: %w", err)
		}
	}
	return nil
}

func writeTableSheet(f *excelize.File, table extraction.Table, index int, used map[string]struct{}) error {
	name := sheetName(table.Name, index, used)
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}

	columns := tableColumns(table)
	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for rowIdx, row := range table.Rows {
		values := make([]interface{}, len(columns))
		for colIdx, col := range columns {
			values[colIdx] = extraction.Stringify(row[col])
		}
		cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("write table row: %w", err)
		}
	}
	return nil
}

// tableColumns returns the union of all row keys, sorted, so ragged rows
// still line up under one header.
func tableColumns(table extraction.Table) []string {
	seen := make(map[string]struct{})
	for _, row := range table.Rows {
		for key := range row {
			seen[key] = struct{}{}
		}
	}

	columns := make([]string, 0, len(seen))
	for key := range seen {
		columns = append(columns, key)
	}
	sort.Strings(columns)
	return columns
}

// sheetName sanitizes a table name into a legal, unique sheet name. Sheet
// names are case-insensitive in xlsx; reusing one would silently merge two
// tables into a single sheet, so collisions get a numeric suffix.
func sheetName(name string, index int, used map[string]struct{}) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidSheetChars, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(name))

	if cleaned == "" {
		cleaned = fmt.Sprintf("Table %d", index+1)
	}
	if len(cleaned) > maxSheetNameLen {
		cleaned = cleaned[:maxSheetNameLen]
	}

	final := cleaned
	for n := 2; ; n++ {
		if _, taken := used[strings.ToLower(final)]; !taken {
			break
		}
		suffix := fmt.Sprintf(" %d", n)
		base := cleaned
		if len(base)+len(suffix) > maxSheetNameLen {
			base = base[:maxSheetNameLen-len(suffix)]
		}
		final = base + suffix
	}

	used[strings.ToLower(final)] = struct{}{}
	return final
}
