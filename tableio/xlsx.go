// SPDX-License-Identifier: MIT

package tableio

import (
	"fmt"
	"strconv"

	"github.com/katalvlaran/distladder/dataset"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the sheet written by WriteXLSX when none is named.
const DefaultSheet = "Sheet1"

// ReadXLSX reads a table from one sheet of an XLSX workbook. An empty sheet
// name selects the first sheet.
func ReadXLSX(path, sheet string) (dataset.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("ReadXLSX: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return dataset.Table{}, fmt.Errorf("ReadXLSX %s: %w", path, err)
	}
	t, err := decode(rows)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("ReadXLSX %s[%s]: %w", path, sheet, err)
	}
	return t, nil
}

// WriteXLSX writes t to a new workbook at path. Numeric cells are stored as
// numbers; an empty sheet name means DefaultSheet.
func WriteXLSX(path, sheet string, t dataset.Table) error {
	if sheet == "" {
		sheet = DefaultSheet
	}
	f := excelize.NewFile()
	defer f.Close()
	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return fmt.Errorf("WriteXLSX: %w", err)
		}
	}

	cols := t.Schema().Columns()
	for j, c := range cols {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return fmt.Errorf("WriteXLSX: %w", err)
		}
		if err = f.SetCellValue(sheet, cell, c.Name); err != nil {
			return fmt.Errorf("WriteXLSX: %w", err)
		}
	}
	for i := 0; i < t.Len(); i++ {
		r, _ := t.Row(i)
		cells := r.Cells()
		for j, c := range cols {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return fmt.Errorf("WriteXLSX: %w", err)
			}
			var v any = cells[j]
			if c.Kind == dataset.Numeric {
				v, _ = strconv.ParseFloat(cells[j], 64)
			}
			if err = f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("WriteXLSX: %w", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("WriteXLSX %s: %w", path, err)
	}
	return nil
}
