// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/UNO-SOFT/stockcover"
	"github.com/xuri/excelize/v2"
)

// ReadGrid reads the raw cell values of the workbook in r.
//
// The sheet with the most rows is used: ERP exports sometimes carry an
// empty cover sheet in front of the data. Cells are read unformatted, so
// numbers keep their full precision; text that merely looks numeric stays
// text for the classifiers to decide.
func ReadGrid(r io.Reader) (stockcover.Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	best := stockcover.Grid{}
	for _, name := range sheets {
		g, err := readSheet(f, name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if len(g) > len(best) {
			best = g
		}
	}
	return best, nil
}

// ReadSheet reads the named sheet of the workbook in r.
func ReadSheet(r io.Reader, sheet string) (stockcover.Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readSheet(f, sheet)
}

func readSheet(f *excelize.File, sheet string) (stockcover.Grid, error) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var g stockcover.Grid
	for rowNum := 1; rows.Next(); rowNum++ {
		cols, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		row := make(stockcover.Row, len(cols))
		for i, v := range cols {
			if strings.TrimSpace(v) == "" {
				continue
			}
			row[i] = cellOf(f, sheet, i+1, rowNum, v)
		}
		g = append(g, row)
	}
	if err = rows.Error(); err != nil {
		return nil, err
	}
	return g, nil
}

// cellOf types the raw value by the cell type stored in the workbook.
func cellOf(f *excelize.File, sheet string, col, row int, v string) stockcover.Cell {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return stockcover.TextCell(v)
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return stockcover.TextCell(v)
	}
	switch typ {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		// unset type means a number in OOXML
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return stockcover.NumberCell(n)
		}
	}
	return stockcover.TextCell(v)
}
