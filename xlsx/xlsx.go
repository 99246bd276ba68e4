// Copyright 2020, 2023, 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package xlsx reads ERP exports into a raw grid and writes the
// analysis workbooks, both with excelize.
package xlsx

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/UNO-SOFT/stockcover"
	"github.com/xuri/excelize/v2"
)

var _ = (stockcover.Writer)((*XLSXWriter)(nil))

// XLSXWriter is a stockcover.Writer producing an .xlsx workbook.
type XLSXWriter struct {
	w      io.Writer
	xl     *excelize.File
	styles map[string]int
	sheets []string
	mu     sync.Mutex
}

// XLSXSheet is one sheet of an XLSXWriter.
type XLSXSheet struct {
	xl   *excelize.File
	Name string
	row  int64
	mu   sync.Mutex
}

// NewWriter returns a new stockcover.Writer.
//
// This writer allows concurrent writes to separate sheets.
//
// This writer collects everything in memory, so big sheets may impose problems.
func NewWriter(w io.Writer) *XLSXWriter {
	return &XLSXWriter{w: w, xl: excelize.NewFile()}
}

// Close writes the workbook to the underlying writer.
func (xlw *XLSXWriter) Close() error {
	if xlw == nil {
		return nil
	}
	xlw.mu.Lock()
	defer xlw.mu.Unlock()
	xl, w := xlw.xl, xlw.w
	xlw.xl, xlw.w = nil, nil
	if xl == nil || w == nil {
		return nil
	}
	_, err := xl.WriteTo(w)
	if cerr := xl.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// NewSheet adds a sheet, writing the column names as the first row
// when any is given.
func (xlw *XLSXWriter) NewSheet(name string, columns []stockcover.Column) (stockcover.Sheet, error) {
	xlw.mu.Lock()
	defer xlw.mu.Unlock()
	if xlw.xl == nil {
		return nil, errClosed
	}
	xlw.sheets = append(xlw.sheets, name)
	if len(xlw.sheets) == 1 { // first
		if err := xlw.xl.SetSheetName("Sheet1", name); err != nil {
			return nil, err
		}
	} else if _, err := xlw.xl.NewSheet(name); err != nil {
		return nil, err
	}
	var hasHeader bool
	for i, c := range columns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if c.Column.Width > 0 {
			if err = xlw.xl.SetColWidth(name, col, col, c.Column.Width); err != nil {
				return nil, err
			}
		}
		s, err := xlw.getStyle(c.Column)
		if err != nil {
			return nil, fmt.Errorf("%s[%s] column style: %w", name, col, err)
		} else if s != 0 {
			if err = xlw.xl.SetColStyle(name, col, s); err != nil {
				return nil, err
			}
		}
		if s, err = xlw.getStyle(c.Header); err != nil {
			return nil, fmt.Errorf("%s[%s] header style: %w", name, col, err)
		} else if s != 0 {
			if err = xlw.xl.SetCellStyle(name, col+"1", col+"1", s); err != nil {
				return nil, err
			}
		}
		if c.Name != "" {
			hasHeader = true
			if err = xlw.xl.SetCellStr(name, col+"1", c.Name); err != nil {
				return nil, err
			}
		}
	}
	xls := &XLSXSheet{xl: xlw.xl, Name: name}
	if hasHeader {
		xls.row++
	}
	return xls, nil
}

var errClosed = errors.New("xlsx: writer is closed")

func (xlw *XLSXWriter) getStyle(style stockcover.Style) (int, error) {
	if !style.FontBold && style.FontSize == 0 && style.Format == "" {
		return 0, nil
	}
	k := fmt.Sprintf("%t\t%g\t%s", style.FontBold, style.FontSize, style.Format)
	if s, ok := xlw.styles[k]; ok {
		return s, nil
	}
	var st excelize.Style
	if style.FontBold || style.FontSize != 0 {
		st.Font = &excelize.Font{Bold: style.FontBold, Size: style.FontSize}
	}
	if style.Format != "" {
		st.CustomNumFmt = &style.Format
	}
	s, err := xlw.xl.NewStyle(&st)
	if err != nil {
		return 0, err
	}
	if xlw.styles == nil {
		xlw.styles = make(map[string]int)
	}
	xlw.styles[k] = s
	return s, nil
}

// DateLayout is the layout of the dates written as text.
const DateLayout = "02/01/2006"

// MaxRowCount is the number of maximum rows.
const MaxRowCount = 1_048_576

// Close is a no-op, the workbook is written by XLSXWriter.Close.
func (xls *XLSXSheet) Close() error { return nil }

// AppendRow appends the values as the next row.
// Times are written as DD/MM/YYYY text, nil and zero times leave the cell empty.
func (xls *XLSXSheet) AppendRow(values ...any) error {
	xls.mu.Lock()
	defer xls.mu.Unlock()
	if xls.row >= MaxRowCount {
		return stockcover.ErrTooManyRows
	}
	xls.row++
	for i, v := range values {
		if v == nil {
			continue
		}
		axis, err := excelize.CoordinatesToCellName(i+1, int(xls.row))
		if err != nil {
			return fmt.Errorf("%d/%d: %w", i, int(xls.row), err)
		}
		switch x := v.(type) {
		case string:
			err = xls.xl.SetCellStr(xls.Name, axis, x)
		case float64:
			err = xls.xl.SetCellFloat(xls.Name, axis, x, -1, 64)
		case int:
			err = xls.xl.SetCellInt(xls.Name, axis, int64(x))
		case time.Time:
			if x.IsZero() {
				continue
			}
			err = xls.xl.SetCellStr(xls.Name, axis, x.Format(DateLayout))
		case fmt.Stringer:
			err = xls.xl.SetCellStr(xls.Name, axis, x.String())
		default:
			err = xls.xl.SetCellValue(xls.Name, axis, v)
		}
		if err != nil {
			return fmt.Errorf("%s[%s]: %w", xls.Name, axis, err)
		}
	}
	return nil
}
