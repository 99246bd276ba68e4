// Copyright 2020, 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package stockcover holds the types shared by the coverage analysis
// pipeline: the raw cell grid read from ERP exports, the categorized
// run errors and the spreadsheet writer abstraction used by the exports.
package stockcover

import (
	"errors"
	"io"
)

// Writer writes the spreadsheet consisting of the sheets created
// with NewSheet. The write finishes when Close is called.
//
// The writer SHOULD allow writing to separate sheets concurrently,
// and document if it does not provide this functionality.
type Writer interface {
	io.Closer
	NewSheet(name string, cols []Column) (Sheet, error)
}

// Sheet should be Closed when finished.
type Sheet interface {
	io.Closer
	AppendRow(values ...any) error
}

// Style is a style for a column/row/cell.
type Style struct {
	// Format is the number format
	Format string
	// FontBold is true if the font is bold
	FontBold bool
	// FontSize in points, 0 leaves the default.
	FontSize float64
	// Width is the column width in characters, 0 leaves the default.
	Width float64
}

// Column contains the Name of the column and header's style and column's style.
type Column struct {
	Name           string
	Header, Column Style
}

var ErrTooManyRows = errors.New("too many rows")

// Number formats used by the exports.
const (
	FormatQuantity = "#,##0.00"
	FormatDays     = "0.0"
	FormatPercent  = "0.0%"
)
