// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package report renders the result of a coverage run as a workbook,
// a PDF executive summary, an HTML page, CSV or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/UNO-SOFT/stockcover/coverage"
	"github.com/UNO-SOFT/stockcover/xlsx"
)

// Format is an output format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	}
	return "application/json"
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatXLSX, FormatPDF, FormatHTML, FormatCSV, FormatJSON:
		return f, nil
	case "":
		return FormatJSON, nil
	case "htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// FormatOf returns the format by the file name's extension,
// and whether the output should be gzip compressed (.gz suffix).
func FormatOf(name string) (Format, bool, error) {
	lower := strings.ToLower(name)
	gz := strings.HasSuffix(lower, ".gz")
	if gz {
		lower = strings.TrimSuffix(lower, ".gz")
	}
	ext := filepath.Ext(lower)
	if ext == "" {
		return "", gz, fmt.Errorf("%q: no extension", name)
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return "", gz, err
	}
	if gz && (f == FormatXLSX || f == FormatPDF) {
		return "", gz, fmt.Errorf("%q: %s output is already compressed", name, f)
	}
	return f, gz, nil
}

// Options of Write.
type Options struct {
	// Lang is the language of the printed numbers, Spanish by default.
	Lang language.Tag
	// CriticalOnly limits the CSV to the CRITICAL rows.
	CriticalOnly bool
	// BOM prepends an UTF-8 BOM to CSV, for spreadsheet programs.
	BOM bool
	// Gzip compresses the output.
	Gzip bool
}

func (o Options) printer() *message.Printer {
	if o.Lang == language.Und {
		return message.NewPrinter(language.Spanish)
	}
	return message.NewPrinter(o.Lang)
}

// Write renders res in the format to w.
func Write(w io.Writer, format Format, res *coverage.Result, opts Options) error {
	if opts.Gzip {
		gw := gzip.NewWriter(w)
		if err := write(gw, format, res, opts); err != nil {
			_ = gw.Close()
			return err
		}
		return gw.Close()
	}
	return write(w, format, res, opts)
}

func write(w io.Writer, format Format, res *coverage.Result, opts Options) error {
	switch format {
	case FormatXLSX:
		xlw := xlsx.NewWriter(w)
		if err := Workbook(xlw, res); err != nil {
			_ = xlw.Close()
			return err
		}
		return xlw.Close()
	case FormatPDF:
		b, err := PDF(res, opts.printer())
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case FormatHTML:
		return HTML(w, res, opts.printer())
	case FormatCSV:
		rows := res.Rows
		if opts.CriticalOnly {
			rows = coverage.Critical(rows)
		}
		return CSV(w, rows, opts.BOM)
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return fmt.Errorf("unknown report format %q", format)
}
