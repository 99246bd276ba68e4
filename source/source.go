// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package source reads an uploaded ERP export into a raw grid,
// choosing the reader by the file name.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/UNO-SOFT/stockcover"
	"github.com/UNO-SOFT/stockcover/xlsx"
)

// ErrLegacyFormat is returned for BIFF (.xls) workbooks.
var ErrLegacyFormat = errors.New("legacy .xls workbooks are not supported, save the export as .xlsx")

// Read reads the export named name from r.
// Failures are CategoryInput *stockcover.Error values naming the file.
func Read(name string, r io.Reader, charset string) (stockcover.Grid, error) {
	var g stockcover.Grid
	var err error
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx", ".xlsm", ".xltx":
		g, err = xlsx.ReadGrid(r)
	case ".csv", ".txt":
		if charset == "" {
			charset = stockcover.EncName
		}
		g, err = stockcover.ReadCsvGrid(r, charset)
	case ".xls":
		err = ErrLegacyFormat
	default:
		err = fmt.Errorf("unsupported file type %q", ext)
	}
	if err != nil {
		return nil, stockcover.WrapError(stockcover.CategoryInput, filepath.Base(name), err)
	}
	return g, nil
}

// ReadFile opens and reads the named file.
func ReadFile(name, charset string) (stockcover.Grid, error) {
	fh, err := os.Open(name)
	if err != nil {
		return nil, stockcover.WrapError(stockcover.CategoryInput, filepath.Base(name), err)
	}
	defer fh.Close()
	return Read(name, fh, charset)
}
