// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package stockcover

import (
	"strconv"
	"strings"
)

// CellKind tells what a Cell holds.
type CellKind uint8

const (
	Empty CellKind = iota
	Text
	Numeric
)

// Cell is one optional scalar of a raw grid.
type Cell struct {
	Text string
	Num  float64
	Kind CellKind
}

// TextCell returns a text cell, or an empty one for blank s.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{Kind: Text, Text: s}
}

// NumberCell returns a numeric cell.
func NumberCell(f float64) Cell { return Cell{Kind: Numeric, Num: f} }

// IsEmpty reports whether the cell holds nothing.
func (c Cell) IsEmpty() bool { return c.Kind == Empty }

// String returns the cell as it would be displayed, numbers without
// a trailing ".0".
func (c Cell) String() string {
	switch c.Kind {
	case Text:
		return strings.TrimSpace(c.Text)
	case Numeric:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// Row is an ordered sequence of cells. No header is assumed.
type Row []Cell

// Grid is the header-less rows × columns content of one sheet.
// Parsers treat it as read-only.
type Grid []Row

// Width returns the length of the longest row.
func (g Grid) Width() int {
	var n int
	for _, r := range g {
		if len(r) > n {
			n = len(r)
		}
	}
	return n
}

// GridFromStrings builds a Grid from string records, turning every
// blank string into an empty cell. Cells stay text: the classifiers
// do the number recognition.
func GridFromStrings(records [][]string) Grid {
	g := make(Grid, len(records))
	for i, rec := range records {
		row := make(Row, len(rec))
		for j, s := range rec {
			row[j] = TextCell(s)
		}
		g[i] = row
	}
	return g
}
