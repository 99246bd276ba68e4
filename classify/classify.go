// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package classify decides what a raw spreadsheet cell or row looks like:
// a product code, a description, a unit, a quantity or a section header.
//
// Every function is total: on ambiguity it returns the neutral answer
// (false, 0, CurveNone) instead of an error.
package classify

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/UNO-SOFT/stockcover"
)

// Code range accepted as a product code.
const (
	MinProductCode = 1
	MaxProductCode = 999_999
)

// Minimal description lengths, in runes.
const (
	MinCurveDescription = 3
	MinStockDescription = 6
)

// MaxUnitLen is the longest text still taken as a unit of measure.
const MaxUnitLen = 5

var spaceCleaner = strings.NewReplacer(
	"\u00A0", " ", // NBSP
	"\u202F", " ", // NNBSP
	"\u2007", " ", // figure space
	"\u2212", "-", // typographic minus
	"\t", " ",
)

// NormalizeNumber removes the locale formatting from s:
// spaces and commas are thousands separators, and a '.' is a thousands
// separator when more than two digits follow it, a decimal point otherwise.
func NormalizeNumber(s string) string {
	s = spaceCleaner.Replace(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "", ",", "").Replace(s)
	if i := strings.LastIndexByte(s, '.'); i >= 0 && len(s)-i-1 > 2 {
		s = strings.ReplaceAll(s, ".", "")
	}
	return s
}

// ParseNumber returns the numeric value of c, and whether it is a number at all.
func ParseNumber(c stockcover.Cell) (float64, bool) {
	switch c.Kind {
	case stockcover.Numeric:
		if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) {
			return 0, false
		}
		return c.Num, true
	case stockcover.Text:
		s := NormalizeNumber(c.Text)
		if s == "" || !isNumberText(s) {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// isNumberText rejects what strconv.ParseFloat would accept but a
// spreadsheet user would not call a number ("Inf", "0x1p-2", "1e5").
func isNumberText(s string) bool {
	for i, r := range s {
		if r >= '0' && r <= '9' || r == '.' {
			continue
		}
		if (r == '-' || r == '+') && i == 0 {
			continue
		}
		return false
	}
	return true
}

// ParseNumeric is the lossy numeric coercion: it returns 0 for anything
// that is not a number. Zero is not an error signal here.
func ParseNumeric(c stockcover.Cell) float64 {
	f, _ := ParseNumber(c)
	return f
}

// IsNumeric reports whether c holds a number.
func IsNumeric(c stockcover.Cell) bool {
	_, ok := ParseNumber(c)
	return ok
}

// ProductCode returns the product code held by c.
func ProductCode(c stockcover.Cell) (int, bool) {
	f, ok := ParseNumber(c)
	if !ok || f != math.Trunc(f) || f < MinProductCode || f > MaxProductCode {
		return 0, false
	}
	return int(f), true
}

// looksNumeric reports whether s consists only of digits once the usual
// separators are removed.
func looksNumeric(s string) bool {
	var digits int
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '.' || r == ',' || r == '-' || unicode.IsSpace(r):
		default:
			return false
		}
	}
	return digits != 0
}

// IsDescription reports whether c is a text of at least minLen runes,
// not purely numeric and not a subtotal ("Total").
func IsDescription(c stockcover.Cell, minLen int) bool {
	if c.Kind != stockcover.Text {
		return false
	}
	s := strings.TrimSpace(c.Text)
	return utf8.RuneCountInString(s) >= minLen &&
		!looksNumeric(s) &&
		!strings.Contains(s, "Total")
}

// IsUnit reports whether c is a short, non-numeric text.
func IsUnit(c stockcover.Cell) bool {
	if c.Kind != stockcover.Text {
		return false
	}
	s := strings.TrimSpace(c.Text)
	n := utf8.RuneCountInString(s)
	return n > 0 && n <= MaxUnitLen && !looksNumeric(s)
}

// RowText joins the non-empty cells of the row with a space.
func RowText(row stockcover.Row) string {
	var buf strings.Builder
	for _, c := range row {
		s := c.String()
		if s == "" {
			continue
		}
		if buf.Len() != 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(s)
	}
	return buf.String()
}
