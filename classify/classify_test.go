// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package classify_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/UNO-SOFT/stockcover"
	"github.com/UNO-SOFT/stockcover/classify"
)

var txt, num = stockcover.TextCell, stockcover.NumberCell

func TestProductCode(t *testing.T) {
	for _, tc := range []struct {
		name string
		cell stockcover.Cell
		want int
		ok   bool
	}{
		{"number", num(100), 100, true},
		{"text", txt("100"), 100, true},
		{"padded", txt(" 4521 "), 4521, true},
		{"space thousands", txt("12 345"), 12345, true},
		{"nbsp thousands", txt("12\u00a0345"), 12345, true},
		{"comma thousands", txt("12,345"), 12345, true},
		{"dot thousands", txt("12.345"), 12345, true},
		{"integral float", num(7.0), 7, true},
		{"max", num(999999), 999999, true},
		{"fraction", txt("12.5"), 0, false},
		{"zero", num(0), 0, false},
		{"negative", num(-3), 0, false},
		{"too big", txt("1.000.000"), 0, false},
		{"word", txt("ARROZ"), 0, false},
		{"exponent", txt("1e3"), 0, false},
		{"hex", txt("0x10"), 0, false},
		{"inf", txt("Inf"), 0, false},
		{"nan", num(math.NaN()), 0, false},
		{"empty", stockcover.Cell{}, 0, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := classify.ProductCode(tc.cell)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseNumericGarbage(t *testing.T) {
	for _, c := range []stockcover.Cell{
		{}, txt("abc"), txt("--"), txt("12abc"), txt("1,2,3x"), txt("NaN"), txt("+Inf"),
		num(math.Inf(1)), num(math.NaN()), txt("∞"), txt("Total"),
	} {
		assert.Zero(t, classify.ParseNumeric(c), "%#v", c)
		assert.False(t, classify.IsNumeric(c), "%#v", c)
	}
}

func TestParseNumeric(t *testing.T) {
	for in, want := range map[string]float64{
		"80":          80,
		"2.5":         2.5,
		"1,234.56":    1234.56,
		"1 234":       1234,
		"1.234":       1234,
		"-3":          -3,
		"\u22123.5":   -3.5,
		"\u00a01 500": 1500,
		"0":           0,
	} {
		assert.InDelta(t, want, classify.ParseNumeric(txt(in)), 1e-9, in)
	}
	assert.Equal(t, 12.25, classify.ParseNumeric(num(12.25)))
}

func TestIsDescription(t *testing.T) {
	assert.True(t, classify.IsDescription(txt("SAL"), classify.MinCurveDescription))
	assert.False(t, classify.IsDescription(txt("SAL"), classify.MinStockDescription))
	assert.True(t, classify.IsDescription(txt("AZUCAR GRANULADA"), classify.MinStockDescription))
	assert.False(t, classify.IsDescription(txt("Total Curva A"), classify.MinCurveDescription))
	assert.False(t, classify.IsDescription(txt("1.234,00"), classify.MinCurveDescription))
	assert.False(t, classify.IsDescription(num(12345), classify.MinCurveDescription))
	assert.False(t, classify.IsDescription(stockcover.Cell{}, 0))
	assert.True(t, classify.IsDescription(txt("AÑO"), 3), "runes, not bytes")
}

func TestIsUnit(t *testing.T) {
	for _, s := range []string{"KG", "Und", "LT", "CAJA", "M3"} {
		assert.True(t, classify.IsUnit(txt(s)), s)
	}
	for _, c := range []stockcover.Cell{txt("UNIDAD"), txt("12"), num(1), {}} {
		assert.False(t, classify.IsUnit(c), "%#v", c)
	}
}

func TestRowText(t *testing.T) {
	row := stockcover.Row{{}, txt(" Curva "), {}, txt("A"), num(3)}
	assert.Equal(t, "Curva A 3", classify.RowText(row))
	assert.Equal(t, "", classify.RowText(nil))
}
