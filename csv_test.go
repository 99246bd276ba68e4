// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package stockcover

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestSniffSeparator(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want rune
	}{
		{"a,b,c\n1;2", ','},
		{"Código;Descripción;Stock\n", ';'},
		{"a\tb\tc", '\t'},
		{"a|b|c,d", '|'},
		{"single", ','},
		{"", ','},
	} {
		assert.Equal(t, string(tc.want), string(sniffSeparator(tc.in)), "%q", tc.in)
	}
}

func TestReadCsvGrid(t *testing.T) {
	in := "\xEF\xBB\xBFRango;01/09/2025;08/09/2025\n100;ARROZ;;80\n\n200;\"ACEITE; VEGETAL\";LT;1.234,5\n"
	g, err := ReadCsvGrid(strings.NewReader(in), "utf-8")
	require.NoError(t, err)
	require.Len(t, g, 3)
	assert.Equal(t, "Rango", g[0][0].String())
	assert.Equal(t, 4, g.Width())
	assert.True(t, g[1][2].IsEmpty())
	assert.Equal(t, Text, g[1][0].Kind)
	assert.Equal(t, "ACEITE; VEGETAL", g[2][1].String())
}

func TestReadCsvGridCharset(t *testing.T) {
	var buf bytes.Buffer
	w := charmap.ISO8859_1.NewEncoder().Writer(&buf)
	_, err := w.Write([]byte("100,CAFÉ MOLIDO,KG,12\n"))
	require.NoError(t, err)

	g, err := ReadCsvGrid(&buf, "iso-8859-1")
	require.NoError(t, err)
	require.Len(t, g, 1)
	assert.Equal(t, "CAFÉ MOLIDO", g[0][1].String())
}

func TestReadCsvGridEmpty(t *testing.T) {
	g, err := ReadCsvGrid(strings.NewReader(""), "")
	require.NoError(t, err)
	assert.Empty(t, g)

	_, err = ReadCsvGrid(strings.NewReader("a"), "no-such-charset")
	assert.Error(t, err)
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "100", NumberCell(100).String())
	assert.Equal(t, "2.5", NumberCell(2.5).String())
	assert.Equal(t, "x", TextCell("  x ").String())
	assert.True(t, TextCell("   ").IsEmpty())
	assert.Equal(t, "", Cell{}.String())
}
