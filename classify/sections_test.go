// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package classify_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UNO-SOFT/stockcover/classify"
)

func TestIsCurveMarker(t *testing.T) {
	assert.Equal(t, classify.CurveA, classify.IsCurveMarker("Curva A"))
	assert.Equal(t, classify.CurveB, classify.IsCurveMarker("Productos Curva B (80%)"))
	assert.Equal(t, classify.CurveC, classify.IsCurveMarker("Curva C"))
	assert.Equal(t, classify.CurveNone, classify.IsCurveMarker("curva a"))
	assert.Equal(t, classify.CurveNone, classify.IsCurveMarker("100 ARROZ 80"))
	assert.False(t, classify.CurveNone.Valid())
}

func TestFamilyHeader(t *testing.T) {
	for _, s := range []string{"10 ABARROTES", "  205 LÁCTEOS Y HUEVOS ", "3 CARNES"} {
		assert.True(t, classify.IsFamilyHeader(s), s)
	}
	for _, s := range []string{"ABARROTES", "10 Abarrotes", "10 ABARROTES 25", "100 ARROZ GRADO 1 KG 24", ""} {
		assert.False(t, classify.IsFamilyHeader(s), s)
	}
	assert.Equal(t, "LÁCTEOS Y HUEVOS", classify.FamilyName("205 LÁCTEOS Y HUEVOS"))
	long := "1 " + strings.Repeat("A", 80)
	assert.Equal(t, strings.Repeat("A", 50), classify.FamilyName(long))
}

func TestServiceHeader(t *testing.T) {
	rules := classify.DefaultRules()
	for _, tc := range []struct {
		text   string
		header bool
		label  string
	}{
		{"Servicio: Almuerzo", true, "Almuerzo"},
		{"Servicio: Colacion nocturna", true, "Colación"},
		{"Servicio: Merienda", true, "Merienda"},
		{"Servicio:", true, "Servicio"},
		{"2 ALMUERZO", true, "Almuerzo"},
		{"4. COLACION ESPECIAL", true, "Colación"},
		{"Servicio Almuerzo", false, ""},
		{"1 DESAYUNO", true, "Desayuno"},
		{"12 DESAYUNO", false, ""},
		{"100 CENA CONGELADA 12", false, ""},
		{"Curva A", false, ""},
	} {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.header, rules.IsServiceHeader(tc.text))
			if tc.header {
				assert.Equal(t, tc.label, rules.ServiceLabel(tc.text))
			}
		})
	}
	var nilRules *classify.Rules
	assert.Equal(t, "Servicio General", nilRules.DefaultService())
	assert.True(t, nilRules.IsServiceHeader("Servicio: Cena"))
}

func TestRulesYAML(t *testing.T) {
	def := classify.DefaultRules()
	b, err := def.Marshal()
	require.NoError(t, err)
	got, err := classify.ParseRules(b)
	require.NoError(t, err)
	assert.Equal(t, def, got)

	fn := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(fn, []byte(`
marker: Turno
ids:
  - id: "7"
    keyword: MERIENDA
    label: Merienda
`), 0o600))
	rules, err := classify.LoadRules(fn)
	require.NoError(t, err)
	assert.Equal(t, "Servicio General", rules.Default)
	assert.Equal(t, def.Labels, rules.Labels)
	assert.True(t, rules.IsServiceHeader("Turno: noche"))
	assert.False(t, rules.IsServiceHeader("Servicio: Cena"))
	assert.True(t, rules.IsServiceHeader("7 MERIENDA"))
	assert.Equal(t, "Merienda", rules.ServiceLabel("7 MERIENDA"))

	_, err = classify.ParseRules([]byte("unknown: 1\n"))
	assert.Error(t, err)
	_, err = classify.ParseRules([]byte("ids:\n  - id: \"1\"\n"))
	assert.Error(t, err)
}
