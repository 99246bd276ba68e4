// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package report_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/UNO-SOFT/stockcover/classify"
	"github.com/UNO-SOFT/stockcover/coverage"
	"github.com/UNO-SOFT/stockcover/parser"
	"github.com/UNO-SOFT/stockcover/report"
)

func sampleResult(t *testing.T) *coverage.Result {
	t.Helper()
	consumption := []parser.ConsumptionRecord{
		{Code: "100", Description: "ARROZ <grano>", Unit: "KG", Curve: classify.CurveA, Service: "Almuerzo", Consumption: 80},
		{Code: "200", Description: "ACEITE", Unit: "LT", Curve: classify.CurveB, Service: "Cena", Consumption: 8},
	}
	stock := []parser.StockRecord{
		{Code: "100", Description: "ARROZ GRADO 1", Unit: "KG", Family: "ABARROTES", Quantity: 24, UnitPrice: 1000},
		{Code: "200", Description: "ACEITE VEGETAL", Unit: "LT", Family: "ABARROTES", Quantity: 100, UnitPrice: 2000},
		{Code: "300", Description: "SAL DE MESA", Unit: "KG", Family: "ABARROTES", Quantity: 0, UnitPrice: 300},
	}
	period := parser.DefaultPeriod()
	rows, err := coverage.Analyze(consumption, stock, period, coverage.Options{
		Now: func() time.Time { return time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return &coverage.Result{
		RunID: "run-1", Period: period, Rows: rows,
		Summary: coverage.Summarize(rows), Alerts: coverage.Alerts(rows),
	}
}

func TestFormatOf(t *testing.T) {
	for _, tc := range []struct {
		name   string
		format report.Format
		gz     bool
		err    bool
	}{
		{"out.xlsx", report.FormatXLSX, false, false},
		{"OUT.PDF", report.FormatPDF, false, false},
		{"r.htm", report.FormatHTML, false, false},
		{"r.csv.gz", report.FormatCSV, true, false},
		{"r.json.gz", report.FormatJSON, true, false},
		{"r.xlsx.gz", "", true, true},
		{"r.txt", "", false, true},
		{"r", "", false, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f, gz, err := report.FormatOf(tc.name)
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.format, f)
			assert.Equal(t, tc.gz, gz)
		})
	}
	f, err := report.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, report.FormatJSON, f)
	assert.Equal(t, "application/pdf", report.FormatPDF.ContentType())
}

func TestWorkbook(t *testing.T) {
	res := sampleResult(t)
	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, report.FormatXLSX, res, report.Options{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, report.SheetNames, f.GetSheetList())

	rows, err := f.GetRows(report.SheetAnalysis)
	require.NoError(t, err)
	assert.Len(t, rows, 1+len(res.Rows))
	assert.Equal(t, "Código", rows[0][0])
	assert.Equal(t, "100", rows[1][0])

	rows, err = f.GetRows(report.SheetCritical)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "CRÍTICO", rows[1][10])

	rows, err = f.GetRows(report.SheetReplenish)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[1][0])

	rows, err = f.GetRows(report.SheetCurves)
	require.NoError(t, err)
	assert.Len(t, rows, 1+len(res.Summary.Curves))

	rows, err = f.GetRows(report.SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Métrica", "Valor"}, rows[0])
	assert.Equal(t, "Período", rows[1][0])
	values := make(map[string]string, len(rows))
	for _, r := range rows {
		if len(r) == 2 {
			values[r[0]] = r[1]
		}
	}
	assert.Equal(t, "1", values["Cobertura 0-3 días"])
	assert.Equal(t, "0", values["Cobertura 4-7 días"])
	assert.Equal(t, "1", values["Cobertura 30+ días"])
	assert.Equal(t, "3 productos, 1 críticos (33.3%), cobertura 51.2 días", values["Familia ABARROTES"])
}

func TestCSV(t *testing.T) {
	res := sampleResult(t)
	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, report.FormatCSV, res, report.Options{BOM: true, CriticalOnly: true}))
	b := buf.Bytes()
	require.True(t, bytes.HasPrefix(b, []byte("\xEF\xBB\xBF")))
	recs, err := csv.NewReader(bytes.NewReader(b[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []string{
		"100", "ARROZ <grano>", "KG", "A", "Almuerzo", "ABARROTES",
		"24.00", "80.00", "10.0000", "2.4", "CRÍTICO", "03/10/2025",
	}, recs[1])

	buf.Reset()
	require.NoError(t, report.Write(&buf, report.FormatCSV, res, report.Options{Gzip: true}))
	zr, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	recs, err = csv.NewReader(bytes.NewReader(plain)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, recs, 1+len(res.Rows))
}

func TestJSON(t *testing.T) {
	res := sampleResult(t)
	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, report.FormatJSON, res, report.Options{}))
	var got struct {
		RunID  string         `json:"run_id"`
		Rows   []coverage.Row `json:"rows"`
		Period struct {
			Days int `json:"days"`
		} `json:"period"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, 8, got.Period.Days)
	assert.Equal(t, res.Rows, got.Rows)
}

func TestHTML(t *testing.T) {
	res := sampleResult(t)
	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, report.FormatHTML, res, report.Options{}))
	s := buf.String()
	assert.Contains(t, s, "<!DOCTYPE html>")
	assert.Contains(t, s, "ARROZ &lt;grano&gt;")
	assert.NotContains(t, s, "<grano>")
	assert.Contains(t, s, `<tr class="CRITICAL">`)
	assert.Contains(t, s, "Productos sin Stock")
	assert.Contains(t, s, "<h2>Rangos de Cobertura</h2>")
	assert.Contains(t, s, `<tr><th>0-3 días</th><td class="n">1</td></tr>`)
	assert.Contains(t, s, "<h2>Análisis por Familia</h2>")
	assert.Contains(t, s, `<tr><td>ABARROTES</td><td class="n">3</td><td class="n">1</td>`)
}

func TestPDF(t *testing.T) {
	res := sampleResult(t)
	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, report.FormatPDF, res, report.Options{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
