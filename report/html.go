// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"io"

	"github.com/valyala/quicktemplate"
	"golang.org/x/text/message"

	"github.com/UNO-SOFT/stockcover/coverage"
)

// HTML writes a standalone HTML page with the summary and all rows.
func HTML(w io.Writer, res *coverage.Result, p *message.Printer) error {
	qw := quicktemplate.AcquireWriter(w)
	defer quicktemplate.ReleaseWriter(qw)
	qn, qe := qw.N(), qw.E()

	qn.S(`<!DOCTYPE html>
<html lang="es"><head><meta charset="utf-8"><title>Análisis de Cobertura</title>
<style>
body{font-family:sans-serif;font-size:13px}
table{border-collapse:collapse}
td,th{border:1px solid #ccc;padding:2px 6px}
td.n{text-align:right}
tr.CRITICAL{background:#fdd}tr.LOW{background:#ffd}
</style></head><body>
<h1>Análisis de Cobertura de Stock</h1>
<p>Período: `)
	qe.S(res.Period.String())
	qn.S(`</p>
<table><tbody>
`)
	s := res.Summary
	for _, kv := range [][2]string{
		{"Total productos", p.Sprintf("%d", s.Total)},
		{"Productos críticos", p.Sprintf("%d (%.1f%%)", s.Critical, s.CriticalPct)},
		{"Productos stock bajo", p.Sprintf("%d", s.Low)},
		{"Valor del inventario", p.Sprintf("%.2f", s.StockValue.Round(2).InexactFloat64())},
	} {
		qn.S("<tr><th>")
		qe.S(kv[0])
		qn.S(`</th><td class="n">`)
		qe.S(kv[1])
		qn.S("</td></tr>\n")
	}
	qn.S("</tbody></table>\n")

	qn.S("<h2>Rangos de Cobertura</h2>\n<table><tbody>\n")
	for _, r := range s.CoverageRanges {
		qn.S("<tr><th>")
		qe.S(r.Label)
		qn.S(`</th><td class="n">`)
		qn.D(r.Count)
		qn.S("</td></tr>\n")
	}
	qn.S("</tbody></table>\n")

	if len(s.Families) != 0 {
		qn.S(`<h2>Análisis por Familia</h2>
<table><thead><tr><th>Familia</th><th>Productos</th><th>Críticos</th><th>% Críticos</th><th>Cobertura Promedio</th></tr></thead><tbody>
`)
		for _, f := range s.Families {
			qn.S("<tr><td>")
			qe.S(f.Family)
			qn.S(`</td><td class="n">`)
			qn.D(f.Count)
			qn.S(`</td><td class="n">`)
			qn.D(f.Critical)
			qn.S(`</td><td class="n">`)
			qe.S(p.Sprintf("%.1f%%", f.CriticalPct))
			qn.S(`</td><td class="n">`)
			qe.S(p.Sprintf("%.1f", f.AvgCoverage))
			qn.S("</td></tr>\n")
		}
		qn.S("</tbody></table>\n")
	}

	if len(res.Alerts) != 0 {
		qn.S("<ul>\n")
		for _, a := range res.Alerts {
			qn.S(`<li class="`)
			qe.S(string(a.Level))
			qn.S(`"><b>`)
			qe.S(a.Title)
			qn.S("</b>: ")
			qe.S(a.Message)
			qn.S("</li>\n")
		}
		qn.S("</ul>\n")
	}

	qn.S("<h2>Análisis Completo</h2>\n<table><thead><tr>")
	for _, c := range rowColumns {
		qn.S("<th>")
		qe.S(c.Name)
		qn.S("</th>")
	}
	qn.S("</tr></thead><tbody>\n")
	for _, r := range res.Rows {
		qn.S(`<tr class="`)
		qe.S(string(r.Status))
		qn.S(`">`)
		for _, v := range []string{r.Code, r.Description, r.Unit, string(r.Curve), r.Service, r.Family} {
			qn.S("<td>")
			qe.S(v)
			qn.S("</td>")
		}
		for _, f := range []float64{r.StockQuantity, r.TotalConsumption, r.DailyConsumption} {
			qn.S(`<td class="n">`)
			qe.S(p.Sprintf("%.2f", f))
			qn.S("</td>")
		}
		qn.S(`<td class="n">`)
		qe.S(p.Sprintf("%.1f", r.CoverageDays))
		qn.S("</td><td>")
		qe.S(r.Status.Label())
		qn.S("</td><td>")
		qe.S(r.BreakageDate)
		qn.S("</td></tr>\n")
	}
	qn.S("</tbody></table>\n</body></html>\n")
	return nil
}
