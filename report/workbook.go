// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"

	"github.com/UNO-SOFT/stockcover"
	"github.com/UNO-SOFT/stockcover/coverage"
)

// Sheet names of the analysis workbook, in order.
const (
	SheetSummary   = "Resumen Ejecutivo"
	SheetCritical  = "Productos Críticos"
	SheetAnalysis  = "Análisis Completo"
	SheetReplenish = "Reporte Reposición"
	SheetCurves    = "Métricas por Curva"
)

// SheetNames lists the workbook sheets in order.
var SheetNames = []string{SheetSummary, SheetCritical, SheetAnalysis, SheetReplenish, SheetCurves}

func column(name string, format string, width float64) stockcover.Column {
	return stockcover.Column{
		Name:   name,
		Header: stockcover.Style{FontBold: true},
		Column: stockcover.Style{Format: format, Width: width},
	}
}

var rowColumns = []stockcover.Column{
	column("Código", "", 10),
	column("Descripción", "", 40),
	column("Unidad", "", 8),
	column("Curva", "", 10),
	column("Servicio", "", 22),
	column("Familia", "", 22),
	column("Stock", stockcover.FormatQuantity, 12),
	column("Consumo Total", stockcover.FormatQuantity, 14),
	column("Consumo Diario", stockcover.FormatQuantity, 14),
	column("Cobertura (días)", stockcover.FormatDays, 14),
	column("Estado", "", 12),
	column("Fecha Quiebre", "", 14),
}

func rowValues(r coverage.Row) []any {
	return []any{
		r.Code, r.Description, r.Unit, string(r.Curve), r.Service, r.Family,
		r.StockQuantity, r.TotalConsumption, r.DailyConsumption, r.CoverageDays,
		r.Status.Label(), r.BreakageDate,
	}
}

// Workbook writes the five analysis sheets into w.
// The caller closes w.
func Workbook(w stockcover.Writer, res *coverage.Result) error {
	if err := summarySheet(w, res); err != nil {
		return fmt.Errorf("%s: %w", SheetSummary, err)
	}
	if err := rowSheet(w, SheetCritical, coverage.Critical(res.Rows)); err != nil {
		return fmt.Errorf("%s: %w", SheetCritical, err)
	}
	if err := rowSheet(w, SheetAnalysis, res.Rows); err != nil {
		return fmt.Errorf("%s: %w", SheetAnalysis, err)
	}
	if err := replenishSheet(w, coverage.Replenishment(res.Rows)); err != nil {
		return fmt.Errorf("%s: %w", SheetReplenish, err)
	}
	if err := curveSheet(w, res.Summary.Curves); err != nil {
		return fmt.Errorf("%s: %w", SheetCurves, err)
	}
	return nil
}

func summarySheet(w stockcover.Writer, res *coverage.Result) error {
	title := column("Métrica", "", 30)
	title.Header.FontSize = 12
	sh, err := w.NewSheet(SheetSummary, []stockcover.Column{
		title, column("Valor", "", 48),
	})
	if err != nil {
		return err
	}
	s := res.Summary
	lines := [][2]any{
		{"Período", res.Period.String()},
		{"Días del período", res.Period.Days},
		{"Total productos", s.Total},
		{"Productos críticos", s.Critical},
		{"Productos stock bajo", s.Low},
		{"% críticos", fmt.Sprintf("%.1f%%", s.CriticalPct)},
		{"Valor del inventario", s.StockValue.Round(2).InexactFloat64()},
	}
	for _, st := range coverage.Statuses {
		lines = append(lines, [2]any{"Estado " + st.Label(), s.ByStatus[st]})
	}
	for _, m := range s.Curves {
		lines = append(lines, [2]any{"Curva " + string(m.Curve), s.ByCurve[m.Curve]})
	}
	for _, r := range s.CoverageRanges {
		lines = append(lines, [2]any{"Cobertura " + r.Label, r.Count})
	}
	for _, f := range s.Families {
		lines = append(lines, [2]any{"Familia " + f.Family, fmt.Sprintf(
			"%d productos, %d críticos (%.1f%%), cobertura %.1f días",
			f.Count, f.Critical, f.CriticalPct, f.AvgCoverage)})
	}
	for _, l := range lines {
		if err := sh.AppendRow(l[0], l[1]); err != nil {
			return err
		}
	}
	return sh.Close()
}

func rowSheet(w stockcover.Writer, name string, rows []coverage.Row) error {
	sh, err := w.NewSheet(name, rowColumns)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := sh.AppendRow(rowValues(r)...); err != nil {
			return err
		}
	}
	return sh.Close()
}

func replenishSheet(w stockcover.Writer, suggestions []coverage.Suggestion) error {
	sh, err := w.NewSheet(SheetReplenish, []stockcover.Column{
		column("Prioridad", "", 10),
		column("Código", "", 10),
		column("Descripción", "", 40),
		column("Unidad", "", 8),
		column("Curva", "", 8),
		column("Stock", stockcover.FormatQuantity, 12),
		column("Consumo Diario", stockcover.FormatQuantity, 14),
		column("Cobertura (días)", stockcover.FormatDays, 14),
		column("Cantidad Sugerida", stockcover.FormatQuantity, 16),
		column("Fecha Quiebre", "", 14),
	})
	if err != nil {
		return err
	}
	for _, s := range suggestions {
		if err := sh.AppendRow(
			s.Priority, s.Code, s.Description, s.Unit, string(s.Curve),
			s.StockQuantity, s.DailyConsumption, s.CoverageDays,
			s.SuggestedQuantity, s.BreakageDate,
		); err != nil {
			return err
		}
	}
	return sh.Close()
}

func curveSheet(w stockcover.Writer, curves []coverage.CurveMetrics) error {
	sh, err := w.NewSheet(SheetCurves, []stockcover.Column{
		column("Curva", "", 16),
		column("Productos", "", 10),
		column("Stock Total", stockcover.FormatQuantity, 14),
		column("Stock Promedio", stockcover.FormatQuantity, 14),
		column("Consumo Diario Total", stockcover.FormatQuantity, 18),
		column("Consumo Diario Promedio", stockcover.FormatQuantity, 20),
		column("Cobertura Promedio", stockcover.FormatDays, 16),
		column("Cobertura Mínima", stockcover.FormatDays, 16),
		column("Cobertura Máxima", stockcover.FormatDays, 16),
	})
	if err != nil {
		return err
	}
	for _, m := range curves {
		if err := sh.AppendRow(
			string(m.Curve), m.Count, m.StockSum, m.StockMean, m.DailySum, m.DailyMean,
			m.CoverageAvg, m.CoverageMin, m.CoverageMax,
		); err != nil {
			return err
		}
	}
	return sh.Close()
}
