// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package parser recovers product tables from the header-less grids of
// the ERP's ABC curve and stock reports.
//
// Both parsers are folds over the grid rows: a small scan state (current
// service and curve, or current family) is threaded from row to row and
// each row yields at most one record. Rows that cannot be classified are
// dropped silently; only a grid without any product is an error.
package parser

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/UNO-SOFT/stockcover"
	"github.com/UNO-SOFT/stockcover/classify"
)

// DefaultUnit is the unit of curve rows without a recognizable unit cell.
const DefaultUnit = "Und"

// ConsumptionRecord is one (product, service section) occurrence in the
// curve report. Consumption is always positive.
type ConsumptionRecord struct {
	PeriodStart time.Time      `json:"period_start"`
	PeriodEnd   time.Time      `json:"period_end"`
	Code        string         `json:"code"`
	Description string         `json:"description"`
	Unit        string         `json:"unit"`
	Curve       classify.Curve `json:"curve"`
	Service     string         `json:"service"`
	Consumption float64        `json:"consumption"`
	// Row is the 0-based grid row the record was read from.
	Row int `json:"row"`
}

// CurveReport is the outcome of ParseCurve.
type CurveReport struct {
	Period  Period
	Records []ConsumptionRecord
}

// Options of the parsers.
type Options struct {
	// Logger defaults to slog.Default.
	Logger *slog.Logger
	Rules  *classify.Rules
	// Source names the input in errors, defaults to "curve" or "stock".
	Source string
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) source(def string) string {
	if o.Source != "" {
		return o.Source
	}
	return def
}

// curveState is the scan state of the curve report.
type curveState struct {
	service string
	curve   classify.Curve
}

func (s curveState) step(rules *classify.Rules, period Period, row stockcover.Row, rowIdx int) (curveState, *ConsumptionRecord) {
	text := classify.RowText(row)
	if text == "" {
		return s, nil
	}
	if rules.IsServiceHeader(text) {
		s.service = rules.ServiceLabel(text)
		return s, nil
	}
	if c := classify.IsCurveMarker(text); c != classify.CurveNone {
		s.curve = c
		return s, nil
	}
	return s, extractConsumption(row, rowIdx, s, period)
}

func extractConsumption(row stockcover.Row, rowIdx int, s curveState, period Period) *ConsumptionRecord {
	code, col, ok := FindCode(row)
	if !ok {
		return nil
	}
	m := CurveLayout.Apply(row, col+1)
	desc, ok := m.Cell(RoleDescription)
	if !ok {
		return nil
	}
	cons, ok := m.Cell(RoleConsumption)
	if !ok {
		return nil
	}
	qty := classify.ParseNumeric(cons)
	if qty <= 0 {
		return nil
	}
	unit := DefaultUnit
	if u, ok := m.Cell(RoleUnit); ok {
		unit = u.String()
	}
	return &ConsumptionRecord{
		Code:        strconv.Itoa(code),
		Description: desc.String(),
		Unit:        unit,
		Consumption: qty,
		Curve:       s.curve,
		Service:     s.service,
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
		Row:         rowIdx,
	}
}

// ParseCurve extracts the analysis period and the consumption records of
// an ABC curve report grid.
//
// It returns a CategoryCurveEmpty *stockcover.Error when no product is found.
func ParseCurve(ctx context.Context, grid stockcover.Grid, opts Options) (*CurveReport, error) {
	logger := opts.logger()
	rules := opts.Rules
	if rules == nil {
		rules = classify.DefaultRules()
	}
	period := ExtractPeriod(grid)
	logger.Debug("period", "period", period.String(), "detected", period.Detected)

	state := curveState{service: rules.DefaultService(), curve: classify.CurveC}
	rep := CurveReport{Period: period}
	for i, row := range grid {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		prev := state
		var rec *ConsumptionRecord
		state, rec = state.step(rules, period, row, i)
		if state.service != prev.service {
			logger.Debug("service", "row", i, "service", state.service)
		} else if state.curve != prev.curve {
			logger.Debug("curve", "row", i, "curve", state.curve)
		}
		if rec != nil {
			rep.Records = append(rep.Records, *rec)
		}
	}
	logger.Info("curve report parsed", "rows", len(grid), "products", len(rep.Records), "period", period.String())
	if len(rep.Records) == 0 {
		return nil, stockcover.NewError(stockcover.CategoryCurveEmpty, opts.source("curve"),
			"no valid products found in the ABC curve report")
	}
	return &rep, nil
}
