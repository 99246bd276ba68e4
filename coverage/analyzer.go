// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package coverage joins the consumption and stock records of one run,
// computes daily consumption and coverage days, and classifies every
// product by replenishment urgency.
package coverage

import (
	"fmt"
	"math"
	"time"

	"github.com/UNO-SOFT/stockcover"
	"github.com/UNO-SOFT/stockcover/classify"
	"github.com/UNO-SOFT/stockcover/parser"
)

// Consolidated is the consumption of one product summed over its records.
// Description, unit, curve and service are the first seen values, which
// is scan order, not business meaning.
type Consolidated struct {
	Code        string
	Description string
	Unit        string
	Curve       classify.Curve
	Service     string
	Total       float64
	Records     int
}

// Consolidate groups the records by code, keeping the first-seen order.
func Consolidate(records []parser.ConsumptionRecord, policy ServicePolicy) []Consolidated {
	idx := make(map[string]int, len(records))
	var out []Consolidated
	for _, r := range records {
		i, ok := idx[r.Code]
		if !ok {
			idx[r.Code] = len(out)
			out = append(out, Consolidated{
				Code: r.Code, Description: r.Description, Unit: r.Unit,
				Curve: r.Curve, Service: r.Service,
				Total: r.Consumption, Records: 1,
			})
			continue
		}
		out[i].Total += r.Consumption
		out[i].Records++
	}
	if policy == ServiceCount {
		for i, c := range out {
			if c.Records > 1 {
				out[i].Service = fmt.Sprintf("%d servicios", c.Records)
			}
		}
	}
	return out
}

// Analyze computes the coverage of every stock product.
//
// With JoinRight every distinct stock code yields exactly one row, in stock
// order; products consumed but not in stock are dropped. Duplicate stock
// codes keep their first record.
func Analyze(consumption []parser.ConsumptionRecord, stock []parser.StockRecord, period parser.Period, opts Options) ([]Row, error) {
	if len(consumption) == 0 {
		return nil, stockcover.NewError(stockcover.CategoryCurveEmpty, "curve", "no consumption records to analyze")
	}
	if len(stock) == 0 {
		return nil, stockcover.NewError(stockcover.CategoryStockEmpty, "stock", "no stock records to analyze")
	}
	if period.Days < 1 {
		period = parser.DefaultPeriod()
	}
	logger := opts.logger()
	days := float64(period.Days)

	cons := Consolidate(consumption, opts.Service)
	byCode := make(map[string]*Consolidated, len(cons))
	for i := range cons {
		byCode[cons[i].Code] = &cons[i]
	}
	logger.Debug("consolidated", "records", len(consumption), "products", len(cons))

	today := opts.now()
	seen := make(map[string]struct{}, len(stock))
	rows := make([]Row, 0, len(stock))
	var matched int
	for _, s := range stock {
		if _, dup := seen[s.Code]; dup {
			continue
		}
		seen[s.Code] = struct{}{}
		c := byCode[s.Code]
		if c == nil && opts.Join == JoinInner {
			continue
		}
		row := Row{
			Code:          s.Code,
			Unit:          s.Unit,
			Family:        s.Family,
			StockQuantity: s.Quantity,
			UnitPrice:     s.UnitPrice,
		}
		if c != nil {
			matched++
			row.Description = c.Description
			if c.Unit != "" && c.Unit != parser.DefaultUnit {
				row.Unit = c.Unit
			}
			row.Curve = c.Curve
			row.Service = c.Service
			row.TotalConsumption = c.Total
			row.DailyConsumption = c.Total / days
		} else {
			row.Curve = NoConsumption
			row.Service = NotConsumedService
		}
		if row.Description == "" {
			row.Description = s.Description
		}
		if row.Description == "" {
			row.Description = UnknownDescription
		}
		fill(&row, today)
		rows = append(rows, row)
	}
	logger.Info("coverage analyzed", "stock", len(stock), "consumed", len(cons),
		"matched", matched, "rows", len(rows), "join", opts.Join.String(), "days", period.Days)
	if len(rows) == 0 {
		return nil, stockcover.NewError(stockcover.CategoryJoinEmpty, "",
			"no product in common between the ABC curve and the stock report")
	}
	return rows, nil
}

// maxBreakageDays keeps the breakage date of nearly idle products representable.
const maxBreakageDays = 100 * 365

// fill computes coverage, status and breakage date from the quantities.
func fill(row *Row, today time.Time) {
	if row.DailyConsumption > 0 {
		row.CoverageDays = row.StockQuantity / row.DailyConsumption
		days := math.Min(math.Floor(row.CoverageDays), maxBreakageDays)
		row.BreakageDate = today.AddDate(0, 0, int(days)).Format(BreakageLayout)
	} else {
		row.CoverageDays = UnboundedCoverage
		row.BreakageDate = NoBreakage
	}
	row.Status = Classify(row.CoverageDays, row.DailyConsumption, row.Curve)
}
