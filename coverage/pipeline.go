// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package coverage

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/UNO-SOFT/stockcover"
	"github.com/UNO-SOFT/stockcover/classify"
	"github.com/UNO-SOFT/stockcover/parser"
)

// RunOptions configures one analysis run.
type RunOptions struct {
	Options
	Rules *classify.Rules
	// PeriodDays overrides the detected period length when positive.
	PeriodDays int
}

// Result is everything one run produced.
type Result struct {
	RunID       string                     `json:"run_id"`
	Period      parser.Period              `json:"period"`
	Consumption []parser.ConsumptionRecord `json:"-"`
	Stock       []parser.StockRecord       `json:"-"`
	Rows        []Row                      `json:"rows"`
	Summary     Summary                    `json:"summary"`
	Alerts      []Alert                    `json:"alerts"`
}

// Run parses both grids and analyzes them. Runs share no state.
func Run(ctx context.Context, curveGrid, stockGrid stockcover.Grid, opts RunOptions) (*Result, error) {
	res := Result{RunID: uuid.NewString()}
	logger := opts.logger().With("run", res.RunID)
	popts := parser.Options{Logger: logger, Rules: opts.Rules}

	curve, err := parser.ParseCurve(ctx, curveGrid, popts)
	if err != nil {
		return nil, err
	}
	stock, err := parser.ParseStock(ctx, stockGrid, popts)
	if err != nil {
		return nil, err
	}
	res.Period, res.Consumption, res.Stock = curve.Period, curve.Records, stock
	if opts.PeriodDays > 0 && opts.PeriodDays != res.Period.Days {
		logger.Info("period length overridden", "detected", res.Period.Days, "days", opts.PeriodDays)
		res.Period.End = res.Period.Start.AddDate(0, 0, opts.PeriodDays-1)
		res.Period.Days = opts.PeriodDays
		for i := range res.Consumption {
			res.Consumption[i].PeriodStart = res.Period.Start
			res.Consumption[i].PeriodEnd = res.Period.End
		}
	}

	aopts := opts.Options
	aopts.Logger = logger
	if res.Rows, err = Analyze(res.Consumption, res.Stock, res.Period, aopts); err != nil {
		return nil, err
	}
	res.Summary = Summarize(res.Rows)
	res.Alerts = Alerts(res.Rows)
	logger.Info("run finished", slog.Int("rows", len(res.Rows)),
		slog.Int("critical", res.Summary.Critical), slog.Int("low", res.Summary.Low))
	return &res, nil
}
