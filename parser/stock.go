// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"context"
	"strconv"

	"github.com/UNO-SOFT/stockcover"
	"github.com/UNO-SOFT/stockcover/classify"
)

// StockRecord is one product row of the stock report.
// Code is never empty, Quantity and UnitPrice are never negative.
type StockRecord struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	Family      string  `json:"family"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalValue  float64 `json:"total_value"`
	Row         int     `json:"row"`
}

type stockState struct {
	family string
}

func (s stockState) step(row stockcover.Row, rowIdx int) (stockState, *StockRecord) {
	text := classify.RowText(row)
	if text == "" {
		return s, nil
	}
	if classify.IsFamilyHeader(text) {
		s.family = classify.FamilyName(text)
		return s, nil
	}
	return s, extractStock(row, rowIdx, s)
}

func extractStock(row stockcover.Row, rowIdx int, s stockState) *StockRecord {
	code, col, ok := FindCode(row)
	if !ok {
		return nil
	}
	m := StockLayout.Apply(row, col+1)
	desc, ok := m.Cell(RoleDescription)
	if !ok {
		return nil
	}
	rec := StockRecord{
		Code:        strconv.Itoa(code),
		Description: desc.String(),
		Unit:        DefaultUnit,
		Family:      s.family,
		Row:         rowIdx,
	}
	if u, ok := m.Cell(RoleUnit); ok {
		rec.Unit = u.String()
	}
	if c, ok := m.Cell(RoleQuantity); ok {
		rec.Quantity = max(0, classify.ParseNumeric(c))
	}
	if c, ok := m.Cell(RoleUnitPrice); ok {
		rec.UnitPrice = max(0, classify.ParseNumeric(c))
	}
	if c, ok := m.Cell(RoleTotal); ok {
		rec.TotalValue = classify.ParseNumeric(c)
	}
	return &rec
}

// ParseStock extracts the stock records of a stock report grid.
//
// It returns a CategoryStockEmpty *stockcover.Error when no product is found.
func ParseStock(ctx context.Context, grid stockcover.Grid, opts Options) ([]StockRecord, error) {
	logger := opts.logger()
	state := stockState{family: classify.DefaultFamily}
	var records []StockRecord
	for i, row := range grid {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		prev := state
		var rec *StockRecord
		state, rec = state.step(row, i)
		if state.family != prev.family {
			logger.Debug("family", "row", i, "family", state.family)
		}
		if rec != nil {
			records = append(records, *rec)
		}
	}
	logger.Info("stock report parsed", "rows", len(grid), "products", len(records))
	if len(records) == 0 {
		return nil, stockcover.NewError(stockcover.CategoryStockEmpty, opts.source("stock"),
			"no valid products found in the stock report")
	}
	return records, nil
}
