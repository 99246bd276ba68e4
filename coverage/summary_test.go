// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package coverage_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UNO-SOFT/stockcover"
	"github.com/UNO-SOFT/stockcover/classify"
	"github.com/UNO-SOFT/stockcover/coverage"
)

func sampleRows() []coverage.Row {
	mk := func(code, family string, curve classify.Curve, daily, stock, price float64) coverage.Row {
		r := coverage.Row{Code: code, Family: family, Curve: curve, DailyConsumption: daily,
			StockQuantity: stock, UnitPrice: price, TotalConsumption: daily * 8}
		if daily > 0 {
			r.CoverageDays = stock / daily
		} else {
			r.CoverageDays = coverage.UnboundedCoverage
		}
		r.Status = coverage.Classify(r.CoverageDays, daily, curve)
		return r
	}
	return []coverage.Row{
		mk("1", "ABARROTES", classify.CurveA, 10, 24, 1.1),    // 2.4 days, CRITICAL
		mk("2", "LACTEOS", classify.CurveA, 10, 50, 2),        // 5 days, LOW
		mk("3", "ABARROTES", classify.CurveB, 1, 1, 0.1),      // 1 day, CRITICAL
		mk("4", "LACTEOS", classify.CurveC, 2, 40, 3),         // 20 days, NORMAL
		mk("5", "ABARROTES", coverage.NoConsumption, 0, 0, 5), // NOT_CONSUMED, no stock
	}
}

func TestSummarize(t *testing.T) {
	s := coverage.Summarize(sampleRows())
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.Critical)
	assert.Equal(t, 1, s.Low)
	assert.InDelta(t, 40.0, s.CriticalPct, 1e-9)
	assert.Equal(t, map[coverage.Status]int{
		coverage.StatusCritical: 2, coverage.StatusLow: 1,
		coverage.StatusNormal: 1, coverage.StatusNotConsumed: 1,
	}, s.ByStatus)
	assert.Equal(t, 2, s.ByCurve[classify.CurveA])
	assert.Equal(t, 1, s.ByCurve[coverage.NoConsumption])

	// 24*1.1 + 50*2 + 1*0.1 + 40*3
	assert.True(t, decimal.RequireFromString("246.5").Equal(s.StockValue.Round(6)), s.StockValue.String())

	assert.InDelta(t, 3.7, s.AvgCoverage[classify.CurveA], 1e-9)
	assert.InDelta(t, 1.0, s.AvgCoverage[classify.CurveB], 1e-9)
	_, ok := s.AvgCoverage[coverage.NoConsumption]
	assert.False(t, ok, "unconsumed rows do not count in the averages")

	require.Len(t, s.Curves, 4)
	assert.Equal(t, classify.CurveA, s.Curves[0].Curve)
	assert.Equal(t, coverage.NoConsumption, s.Curves[3].Curve)
	a := s.Curves[0]
	assert.Equal(t, 2, a.Count)
	assert.InDelta(t, 74.0, a.StockSum, 1e-9)
	assert.InDelta(t, 37.0, a.StockMean, 1e-9)
	assert.InDelta(t, 2.4, a.CoverageMin, 1e-9)
	assert.InDelta(t, 5.0, a.CoverageMax, 1e-9)

	require.Len(t, s.Families, 2)
	ab, lac := s.Families[0], s.Families[1]
	assert.Equal(t, "ABARROTES", ab.Family, "highest critical share first")
	assert.Equal(t, 3, ab.Count)
	assert.Equal(t, 2, ab.Critical)
	assert.InDelta(t, 200.0/3, ab.CriticalPct, 1e-9)
	assert.InDelta(t, 1.7, ab.AvgCoverage, 1e-9, "unconsumed rows do not count in the family mean")
	assert.Equal(t, map[coverage.Status]int{
		coverage.StatusCritical: 2, coverage.StatusNotConsumed: 1,
	}, ab.ByStatus)
	assert.Equal(t, "LACTEOS", lac.Family)
	assert.Equal(t, 2, lac.Count)
	assert.Zero(t, lac.Critical)
	assert.Zero(t, lac.CriticalPct)
	assert.InDelta(t, 12.5, lac.AvgCoverage, 1e-9)
	assert.Equal(t, map[coverage.Status]int{
		coverage.StatusLow: 1, coverage.StatusNormal: 1,
	}, lac.ByStatus)

	require.Len(t, s.CoverageRanges, 5)
	labels := make([]string, 0, len(s.CoverageRanges))
	counts := make([]int, 0, len(s.CoverageRanges))
	for _, r := range s.CoverageRanges {
		labels = append(labels, r.Label)
		counts = append(counts, r.Count)
	}
	assert.Equal(t, []string{"0-3 días", "4-7 días", "8-15 días", "16-30 días", "30+ días"}, labels)
	assert.Equal(t, []int{2, 1, 0, 1, 0}, counts, "the unconsumed row is left out")

	empty := coverage.Summarize(nil)
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.CriticalPct)
	assert.Empty(t, empty.Curves)
	assert.Nil(t, empty.Families)
	require.Len(t, empty.CoverageRanges, 5)
	for _, r := range empty.CoverageRanges {
		assert.Zero(t, r.Count, r.Label)
	}
}

func TestCoverageRangeBounds(t *testing.T) {
	for _, tc := range []struct {
		days  float64
		label string
	}{
		{0, "0-3 días"},
		{3, "0-3 días"},
		{3.5, "4-7 días"},
		{7, "4-7 días"},
		{15, "8-15 días"},
		{30, "16-30 días"},
		{30.1, "30+ días"},
	} {
		rows := []coverage.Row{{DailyConsumption: 1, CoverageDays: tc.days}}
		var got string
		for _, r := range coverage.CoverageRanges(rows) {
			if r.Count != 0 {
				got = r.Label
			}
		}
		assert.Equal(t, tc.label, got, "%g days", tc.days)
	}
}

func TestFamiliesWithoutFamily(t *testing.T) {
	rows := sampleRows()
	for i := range rows {
		rows[i].Family = ""
	}
	assert.Nil(t, coverage.Families(rows))
}

func TestByStatus(t *testing.T) {
	crit := coverage.Critical(sampleRows())
	require.Len(t, crit, 2)
	assert.Equal(t, "3", crit[0].Code, "shortest coverage first")
	assert.Equal(t, "1", crit[1].Code)
	assert.Len(t, coverage.ByCurve(sampleRows(), classify.CurveA), 2)
	assert.Empty(t, coverage.ByStatus(sampleRows(), coverage.StatusHigh))
}

func TestReplenishment(t *testing.T) {
	sugg := coverage.Replenishment(sampleRows())
	require.Len(t, sugg, 3)
	assert.Equal(t, []string{"3", "1", "2"}, []string{sugg[0].Code, sugg[1].Code, sugg[2].Code})
	assert.Equal(t, []int{1, 1, 2}, []int{sugg[0].Priority, sugg[1].Priority, sugg[2].Priority})
	// target days: A 30, B 20
	assert.InDelta(t, 19.0, sugg[0].SuggestedQuantity, 1e-9)
	assert.InDelta(t, 276.0, sugg[1].SuggestedQuantity, 1e-9)
	assert.InDelta(t, 250.0, sugg[2].SuggestedQuantity, 1e-9)
	assert.Equal(t, 15.0, coverage.TargetDays(classify.CurveC))
	assert.Equal(t, 20.0, coverage.TargetDays(coverage.NoConsumption))
}

func TestAlerts(t *testing.T) {
	alerts := coverage.Alerts(sampleRows())
	require.Len(t, alerts, 3)
	assert.Equal(t, coverage.AlertError, alerts[0].Level)
	assert.Equal(t, 1, alerts[0].Count)
	assert.Equal(t, 2, alerts[1].Count)
	assert.Equal(t, 2, alerts[2].Count)
	assert.Empty(t, coverage.Alerts(nil))
}

func TestRun(t *testing.T) {
	row := func(values ...any) stockcover.Row {
		r := make(stockcover.Row, len(values))
		for i, v := range values {
			switch x := v.(type) {
			case string:
				r[i] = stockcover.TextCell(x)
			case int:
				r[i] = stockcover.NumberCell(float64(x))
			}
		}
		return r
	}
	curve := stockcover.Grid{
		row("Rango", "01/09/2025", "04/09/2025"),
		row("Curva A"),
		row(100, "ARROZ", 80),
		row(101, "FIDEOS", 8),
	}
	stock := stockcover.Grid{
		row(100, "ARROZ GRADO 1", "KG", 24, 1000),
		row(102, "AZUCAR GRANULADA", "KG", 10, 800),
	}
	opts := coverage.RunOptions{Options: frozen()}
	res, err := coverage.Run(context.Background(), curve, stock, opts)
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 4, res.Period.Days)
	require.Len(t, res.Rows, 2)
	assert.InDelta(t, 20.0, res.Rows[0].DailyConsumption, 1e-9)
	assert.Equal(t, coverage.StatusCritical, res.Rows[0].Status)
	assert.Equal(t, coverage.StatusNotConsumed, res.Rows[1].Status)
	assert.Equal(t, 1, res.Summary.Critical)

	opts.PeriodDays = 8
	res2, err := coverage.Run(context.Background(), curve, stock, opts)
	require.NoError(t, err)
	assert.Equal(t, 8, res2.Period.Days)
	require.Len(t, res2.Consumption, 2)
	for _, c := range res2.Consumption {
		assert.Equal(t, res2.Period.Start, c.PeriodStart, c.Code)
		assert.Equal(t, res2.Period.End, c.PeriodEnd, c.Code)
	}
	assert.Equal(t, "08/09/2025", res2.Period.End.Format("02/01/2006"))
	assert.InDelta(t, 10.0, res2.Rows[0].DailyConsumption, 1e-9)
	assert.NotEqual(t, res.RunID, res2.RunID)

	_, err = coverage.Run(context.Background(), stock[:0], stock, opts)
	assert.Equal(t, stockcover.CategoryCurveEmpty, stockcover.CategoryOf(err))
}
