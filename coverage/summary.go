// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package coverage

import (
	"cmp"
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/UNO-SOFT/stockcover/classify"
)

// CurveMetrics aggregates the rows of one curve.
type CurveMetrics struct {
	Curve       classify.Curve `json:"curve"`
	Count       int            `json:"count"`
	StockSum    float64        `json:"stock_sum"`
	StockMean   float64        `json:"stock_mean"`
	DailySum    float64        `json:"daily_sum"`
	DailyMean   float64        `json:"daily_mean"`
	CoverageAvg float64        `json:"coverage_mean"`
	CoverageMin float64        `json:"coverage_min"`
	CoverageMax float64        `json:"coverage_max"`
}

// FamilyMetrics aggregates the rows of one product family.
type FamilyMetrics struct {
	ByStatus map[Status]int `json:"by_status"`
	Family   string         `json:"family"`
	Count    int            `json:"count"`
	// AvgCoverage is the mean coverage over the consumed products of the family.
	AvgCoverage float64 `json:"avg_coverage"`
	Critical    int     `json:"critical"`
	CriticalPct float64 `json:"critical_pct"`
}

// CoverageRange counts the consumed products whose coverage falls in
// (previous Max, Max] days.
type CoverageRange struct {
	Label string  `json:"label"`
	Max   float64 `json:"-"`
	Count int     `json:"count"`
}

// coverageRanges are the upper bounds of the coverage buckets.
var coverageRanges = []CoverageRange{
	{Label: "0-3 días", Max: 3},
	{Label: "4-7 días", Max: 7},
	{Label: "8-15 días", Max: 15},
	{Label: "16-30 días", Max: 30},
	{Label: "30+ días", Max: math.Inf(1)},
}

// Summary holds the aggregate metrics of an analysis.
type Summary struct {
	ByStatus map[Status]int         `json:"by_status"`
	ByCurve  map[classify.Curve]int `json:"by_curve"`
	// AvgCoverage is the mean coverage per curve, over consumed products only.
	AvgCoverage map[classify.Curve]float64 `json:"avg_coverage"`
	// StockValue is the sum of quantity × unit price.
	StockValue decimal.Decimal `json:"stock_value"`
	Curves     []CurveMetrics  `json:"curves"`
	// Families is sorted by CriticalPct, highest first.
	// Rows without a family are left out.
	Families []FamilyMetrics `json:"families,omitempty"`
	// CoverageRanges buckets the consumed products by coverage.
	CoverageRanges []CoverageRange `json:"coverage_ranges"`
	Total          int             `json:"total"`
	Critical       int             `json:"critical"`
	Low            int             `json:"low"`
	// CriticalPct is Critical/Total in percent.
	CriticalPct float64 `json:"critical_pct"`
}

// curveOrder is the display order of the curves.
var curveOrder = []classify.Curve{classify.CurveA, classify.CurveB, classify.CurveC, NoConsumption}

// Summarize computes the summary metrics of the rows.
func Summarize(rows []Row) Summary {
	s := Summary{
		Total:       len(rows),
		ByStatus:    make(map[Status]int, len(Statuses)),
		ByCurve:     make(map[classify.Curve]int, len(curveOrder)),
		AvgCoverage: make(map[classify.Curve]float64, 3),
		StockValue:  decimal.Zero,
	}
	type acc struct {
		m        CurveMetrics
		consumed int
		covSum   float64
	}
	accs := make(map[classify.Curve]*acc, len(curveOrder))
	for _, r := range rows {
		s.ByStatus[r.Status]++
		s.ByCurve[r.Curve]++
		s.StockValue = s.StockValue.Add(
			decimal.NewFromFloat(r.StockQuantity).Mul(decimal.NewFromFloat(r.UnitPrice)))

		a := accs[r.Curve]
		if a == nil {
			a = &acc{m: CurveMetrics{Curve: r.Curve,
				CoverageMin: math.Inf(1), CoverageMax: math.Inf(-1)}}
			accs[r.Curve] = a
		}
		a.m.Count++
		a.m.StockSum += r.StockQuantity
		a.m.DailySum += r.DailyConsumption
		a.m.CoverageMin = math.Min(a.m.CoverageMin, r.CoverageDays)
		a.m.CoverageMax = math.Max(a.m.CoverageMax, r.CoverageDays)
		a.covSum += r.CoverageDays
		if !r.Unbounded() {
			a.consumed++
		}
	}
	s.Critical = s.ByStatus[StatusCritical]
	s.Low = s.ByStatus[StatusLow]
	if s.Total != 0 {
		s.CriticalPct = float64(s.Critical) / float64(s.Total) * 100
	}

	for _, c := range curveOrder {
		a := accs[c]
		if a == nil {
			continue
		}
		n := float64(a.m.Count)
		a.m.StockMean = a.m.StockSum / n
		a.m.DailyMean = a.m.DailySum / n
		a.m.CoverageAvg = a.covSum / n
		s.Curves = append(s.Curves, a.m)
	}
	// curve averages over consumed products, so the sentinel does not skew them
	sums := make(map[classify.Curve]float64, 3)
	counts := make(map[classify.Curve]int, 3)
	for _, r := range rows {
		if r.Unbounded() || !r.Curve.Valid() {
			continue
		}
		sums[r.Curve] += r.CoverageDays
		counts[r.Curve]++
	}
	for c, n := range counts {
		s.AvgCoverage[c] = sums[c] / float64(n)
	}
	s.Families = Families(rows)
	s.CoverageRanges = CoverageRanges(rows)
	return s
}

// Families aggregates the rows per family, the family with the highest
// share of CRITICAL products first.
func Families(rows []Row) []FamilyMetrics {
	type acc struct {
		m        FamilyMetrics
		consumed int
		covSum   float64
	}
	accs := make(map[string]*acc)
	for _, r := range rows {
		if r.Family == "" {
			continue
		}
		a := accs[r.Family]
		if a == nil {
			a = &acc{m: FamilyMetrics{Family: r.Family, ByStatus: make(map[Status]int, len(Statuses))}}
			accs[r.Family] = a
		}
		a.m.Count++
		a.m.ByStatus[r.Status]++
		if r.Status == StatusCritical {
			a.m.Critical++
		}
		if !r.Unbounded() {
			a.consumed++
			a.covSum += r.CoverageDays
		}
	}
	out := make([]FamilyMetrics, 0, len(accs))
	for _, a := range accs {
		a.m.CriticalPct = float64(a.m.Critical) / float64(a.m.Count) * 100
		if a.consumed != 0 {
			a.m.AvgCoverage = a.covSum / float64(a.consumed)
		}
		out = append(out, a.m)
	}
	slices.SortFunc(out, func(a, b FamilyMetrics) int {
		if c := cmp.Compare(b.CriticalPct, a.CriticalPct); c != 0 {
			return c
		}
		return cmp.Compare(a.Family, b.Family)
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

// CoverageRanges counts the consumed rows per coverage bucket:
// 0-3, 4-7, 8-15, 16-30 and over 30 days. Every bucket is returned.
func CoverageRanges(rows []Row) []CoverageRange {
	out := slices.Clone(coverageRanges)
	for _, r := range rows {
		if r.Unbounded() {
			continue
		}
		for i := range out {
			if r.CoverageDays <= out[i].Max {
				out[i].Count++
				break
			}
		}
	}
	return out
}

// Critical returns the CRITICAL rows, shortest coverage first.
func Critical(rows []Row) []Row {
	return ByStatus(rows, StatusCritical)
}

// ByStatus returns the rows of the given status, shortest coverage first.
func ByStatus(rows []Row, status Status) []Row {
	var out []Row
	for _, r := range rows {
		if r.Status == status {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b Row) int { return cmp.Compare(a.CoverageDays, b.CoverageDays) })
	return out
}

// ByCurve returns the rows of the given curve, in input order.
func ByCurve(rows []Row, c classify.Curve) []Row {
	var out []Row
	for _, r := range rows {
		if r.Curve == c {
			out = append(out, r)
		}
	}
	return out
}
