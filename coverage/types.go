// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package coverage

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/UNO-SOFT/stockcover/classify"
)

// Status is the replenishment urgency of a product.
type Status string

const (
	StatusCritical    Status = "CRITICAL"
	StatusLow         Status = "LOW"
	StatusNormal      Status = "NORMAL"
	StatusHigh        Status = "HIGH"
	StatusNotConsumed Status = "NOT_CONSUMED"
)

// Statuses lists every status, most urgent first.
var Statuses = []Status{StatusCritical, StatusLow, StatusNormal, StatusHigh, StatusNotConsumed}

// Label returns the Spanish label used in the reports.
func (s Status) Label() string {
	switch s {
	case StatusCritical:
		return "CRÍTICO"
	case StatusLow:
		return "BAJO"
	case StatusNormal:
		return "NORMAL"
	case StatusHigh:
		return "ALTO"
	case StatusNotConsumed:
		return "SIN CONSUMO"
	}
	return string(s)
}

// NoConsumption is the curve of stock items without consumption in the period.
const NoConsumption classify.Curve = "NO_CONSUMPTION"

// NotConsumedService is the service of stock items without consumption.
const NotConsumedService = "not consumed in period"

// UnknownDescription is the last-resort description of a joined row.
const UnknownDescription = "Sin descripción"

// UnboundedCoverage is the coverage of items without observed demand.
const UnboundedCoverage = 999.0

// NoBreakage is the breakage date of items without consumption.
const NoBreakage = "Sin consumo"

// BreakageLayout is the layout of Row.BreakageDate.
const BreakageLayout = "02/01/2006"

// Row is one product of the coverage analysis.
type Row struct {
	Code             string         `json:"code"`
	Description      string         `json:"description"`
	Unit             string         `json:"unit"`
	Curve            classify.Curve `json:"curve"`
	Service          string         `json:"service"`
	Family           string         `json:"family"`
	Status           Status         `json:"status"`
	BreakageDate     string         `json:"breakage_date"`
	TotalConsumption float64        `json:"total_consumption"`
	DailyConsumption float64        `json:"daily_consumption"`
	StockQuantity    float64        `json:"stock_quantity"`
	UnitPrice        float64        `json:"unit_price"`
	CoverageDays     float64        `json:"coverage_days"`
}

// Unbounded reports whether the coverage is the no-demand sentinel.
func (r Row) Unbounded() bool { return r.DailyConsumption <= 0 }

// JoinPolicy decides which products survive the consumption–stock join.
type JoinPolicy uint8

const (
	// JoinRight keeps every stock product, consumed or not.
	JoinRight JoinPolicy = iota
	// JoinInner keeps only products present in both reports.
	JoinInner
)

func (p JoinPolicy) String() string {
	if p == JoinInner {
		return "inner"
	}
	return "right"
}

// ParseJoinPolicy parses "right" or "inner".
func ParseJoinPolicy(s string) (JoinPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "right":
		return JoinRight, nil
	case "inner":
		return JoinInner, nil
	}
	return JoinRight, fmt.Errorf("unknown join policy %q (want right or inner)", s)
}

// ServicePolicy decides the service of a product appearing in several sections.
type ServicePolicy uint8

const (
	// ServiceFirst keeps the first service seen.
	ServiceFirst ServicePolicy = iota
	// ServiceCount reports "N servicios" for products in more than one record.
	ServiceCount
)

func (p ServicePolicy) String() string {
	if p == ServiceCount {
		return "count"
	}
	return "first"
}

// ParseServicePolicy parses "first" or "count".
func ParseServicePolicy(s string) (ServicePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first":
		return ServiceFirst, nil
	case "count":
		return ServiceCount, nil
	}
	return ServiceFirst, fmt.Errorf("unknown service policy %q (want first or count)", s)
}

// Options of Analyze.
type Options struct {
	// Logger defaults to slog.Default.
	Logger *slog.Logger
	// Now returns "today" for the breakage dates; time.Now when nil.
	Now     func() time.Time
	Join    JoinPolicy
	Service ServicePolicy
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Threshold returns the critical coverage threshold of the curve in days.
func Threshold(c classify.Curve) float64 {
	switch c {
	case classify.CurveA:
		return 3
	case classify.CurveB:
		return 5
	case classify.CurveC:
		return 7
	}
	return 5
}

// Classify returns the status of a product by its coverage and curve.
func Classify(coverageDays, dailyConsumption float64, c classify.Curve) Status {
	if dailyConsumption <= 0 {
		return StatusNotConsumed
	}
	t := Threshold(c)
	switch {
	case coverageDays <= t:
		return StatusCritical
	case coverageDays <= 2*t:
		return StatusLow
	case coverageDays <= 4*t:
		return StatusNormal
	}
	return StatusHigh
}
