// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/UNO-SOFT/stockcover"
	"github.com/UNO-SOFT/stockcover/classify"
)

// DateLayout is the DD/MM/YYYY layout of the ERP reports.
const DateLayout = "02/01/2006"

// DefaultPeriodDays is the length of the fallback period.
const DefaultPeriodDays = 8

// PeriodScanRows is the number of leading rows searched for the period.
const PeriodScanRows = 20

var (
	defaultStart = time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	defaultEnd   = time.Date(2025, time.September, 8, 0, 0, 0, 0, time.UTC)

	rDate = regexp.MustCompile(`\b\d{2}/\d{2}/\d{4}\b`)
)

// Period is the analysis period of a curve report.
// It is immutable once extracted; pass it by value.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  int       `json:"days"`
	// Detected is false when the fallback period is used.
	Detected bool `json:"detected"`
}

// DefaultPeriod returns the fallback period: 01/09/2025 - 08/09/2025, 8 days.
func DefaultPeriod() Period {
	return Period{Start: defaultStart, End: defaultEnd, Days: DefaultPeriodDays}
}

// NewPeriod returns the period between start and end, both inclusive.
// It falls back to DefaultPeriod when end precedes start.
func NewPeriod(start, end time.Time) Period {
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return DefaultPeriod()
	}
	return Period{Start: start, End: end, Days: days, Detected: true}
}

func (p Period) String() string {
	return fmt.Sprintf("%s - %s (%d days)",
		p.Start.Format(DateLayout), p.End.Format(DateLayout), p.Days)
}

// ExtractPeriod searches the first PeriodScanRows rows for a "Rango" row
// with two DD/MM/YYYY dates. Anything else yields DefaultPeriod.
func ExtractPeriod(grid stockcover.Grid) Period {
	for i, row := range grid {
		if i >= PeriodScanRows {
			break
		}
		text := classify.RowText(row)
		if !strings.Contains(strings.ToLower(text), "rango") {
			continue
		}
		if p, ok := periodFromText(text); ok {
			return p
		}
	}
	return DefaultPeriod()
}

func periodFromText(text string) (Period, bool) {
	dates := rDate.FindAllString(text, 2)
	if len(dates) < 2 {
		return Period{}, false
	}
	start, err := time.Parse(DateLayout, dates[0])
	if err != nil {
		return Period{}, false
	}
	end, err := time.Parse(DateLayout, dates[1])
	if err != nil {
		return Period{}, false
	}
	p := NewPeriod(start, end)
	return p, p.Detected
}
