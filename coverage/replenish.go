// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package coverage

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/UNO-SOFT/stockcover/classify"
)

// TargetDays returns the days of stock a replenishment should reach.
func TargetDays(c classify.Curve) float64 {
	switch c {
	case classify.CurveA:
		return 30
	case classify.CurveB:
		return 20
	case classify.CurveC:
		return 15
	}
	return 20
}

// Suggestion is a replenishment proposal for one product.
type Suggestion struct {
	Row
	SuggestedQuantity float64 `json:"suggested_quantity"`
	// Priority is 1 for CRITICAL and 2 for LOW products.
	Priority int `json:"priority"`
}

// Replenishment proposes orders for the CRITICAL and LOW products,
// by priority, then shortest coverage first.
func Replenishment(rows []Row) []Suggestion {
	var out []Suggestion
	for _, r := range rows {
		var prio int
		switch r.Status {
		case StatusCritical:
			prio = 1
		case StatusLow:
			prio = 2
		default:
			continue
		}
		target := r.DailyConsumption * TargetDays(r.Curve)
		out = append(out, Suggestion{
			Row:               r,
			Priority:          prio,
			SuggestedQuantity: math.Max(0, target-r.StockQuantity),
		})
	}
	slices.SortStableFunc(out, func(a, b Suggestion) int {
		return cmp.Or(cmp.Compare(a.Priority, b.Priority), cmp.Compare(a.CoverageDays, b.CoverageDays))
	})
	return out
}

// AlertLevel is the severity of an Alert.
type AlertLevel string

const (
	AlertError   AlertLevel = "error"
	AlertWarning AlertLevel = "warning"
)

// Alert is an inventory condition worth a notification.
type Alert struct {
	Level   AlertLevel `json:"level"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
	Count   int        `json:"count"`
}

// Alerts returns the out-of-stock, critical and curve A alerts.
func Alerts(rows []Row) []Alert {
	var noStock, critical, curveA int
	for _, r := range rows {
		if r.StockQuantity <= 0 {
			noStock++
		}
		if r.Status == StatusCritical {
			critical++
		}
		if r.Curve == classify.CurveA && (r.Status == StatusCritical || r.Status == StatusLow) {
			curveA++
		}
	}
	var alerts []Alert
	if noStock != 0 {
		alerts = append(alerts, Alert{Level: AlertError, Title: "Productos sin Stock",
			Message: fmt.Sprintf("%d productos están sin stock", noStock), Count: noStock})
	}
	if critical != 0 {
		alerts = append(alerts, Alert{Level: AlertWarning, Title: "Stock Crítico",
			Message: fmt.Sprintf("%d productos en estado crítico", critical), Count: critical})
	}
	if curveA != 0 {
		alerts = append(alerts, Alert{Level: AlertWarning, Title: "Productos Críticos Curva A",
			Message: fmt.Sprintf("%d productos de alta importancia con problemas de stock", curveA),
			Count:   curveA})
	}
	return alerts
}
