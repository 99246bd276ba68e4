// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"github.com/UNO-SOFT/stockcover"
	"github.com/UNO-SOFT/stockcover/classify"
)

// Role is what a cell means within a product row.
type Role uint8

const (
	RoleNone Role = iota
	RoleDescription
	RoleUnit
	RoleConsumption
	RoleQuantity
	RoleUnitPrice
	RoleTotal
)

var roleNames = [...]string{"none", "description", "unit", "consumption", "quantity", "unit_price", "total"}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// Rule assigns Role to the first cell matching Match.
type Rule struct {
	Match func(stockcover.Cell) bool
	Role  Role
	// After, when set, starts the scan right of the cell taken by that role,
	// and skips the rule if that role was not found.
	After Role
}

// Layout is the ordered rule table of a product row.
//
// In an independent layout every rule scans the cells on its own, so two
// roles may look at the same cells. In an exclusive layout the cells are
// visited once, left to right, and each is claimed by the first rule
// (in table order) whose role is still free and whose predicate matches.
type Layout struct {
	Rules     []Rule
	Exclusive bool
}

// Match is the outcome of applying a Layout to a row.
type Match struct {
	cells map[Role]int
	row   stockcover.Row
}

// Has reports whether the role was found.
func (m Match) Has(r Role) bool { _, ok := m.cells[r]; return ok }

// Cell returns the cell taken by the role.
func (m Match) Cell(r Role) (stockcover.Cell, bool) {
	i, ok := m.cells[r]
	if !ok {
		return stockcover.Cell{}, false
	}
	return m.row[i], true
}

// Column returns the column index taken by the role, -1 if absent.
func (m Match) Column(r Role) int {
	if i, ok := m.cells[r]; ok {
		return i
	}
	return -1
}

// Apply runs the layout on row[start:].
func (l Layout) Apply(row stockcover.Row, start int) Match {
	m := Match{row: row, cells: make(map[Role]int, len(l.Rules))}
	if start < 0 {
		start = 0
	}
	if l.Exclusive {
		for i := start; i < len(row); i++ {
			if row[i].IsEmpty() {
				continue
			}
			for _, r := range l.Rules {
				if _, taken := m.cells[r.Role]; taken {
					continue
				}
				if r.After != RoleNone {
					if j, ok := m.cells[r.After]; !ok || i <= j {
						continue
					}
				}
				if r.Match(row[i]) {
					m.cells[r.Role] = i
					break
				}
			}
		}
		return m
	}

	for _, r := range l.Rules {
		from := start
		if r.After != RoleNone {
			j, ok := m.cells[r.After]
			if !ok {
				continue
			}
			from = j + 1
		}
		for i := from; i < len(row); i++ {
			if !row[i].IsEmpty() && r.Match(row[i]) {
				m.cells[r.Role] = i
				break
			}
		}
	}
	return m
}

// CodeWindow is the number of leading columns searched for a product code.
const CodeWindow = 4

// FindCode returns the leftmost product code in the first CodeWindow columns
// and its column.
func FindCode(row stockcover.Row) (code, col int, ok bool) {
	for i := 0; i < len(row) && i < CodeWindow; i++ {
		if code, ok := classify.ProductCode(row[i]); ok {
			return code, i, true
		}
	}
	return 0, -1, false
}

func isPositive(c stockcover.Cell) bool { return classify.ParseNumeric(c) > 0 }

// CurveLayout finds the description, the consumption and the unit of a
// curve report row. Description and consumption are independent scans.
var CurveLayout = Layout{Rules: []Rule{
	{Role: RoleDescription, Match: func(c stockcover.Cell) bool {
		return classify.IsDescription(c, classify.MinCurveDescription)
	}},
	{Role: RoleConsumption, Match: isPositive},
	{Role: RoleUnit, Match: classify.IsUnit, After: RoleDescription},
}}

// StockLayout claims description, unit, then the first three numbers as
// quantity, unit price and total value.
var StockLayout = Layout{Exclusive: true, Rules: []Rule{
	{Role: RoleDescription, Match: func(c stockcover.Cell) bool {
		return classify.IsDescription(c, classify.MinStockDescription)
	}},
	{Role: RoleUnit, Match: classify.IsUnit},
	{Role: RoleQuantity, Match: classify.IsNumeric},
	{Role: RoleUnitPrice, Match: classify.IsNumeric},
	{Role: RoleTotal, Match: classify.IsNumeric},
}}
