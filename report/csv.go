// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/UNO-SOFT/stockcover/coverage"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// CSV writes the rows with the header of the analysis sheet.
// Numbers use a decimal point.
func CSV(w io.Writer, rows []coverage.Row, withBOM bool) error {
	if withBOM {
		if _, err := w.Write(bom); err != nil {
			return err
		}
	}
	cw := csv.NewWriter(w)
	rec := make([]string, len(rowColumns))
	for i, c := range rowColumns {
		rec[i] = c.Name
	}
	if err := cw.Write(rec); err != nil {
		return err
	}
	ff := func(f float64, prec int) string { return strconv.FormatFloat(f, 'f', prec, 64) }
	for _, r := range rows {
		rec = append(rec[:0],
			r.Code, r.Description, r.Unit, string(r.Curve), r.Service, r.Family,
			ff(r.StockQuantity, 2), ff(r.TotalConsumption, 2), ff(r.DailyConsumption, 4),
			ff(r.CoverageDays, 1), r.Status.Label(), r.BreakageDate,
		)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
