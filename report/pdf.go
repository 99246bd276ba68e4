// Copyright 2021, 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/message"

	"github.com/UNO-SOFT/stockcover/coverage"
)

// MaxPDFRows limits the critical table of the PDF.
const MaxPDFRows = 200

var (
	headProp  = props.Text{Size: 8, Style: fontstyle.Bold}
	cellProp  = props.Text{Size: 8}
	rightProp = props.Text{Size: 8, Align: align.Right}
)

// PDF renders the executive summary and the critical products.
func PDF(res *coverage.Result, p *message.Printer) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
		}).
		Build()
	m := maroto.New(cfg)

	m.AddRow(12, text.NewCol(12, "Análisis de Cobertura de Stock", props.Text{
		Size: 16, Style: fontstyle.Bold, Align: align.Center,
	}))
	m.AddRow(8, text.NewCol(12, "Período: "+res.Period.String(), props.Text{Size: 9, Align: align.Center}))

	s := res.Summary
	for _, kv := range [][2]string{
		{"Total productos", p.Sprintf("%d", s.Total)},
		{"Productos críticos", p.Sprintf("%d (%.1f%%)", s.Critical, s.CriticalPct)},
		{"Productos stock bajo", p.Sprintf("%d", s.Low)},
		{"Valor del inventario", p.Sprintf("%.2f", s.StockValue.Round(2).InexactFloat64())},
	} {
		m.AddRow(6,
			text.NewCol(6, kv[0], headProp),
			text.NewCol(6, kv[1], cellProp),
		)
	}
	for _, a := range res.Alerts {
		m.AddRow(6, text.NewCol(12, a.Title+": "+a.Message, props.Text{Size: 9, Top: 1}))
	}

	m.AddRow(10, text.NewCol(12, "Productos Críticos", props.Text{
		Size: 12, Style: fontstyle.Bold, Top: 3,
	}))
	m.AddRow(6,
		text.NewCol(2, "Código", headProp),
		text.NewCol(4, "Descripción", headProp),
		text.NewCol(1, "Curva", headProp),
		text.NewCol(2, "Stock", headProp),
		text.NewCol(1, "Días", headProp),
		text.NewCol(2, "Quiebre", headProp),
	)
	critical := coverage.Critical(res.Rows)
	if len(critical) > MaxPDFRows {
		critical = critical[:MaxPDFRows]
	}
	for _, r := range critical {
		m.AddRow(5,
			text.NewCol(2, r.Code, cellProp),
			text.NewCol(4, r.Description, cellProp),
			text.NewCol(1, string(r.Curve), cellProp),
			text.NewCol(2, p.Sprintf("%.2f %s", r.StockQuantity, r.Unit), rightProp),
			text.NewCol(1, p.Sprintf("%.1f", r.CoverageDays), rightProp),
			text.NewCol(2, r.BreakageDate, rightProp),
		)
	}
	if len(critical) == 0 {
		m.AddRow(6, col.New(12).Add(text.New("Sin productos críticos.", cellProp)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
