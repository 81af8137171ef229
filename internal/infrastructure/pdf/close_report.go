// Package pdf genera el reporte de cierre de turno en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Turno N° + Estado  │  Cajero + Apertura/Cierre     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  VENTAS: total por método de pago + total general            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EGRESOS: Concepto | Hora | Monto                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ARQUEO: saldo inicial / esperado / contado / diferencia     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appshift "github.com/veloz-pos/caja-api/internal/application/shift"
	"github.com/veloz-pos/caja-api/internal/domain/entity"
	domshift "github.com/veloz-pos/caja-api/internal/domain/shift"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorSurplus  = &props.Color{Red: 0, Green: 110, Blue: 50}
	colorShortage = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// CloseReportGenerator implementa shift.CloseReportGenerator usando Maroto v2.
type CloseReportGenerator struct{}

// NewCloseReportGenerator construye el generador.
func NewCloseReportGenerator() *CloseReportGenerator { return &CloseReportGenerator{} }

var _ appshift.CloseReportGenerator = (*CloseReportGenerator)(nil)

// GenerateCloseReport genera el PDF del cierre y devuelve sus bytes.
// El turno debe estar CERRADO (lo garantiza el caso de uso).
func (g *CloseReportGenerator) GenerateCloseReport(
	_ context.Context,
	shift *entity.Shift,
	totals domshift.Totals,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Cierre de turno N° %d", shift.ShiftNumber), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(shift))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	// Ventas por método de pago
	m.AddRows(sectionTitle("VENTAS DEL TURNO"))
	m.AddRows(salesRows(totals)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Egresos
	m.AddRows(sectionTitle("EGRESOS DE EFECTIVO"))
	if len(shift.Expenses) == 0 {
		m.AddRows(row.New(6).Add(col.New(12).Add(
			text.New("Sin egresos registrados.", props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
	} else {
		m.AddRows(expenseHeaderRow())
		for _, r := range expenseRows(shift.Expenses) {
			m.AddRows(r)
		}
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Arqueo
	m.AddRows(sectionTitle("ARQUEO DE CAJA"))
	m.AddRows(reconciliationRow(shift, totals))

	if shift.ClosingNotes != "" {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Notas de cierre: "+shift.ClosingNotes, props.Text{Size: 8, Color: colorGray, Top: 2}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: N° de turno (izq) y cajero + ventana del turno (der).
func headerRow(shift *entity.Shift) core.Row {
	const layout = "02/01/2006 15:04"
	apertura := shift.OpenedAt.Format(layout)
	cierre := "—"
	if shift.ClosedAt != nil {
		cierre = shift.ClosedAt.Format(layout)
	}

	return row.New(18).Add(
		col.New(7).Add(
			text.New(fmt.Sprintf("CIERRE DE TURNO N° %d", shift.ShiftNumber), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Cajero: "+shift.UserName+" ("+shift.Username+")", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Apertura: "+apertura, props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
			text.New("Cierre: "+cierre, props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func sectionTitle(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
		}),
	))
}

// salesRows: una fila por método de pago más el total general.
func salesRows(totals domshift.Totals) []core.Row {
	entry := func(label string, amount decimal.Decimal, bold bool) core.Row {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		return row.New(6).Add(
			col.New(6).Add(text.New(label, props.Text{Size: 8.5, Style: style, Top: 1, Left: 2})),
			col.New(6).Add(text.New("$"+amount.StringFixed(2), props.Text{
				Size: 8.5, Style: style, Align: align.Right, Top: 1, Right: 2,
			})),
		)
	}
	return []core.Row{
		entry("Efectivo", totals.TotalCashSales, false),
		entry("Billetera A", totals.TotalWalletA, false),
		entry("Billetera B", totals.TotalWalletB, false),
		entry("Transferencia bancaria", totals.TotalTransfer, false),
		entry(fmt.Sprintf("TOTAL VENTAS (%d ventas)", totals.SaleCount), totals.TotalSales, true),
	}
}

// expenseHeaderRow: cabecera de la tabla de egresos.
func expenseHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		h("Concepto", 7, align.Left),
		h("Hora", 2, align.Center),
		h("Monto", 3, align.Right),
	)
}

// expenseRows: una fila por egreso, en orden cronológico.
func expenseRows(expenses []entity.Expense) []core.Row {
	result := make([]core.Row, 0, len(expenses))
	for _, e := range expenses {
		result = append(result, row.New(6).Add(
			col.New(7).Add(text.New(e.Concept, props.Text{Size: 8, Top: 1, Left: 2})),
			col.New(2).Add(text.New(e.CreatedAt.Format("15:04"), props.Text{
				Size: 8, Align: align.Center, Top: 1,
			})),
			col.New(3).Add(text.New("$"+e.Amount.StringFixed(2), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 2,
			})),
		))
	}
	return result
}

// reconciliationRow: saldo inicial, esperado, contado y diferencia con color
// según sobrante (verde) o faltante (rojo).
func reconciliationRow(shift *entity.Shift, totals domshift.Totals) core.Row {
	counted := decimal.Zero
	if shift.CountedCash != nil {
		counted = *shift.CountedCash
	}
	variance := domshift.Variance(counted, totals.ExpectedCash)

	varColor := colorGray
	varLabel := "DIFERENCIA (exacta):"
	switch {
	case variance.IsPositive():
		varColor = colorSurplus
		varLabel = "DIFERENCIA (sobrante):"
	case variance.IsNegative():
		varColor = colorShortage
		varLabel = "DIFERENCIA (faltante):"
	}

	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}

	return row.New(32).Add(
		col.New(3),
		col.New(4).Add(
			label("Saldo inicial:"),
			label("Egresos:"),
			label("Efectivo esperado:"),
			label("Efectivo contado:"),
			text.New(varLabel, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: varColor, Right: 2,
			}),
		),
		col.New(3).Add(
			value("$"+shift.OpeningBalance.StringFixed(2)),
			value("$"+totals.TotalExpenses.StringFixed(2)),
			value("$"+totals.ExpectedCash.StringFixed(2)),
			value("$"+counted.StringFixed(2)),
			text.New("$"+variance.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: varColor, Right: 1,
			}),
		),
		col.New(2),
	)
}
