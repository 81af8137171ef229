package shift

import (
	"github.com/veloz-pos/caja-api/internal/application/dto"
	"github.com/veloz-pos/caja-api/internal/domain/entity"
	domshift "github.com/veloz-pos/caja-api/internal/domain/shift"
)

// ToShiftResponse arma la vista del turno; si totals no es nil se incluyen
// las cifras derivadas (con variance solo cuando hay efectivo contado).
func ToShiftResponse(s *entity.Shift, totals *domshift.Totals) dto.ShiftResponse {
	resp := dto.ShiftResponse{
		ID:              s.ID,
		ShiftNumber:     s.ShiftNumber,
		UserID:          s.UserID,
		UserName:        s.UserName,
		Username:        s.Username,
		Status:          s.Status,
		OpeningBalance:  s.OpeningBalance,
		OpenedAt:        s.OpenedAt,
		ClosedAt:        s.ClosedAt,
		CountedCash:     s.CountedCash,
		ClosingNotes:    s.ClosingNotes,
		RejectionReason: s.RejectionReason,
		Expenses:        make([]dto.ExpenseResponse, 0, len(s.Expenses)),
	}
	for _, e := range s.Expenses {
		resp.Expenses = append(resp.Expenses, dto.ExpenseResponse{
			ID:        e.ID,
			Amount:    e.Amount,
			Concept:   e.Concept,
			CreatedAt: e.CreatedAt,
		})
	}
	if totals != nil {
		resp.Totals = toTotalsResponse(*totals, s)
	}
	return resp
}

// ToShiftSalesResponse arma la respuesta de GET /api/shifts/:id/sales.
func ToShiftSalesResponse(s *entity.Shift, sales []entity.SaleSummary, totals domshift.Totals) dto.ShiftSalesResponse {
	out := dto.ShiftSalesResponse{
		ShiftID: s.ID,
		Sales:   make([]dto.SaleResponse, 0, len(sales)),
		Totals:  *toTotalsResponse(totals, s),
	}
	for _, sale := range sales {
		out.Sales = append(out.Sales, dto.SaleResponse{
			ID:            sale.ID,
			Date:          sale.Date,
			PaymentMethod: sale.PaymentMethod,
			ItemCount:     sale.ItemCount,
			Total:         sale.Total,
		})
	}
	return out
}

func toTotalsResponse(t domshift.Totals, s *entity.Shift) *dto.TotalsResponse {
	resp := &dto.TotalsResponse{
		TotalCashSales: t.TotalCashSales,
		TotalWalletA:   t.TotalWalletA,
		TotalWalletB:   t.TotalWalletB,
		TotalTransfer:  t.TotalTransfer,
		TotalSales:     t.TotalSales,
		TotalExpenses:  t.TotalExpenses,
		ExpectedCash:   t.ExpectedCash,
		SaleCount:      t.SaleCount,
	}
	// variance solo es significativa una vez registrado el arqueo
	if s.CountedCash != nil {
		v := domshift.Variance(*s.CountedCash, t.ExpectedCash)
		resp.Variance = &v
	}
	return resp
}
