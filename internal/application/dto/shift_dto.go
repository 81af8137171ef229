package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenShiftRequest body para POST /api/shifts.
type OpenShiftRequest struct {
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// AddExpenseRequest body para POST /api/shifts/:id/expenses.
type AddExpenseRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Concept string          `json:"concept"`
}

// CloseShiftRequest body para request-close (cajero) y close (admin).
type CloseShiftRequest struct {
	CountedCash decimal.Decimal `json:"counted_cash"`
	Notes       string          `json:"notes,omitempty"`
}

// RejectShiftRequest body para POST /api/shifts/:id/reject.
type RejectShiftRequest struct {
	Reason string `json:"reason"`
}

// ExpenseResponse egreso en respuestas.
type ExpenseResponse struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Concept   string          `json:"concept"`
	CreatedAt time.Time       `json:"created_at"`
}

// TotalsResponse cifras derivadas del turno; expected_cash se recalcula en cada
// lectura, nunca se persiste.
type TotalsResponse struct {
	TotalCashSales decimal.Decimal  `json:"total_cash_sales"`
	TotalWalletA   decimal.Decimal  `json:"total_wallet_a"`
	TotalWalletB   decimal.Decimal  `json:"total_wallet_b"`
	TotalTransfer  decimal.Decimal  `json:"total_transfer"`
	TotalSales     decimal.Decimal  `json:"total_sales"`
	TotalExpenses  decimal.Decimal  `json:"total_expenses"`
	ExpectedCash   decimal.Decimal  `json:"expected_cash"`
	Variance       *decimal.Decimal `json:"variance,omitempty"` // solo si hay efectivo contado
	SaleCount      int              `json:"sale_count"`
}

// ShiftResponse turno en respuestas.
type ShiftResponse struct {
	ID              string            `json:"id"`
	ShiftNumber     int               `json:"shift_number"`
	UserID          string            `json:"user_id"`
	UserName        string            `json:"user_name"`
	Username        string            `json:"username"`
	Status          string            `json:"status"`
	OpeningBalance  decimal.Decimal   `json:"opening_balance"`
	OpenedAt        time.Time         `json:"opened_at"`
	ClosedAt        *time.Time        `json:"closed_at,omitempty"`
	CountedCash     *decimal.Decimal  `json:"counted_cash,omitempty"`
	ClosingNotes    string            `json:"closing_notes,omitempty"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	Expenses        []ExpenseResponse `json:"expenses"`
	Totals          *TotalsResponse   `json:"totals,omitempty"`
}

// SaleResponse venta (proyección de solo lectura) en GET /api/shifts/:id/sales.
type SaleResponse struct {
	ID            string          `json:"id"`
	Date          time.Time       `json:"date"`
	PaymentMethod string          `json:"payment_method"`
	ItemCount     int             `json:"item_count"`
	Total         decimal.Decimal `json:"total"`
}

// ShiftSalesResponse ventas del turno más totales por método de pago.
type ShiftSalesResponse struct {
	ShiftID string         `json:"shift_id"`
	Sales   []SaleResponse `json:"sales"`
	Totals  TotalsResponse `json:"totals"`
}
