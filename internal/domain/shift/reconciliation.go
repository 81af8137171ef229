// Package shift contiene los servicios de dominio puros del turno de caja:
// totales por método de pago y aritmética de arqueo. Todo se recalcula a
// partir de sus insumos en cada llamada; nunca se guarda como estado aparte.
package shift

import (
	"github.com/shopspring/decimal"

	"github.com/veloz-pos/caja-api/internal/domain/entity"
)

// Totals agrupa las cifras derivadas de un turno. Se recalculan bajo demanda
// a partir de las ventas y egresos; no son verdad persistida.
type Totals struct {
	TotalCashSales decimal.Decimal
	TotalWalletA   decimal.Decimal
	TotalWalletB   decimal.Decimal
	TotalTransfer  decimal.Decimal
	TotalSales     decimal.Decimal
	TotalExpenses  decimal.Decimal
	ExpectedCash   decimal.Decimal
	SaleCount      int
}

// ComputeTotals agrupa las ventas por método de pago, suma los egresos y
// deriva el efectivo esperado: saldo_inicial + ventas_efectivo - egresos.
func ComputeTotals(openingBalance decimal.Decimal, sales []entity.SaleSummary, expenses []entity.Expense) Totals {
	t := Totals{
		TotalCashSales: decimal.Zero,
		TotalWalletA:   decimal.Zero,
		TotalWalletB:   decimal.Zero,
		TotalTransfer:  decimal.Zero,
		TotalExpenses:  decimal.Zero,
		SaleCount:      len(sales),
	}
	for _, s := range sales {
		switch s.PaymentMethod {
		case entity.PaymentCash:
			t.TotalCashSales = t.TotalCashSales.Add(s.Total)
		case entity.PaymentWalletA:
			t.TotalWalletA = t.TotalWalletA.Add(s.Total)
		case entity.PaymentWalletB:
			t.TotalWalletB = t.TotalWalletB.Add(s.Total)
		case entity.PaymentTransfer:
			t.TotalTransfer = t.TotalTransfer.Add(s.Total)
		}
	}
	for _, e := range expenses {
		t.TotalExpenses = t.TotalExpenses.Add(e.Amount)
	}
	t.TotalSales = t.TotalCashSales.Add(t.TotalWalletA).Add(t.TotalWalletB).Add(t.TotalTransfer)
	t.ExpectedCash = ExpectedCash(openingBalance, t.TotalCashSales, t.TotalExpenses)
	return t
}

// ExpectedCash = saldo_inicial + ventas_en_efectivo - egresos.
func ExpectedCash(openingBalance, cashSales, expenses decimal.Decimal) decimal.Decimal {
	return openingBalance.Add(cashSales).Sub(expenses)
}

// Variance = efectivo_contado - efectivo_esperado.
// Positivo = sobrante, negativo = faltante, cero = arqueo exacto.
func Variance(countedCash, expectedCash decimal.Decimal) decimal.Decimal {
	return countedCash.Sub(expectedCash)
}

// ValidMoney verifica que un monto tenga como máximo 2 decimales.
// Toda cifra monetaria del sistema se maneja con precisión fija de centavos.
func ValidMoney(amount decimal.Decimal) bool {
	return amount.Exponent() >= -2
}
