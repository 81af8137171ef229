package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago de una venta.
const (
	PaymentCash     = "CASH"
	PaymentWalletA  = "WALLET_A"
	PaymentWalletB  = "WALLET_B"
	PaymentTransfer = "BANK_TRANSFER"
)

// SaleSummary es la proyección de solo lectura de una venta completada.
// La produce el subsistema de ventas; este core la consume para agrupar
// totales por método de pago y nunca la escribe.
type SaleSummary struct {
	ID            string
	UserID        string
	Date          time.Time
	PaymentMethod string
	ItemCount     int
	Total         decimal.Decimal
}
