package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense es un egreso de efectivo registrado contra un turno abierto.
// No tiene identidad fuera del turno; la lista es append-only mientras el
// turno está en OPEN y queda congelada al salir de ese estado.
type Expense struct {
	ID        string
	ShiftID   string
	Amount    decimal.Decimal // siempre > 0
	Concept   string
	CreatedBy string
	CreatedAt time.Time
}
