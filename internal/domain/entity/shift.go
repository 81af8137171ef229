package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un turno de caja.
// Transiciones válidas: OPEN → PENDING_CLOSE → CLOSED, OPEN → CLOSED (cierre
// directo de administrador) y PENDING_CLOSE → OPEN (rechazo). CLOSED es terminal.
const (
	ShiftStatusOpen         = "OPEN"
	ShiftStatusPendingClose = "PENDING_CLOSE"
	ShiftStatusClosed       = "CLOSED"
)

// Shift representa el turno de un cajero: apertura de caja con saldo inicial,
// ventas y egresos acumulados, y cierre con arqueo físico del efectivo.
// Es la raíz del agregado; Expenses le pertenece en exclusiva.
type Shift struct {
	ID          string
	ShiftNumber int // consecutivo global, nunca se reutiliza
	UserID      string
	UserName    string
	Username    string
	Status      string

	OpeningBalance decimal.Decimal
	OpenedAt       time.Time
	ClosedAt       *time.Time // solo cuando Status == CLOSED

	// CountedCash es el efectivo contado por quien cierra; existe solo después
	// de un cierre o solicitud de cierre, y se limpia si el cierre es rechazado.
	CountedCash     *decimal.Decimal
	ClosingNotes    string
	RejectionReason string

	Expenses []Expense // orden de inserción = orden cronológico

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive indica si el turno bloquea la apertura de otro para el mismo operador.
func (s *Shift) IsActive() bool {
	return s.Status == ShiftStatusOpen || s.Status == ShiftStatusPendingClose
}

// TotalExpenses suma los egresos registrados en el turno.
func (s *Shift) TotalExpenses() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// ValidShiftStatus valida un estado contra la enumeración cerrada.
func ValidShiftStatus(status string) bool {
	switch status {
	case ShiftStatusOpen, ShiftStatusPendingClose, ShiftStatusClosed:
		return true
	}
	return false
}
