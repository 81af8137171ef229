package repository

import "github.com/veloz-pos/caja-api/internal/domain/entity"

// ShiftRepository define el puerto de persistencia del agregado Shift.
// Save/Update escriben el agregado completo; la atomicidad la da el TxRunner
// junto con GetForUpdate (SELECT FOR UPDATE sobre la fila del turno).
type ShiftRepository interface {
	// Create persiste un turno nuevo. Devuelve domain.ErrConflict si el
	// operador ya tiene un turno en OPEN o PENDING_CLOSE (índice único parcial).
	Create(shift *entity.Shift) error
	GetByID(id string) (*entity.Shift, error)
	// GetForUpdate bloquea la fila del turno para update (SELECT FOR UPDATE).
	// Solo tiene sentido dentro de una transacción.
	GetForUpdate(id string) (*entity.Shift, error)
	// Update escribe el estado completo del turno (sin los egresos, que son
	// append-only vía AddExpense).
	Update(shift *entity.Shift) error
	// AddExpense agrega un egreso al turno dentro de la transacción actual.
	AddExpense(expense *entity.Expense) error
	// FindOpenOrPendingByOperator devuelve el turno activo del operador o nil.
	FindOpenOrPendingByOperator(userID string) (*entity.Shift, error)
	// ListByStatus lista turnos por estado ("" = todos), más reciente primero.
	ListByStatus(status string, limit, offset int) ([]*entity.Shift, error)
	// NextShiftNumber asigna el siguiente consecutivo global de turno.
	NextShiftNumber() (int, error)
}
