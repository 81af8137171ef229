package shift

import (
	"context"

	"github.com/veloz-pos/caja-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un
// repositorio de turnos atado a esa tx. Garantiza que cada transición del
// turno sea un read-modify-write atómico (GetForUpdate + Update/Create).
type TxRunner interface {
	Run(ctx context.Context, fn func(shiftRepo repository.ShiftRepository) error) error
}

// Actor identifica a quien invoca una operación: el caso de uso verifica rol
// y propiedad aquí, no solo en el transporte HTTP.
type Actor struct {
	UserID string
	Role   string
}
