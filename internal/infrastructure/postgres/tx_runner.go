package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veloz-pos/caja-api/internal/application/shift"
	"github.com/veloz-pos/caja-api/internal/domain/repository"
)

// Ensure TxRunner implements shift.TxRunner.
var _ shift.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Es la frontera de atomicidad de cada transición del turno: el callback
// recibe un ShiftRepository atado a la tx, y GetForUpdate serializa las
// mutaciones concurrentes sobre el mismo turno.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con el repo atado a la tx y hace
// Commit o Rollback. Si fn falla no se aplica ningún efecto parcial.
func (r *TxRunner) Run(ctx context.Context, fn func(shiftRepo repository.ShiftRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewShiftRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
