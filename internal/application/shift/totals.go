package shift

import (
	"context"

	"github.com/veloz-pos/caja-api/internal/domain"
	"github.com/veloz-pos/caja-api/internal/domain/entity"
	"github.com/veloz-pos/caja-api/internal/domain/repository"
	domshift "github.com/veloz-pos/caja-api/internal/domain/shift"
)

// TotalsUseCase agrega las cifras del turno: ventas por método de pago en la
// ventana del turno, egresos y efectivo esperado. Es de solo lectura e
// idempotente; puede llamarse con el turno aún abierto (totales en vivo).
type TotalsUseCase struct {
	shiftRepo repository.ShiftRepository
	saleRepo  repository.SaleRepository
}

// NewTotalsUseCase construye el agregador.
func NewTotalsUseCase(shiftRepo repository.ShiftRepository, saleRepo repository.SaleRepository) *TotalsUseCase {
	return &TotalsUseCase{shiftRepo: shiftRepo, saleRepo: saleRepo}
}

// ComputeTotals recalcula los totales del turno desde sus insumos. Falla con
// ErrNotFound si el turno no existe. No tiene efectos secundarios.
func (uc *TotalsUseCase) ComputeTotals(ctx context.Context, shiftID string) (domshift.Totals, error) {
	shift, err := uc.shiftRepo.GetByID(shiftID)
	if err != nil {
		return domshift.Totals{}, err
	}
	if shift == nil {
		return domshift.Totals{}, domain.ErrNotFound
	}
	_, totals, err := uc.salesAndTotals(ctx, shift)
	return totals, err
}

// ShiftSales devuelve las ventas del turno junto con los totales, si el actor
// es dueño del turno o administrador.
func (uc *TotalsUseCase) ShiftSales(ctx context.Context, actor Actor, shiftID string) ([]entity.SaleSummary, domshift.Totals, error) {
	shift, err := uc.shiftRepo.GetByID(shiftID)
	if err != nil {
		return nil, domshift.Totals{}, err
	}
	if shift == nil {
		return nil, domshift.Totals{}, domain.ErrNotFound
	}
	if actor.Role != entity.RoleAdmin && shift.UserID != actor.UserID {
		return nil, domshift.Totals{}, domain.ErrForbidden
	}
	return uc.salesAndTotals(ctx, shift)
}

func (uc *TotalsUseCase) salesAndTotals(ctx context.Context, shift *entity.Shift) ([]entity.SaleSummary, domshift.Totals, error) {
	sales, err := uc.saleRepo.ListByOperatorAndWindow(ctx, shift.UserID, shift.OpenedAt, shift.ClosedAt)
	if err != nil {
		return nil, domshift.Totals{}, err
	}
	return sales, domshift.ComputeTotals(shift.OpeningBalance, sales, shift.Expenses), nil
}
