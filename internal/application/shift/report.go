package shift

import (
	"context"

	"github.com/veloz-pos/caja-api/internal/domain"
	"github.com/veloz-pos/caja-api/internal/domain/entity"
	"github.com/veloz-pos/caja-api/internal/domain/repository"
	domshift "github.com/veloz-pos/caja-api/internal/domain/shift"
)

// CloseReportGenerator genera la representación en PDF del cierre de turno.
type CloseReportGenerator interface {
	GenerateCloseReport(ctx context.Context, shift *entity.Shift, totals domshift.Totals) ([]byte, error)
}

// ReportUseCase produce el reporte de cierre de un turno CERRADO: totales por
// método de pago, egresos y arqueo (esperado vs contado). Solo administradores.
type ReportUseCase struct {
	shiftRepo repository.ShiftRepository
	saleRepo  repository.SaleRepository
	generator CloseReportGenerator
}

// NewReportUseCase construye el caso de uso del reporte de cierre.
func NewReportUseCase(shiftRepo repository.ShiftRepository, saleRepo repository.SaleRepository, generator CloseReportGenerator) *ReportUseCase {
	return &ReportUseCase{shiftRepo: shiftRepo, saleRepo: saleRepo, generator: generator}
}

// CloseReportPDF devuelve los bytes del PDF de cierre del turno.
func (uc *ReportUseCase) CloseReportPDF(ctx context.Context, actor Actor, shiftID string) ([]byte, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	shift, err := uc.shiftRepo.GetByID(shiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, domain.ErrNotFound
	}
	if shift.Status != entity.ShiftStatusClosed {
		return nil, domain.ErrInvalidState
	}
	sales, err := uc.saleRepo.ListByOperatorAndWindow(ctx, shift.UserID, shift.OpenedAt, shift.ClosedAt)
	if err != nil {
		return nil, err
	}
	totals := domshift.ComputeTotals(shift.OpeningBalance, sales, shift.Expenses)
	return uc.generator.GenerateCloseReport(ctx, shift, totals)
}
