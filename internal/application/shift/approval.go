package shift

import (
	"context"

	"github.com/veloz-pos/caja-api/internal/domain"
	"github.com/veloz-pos/caja-api/internal/domain/entity"
	"github.com/veloz-pos/caja-api/internal/domain/repository"
)

// Filtro de estado para listados de turnos.
const StatusFilterAll = "ALL"

// ApprovalUseCase expone las lecturas de administración del flujo de cierre:
// turnos pendientes de aprobación y listado general con filtro de estado.
// Son proyecciones directas sobre el repositorio; no hay caché que pueda
// quedar desfasada del estado confirmado.
type ApprovalUseCase struct {
	shiftRepo repository.ShiftRepository
}

// NewApprovalUseCase construye el coordinador de aprobaciones.
func NewApprovalUseCase(shiftRepo repository.ShiftRepository) *ApprovalUseCase {
	return &ApprovalUseCase{shiftRepo: shiftRepo}
}

// ListPending devuelve los turnos en PENDING_CLOSE de todos los operadores.
// Solo administradores.
func (uc *ApprovalUseCase) ListPending(ctx context.Context, actor Actor, limit, offset int) ([]*entity.Shift, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return uc.shiftRepo.ListByStatus(entity.ShiftStatusPendingClose, limit, offset)
}

// ListAll devuelve los turnos ordenados por apertura más reciente primero,
// con filtro opcional de estado (ALL o vacío = todos). Solo administradores.
func (uc *ApprovalUseCase) ListAll(ctx context.Context, actor Actor, statusFilter string, limit, offset int) ([]*entity.Shift, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if statusFilter == StatusFilterAll {
		statusFilter = ""
	}
	if statusFilter != "" && !entity.ValidShiftStatus(statusFilter) {
		return nil, domain.ErrInvalidInput
	}
	return uc.shiftRepo.ListByStatus(statusFilter, limit, offset)
}
