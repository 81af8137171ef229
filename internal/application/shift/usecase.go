package shift

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veloz-pos/caja-api/internal/domain"
	"github.com/veloz-pos/caja-api/internal/domain/entity"
	"github.com/veloz-pos/caja-api/internal/domain/repository"
	domshift "github.com/veloz-pos/caja-api/internal/domain/shift"
)

// UseCase implementa la máquina de estados del turno de caja:
// Open, AddExpense, RequestClose, Close, Approve y Reject. Cada transición
// corre dentro de una transacción con bloqueo de fila (GetForUpdate), de modo
// que mutaciones concurrentes sobre el mismo turno se serializan y ninguna
// operación aplica efectos parciales.
type UseCase struct {
	txRunner  TxRunner
	shiftRepo repository.ShiftRepository // atado al pool, para lecturas
	userRepo  repository.UserRepository
}

// NewUseCase construye el caso de uso del turno.
func NewUseCase(txRunner TxRunner, shiftRepo repository.ShiftRepository, userRepo repository.UserRepository) *UseCase {
	return &UseCase{txRunner: txRunner, shiftRepo: shiftRepo, userRepo: userRepo}
}

// Open abre un turno para el operador con el saldo inicial de caja.
// Falla con ErrConflict si el operador ya tiene un turno en OPEN o
// PENDING_CLOSE: la verificación definitiva es el índice único parcial del
// repositorio, por lo que dos Open concurrentes nunca tienen éxito ambos.
func (uc *UseCase) Open(ctx context.Context, actor Actor, openingBalance decimal.Decimal) (*entity.Shift, error) {
	if openingBalance.IsNegative() || !domshift.ValidMoney(openingBalance) {
		return nil, domain.ErrInvalidInput
	}

	user, err := uc.userRepo.GetByID(actor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	// Verificación temprana para el caso común; la carrera la resuelve la BD.
	if existing, err := uc.shiftRepo.FindOpenOrPendingByOperator(actor.UserID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrConflict
	}

	now := time.Now().UTC()
	shift := &entity.Shift{
		ID:             uuid.New().String(),
		UserID:         user.ID,
		UserName:       user.Name,
		Username:       user.Username,
		Status:         entity.ShiftStatusOpen,
		OpeningBalance: openingBalance,
		OpenedAt:       now,
		Expenses:       []entity.Expense{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = uc.txRunner.Run(ctx, func(repo repository.ShiftRepository) error {
		number, err := repo.NextShiftNumber()
		if err != nil {
			return err
		}
		shift.ShiftNumber = number
		return repo.Create(shift)
	})
	if err != nil {
		return nil, err
	}
	return shift, nil
}

// AddExpense registra un egreso de efectivo contra un turno abierto.
// La lista de egresos es append-only: fuera de OPEN el turno está congelado.
func (uc *UseCase) AddExpense(ctx context.Context, actor Actor, shiftID string, amount decimal.Decimal, concept string) (*entity.Shift, error) {
	concept = strings.TrimSpace(concept)
	if !amount.IsPositive() || !domshift.ValidMoney(amount) || concept == "" {
		return nil, domain.ErrInvalidInput
	}

	var result *entity.Shift
	err := uc.txRunner.Run(ctx, func(repo repository.ShiftRepository) error {
		shift, err := repo.GetForUpdate(shiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return domain.ErrNotFound
		}
		if !uc.canActOn(actor, shift) {
			return domain.ErrForbidden
		}
		if shift.Status != entity.ShiftStatusOpen {
			return domain.ErrInvalidState
		}
		expense := &entity.Expense{
			ID:        uuid.New().String(),
			ShiftID:   shift.ID,
			Amount:    amount,
			Concept:   concept,
			CreatedBy: actor.UserID,
			CreatedAt: time.Now().UTC(),
		}
		if err := repo.AddExpense(expense); err != nil {
			return err
		}
		shift.Expenses = append(shift.Expenses, *expense)
		result = shift
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RequestClose registra el arqueo del cajero y deja el turno en PENDING_CLOSE
// a la espera de aprobación o rechazo de un administrador. No fija closed_at.
// El rejection_reason de un rechazo anterior se limpia al salir de OPEN.
func (uc *UseCase) RequestClose(ctx context.Context, actor Actor, shiftID string, countedCash decimal.Decimal, notes string) (*entity.Shift, error) {
	if countedCash.IsNegative() || !domshift.ValidMoney(countedCash) {
		return nil, domain.ErrInvalidInput
	}

	var result *entity.Shift
	err := uc.txRunner.Run(ctx, func(repo repository.ShiftRepository) error {
		shift, err := repo.GetForUpdate(shiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return domain.ErrNotFound
		}
		if !uc.canActOn(actor, shift) {
			return domain.ErrForbidden
		}
		if shift.Status != entity.ShiftStatusOpen {
			return domain.ErrInvalidState
		}
		counted := countedCash
		shift.CountedCash = &counted
		shift.ClosingNotes = strings.TrimSpace(notes)
		shift.RejectionReason = ""
		shift.Status = entity.ShiftStatusPendingClose
		shift.UpdatedAt = time.Now().UTC()
		if err := repo.Update(shift); err != nil {
			return err
		}
		result = shift
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Close es el cierre directo de administrador: equivale a un RequestClose con
// aprobación inmediata. Acepta turnos en OPEN o en PENDING_CLOSE.
func (uc *UseCase) Close(ctx context.Context, actor Actor, shiftID string, countedCash decimal.Decimal, notes string) (*entity.Shift, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if countedCash.IsNegative() || !domshift.ValidMoney(countedCash) {
		return nil, domain.ErrInvalidInput
	}

	var result *entity.Shift
	err := uc.txRunner.Run(ctx, func(repo repository.ShiftRepository) error {
		shift, err := repo.GetForUpdate(shiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return domain.ErrNotFound
		}
		if shift.Status != entity.ShiftStatusOpen && shift.Status != entity.ShiftStatusPendingClose {
			return domain.ErrInvalidState
		}
		now := time.Now().UTC()
		counted := countedCash
		shift.CountedCash = &counted
		shift.ClosingNotes = strings.TrimSpace(notes)
		shift.RejectionReason = ""
		shift.Status = entity.ShiftStatusClosed
		shift.ClosedAt = &now
		shift.UpdatedAt = now
		if err := repo.Update(shift); err != nil {
			return err
		}
		result = shift
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Approve acepta el cierre pendiente de un turno y lo deja CERRADO.
// Re-aprobar un turno ya cerrado falla con ErrInvalidState, no se acepta en
// silencio.
func (uc *UseCase) Approve(ctx context.Context, actor Actor, shiftID string) (*entity.Shift, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	var result *entity.Shift
	err := uc.txRunner.Run(ctx, func(repo repository.ShiftRepository) error {
		shift, err := repo.GetForUpdate(shiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return domain.ErrNotFound
		}
		if shift.Status != entity.ShiftStatusPendingClose {
			return domain.ErrInvalidState
		}
		now := time.Now().UTC()
		shift.Status = entity.ShiftStatusClosed
		shift.ClosedAt = &now
		shift.UpdatedAt = now
		if err := repo.Update(shift); err != nil {
			return err
		}
		result = shift
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reject devuelve un turno en PENDING_CLOSE a OPEN: limpia el efectivo
// contado y las notas de cierre, registra el motivo y deja al cajero
// habilitado para seguir registrando egresos y volver a solicitar el cierre.
// Los egresos ya registrados se conservan.
func (uc *UseCase) Reject(ctx context.Context, actor Actor, shiftID, reason string) (*entity.Shift, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}

	var result *entity.Shift
	err := uc.txRunner.Run(ctx, func(repo repository.ShiftRepository) error {
		shift, err := repo.GetForUpdate(shiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return domain.ErrNotFound
		}
		if shift.Status != entity.ShiftStatusPendingClose {
			return domain.ErrInvalidState
		}
		shift.CountedCash = nil
		shift.ClosingNotes = ""
		shift.RejectionReason = reason
		shift.Status = entity.ShiftStatusOpen
		shift.UpdatedAt = time.Now().UTC()
		if err := repo.Update(shift); err != nil {
			return err
		}
		result = shift
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetCurrentShift devuelve el turno activo del operador, o nil si no tiene.
// "Sin turno activo" es un resultado vacío válido, no un error.
func (uc *UseCase) GetCurrentShift(ctx context.Context, actor Actor) (*entity.Shift, error) {
	return uc.shiftRepo.FindOpenOrPendingByOperator(actor.UserID)
}

// GetByID devuelve un turno por ID si el actor puede verlo.
func (uc *UseCase) GetByID(ctx context.Context, actor Actor, shiftID string) (*entity.Shift, error) {
	shift, err := uc.shiftRepo.GetByID(shiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, domain.ErrNotFound
	}
	if !uc.canActOn(actor, shift) {
		return nil, domain.ErrForbidden
	}
	return shift, nil
}

// canActOn: el operador solo actúa sobre sus propios turnos; el administrador
// sobre cualquiera.
func (uc *UseCase) canActOn(actor Actor, shift *entity.Shift) bool {
	return actor.Role == entity.RoleAdmin || shift.UserID == actor.UserID
}
