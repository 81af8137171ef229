package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/veloz-pos/caja-api/internal/domain"
	"github.com/veloz-pos/caja-api/internal/domain/entity"
	"github.com/veloz-pos/caja-api/internal/domain/repository"
)

var _ repository.ShiftRepository = (*ShiftRepo)(nil)

// ShiftRepo implementación de ShiftRepository sobre PostgreSQL (usable con pool o tx).
//
// El invariante "un turno activo por operador" lo garantiza el índice único
// parcial de la tabla shifts:
//
//	CREATE UNIQUE INDEX shifts_one_active_per_user
//	    ON shifts (user_id) WHERE status IN ('OPEN', 'PENDING_CLOSE');
//
// por lo que dos Open concurrentes para el mismo operador nunca insertan ambos.
type ShiftRepo struct {
	q Querier
}

// NewShiftRepository construye el adaptador de turnos. Pasar pool o tx (Querier).
func NewShiftRepository(q Querier) *ShiftRepo {
	return &ShiftRepo{q: q}
}

const shiftColumns = `
	id, shift_number, user_id, user_name, username, status,
	opening_balance, opened_at, closed_at,
	counted_cash, closing_notes, rejection_reason,
	created_at, updated_at`

// Create persiste un turno nuevo. Mapea la violación del índice único parcial
// a domain.ErrConflict.
func (r *ShiftRepo) Create(shift *entity.Shift) error {
	query := `
		INSERT INTO shifts (id, shift_number, user_id, user_name, username, status,
			opening_balance, opened_at, closed_at, counted_cash, closing_notes, rejection_reason,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		shift.ID, shift.ShiftNumber, shift.UserID, shift.UserName, shift.Username, shift.Status,
		shift.OpeningBalance, shift.OpenedAt, shift.ClosedAt,
		shift.CountedCash, shift.ClosingNotes, shift.RejectionReason,
		shift.CreatedAt, shift.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert shift: %w", err)
	}
	return nil
}

// GetByID obtiene un turno con sus egresos, o nil si no existe.
func (r *ShiftRepo) GetByID(id string) (*entity.Shift, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene el turno y bloquea su fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *ShiftRepo) GetForUpdate(id string) (*entity.Shift, error) {
	return r.get(id, true)
}

func (r *ShiftRepo) get(id string, forUpdate bool) (*entity.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	shift, err := scanShift(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shift: %w", err)
	}
	if err := r.loadExpenses(shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// Update escribe los campos mutables del turno (estado, arqueo, notas, motivo
// de rechazo, closed_at). La identidad, el operador y la apertura no cambian.
func (r *ShiftRepo) Update(shift *entity.Shift) error {
	query := `
		UPDATE shifts
		SET status = $2, counted_cash = $3, closing_notes = $4,
		    rejection_reason = $5, closed_at = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		shift.ID, shift.Status, shift.CountedCash, shift.ClosingNotes,
		shift.RejectionReason, shift.ClosedAt, shift.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddExpense agrega un egreso al turno (append-only).
func (r *ShiftRepo) AddExpense(expense *entity.Expense) error {
	query := `
		INSERT INTO shift_expenses (id, shift_id, amount, concept, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		expense.ID, expense.ShiftID, expense.Amount, expense.Concept, expense.CreatedBy, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// FindOpenOrPendingByOperator devuelve el turno activo del operador o nil.
// El índice único parcial garantiza a lo sumo una fila.
func (r *ShiftRepo) FindOpenOrPendingByOperator(userID string) (*entity.Shift, error) {
	query := `SELECT ` + shiftColumns + `
		FROM shifts
		WHERE user_id = $1 AND status IN ($2, $3)`
	shift, err := scanShift(r.q.QueryRow(context.Background(), query,
		userID, entity.ShiftStatusOpen, entity.ShiftStatusPendingClose))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active shift: %w", err)
	}
	if err := r.loadExpenses(shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// ListByStatus lista turnos por estado ("" = todos), apertura más reciente primero.
func (r *ShiftRepo) ListByStatus(status string, limit, offset int) ([]*entity.Shift, error) {
	query := `SELECT ` + shiftColumns + `
		FROM shifts
		WHERE ($1 = '' OR status = $1)
		ORDER BY opened_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []*entity.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		shifts = append(shifts, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	if err := r.loadExpensesBatch(shifts); err != nil {
		return nil, err
	}
	return shifts, nil
}

// NextShiftNumber asigna el siguiente consecutivo global. Se llama dentro de
// la transacción de apertura; el índice único parcial serializa las aperturas
// concurrentes del mismo operador, y shift_number lleva constraint UNIQUE como
// segunda barrera.
func (r *ShiftRepo) NextShiftNumber() (int, error) {
	var number int
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(MAX(shift_number), 0) + 1 FROM shifts`).Scan(&number)
	if err != nil {
		return 0, fmt.Errorf("next shift number: %w", err)
	}
	return number, nil
}

func (r *ShiftRepo) loadExpenses(shift *entity.Shift) error {
	return r.loadExpensesBatch([]*entity.Shift{shift})
}

// loadExpensesBatch carga los egresos de varios turnos en una sola consulta,
// preservando el orden de inserción (created_at, id).
func (r *ShiftRepo) loadExpensesBatch(shifts []*entity.Shift) error {
	if len(shifts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(shifts))
	byID := make(map[string]*entity.Shift, len(shifts))
	for _, s := range shifts {
		s.Expenses = []entity.Expense{}
		ids = append(ids, s.ID)
		byID[s.ID] = s
	}
	query := `
		SELECT id, shift_id, amount, concept, created_by, created_at
		FROM shift_expenses
		WHERE shift_id = ANY($1)
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e entity.Expense
		if err := rows.Scan(&e.ID, &e.ShiftID, &e.Amount, &e.Concept, &e.CreatedBy, &e.CreatedAt); err != nil {
			return fmt.Errorf("scan expense: %w", err)
		}
		if s, ok := byID[e.ShiftID]; ok {
			s.Expenses = append(s.Expenses, e)
		}
	}
	return rows.Err()
}

func scanShift(row pgx.Row) (*entity.Shift, error) {
	var s entity.Shift
	err := row.Scan(
		&s.ID, &s.ShiftNumber, &s.UserID, &s.UserName, &s.Username, &s.Status,
		&s.OpeningBalance, &s.OpenedAt, &s.ClosedAt,
		&s.CountedCash, &s.ClosingNotes, &s.RejectionReason,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
