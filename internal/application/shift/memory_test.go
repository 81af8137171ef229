package shift_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/veloz-pos/caja-api/internal/domain"
	"github.com/veloz-pos/caja-api/internal/domain/entity"
	"github.com/veloz-pos/caja-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: reproducen el comportamiento del gateway PostgreSQL
// (copias en lectura, conflicto atómico en Create, serialización por tx)
// para ejercitar la máquina de estados sin base de datos.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu     sync.Mutex
	shifts map[string]*entity.Shift
}

func newMemStore() *memStore {
	return &memStore{shifts: map[string]*entity.Shift{}}
}

type memShiftRepo struct {
	store *memStore
}

var _ repository.ShiftRepository = (*memShiftRepo)(nil)

func cloneShift(s *entity.Shift) *entity.Shift {
	if s == nil {
		return nil
	}
	c := *s
	if s.ClosedAt != nil {
		t := *s.ClosedAt
		c.ClosedAt = &t
	}
	if s.CountedCash != nil {
		d := *s.CountedCash
		c.CountedCash = &d
	}
	c.Expenses = append([]entity.Expense(nil), s.Expenses...)
	return &c
}

// Create emula el índice único parcial: el chequeo de turno activo y el
// insert son una sola unidad atómica bajo el mutex del store.
func (r *memShiftRepo) Create(shift *entity.Shift) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, s := range r.store.shifts {
		if s.UserID == shift.UserID && s.IsActive() {
			return domain.ErrConflict
		}
	}
	r.store.shifts[shift.ID] = cloneShift(shift)
	return nil
}

func (r *memShiftRepo) GetByID(id string) (*entity.Shift, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return cloneShift(r.store.shifts[id]), nil
}

func (r *memShiftRepo) GetForUpdate(id string) (*entity.Shift, error) {
	return r.GetByID(id)
}

func (r *memShiftRepo) Update(shift *entity.Shift) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.shifts[shift.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := cloneShift(shift)
	updated.Expenses = stored.Expenses // los egresos solo cambian vía AddExpense
	r.store.shifts[shift.ID] = updated
	return nil
}

func (r *memShiftRepo) AddExpense(expense *entity.Expense) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.shifts[expense.ShiftID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Expenses = append(stored.Expenses, *expense)
	return nil
}

func (r *memShiftRepo) FindOpenOrPendingByOperator(userID string) (*entity.Shift, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, s := range r.store.shifts {
		if s.UserID == userID && s.IsActive() {
			return cloneShift(s), nil
		}
	}
	return nil, nil
}

func (r *memShiftRepo) ListByStatus(status string, limit, offset int) ([]*entity.Shift, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Shift
	for _, s := range r.store.shifts {
		if status == "" || s.Status == status {
			out = append(out, cloneShift(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.After(out[j].OpenedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memShiftRepo) NextShiftNumber() (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	max := 0
	for _, s := range r.store.shifts {
		if s.ShiftNumber > max {
			max = s.ShiftNumber
		}
	}
	return max + 1, nil
}

// memTxRunner serializa las transacciones con un mutex propio, igual que la
// BD serializa los read-modify-write sobre la misma fila.
type memTxRunner struct {
	mu   sync.Mutex
	repo repository.ShiftRepository
}

func (r *memTxRunner) Run(_ context.Context, fn func(repo repository.ShiftRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.repo)
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

var _ repository.UserRepository = (*memUserRepo)(nil)

func newMemUserRepo(users ...*entity.User) *memUserRepo {
	r := &memUserRepo{users: map[string]*entity.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *memUserRepo) FindByID(id string) (*entity.User, error) { return r.GetByID(id) }

func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByEmail(email string) (*entity.User, error) { return r.GetByEmail(email) }

func (r *memUserRepo) Update(user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = user
	return nil
}

// memSaleRepo proyección de ventas controlada por el test.
type memSaleRepo struct {
	mu    sync.Mutex
	sales []entity.SaleSummary
}

var _ repository.SaleRepository = (*memSaleRepo)(nil)

func (r *memSaleRepo) add(sale entity.SaleSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales = append(r.sales, sale)
}

func (r *memSaleRepo) ListByOperatorAndWindow(_ context.Context, userID string, from time.Time, until *time.Time) ([]entity.SaleSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.SaleSummary
	for _, s := range r.sales {
		if s.UserID != userID || s.Date.Before(from) {
			continue
		}
		if until != nil && s.Date.After(*until) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}
