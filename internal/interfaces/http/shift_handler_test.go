package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appshift "github.com/veloz-pos/caja-api/internal/application/shift"
	"github.com/veloz-pos/caja-api/internal/domain"
	"github.com/veloz-pos/caja-api/internal/domain/entity"
	"github.com/veloz-pos/caja-api/internal/domain/repository"
	apphttp "github.com/veloz-pos/caja-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Stubs mínimos de persistencia para ejercitar handlers end-to-end vía app.Test
// (el mapeo de errores de dominio a códigos HTTP es lo que se prueba aquí).
// ──────────────────────────────────────────────────────────────────────────────

type stubShiftRepo struct {
	mu     sync.Mutex
	shifts map[string]*entity.Shift
}

var _ repository.ShiftRepository = (*stubShiftRepo)(nil)

func newStubShiftRepo() *stubShiftRepo {
	return &stubShiftRepo{shifts: map[string]*entity.Shift{}}
}

func (r *stubShiftRepo) Create(s *entity.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.shifts {
		if existing.UserID == s.UserID && existing.IsActive() {
			return domain.ErrConflict
		}
	}
	cp := *s
	r.shifts[s.ID] = &cp
	return nil
}

func (r *stubShiftRepo) GetByID(id string) (*entity.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shifts[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *stubShiftRepo) GetForUpdate(id string) (*entity.Shift, error) { return r.GetByID(id) }

func (r *stubShiftRepo) Update(s *entity.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shifts[s.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *s
	r.shifts[s.ID] = &cp
	return nil
}

func (r *stubShiftRepo) AddExpense(e *entity.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shifts[e.ShiftID]
	if !ok {
		return domain.ErrNotFound
	}
	s.Expenses = append(s.Expenses, *e)
	return nil
}

func (r *stubShiftRepo) FindOpenOrPendingByOperator(userID string) (*entity.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.shifts {
		if s.UserID == userID && s.IsActive() {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubShiftRepo) ListByStatus(status string, limit, offset int) ([]*entity.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Shift
	for _, s := range r.shifts {
		if status == "" || s.Status == status {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *stubShiftRepo) NextShiftNumber() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.shifts) + 1, nil
}

type stubTxRunner struct {
	repo repository.ShiftRepository
}

func (r *stubTxRunner) Run(_ context.Context, fn func(repo repository.ShiftRepository) error) error {
	return fn(r.repo)
}

type stubUserRepo struct {
	users map[string]*entity.User
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func (r *stubUserRepo) Create(u *entity.User) error              { r.users[u.ID] = u; return nil }
func (r *stubUserRepo) GetByID(id string) (*entity.User, error)  { return r.users[id], nil }
func (r *stubUserRepo) FindByID(id string) (*entity.User, error) { return r.users[id], nil }
func (r *stubUserRepo) Update(u *entity.User) error              { r.users[u.ID] = u; return nil }
func (r *stubUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (r *stubUserRepo) FindByEmail(email string) (*entity.User, error) { return r.GetByEmail(email) }

type stubSaleRepo struct{}

func (stubSaleRepo) ListByOperatorAndWindow(context.Context, string, time.Time, *time.Time) ([]entity.SaleSummary, error) {
	return nil, nil
}

// buildShiftApp monta las rutas del cajero con los stubs de arriba y devuelve
// la app junto con el token del cajero de prueba.
func buildShiftApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	shiftRepo := newStubShiftRepo()
	userRepo := &stubUserRepo{users: map[string]*entity.User{
		testUserID: {ID: testUserID, Name: "María Pérez", Username: testUsername, Email: "maria@pos.local", Role: entity.RoleCajero},
	}}
	uc := appshift.NewUseCase(&stubTxRunner{repo: shiftRepo}, shiftRepo, userRepo)
	totals := appshift.NewTotalsUseCase(shiftRepo, stubSaleRepo{})
	handler := apphttp.NewShiftHandler(uc, totals)

	app := fiber.New()
	shifts := app.Group("/api/shifts", apphttp.AuthMiddleware(testJWTSecret), apphttp.RequireRole("cajero", "admin"))
	shifts.Post("/", handler.Open)
	shifts.Get("/current", handler.GetCurrent)
	shifts.Post("/:id/expenses", handler.AddExpense)
	shifts.Post("/:id/request-close", handler.RequestClose)

	return app, tokenForRole(t, "cajero")
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de mapeo dominio → HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestShiftHandler_AbrirYDuplicado(t *testing.T) {
	app, token := buildShiftApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/shifts/", token, fiber.Map{"opening_balance": "100.00"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "OPEN", body["status"])

	// Segundo intento con turno activo → 409 con código propio
	resp = doJSON(t, app, http.MethodPost, "/api/shifts/", token, fiber.Map{"opening_balance": "50.00"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "SHIFT_ALREADY_OPEN", body["code"])
}

func TestShiftHandler_SaldoInvalidoRetorna400(t *testing.T) {
	app, token := buildShiftApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/shifts/", token, fiber.Map{"opening_balance": "-5.00"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestShiftHandler_CurrentSinTurnoEsNull(t *testing.T) {
	app, token := buildShiftApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/shifts/current", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	v, ok := body["shift"]
	assert.True(t, ok)
	assert.Nil(t, v, "sin turno activo la respuesta es shift:null, no 404")
}

func TestShiftHandler_EgresoSobreTurnoInexistente(t *testing.T) {
	app, token := buildShiftApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/shifts/no-existe/expenses", token,
		fiber.Map{"amount": "5.00", "concept": "taxi"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestShiftHandler_FlujoSolicitudDeCierre(t *testing.T) {
	app, token := buildShiftApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/shifts/", token, fiber.Map{"opening_balance": "100.00"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	shiftID, _ := decodeBody(t, resp)["id"].(string)
	require.NotEmpty(t, shiftID)

	resp = doJSON(t, app, http.MethodPost, "/api/shifts/"+shiftID+"/request-close", token,
		fiber.Map{"counted_cash": "100.00", "notes": "sin novedad"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "PENDING_CLOSE", body["status"])

	// Con el turno pendiente el egreso llega tarde → 409 INVALID_STATE
	resp = doJSON(t, app, http.MethodPost, "/api/shifts/"+shiftID+"/expenses", token,
		fiber.Map{"amount": "5.00", "concept": "taxi"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "INVALID_STATE", body["code"])
}
