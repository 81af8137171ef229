package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/veloz-pos/caja-api/internal/application/dto"
	appshift "github.com/veloz-pos/caja-api/internal/application/shift"
)

// ShiftHandler maneja las operaciones del cajero sobre su turno (protegido).
type ShiftHandler struct {
	uc     *appshift.UseCase
	totals *appshift.TotalsUseCase
}

// NewShiftHandler construye el handler de turnos.
func NewShiftHandler(uc *appshift.UseCase, totals *appshift.TotalsUseCase) *ShiftHandler {
	return &ShiftHandler{uc: uc, totals: totals}
}

// Open godoc
// @Summary      Abrir turno de caja
// @Tags         shifts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenShiftRequest  true  "opening_balance"
// @Success      201   {object}  dto.ShiftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shifts [post]
func (h *ShiftHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenShiftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	shift, err := h.uc.Open(c.Context(), actorFrom(c), in.OpeningBalance)
	if err != nil {
		return shiftError(c, err)
	}
	resp := appshift.ToShiftResponse(shift, nil)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetCurrent godoc
// @Summary      Turno activo del operador
// @Description  Devuelve el turno en OPEN o PENDING_CLOSE del operador con
//               totales en vivo. Sin turno activo devuelve shift:null (no es error).
// @Tags         shifts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/shifts/current [get]
func (h *ShiftHandler) GetCurrent(c *fiber.Ctx) error {
	shift, err := h.uc.GetCurrentShift(c.Context(), actorFrom(c))
	if err != nil {
		return shiftError(c, err)
	}
	if shift == nil {
		return c.JSON(fiber.Map{"shift": nil})
	}
	totals, err := h.totals.ComputeTotals(c.Context(), shift.ID)
	if err != nil {
		return shiftError(c, err)
	}
	resp := appshift.ToShiftResponse(shift, &totals)
	return c.JSON(fiber.Map{"shift": resp})
}

// AddExpense godoc
// @Summary      Registrar egreso de efectivo
// @Tags         shifts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del turno"
// @Param        body  body  dto.AddExpenseRequest  true  "amount, concept"
// @Success      200   {object}  dto.ShiftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/expenses [post]
func (h *ShiftHandler) AddExpense(c *fiber.Ctx) error {
	var in dto.AddExpenseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	shift, err := h.uc.AddExpense(c.Context(), actorFrom(c), c.Params("id"), in.Amount, in.Concept)
	if err != nil {
		return shiftError(c, err)
	}
	totals, err := h.totals.ComputeTotals(c.Context(), shift.ID)
	if err != nil {
		return shiftError(c, err)
	}
	resp := appshift.ToShiftResponse(shift, &totals)
	return c.JSON(resp)
}

// RequestClose godoc
// @Summary      Solicitar cierre de turno (arqueo del cajero)
// @Description  Deja el turno en PENDING_CLOSE a la espera de aprobación de un
//               administrador. La notificación a administradores es
//               responsabilidad del caller.
// @Tags         shifts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del turno"
// @Param        body  body  dto.CloseShiftRequest  true  "counted_cash, notes"
// @Success      200   {object}  dto.ShiftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/request-close [post]
func (h *ShiftHandler) RequestClose(c *fiber.Ctx) error {
	var in dto.CloseShiftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	shift, err := h.uc.RequestClose(c.Context(), actorFrom(c), c.Params("id"), in.CountedCash, in.Notes)
	if err != nil {
		return shiftError(c, err)
	}
	totals, err := h.totals.ComputeTotals(c.Context(), shift.ID)
	if err != nil {
		return shiftError(c, err)
	}
	resp := appshift.ToShiftResponse(shift, &totals)
	return c.JSON(resp)
}

// GetSales godoc
// @Summary      Ventas del turno con totales por método de pago
// @Tags         shifts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del turno"
// @Success      200  {object}  dto.ShiftSalesResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/sales [get]
func (h *ShiftHandler) GetSales(c *fiber.Ctx) error {
	actor := actorFrom(c)
	shiftID := c.Params("id")
	sales, totals, err := h.totals.ShiftSales(c.Context(), actor, shiftID)
	if err != nil {
		return shiftError(c, err)
	}
	shift, err := h.uc.GetByID(c.Context(), actor, shiftID)
	if err != nil {
		return shiftError(c, err)
	}
	return c.JSON(appshift.ToShiftSalesResponse(shift, sales, totals))
}
