package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/veloz-pos/caja-api/internal/application/dto"
	appshift "github.com/veloz-pos/caja-api/internal/application/shift"
)

// ApprovalHandler maneja el flujo de cierre del administrador: cierre directo,
// aprobación/rechazo de cierres pendientes, listados y reporte PDF.
type ApprovalHandler struct {
	uc       *appshift.UseCase
	approval *appshift.ApprovalUseCase
	totals   *appshift.TotalsUseCase
	report   *appshift.ReportUseCase
}

// NewApprovalHandler construye el handler de administración de turnos.
func NewApprovalHandler(uc *appshift.UseCase, approval *appshift.ApprovalUseCase, totals *appshift.TotalsUseCase, report *appshift.ReportUseCase) *ApprovalHandler {
	return &ApprovalHandler{uc: uc, approval: approval, totals: totals, report: report}
}

// Close godoc
// @Summary      Cierre directo de turno (administrador)
// @Description  Equivale a una solicitud de cierre con aprobación inmediata.
//               Acepta turnos en OPEN o PENDING_CLOSE.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del turno"
// @Param        body  body  dto.CloseShiftRequest  true  "counted_cash, notes"
// @Success      200   {object}  dto.ShiftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/close [post]
func (h *ApprovalHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseShiftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	shift, err := h.uc.Close(c.Context(), actorFrom(c), c.Params("id"), in.CountedCash, in.Notes)
	if err != nil {
		return shiftError(c, err)
	}
	totals, err := h.totals.ComputeTotals(c.Context(), shift.ID)
	if err != nil {
		return shiftError(c, err)
	}
	return c.JSON(appshift.ToShiftResponse(shift, &totals))
}

// Approve godoc
// @Summary      Aprobar cierre pendiente
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del turno"
// @Success      200  {object}  dto.ShiftResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/approve [post]
func (h *ApprovalHandler) Approve(c *fiber.Ctx) error {
	shift, err := h.uc.Approve(c.Context(), actorFrom(c), c.Params("id"))
	if err != nil {
		return shiftError(c, err)
	}
	totals, err := h.totals.ComputeTotals(c.Context(), shift.ID)
	if err != nil {
		return shiftError(c, err)
	}
	return c.JSON(appshift.ToShiftResponse(shift, &totals))
}

// Reject godoc
// @Summary      Rechazar cierre pendiente
// @Description  Devuelve el turno a OPEN, limpia el arqueo y registra el motivo.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del turno"
// @Param        body  body  dto.RejectShiftRequest  true  "reason"
// @Success      200   {object}  dto.ShiftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/reject [post]
func (h *ApprovalHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectShiftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	shift, err := h.uc.Reject(c.Context(), actorFrom(c), c.Params("id"), in.Reason)
	if err != nil {
		return shiftError(c, err)
	}
	return c.JSON(appshift.ToShiftResponse(shift, nil))
}

// ListPending godoc
// @Summary      Turnos pendientes de aprobación
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/shifts/pending [get]
func (h *ApprovalHandler) ListPending(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	shifts, err := h.approval.ListPending(c.Context(), actorFrom(c), page.Limit, page.Offset)
	if err != nil {
		return shiftError(c, err)
	}
	out := make([]dto.ShiftResponse, 0, len(shifts))
	for _, s := range shifts {
		out = append(out, appshift.ToShiftResponse(s, nil))
	}
	return c.JSON(fiber.Map{
		"shifts": out,
		"page":   dto.PageOf(page, len(out)),
	})
}

// ListAll godoc
// @Summary      Listado general de turnos
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "ALL | OPEN | PENDING_CLOSE | CLOSED (vacío = todos)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/shifts [get]
func (h *ApprovalHandler) ListAll(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	shifts, err := h.approval.ListAll(c.Context(), actorFrom(c), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return shiftError(c, err)
	}
	out := make([]dto.ShiftResponse, 0, len(shifts))
	for _, s := range shifts {
		out = append(out, appshift.ToShiftResponse(s, nil))
	}
	return c.JSON(fiber.Map{
		"shifts": out,
		"page":   dto.PageOf(page, len(out)),
	})
}

// CloseReport godoc
// @Summary      Reporte PDF de cierre de turno
// @Tags         admin
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del turno (debe estar CLOSED)"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/report.pdf [get]
func (h *ApprovalHandler) CloseReport(c *fiber.Ctx) error {
	pdfBytes, err := h.report.CloseReportPDF(c.Context(), actorFrom(c), c.Params("id"))
	if err != nil {
		return shiftError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "cierre-turno.pdf"))
	return c.Send(pdfBytes)
}
