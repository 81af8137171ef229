package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/veloz-pos/caja-api/internal/application/auth"
	appshift "github.com/veloz-pos/caja-api/internal/application/shift"
	"github.com/veloz-pos/caja-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ShiftUC    *appshift.UseCase
	TotalsUC   *appshift.TotalsUseCase
	ApprovalUC *appshift.ApprovalUseCase
	ReportUC   *appshift.ReportUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	shiftHandler := NewShiftHandler(deps.ShiftUC, deps.TotalsUC)
	approvalHandler := NewApprovalHandler(deps.ShiftUC, deps.ApprovalUC, deps.TotalsUC, deps.ReportUC)

	shifts := protected.Group("/shifts")

	// Rutas estáticas antes que /:id (Fiber resuelve en orden de registro)
	shifts.Get("/current", shiftHandler.GetCurrent)
	shifts.Get("/pending", RequireRole(entity.RoleAdmin), approvalHandler.ListPending)

	// Operador (el caso de uso verifica propiedad del turno)
	shifts.Post("/", RequireRole(entity.RoleCajero, entity.RoleAdmin), shiftHandler.Open)
	shifts.Post("/:id/expenses", RequireRole(entity.RoleCajero, entity.RoleAdmin), shiftHandler.AddExpense)
	shifts.Post("/:id/request-close", RequireRole(entity.RoleCajero, entity.RoleAdmin), shiftHandler.RequestClose)
	shifts.Get("/:id/sales", shiftHandler.GetSales)

	// Administrador
	shifts.Get("/", RequireRole(entity.RoleAdmin), approvalHandler.ListAll)
	shifts.Post("/:id/close", RequireRole(entity.RoleAdmin), approvalHandler.Close)
	shifts.Post("/:id/approve", RequireRole(entity.RoleAdmin), approvalHandler.Approve)
	shifts.Post("/:id/reject", RequireRole(entity.RoleAdmin), approvalHandler.Reject)
	shifts.Get("/:id/report.pdf", RequireRole(entity.RoleAdmin), approvalHandler.CloseReport)
}
