package repository

import (
	"context"
	"time"

	"github.com/veloz-pos/caja-api/internal/domain/entity"
)

// SaleRepository es el puerto de solo lectura hacia el subsistema de ventas.
// Este core nunca escribe ventas; solo las consulta para agrupar totales.
type SaleRepository interface {
	// ListByOperatorAndWindow devuelve las ventas completadas del operador
	// dentro de la ventana del turno. Si until es nil la ventana sigue abierta.
	ListByOperatorAndWindow(ctx context.Context, userID string, from time.Time, until *time.Time) ([]entity.SaleSummary, error)
}
