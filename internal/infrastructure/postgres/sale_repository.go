package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veloz-pos/caja-api/internal/domain/entity"
	"github.com/veloz-pos/caja-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo proyección de solo lectura sobre la tabla sales del subsistema de
// ventas. Este servicio nunca escribe en ella.
type SaleRepo struct {
	pool *pgxpool.Pool
}

// NewSaleRepository construye el adaptador de ventas.
func NewSaleRepository(pool *pgxpool.Pool) *SaleRepo {
	return &SaleRepo{pool: pool}
}

// ListByOperatorAndWindow devuelve las ventas completadas del operador dentro
// de la ventana del turno. Si until es nil, la ventana sigue abierta (totales
// en vivo hasta now()).
func (r *SaleRepo) ListByOperatorAndWindow(ctx context.Context, userID string, from time.Time, until *time.Time) ([]entity.SaleSummary, error) {
	query := `
		SELECT id, user_id, date, payment_method, item_count, total
		FROM sales
		WHERE user_id = $1
		  AND date >= $2
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date`
	rows, err := r.pool.Query(ctx, query, userID, from, until)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []entity.SaleSummary
	for rows.Next() {
		var s entity.SaleSummary
		if err := rows.Scan(&s.ID, &s.UserID, &s.Date, &s.PaymentMethod, &s.ItemCount, &s.Total); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}
