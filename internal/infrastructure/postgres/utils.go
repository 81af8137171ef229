package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Código SQLSTATE de unique_violation.
const pgUniqueViolation = "23505"

// isUniqueViolation reconoce la violación de constraint único de PostgreSQL.
// El índice parcial de turno activo y el consecutivo de turno dependen de esta
// traducción para convertir la carrera de inserción en un conflicto de dominio.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
