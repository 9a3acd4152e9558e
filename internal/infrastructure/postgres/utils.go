package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation detecta el código 23505 (unique_violation) de PostgreSQL.
// Los repositorios lo traducen al centinela de dominio que corresponda
// (ErrDuplicate, ErrEmailAlreadyExists).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// Algunos drivers intermedios envuelven el error sin preservar el tipo.
	return strings.Contains(err.Error(), "23505")
}
