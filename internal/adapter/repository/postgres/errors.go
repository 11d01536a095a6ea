package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes mapped to domain errors.
const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

func pgError(err error, code string) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr, true
	}
	return nil, false
}

func isUniqueViolation(err error) bool {
	_, ok := pgError(err, pgErrUniqueViolation)
	return ok
}

// foreignKeyViolation returns the violated constraint name.
func foreignKeyViolation(err error) (string, bool) {
	pgErr, ok := pgError(err, pgErrForeignKeyViolation)
	if !ok {
		return "", false
	}
	return pgErr.ConstraintName, true
}
