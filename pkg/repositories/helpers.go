package repositories

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation reports whether err is a uniqueness-constraint violation.
// The structured check inspects pgconn.PgError code 23505; the message-text
// match is kept only as a fallback for errors that arrive wrapped beyond
// errors.As reach (pooled proxies, retried drivers).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "23505")
}

// isUndefinedColumn reports whether err is PostgreSQL's undefined_column
// (42703). Raised when the competitor_ids migration has not been applied.
func isUndefinedColumn(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42703"
}
