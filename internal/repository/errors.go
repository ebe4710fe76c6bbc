package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"cscportal/api/internal/models"
)

const uniqueViolation = "23505"

// translate maps driver errors onto the domain taxonomy.
func translate(entity string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NotFoundError(entity)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case "administrators_email_key":
			return models.DuplicateError("admin with this email")
		case "services_title_key":
			return models.DuplicateError("service with this title")
		case "services_slug_key":
			return models.DuplicateError("service with this slug")
		}
		return models.DuplicateError(entity)
	}
	return models.Dependency(entity, err)
}

// scanner is satisfied by pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}
