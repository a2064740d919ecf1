package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"usuariosapi/internal/core/domain"
)

// PostgreSQL error code for unique constraint violations.
const uniqueViolationCode = "23505"

// MapError translates driver errors into domain errors at the store
// boundary, so a unique-index violation on usuarios.document surfaces as
// the document conflict error even when two creates race past the
// existence check.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %v", domain.ErrUsuarioNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return fmt.Errorf("%w: %v", domain.ErrDocumentExists, err)
	}

	return err
}
