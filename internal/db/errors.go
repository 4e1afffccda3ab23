package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/pulsefeed/pulse/internal/engine"
)

// uniqueViolation is the SQLSTATE Postgres raises when an insert breaks a
// unique constraint.
const uniqueViolation = "23505"

// IsDuplicateKey reports whether err is a unique-constraint violation.
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// translateCreate maps unique-constraint violations onto the sentinel the
// engine resolves races with; other errors pass through untouched.
func translateCreate(err error) error {
	if err == nil {
		return nil
	}
	if IsDuplicateKey(err) {
		return fmt.Errorf("%v: %w", err, engine.ErrDuplicateKey)
	}
	return err
}
