package database

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrNotFound              = errors.New("record not found")
	ErrDuplicate             = errors.New("record already exists")
	ErrConnectionUnavailable = errors.New("database connection unavailable")
	ErrValidation            = errors.New("validation failed")
	ErrStorage               = errors.New("storage failure")
)

const pqUniqueViolation = "23505"

// classifyError folds driver errors into the package taxonomy so that a
// lost check-then-insert race reports the same outcome as the probe.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return ErrDuplicate
	}

	return ErrStorage
}
