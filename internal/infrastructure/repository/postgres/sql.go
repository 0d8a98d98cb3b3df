package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
)

const (
	pqForeignKeyViolation = "23503"
	pqSerializationFail   = "40001"
	pqDeadlockDetected    = "40P01"
	pqAdminShutdown       = "57P01"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// isTransient reports failures that may succeed on a fresh attempt.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	code := pqCode(err)
	switch {
	case code == "":
		return false
	case code == pqSerializationFail, code == pqDeadlockDetected, code == pqAdminShutdown:
		return true
	case len(code) == 5 && code[:2] == "08":
		return true
	}
	return false
}

// persistence marks transient database failures as draft persistence errors.
// Constraint violations and other permanent failures pass through unchanged.
func persistence(err error) error {
	if err == nil || isNotFound(err) {
		return err
	}
	var de *draft.Error
	if errors.As(err, &de) {
		return err
	}
	if isTransient(err) {
		return draft.PersistenceError(err)
	}
	return err
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
