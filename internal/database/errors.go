package database

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// UniqueViolation reports whether err is a unique-constraint violation.
// The returned detail names the constraint (postgres) or the offending
// columns (sqlite), e.g. "users_username_key" or "users.username".
func UniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" {
			return pqErr.Constraint, true
		}
		return "", false
	}

	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		if sqErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			msg := sqErr.Error()
			if i := strings.Index(msg, "failed: "); i >= 0 {
				return msg[i+len("failed: "):], true
			}
			return msg, true
		}
	}
	return "", false
}
