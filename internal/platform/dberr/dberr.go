// Copyright (c) 2026 Mangata. All rights reserved.

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"database/sql"
	"errors"

	sqlite "modernc.org/sqlite"

	"github.com/mangata-app/mangata/internal/platform/apperr"
)

// sqliteConstraintCode is the SQLITE_CONSTRAINT primary result code.
// Extended codes (unique, foreign key, ...) share its low byte.
const sqliteConstraintCode = 19

// ErrNotFound is a standard error returned when a queried row doesn't exist.
var ErrNotFound = apperr.NotFound("Resource")

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violations (duplicate folder_path, page_order collisions)
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqliteConstraintCode {
		return apperr.Conflict("Catalog constraint violated during " + action)
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}
