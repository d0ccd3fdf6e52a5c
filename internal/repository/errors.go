// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"time"

	"roomie/internal/models"

	"gorm.io/gorm"
)

// storeTimeout bounds every store call so an unresponsive database surfaces
// as StoreUnavailable instead of hanging the request.
const storeTimeout = 5 * time.Second

// withTimeout applies the store timeout when the caller did not set one.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, storeTimeout)
}

// mapStoreError translates a gorm/driver error into the AppError taxonomy.
// Record-not-found maps to NotFoundError; connectivity failures map to
// StoreUnavailable so callers can distinguish "absent" from "unreachable".
func mapStoreError(err error, resource string, id interface{}) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	if isUnavailableError(err) {
		return models.NewStoreUnavailableError(err)
	}
	return models.NewInternalError(err)
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; SQLite reports
	// "UNIQUE constraint failed" in tests.
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// uniqueViolationField guesses which unique column a constraint violation
// names, so registration conflicts can report the offending field.
func uniqueViolationField(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "username"):
		return "username"
	case strings.Contains(msg, "email"):
		return "email"
	}
	return ""
}

// isUnavailableError checks if a DB error indicates the store is unreachable.
func isUnavailableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection timeout") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "database is closed")
}
