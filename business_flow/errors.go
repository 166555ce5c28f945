// Package businessflow contains the core business logic and use cases of the helper registry
package businessflow

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Error codes returned inside BusinessError
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeHelperNotFound   = "HELPER_NOT_FOUND"
	CodeStorageUnavail   = "STORAGE_UNAVAILABLE"
	CodePersistence      = "PERSISTENCE_ERROR"
	CodePartialWrite     = "PARTIAL_WRITE_INCONSISTENCY"
	CodeExcelWriteFailed = "EXCEL_WRITE_ERROR"
)

// Business flow error constants
var (
	ErrValidation         = errors.New("validation failed")
	ErrHelperNotFound     = errors.New("helper not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrPersistence        = errors.New("persistence failed")
	// ErrPartialWrite means the helper write succeeded and the summary write did not
	ErrPartialWrite = errors.New("helper and summary are out of sync")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

// NewValidationError reports invalid input; details are returned to the caller
func NewValidationError(message string, details any) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: message,
		Err:     &validationDetails{details: details},
	}
}

type validationDetails struct {
	details any
}

func (v *validationDetails) Error() string { return ErrValidation.Error() }
func (v *validationDetails) Unwrap() error { return ErrValidation }

// ValidationDetails returns the details attached by NewValidationError
func ValidationDetails(err error) any {
	var vd *validationDetails
	if errors.As(err, &vd) {
		return vd.details
	}
	return nil
}

// storeError wraps a repository error as StorageUnavailable or PersistenceError
func storeError(message string, err error) *BusinessError {
	if isUnavailable(err) {
		return NewBusinessError(CodeStorageUnavail, message, errors.Join(ErrStorageUnavailable, err))
	}
	return NewBusinessError(CodePersistence, message, errors.Join(ErrPersistence, err))
}

func isUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 08: connection exception, 57P0x: server shutting down
		return strings.HasPrefix(pgErr.Code, "08") || strings.HasPrefix(pgErr.Code, "57P")
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsHelperNotFound(err error) bool {
	return errors.Is(err, ErrHelperNotFound)
}

func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}

func IsPartialWrite(err error) bool {
	return errors.Is(err, ErrPartialWrite)
}
